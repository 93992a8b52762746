package handlers

import (
	"github.com/Freeeeeet/postqueue_bot/internal/controller/state"
	"github.com/Freeeeeet/postqueue_bot/internal/service"
	"go.uber.org/zap"
)

// historyLimit сколько последних переносов показывать в /history
const historyLimit = 15

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService  *service.UserService
	queueService *service.QueueService
	stateManager *state.Manager
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService *service.UserService,
	queueService *service.QueueService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userService:  userService,
		queueService: queueService,
		stateManager: stateManager,
		logger:       logger,
	}
}
