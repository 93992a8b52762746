package callbacktypes

import (
	"github.com/Freeeeeet/postqueue_bot/internal/controller/state"
	"github.com/Freeeeeet/postqueue_bot/internal/service"
	"go.uber.org/zap"
)

// StateManager интерфейс для управления диалогами операторов
type StateManager interface {
	GetState(telegramID int64) state.UserState
	Get(telegramID int64) (state.Dialog, bool)
	Set(telegramID int64, d state.Dialog)
	ClearState(telegramID int64)
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	UserService  *service.UserService
	QueueService *service.QueueService
	StateManager StateManager
	Logger       *zap.Logger
}
