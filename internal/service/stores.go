package service

import (
	"context"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
)

// UserStore хранилище операторов
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	SetCurrentClient(ctx context.Context, userID int64, clientID *string) error
}

// ClientStore клиенты агентства
type ClientStore interface {
	ListByAgency(ctx context.Context, agencyID string) ([]*model.Client, error)
	GetByID(ctx context.Context, agencyID, clientID string) (*model.Client, error)
}

// EventStore история переносов
type EventStore interface {
	Create(ctx context.Context, event *model.ScheduleEvent) error
	ListRecent(ctx context.Context, clientID string, limit int) ([]*model.ScheduleEvent, error)
}
