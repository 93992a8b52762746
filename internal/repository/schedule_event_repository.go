package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"github.com/Freeeeeet/postqueue_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScheduleEventRepository struct {
	*base.Repository
}

func NewScheduleEventRepository(pool *pgxpool.Pool) *ScheduleEventRepository {
	return &ScheduleEventRepository{Repository: base.NewRepository(pool)}
}

// Create записывает событие переноса поста
func (r *ScheduleEventRepository) Create(ctx context.Context, event *model.ScheduleEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	query := `
		INSERT INTO schedule_events (id, post_id, client_id, from_time, to_time, reason, telegram_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.QueryRow(
		ctx, query,
		event.ID,
		event.PostID,
		event.ClientID,
		event.FromTime,
		event.ToTime,
		event.Reason,
		event.TelegramID,
	).Scan(&event.CreatedAt)

	if err != nil {
		return fmt.Errorf("create schedule event: %w", err)
	}

	return nil
}

// ListRecent последние события клиента, новые первыми
func (r *ScheduleEventRepository) ListRecent(ctx context.Context, clientID string, limit int) ([]*model.ScheduleEvent, error) {
	query := `
		SELECT id, post_id, client_id, from_time, to_time, reason, telegram_id, created_at
		FROM schedule_events
		WHERE client_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.Query(ctx, query, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("list schedule events: %w", err)
	}
	defer rows.Close()

	var events []*model.ScheduleEvent
	for rows.Next() {
		var e model.ScheduleEvent
		err := rows.Scan(&e.ID, &e.PostID, &e.ClientID, &e.FromTime, &e.ToTime, &e.Reason, &e.TelegramID, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan schedule event: %w", err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule events: %w", err)
	}

	return events, nil
}
