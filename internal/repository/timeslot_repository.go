package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"github.com/Freeeeeet/postqueue_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TimeslotRepository struct {
	*base.Repository
}

func NewTimeslotRepository(pool *pgxpool.Pool) *TimeslotRepository {
	return &TimeslotRepository{Repository: base.NewRepository(pool)}
}

// GetTimeslots конфигурация таймслотов клиента. Пустая, если не задана.
func (r *TimeslotRepository) GetTimeslots(ctx context.Context, clientID string) (model.TimeslotConfig, error) {
	query := `SELECT slots FROM client_timeslots WHERE client_id = $1`

	var raw []byte
	err := r.QueryRow(ctx, query, clientID).Scan(&raw)
	if err != nil {
		if base.IsNotFound(err) {
			return model.TimeslotConfig{}, nil
		}
		return nil, fmt.Errorf("get timeslots: %w", err)
	}

	cfg, err := model.UnmarshalTimeslots(raw)
	if err != nil {
		return nil, fmt.Errorf("get timeslots: %w", err)
	}

	return cfg, nil
}

// SaveTimeslots заменяет конфигурацию таймслотов клиента
func (r *TimeslotRepository) SaveTimeslots(ctx context.Context, clientID string, cfg model.TimeslotConfig) error {
	raw, err := model.MarshalTimeslots(cfg)
	if err != nil {
		return fmt.Errorf("encode timeslots: %w", err)
	}

	query := `
		INSERT INTO client_timeslots (client_id, slots, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (client_id) DO UPDATE
		SET slots = EXCLUDED.slots, updated_at = NOW()
	`

	if _, err := r.ExecAffected(ctx, query, clientID, raw); err != nil {
		return fmt.Errorf("save timeslots: %w", err)
	}

	return nil
}
