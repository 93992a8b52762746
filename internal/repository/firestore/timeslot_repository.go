package firestore

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TimeslotRepository документ postEvents/timeslots
type TimeslotRepository struct {
	store *Store
}

func NewTimeslotRepository(store *Store) *TimeslotRepository {
	return &TimeslotRepository{store: store}
}

// GetTimeslots пустая конфигурация, если документа нет
func (r *TimeslotRepository) GetTimeslots(ctx context.Context, clientID string) (model.TimeslotConfig, error) {
	snap, err := r.store.postEvents(clientID).Doc(timeslotsDoc).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.TimeslotConfig{}, nil
		}
		return nil, fmt.Errorf("get timeslots: %w", err)
	}

	cfg, err := decodeTimeslots(snap.Data())
	if err != nil {
		return nil, fmt.Errorf("decode timeslots: %w", err)
	}
	return cfg, nil
}

// SaveTimeslots перезаписывает документ целиком
func (r *TimeslotRepository) SaveTimeslots(ctx context.Context, clientID string, cfg model.TimeslotConfig) error {
	_, err := r.store.postEvents(clientID).Doc(timeslotsDoc).Set(ctx, encodeTimeslots(cfg))
	if err != nil {
		return fmt.Errorf("save timeslots: %w", err)
	}
	return nil
}
