package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"github.com/Freeeeeet/postqueue_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClientRepository struct {
	*base.Repository
}

func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{Repository: base.NewRepository(pool)}
}

// ListByAgency клиенты агентства по имени
func (r *ClientRepository) ListByAgency(ctx context.Context, agencyID string) ([]*model.Client, error) {
	query := `
		SELECT id, agency_id, name, avatar_url, created_at
		FROM clients
		WHERE agency_id = $1
		ORDER BY name
	`

	rows, err := r.Query(ctx, query, agencyID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []*model.Client
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.AgencyID, &c.Name, &c.AvatarURL, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}

	return clients, nil
}

// GetByID клиент агентства по ID
func (r *ClientRepository) GetByID(ctx context.Context, agencyID, clientID string) (*model.Client, error) {
	query := `
		SELECT id, agency_id, name, avatar_url, created_at
		FROM clients
		WHERE agency_id = $1 AND id = $2
	`

	var c model.Client
	err := r.QueryRow(ctx, query, agencyID, clientID).Scan(&c.ID, &c.AgencyID, &c.Name, &c.AvatarURL, &c.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}

	return &c, nil
}
