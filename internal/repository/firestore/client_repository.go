package firestore

import (
	"context"
	"fmt"
	"sort"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ClientRepository клиенты агентства из agencies/{agency}/clients
type ClientRepository struct {
	store *Store
}

func NewClientRepository(store *Store) *ClientRepository {
	return &ClientRepository{store: store}
}

// ListByAgency клиенты агентства по имени
func (r *ClientRepository) ListByAgency(ctx context.Context, agencyID string) ([]*model.Client, error) {
	iter := r.store.client.Collection(agenciesCollection).Doc(agencyID).Collection(clientsCollection).Documents(ctx)
	defer iter.Stop()

	var clients []*model.Client
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list clients: %w", err)
		}
		clients = append(clients, decodeClient(agencyID, snap.Ref.ID, snap.Data()))
	}

	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	return clients, nil
}

// GetByID клиент агентства по ID
func (r *ClientRepository) GetByID(ctx context.Context, agencyID, clientID string) (*model.Client, error) {
	snap, err := r.store.client.Collection(agenciesCollection).Doc(agencyID).Collection(clientsCollection).Doc(clientID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return decodeClient(agencyID, clientID, snap.Data()), nil
}

func decodeClient(agencyID, id string, data map[string]interface{}) *model.Client {
	c := &model.Client{ID: id, AgencyID: agencyID}
	for _, key := range []string{"client_name", "businessName", "name"} {
		if s := stringField(data, key); s != "" {
			c.Name = s
			break
		}
	}
	for _, key := range []string{"profile_image", "avatar", "photoURL"} {
		if s := stringField(data, key); s != "" {
			c.AvatarURL = s
			break
		}
	}
	if t, ok := timeField(data, "createdAt"); ok {
		c.CreatedAt = t
	} else if t, ok := timeField(data, "lastUpdated"); ok {
		c.CreatedAt = t
	}
	return c
}
