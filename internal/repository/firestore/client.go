// Package firestore читает и пишет посты и таймслоты в документах дашборда:
// agencies/{agency}/clients/{client}/postEvents/{YYYY-MM|timeslots}.
package firestore

import (
	"context"
	"fmt"

	gcfirestore "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

const (
	agenciesCollection   = "agencies"
	clientsCollection    = "clients"
	postEventsCollection = "postEvents"
	ideasCollection      = "ideas"
	timeslotsDoc         = "timeslots"
	monthLayout          = "2006-01"
)

// Store общий клиент Firestore одного агентства
type Store struct {
	client   *gcfirestore.Client
	agencyID string
}

// Open создаёт Firebase приложение и клиент Firestore
func Open(ctx context.Context, projectID, credentialsFile, agencyID string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firestore client: %w", err)
	}

	return &Store{client: client, agencyID: agencyID}, nil
}

// Close закрывает клиент
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) clients() *gcfirestore.CollectionRef {
	return s.client.Collection(agenciesCollection).Doc(s.agencyID).Collection(clientsCollection)
}

func (s *Store) ideas(clientID string) *gcfirestore.CollectionRef {
	return s.clients().Doc(clientID).Collection(ideasCollection)
}

func (s *Store) postEvents(clientID string) *gcfirestore.CollectionRef {
	return s.clients().Doc(clientID).Collection(postEventsCollection)
}
