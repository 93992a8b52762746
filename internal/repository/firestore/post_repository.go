package firestore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	gcfirestore "cloud.google.com/go/firestore"
	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"github.com/Freeeeeet/postqueue_bot/internal/repository"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// PostRepository посты в месячных документах postEvents/{YYYY-MM}
type PostRepository struct {
	store *Store
	loc   *time.Location

	mu    sync.Mutex
	index map[string]string // clientID/postID -> месячный документ
}

func NewPostRepository(store *Store, loc *time.Location) *PostRepository {
	return &PostRepository{
		store: store,
		loc:   loc,
		index: make(map[string]string),
	}
}

// ListScheduledPosts читает месячные документы, покрывающие [from, to)
func (r *PostRepository) ListScheduledPosts(ctx context.Context, clientID string, from, to time.Time) ([]model.ScheduledPost, error) {
	from, to = from.In(r.loc), to.In(r.loc)
	col := r.store.postEvents(clientID)

	var posts []model.ScheduledPost
	for month := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, r.loc); month.Before(to); month = month.AddDate(0, 1, 0) {
		docID := month.Format(monthLayout)
		snap, err := col.Doc(docID).Get(ctx)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				continue
			}
			return nil, fmt.Errorf("get month %s: %w", docID, err)
		}

		for _, p := range decodeMonth(clientID, snap.Data()) {
			at, _ := p.ScheduledTime()
			if at.Before(from) || !at.Before(to) {
				continue
			}
			r.remember(clientID, p.ID, docID)
			posts = append(posts, p)
		}
	}

	return posts, nil
}

// UpdatePost применяет патч транзакционно. При смене месяца запись
// переносится в другой документ, снятый с плана пост из документа удаляется.
// Статус и время дублируются в ideas/{postID}, как это делает дашборд.
func (r *PostRepository) UpdatePost(ctx context.Context, clientID, postID string, patch model.PostPatch) error {
	docID, err := r.locate(ctx, clientID, postID)
	if err != nil {
		return err
	}

	col := r.store.postEvents(clientID)
	target := docID
	err = r.store.client.RunTransaction(ctx, func(ctx context.Context, tx *gcfirestore.Transaction) error {
		sourceRef := col.Doc(docID)
		snap, err := tx.Get(sourceRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return repository.ErrPostNotFound
			}
			return err
		}

		entry, ok := snap.Data()[postID].(map[string]interface{})
		if !ok {
			return repository.ErrPostNotFound
		}
		post, ok := decodePost(clientID, postID, entry)
		if !ok {
			return repository.ErrPostNotFound
		}

		updated := patch.Apply(post)
		at, scheduled := updated.ScheduledTime()
		if scheduled {
			target = monthDocID(at, r.loc)
		}

		if !scheduled || target != docID {
			err := tx.Update(sourceRef, []gcfirestore.Update{
				{FieldPath: gcfirestore.FieldPath{postID}, Value: gcfirestore.Delete},
			})
			if err != nil {
				return err
			}
		}
		if scheduled {
			err := tx.Set(col.Doc(target), map[string]interface{}{postID: encodePost(updated, r.loc)}, gcfirestore.MergeAll)
			if err != nil {
				return err
			}
		}
		// статус (в том числе Drafted после снятия с плана) живёт в документе идеи
		return tx.Set(r.store.ideas(clientID).Doc(postID), encodeIdea(updated), gcfirestore.MergeAll)
	})
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			r.forget(clientID, postID)
			return err
		}
		return fmt.Errorf("update post: %w", err)
	}

	if patch.ClearSchedule && patch.ScheduledAt == nil {
		r.forget(clientID, postID)
	} else {
		r.remember(clientID, postID, target)
	}
	return nil
}

// locate ищет месячный документ с постом: сначала в индексе, потом перебором
func (r *PostRepository) locate(ctx context.Context, clientID, postID string) (string, error) {
	r.mu.Lock()
	docID, ok := r.index[indexKey(clientID, postID)]
	r.mu.Unlock()
	if ok {
		return docID, nil
	}

	iter := r.store.postEvents(clientID).Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", fmt.Errorf("scan post events: %w", err)
		}
		if snap.Ref.ID == timeslotsDoc {
			continue
		}
		if _, ok := snap.Data()[postID]; ok {
			r.remember(clientID, postID, snap.Ref.ID)
			return snap.Ref.ID, nil
		}
	}

	return "", repository.ErrPostNotFound
}

func (r *PostRepository) remember(clientID, postID, docID string) {
	r.mu.Lock()
	r.index[indexKey(clientID, postID)] = docID
	r.mu.Unlock()
}

func (r *PostRepository) forget(clientID, postID string) {
	r.mu.Lock()
	delete(r.index, indexKey(clientID, postID))
	r.mu.Unlock()
}

func indexKey(clientID, postID string) string {
	return clientID + "/" + postID
}
