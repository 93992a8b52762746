package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"github.com/Freeeeeet/postqueue_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostRepository struct {
	*base.Repository
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{Repository: base.NewRepository(pool)}
}

// ListScheduledPosts посты клиента, чьё время публикации (или время
// фактической публикации) попадает в [from, to)
func (r *PostRepository) ListScheduledPosts(ctx context.Context, clientID string, from, to time.Time) ([]model.ScheduledPost, error) {
	query := `
		SELECT id, client_id, title, text, profile_id, profile_name, status, scheduled_at, posted_at, message
		FROM scheduled_posts
		WHERE client_id = $1
		  AND COALESCE(scheduled_at, posted_at) >= $2
		  AND COALESCE(scheduled_at, posted_at) < $3
		ORDER BY COALESCE(scheduled_at, posted_at), id
	`

	rows, err := r.Query(ctx, query, clientID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list scheduled posts: %w", err)
	}
	defer rows.Close()

	var posts []model.ScheduledPost
	for rows.Next() {
		var (
			p           model.ScheduledPost
			status      string
			scheduledAt *time.Time
			postedAt    *time.Time
		)
		err := rows.Scan(
			&p.ID,
			&p.ClientID,
			&p.Title,
			&p.Text,
			&p.ProfileID,
			&p.ProfileName,
			&status,
			&scheduledAt,
			&postedAt,
			&p.Message,
		)
		if err != nil {
			return nil, fmt.Errorf("scan scheduled post: %w", err)
		}

		if scheduledAt != nil {
			p.ScheduledAt = model.TimestampPtr(*scheduledAt)
		}
		if postedAt != nil {
			p.PostedAt = model.TimestampPtr(*postedAt)
		}
		// опубликованные посты без времени плана показываются по времени публикации
		if p.ScheduledAt == nil && p.PostedAt != nil {
			ts := *p.PostedAt
			p.ScheduledAt = &ts
		}
		p.Status = model.DefaultStatus(status, p.ScheduledAt, p.PostedAt)

		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scheduled posts: %w", err)
	}

	return posts, nil
}

// UpdatePost применяет патч к посту клиента
func (r *PostRepository) UpdatePost(ctx context.Context, clientID, postID string, patch model.PostPatch) error {
	query := `
		UPDATE scheduled_posts
		SET scheduled_at = CASE
				WHEN $3::timestamptz IS NOT NULL THEN $3::timestamptz
				WHEN $4::boolean THEN NULL
				ELSE scheduled_at
			END,
			status = COALESCE($5::text, status),
			updated_at = NOW()
		WHERE client_id = $1 AND id = $2
	`

	var scheduledAt *time.Time
	if patch.ScheduledAt != nil {
		t := patch.ScheduledAt.Time()
		scheduledAt = &t
	}
	var status *string
	if patch.Status != nil {
		s := patch.Status.String()
		status = &s
	}

	affected, err := r.ExecAffected(ctx, query, clientID, postID, scheduledAt, patch.ClearSchedule, status)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	if affected == 0 {
		return ErrPostNotFound
	}

	return nil
}
