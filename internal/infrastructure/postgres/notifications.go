package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/peerconnect/backend/internal/domain"
)

// NotificationRepo is the PostgreSQL implementation of
// domain.NotificationRepository.
type NotificationRepo struct {
	pool *pgxpool.Pool
}

// NewNotificationRepo creates a postgres NotificationRepo.
func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

// Create appends a notification row. A duplicate source_event_id is an
// idempotent no-op reported as (nil, nil).
func (r *NotificationRepo) Create(ctx context.Context, in domain.CreateNotificationInput) (*domain.Notification, error) {
	var sourceEventID *string
	if in.SourceEventID != "" {
		sourceEventID = &in.SourceEventID
	}

	var n domain.Notification
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (type, ref_id, message, source_event_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (source_event_id) WHERE source_event_id IS NOT NULL DO NOTHING
		RETURNING id, type, ref_id, message, created_at, is_read
	`, string(in.Type), in.RefID, in.Message, sourceEventID).
		Scan(&n.ID, &n.Type, &n.RefID, &n.Message, &n.CreatedAt, &n.Read)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return &n, nil
}

// List returns the notification log newest first, joining the actor who
// triggered each event. The actor is nil when the originating row is gone.
func (r *NotificationRepo) List(ctx context.Context) ([]domain.NotificationWithActor, error) {
	// DISTINCT ON keeps one actor row per notification; a post with many
	// likes would otherwise fan the join out.
	rows, err := r.pool.Query(ctx, `
		SELECT x.id, x.type, x.ref_id, x.message, x.created_at, x.is_read,
		       x.stu_id, x.first_name, x.last_name, x.avatar
		FROM (
			SELECT DISTINCT ON (n.id)
			       n.id, n.type, n.ref_id, n.message, n.created_at, n.is_read,
			       s.stu_id, s.first_name, s.last_name, s.avatar
			FROM notifications n
			LEFT JOIN discussions d ON (n.type = 'discussion' AND n.ref_id = d.id)
			LEFT JOIN discussion_likes l ON (n.type = 'like'  AND n.ref_id = l.discussion_id)
			LEFT JOIN student s ON (
				(n.type = 'discussion' AND d.student_id = s.stu_id) OR
				(n.type = 'like'       AND l.student_id = s.stu_id)
			)
			ORDER BY n.id, l.created_at DESC
		) x
		ORDER BY x.created_at DESC, x.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := []domain.NotificationWithActor{}
	for rows.Next() {
		var n domain.NotificationWithActor
		var actorID *int64
		var firstName, lastName, avatar *string
		if err := rows.Scan(&n.ID, &n.Type, &n.RefID, &n.Message, &n.CreatedAt, &n.Read,
			&actorID, &firstName, &lastName, &avatar); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if actorID != nil {
			actor := domain.Author{ID: *actorID, FirstName: "Unknown", Avatar: avatar}
			if firstName != nil {
				actor.FirstName = *firstName
			}
			if lastName != nil {
				actor.LastName = *lastName
			}
			n.Actor = &actor
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// SetRead flips the read flag.
func (r *NotificationRepo) SetRead(ctx context.Context, id int64, read bool) (*domain.Notification, error) {
	var n domain.Notification
	err := r.pool.QueryRow(ctx, `
		UPDATE notifications SET is_read = $1
		WHERE id = $2
		RETURNING id, type, ref_id, message, created_at, is_read
	`, read, id).Scan(&n.ID, &n.Type, &n.RefID, &n.Message, &n.CreatedAt, &n.Read)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set notification read: %w", err)
	}
	return &n, nil
}

// MarkAllRead marks every unread notification as read.
func (r *NotificationRepo) MarkAllRead(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE is_read = FALSE
	`)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountUnread returns the unread badge count.
func (r *NotificationRepo) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE is_read = FALSE`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}
