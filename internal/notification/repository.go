package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const columns = `id, notification_type, text, user_id, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, ext sqlx.ExtContext, n *Notification) error
	Delete(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) error
	ListByUser(ctx context.Context, ext sqlx.ExtContext, userID uuid.UUID) ([]*Notification, error)
}

type notificationRepository struct{}

func NewRepository() Repository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(ctx context.Context, ext sqlx.ExtContext, n *Notification) error {
	const query = `INSERT INTO notifications (id, notification_type, text, user_id, created_at, updated_at)
		VALUES (:id, :notification_type, :text, :user_id, :created_at, :updated_at)`
	_, err := sqlx.NamedExecContext(ctx, ext, query, n)
	return err
}

func (r *notificationRepository) Delete(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) error {
	_, err := ext.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	return err
}

func (r *notificationRepository) ListByUser(ctx context.Context, ext sqlx.ExtContext, userID uuid.UUID) ([]*Notification, error) {
	var notes []*Notification
	query := fmt.Sprintf(`SELECT %s FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, columns)
	if err := sqlx.SelectContext(ctx, ext, &notes, query, userID); err != nil {
		return nil, err
	}
	return notes, nil
}
