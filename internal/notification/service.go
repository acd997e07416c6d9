package notification

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Service interface {
	// NotifyUsers persists one notification per recipient. Failures are
	// logged and skipped: a lost notification never fails the operation
	// that produced it.
	NotifyUsers(ctx context.Context, userIDs []uuid.UUID, kind Type, text string)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Notification, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	db   *sqlx.DB
}

func NewService(repo Repository, db *sqlx.DB) Service {
	return &service{repo: repo, db: db}
}

func (s *service) NotifyUsers(ctx context.Context, userIDs []uuid.UUID, kind Type, text string) {
	for _, id := range userIDs {
		n := New(kind, text, id)
		if err := s.repo.Create(ctx, s.db, n); err != nil {
			slog.ErrorContext(ctx, "failed to persist notification",
				slog.String("user_id", id.String()),
				slog.String("kind", string(kind)),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Notification, error) {
	return s.repo.ListByUser(ctx, s.db, userID)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, s.db, id)
}
