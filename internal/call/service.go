package call

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	domainerrors "github.com/Dmitriy-Gavrilov/Medicine/internal/errors"
)

// Cache is a local interface for the per-call read-through entries
// (implemented by redis.CallCache).
type Cache interface {
	GetFullInfo(ctx context.Context, callID uuid.UUID, dest any) (bool, error)
	SetFullInfo(ctx context.Context, callID uuid.UUID, v any) error
	InvalidateFullInfo(ctx context.Context, callID uuid.UUID) error
	GetByTeam(ctx context.Context, teamID uuid.UUID, dest any) (bool, error)
	SetByTeam(ctx context.Context, teamID uuid.UUID, v any) error
	InvalidateByTeam(ctx context.Context, teamID uuid.UUID) error
}

// Service is the query side of the call lifecycle. Mutations go through the
// dispatch engine, which coordinates notifications, events and cache
// invalidation on top of the repository.
type Service interface {
	List(ctx context.Context) ([]*Call, error)
	ListNew(ctx context.Context) ([]*Call, error)
	ListActual(ctx context.Context) ([]*Call, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Call, error)
	GetFullInfo(ctx context.Context, id uuid.UUID) (*FullInfo, error)
	GetByTeam(ctx context.Context, teamID uuid.UUID) (*Call, error)
}

type service struct {
	repo  Repository
	db    *sqlx.DB
	cache Cache
}

func NewService(repo Repository, db *sqlx.DB, cache Cache) Service {
	return &service{repo: repo, db: db, cache: cache}
}

func (s *service) List(ctx context.Context) ([]*Call, error) {
	return s.repo.ListAll(ctx, s.db)
}

// ListNew returns unassigned calls in dispatch order.
func (s *service) ListNew(ctx context.Context) ([]*Call, error) {
	calls, err := s.repo.ListByStatus(ctx, s.db, StatusNew)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to list new calls", err)
	}
	SortByPriority(calls)
	return calls, nil
}

func (s *service) ListActual(ctx context.Context) ([]*Call, error) {
	calls, err := s.repo.ListActual(ctx, s.db)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to list actual calls", err)
	}
	SortByPriority(calls)
	return calls, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Call, error) {
	c, err := s.repo.GetByID(ctx, s.db, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainerrors.CallNotFound(id.String())
	}
	if err != nil {
		return nil, domainerrors.NewInternal("failed to get call", err)
	}
	return c, nil
}

func (s *service) GetFullInfo(ctx context.Context, id uuid.UUID) (*FullInfo, error) {
	var cached FullInfo
	if hit, err := s.cache.GetFullInfo(ctx, id, &cached); err == nil && hit {
		return &cached, nil
	} else if err != nil {
		slog.WarnContext(ctx, "call full info cache read failed", slog.String("error", err.Error()))
	}

	info, err := s.repo.GetFullInfo(ctx, s.db, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainerrors.CallNotFound(id.String())
	}
	if err != nil {
		return nil, domainerrors.NewInternal("failed to get call full info", err)
	}

	if err := s.cache.SetFullInfo(ctx, id, info); err != nil {
		slog.WarnContext(ctx, "call full info cache write failed", slog.String("error", err.Error()))
	}
	return info, nil
}

// GetByTeam returns the call the team is currently serving.
func (s *service) GetByTeam(ctx context.Context, teamID uuid.UUID) (*Call, error) {
	var cached Call
	if hit, err := s.cache.GetByTeam(ctx, teamID, &cached); err == nil && hit {
		return &cached, nil
	} else if err != nil {
		slog.WarnContext(ctx, "call by team cache read failed", slog.String("error", err.Error()))
	}

	c, err := s.repo.GetAcceptedByTeam(ctx, s.db, teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainerrors.TeamCallNotFound(teamID.String())
	}
	if err != nil {
		return nil, domainerrors.NewInternal("failed to get team call", err)
	}

	if err := s.cache.SetByTeam(ctx, teamID, c); err != nil {
		slog.WarnContext(ctx, "call by team cache write failed", slog.String("error", err.Error()))
	}
	return c, nil
}
