package team

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Dmitriy-Gavrilov/Medicine/internal/common"
	domainerrors "github.com/Dmitriy-Gavrilov/Medicine/internal/errors"
)

// ListCache is a local interface for the cached full-info listing
// (implemented by redis.TeamListCache).
type ListCache interface {
	Get(ctx context.Context, dest any) (bool, error)
	Set(ctx context.Context, v any) error
	Invalidate(ctx context.Context) error
}

type Service interface {
	List(ctx context.Context) ([]*Team, error)
	FullInfoList(ctx context.Context) ([]*FullInfo, error)
	ListFree(ctx context.Context) ([]*Team, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Team, error)
	GetByWorkerID(ctx context.Context, workerID uuid.UUID) (*Team, error)
	Create(ctx context.Context, req CreateRequest) (*Team, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Move(ctx context.Context, id uuid.UUID, to common.Coordinates) (*Team, error)
	SetMoving(ctx context.Context, id uuid.UUID, moving bool) error
	WorkerIDs(ctx context.Context) (map[uuid.UUID]struct{}, error)
}

type CreateRequest struct {
	Worker1ID uuid.UUID `json:"worker1_id" binding:"required"`
	Worker2ID uuid.UUID `json:"worker2_id" binding:"required"`
	Worker3ID uuid.UUID `json:"worker3_id" binding:"required"`
	CarID     uuid.UUID `json:"car_id" binding:"required"`
}

type service struct {
	repo  Repository
	db    *sqlx.DB
	cache ListCache
}

func NewService(repo Repository, db *sqlx.DB, cache ListCache) Service {
	return &service{repo: repo, db: db, cache: cache}
}

func (s *service) List(ctx context.Context) ([]*Team, error) {
	return s.repo.ListActive(ctx, s.db)
}

func (s *service) FullInfoList(ctx context.Context) ([]*FullInfo, error) {
	var cached []*FullInfo
	if hit, err := s.cache.Get(ctx, &cached); err == nil && hit {
		return cached, nil
	} else if err != nil {
		slog.WarnContext(ctx, "team listing cache read failed", slog.String("error", err.Error()))
	}

	list, err := s.repo.ListFullInfo(ctx, s.db)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to list teams", err)
	}

	if err := s.cache.Set(ctx, list); err != nil {
		slog.WarnContext(ctx, "team listing cache write failed", slog.String("error", err.Error()))
	}
	return list, nil
}

func (s *service) ListFree(ctx context.Context) ([]*Team, error) {
	return s.repo.ListFree(ctx, s.db)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Team, error) {
	t, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, domainerrors.TeamNotFound(id.String())
	}
	return t, nil
}

func (s *service) GetByWorkerID(ctx context.Context, workerID uuid.UUID) (*Team, error) {
	t, err := s.repo.GetByWorkerID(ctx, s.db, workerID)
	if err != nil {
		return nil, domainerrors.NewNotFound("team for worker", workerID.String())
	}
	return t, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Team, error) {
	if req.Worker1ID == req.Worker2ID || req.Worker1ID == req.Worker3ID || req.Worker2ID == req.Worker3ID {
		return nil, domainerrors.NewValidation("team workers must be distinct")
	}

	t := New(req.Worker1ID, req.Worker2ID, req.Worker3ID, req.CarID)
	if err := s.repo.Create(ctx, s.db, t); err != nil {
		return nil, domainerrors.NewInternal("failed to create team", err)
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "team listing cache invalidation failed", slog.String("error", err.Error()))
	}
	return t, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	busy, err := s.repo.IsBusy(ctx, s.db, id)
	if err != nil {
		return domainerrors.NewInternal("failed to check team calls", err)
	}
	if busy {
		return domainerrors.TeamBusy()
	}

	t.IsDeleted = true
	t.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, s.db, t); err != nil {
		return domainerrors.NewInternal("failed to delete team", err)
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "team listing cache invalidation failed", slog.String("error", err.Error()))
	}
	return nil
}

func (s *service) Move(ctx context.Context, id uuid.UUID, to common.Coordinates) (*Team, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePosition(ctx, s.db, id, to.Lat, to.Lon); err != nil {
		return nil, domainerrors.NewInternal("failed to move team", err)
	}

	t.Lat = to.Lat
	t.Lon = to.Lon
	return t, nil
}

func (s *service) SetMoving(ctx context.Context, id uuid.UUID, moving bool) error {
	return s.repo.SetMoving(ctx, s.db, id, moving)
}

// WorkerIDs returns the ids of every worker assigned to a live team.
func (s *service) WorkerIDs(ctx context.Context) (map[uuid.UUID]struct{}, error) {
	teams, err := s.repo.ListActive(ctx, s.db)
	if err != nil {
		return nil, err
	}

	ids := make(map[uuid.UUID]struct{}, len(teams)*3)
	for _, t := range teams {
		for _, w := range t.WorkerIDs() {
			ids[w] = struct{}{}
		}
	}
	return ids, nil
}
