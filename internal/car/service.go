package car

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	domainerrors "github.com/Dmitriy-Gavrilov/Medicine/internal/errors"
)

type Service interface {
	List(ctx context.Context) ([]*Car, error)
	ListFree(ctx context.Context) ([]*Car, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Car, error)
	Create(ctx context.Context, req CreateRequest) (*Car, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Car, error)
	MarkBroken(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateRequest struct {
	Number string `json:"number" binding:"required"`
}

type UpdateRequest struct {
	Number string `json:"number" binding:"required"`
	Status bool   `json:"status"`
}

type service struct {
	repo Repository
	db   *sqlx.DB
}

func NewService(repo Repository, db *sqlx.DB) Service {
	return &service{repo: repo, db: db}
}

func (s *service) List(ctx context.Context) ([]*Car, error) {
	return s.repo.ListActive(ctx, s.db)
}

func (s *service) ListFree(ctx context.Context) ([]*Car, error) {
	return s.repo.ListFree(ctx, s.db)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Car, error) {
	c, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, domainerrors.CarNotFound(id.String())
	}
	return c, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Car, error) {
	if existing, _ := s.repo.GetByNumber(ctx, s.db, req.Number); existing != nil {
		return nil, domainerrors.CarAlreadyExists()
	}

	c := New(req.Number)
	if err := s.repo.Create(ctx, s.db, c); err != nil {
		return nil, domainerrors.NewInternal("failed to create car", err)
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Car, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.Number == req.Number && c.Status == req.Status {
		return nil, domainerrors.NewConflict("car update changes nothing")
	}

	c.Number = req.Number
	c.Status = req.Status
	c.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, s.db, c); err != nil {
		return nil, domainerrors.NewInternal("failed to update car", err)
	}
	return c, nil
}

// MarkBroken takes the car out of service after a breakdown report.
func (s *service) MarkBroken(ctx context.Context, id uuid.UUID) error {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	c.MarkBroken()
	if err := s.repo.Update(ctx, s.db, c); err != nil {
		return domainerrors.NewInternal("failed to mark car broken", err)
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	busy, err := s.repo.HasLiveTeam(ctx, s.db, id)
	if err != nil {
		return domainerrors.NewInternal("failed to check car attachment", err)
	}
	if busy {
		return domainerrors.CarBusy()
	}

	c.IsDeleted = true
	return s.repo.Update(ctx, s.db, c)
}
