package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	domainerrors "github.com/Dmitriy-Gavrilov/Medicine/internal/errors"
)

type Service interface {
	List(ctx context.Context) ([]*Patient, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Create(ctx context.Context, req CreateRequest) (*Patient, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname" binding:"required"`
	Patronym string `json:"patronym" binding:"required"`
	Gender   Gender `json:"gender" binding:"required"`
	Age      int    `json:"age" binding:"required,gt=0,lte=150"`
}

type service struct {
	repo Repository
	db   *sqlx.DB
}

func NewService(repo Repository, db *sqlx.DB) Service {
	return &service{repo: repo, db: db}
}

func (s *service) List(ctx context.Context) ([]*Patient, error) {
	return s.repo.ListAll(ctx, s.db)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, domainerrors.PatientNotFound(id.String())
	}
	return p, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Patient, error) {
	if !req.Gender.Valid() {
		return nil, domainerrors.NewValidation("unknown gender")
	}

	p := New(req.Name, req.Surname, req.Patronym, req.Gender, req.Age)
	if err := s.repo.Create(ctx, s.db, p); err != nil {
		return nil, domainerrors.NewInternal("failed to create patient", err)
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, id)
}
