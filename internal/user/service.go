package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	domainerrors "github.com/Dmitriy-Gavrilov/Medicine/internal/errors"
)

// TeamMembership is a local interface to avoid importing the team package
// (teams reference workers, not the other way around).
type TeamMembership interface {
	WorkerIDs(ctx context.Context) (map[uuid.UUID]struct{}, error)
}

type Service interface {
	List(ctx context.Context) ([]*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	ListByRole(ctx context.Context, role Role) ([]*User, error)
	FreeWorkers(ctx context.Context) ([]*User, error)
	Create(ctx context.Context, req CreateRequest) (*User, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     Role   `json:"role" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname" binding:"required"`
	Patronym string `json:"patronym" binding:"required"`
}

type UpdateRequest struct {
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname" binding:"required"`
	Patronym string `json:"patronym" binding:"required"`
}

type service struct {
	repo  Repository
	db    *sqlx.DB
	teams TeamMembership
}

func NewService(repo Repository, db *sqlx.DB, teams TeamMembership) Service {
	return &service{repo: repo, db: db, teams: teams}
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	return s.repo.ListAll(ctx, s.db)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, domainerrors.UserNotFound(id.String())
	}
	return u, nil
}

func (s *service) GetByLogin(ctx context.Context, login string) (*User, error) {
	u, err := s.repo.GetByLogin(ctx, s.db, login)
	if err != nil {
		return nil, domainerrors.NewNotFound("user", login)
	}
	return u, nil
}

func (s *service) ListByRole(ctx context.Context, role Role) ([]*User, error) {
	return s.repo.ListByRole(ctx, s.db, role)
}

func (s *service) FreeWorkers(ctx context.Context) ([]*User, error) {
	workers, err := s.repo.ListByRole(ctx, s.db, RoleWorker)
	if err != nil {
		return nil, err
	}

	busy, err := s.teams.WorkerIDs(ctx)
	if err != nil {
		return nil, err
	}

	free := make([]*User, 0, len(workers))
	for _, w := range workers {
		if _, ok := busy[w.ID]; !ok {
			free = append(free, w)
		}
	}
	return free, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	if !req.Role.Valid() {
		return nil, domainerrors.NewValidation("unknown role")
	}
	if existing, _ := s.repo.GetByLogin(ctx, s.db, req.Login); existing != nil {
		return nil, domainerrors.UserAlreadyExists()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to hash password", err)
	}

	u := New(req.Login, string(hash), req.Role, req.Name, req.Surname, req.Patronym)
	if err := s.repo.Create(ctx, s.db, u); err != nil {
		return nil, domainerrors.NewInternal("failed to create user", err)
	}
	return u, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.Name = req.Name
	u.Surname = req.Surname
	u.Patronym = req.Patronym
	if err := s.repo.Update(ctx, s.db, u); err != nil {
		return nil, domainerrors.NewInternal("failed to update user", err)
	}
	return u, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if u.Role == RoleWorker {
		members, err := s.teams.WorkerIDs(ctx)
		if err != nil {
			return err
		}
		if _, ok := members[u.ID]; ok {
			return domainerrors.WorkerBusy()
		}
	}

	return s.repo.Delete(ctx, s.db, id)
}
