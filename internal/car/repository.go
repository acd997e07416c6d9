package car

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const columns = `id, number, status, is_deleted, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, ext sqlx.ExtContext, c *Car) error
	GetByID(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (*Car, error)
	GetByNumber(ctx context.Context, ext sqlx.ExtContext, number string) (*Car, error)
	Update(ctx context.Context, ext sqlx.ExtContext, c *Car) error
	ListActive(ctx context.Context, ext sqlx.ExtContext) ([]*Car, error)
	ListFree(ctx context.Context, ext sqlx.ExtContext) ([]*Car, error)
	HasLiveTeam(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (bool, error)
}

type carRepository struct{}

func NewRepository() Repository {
	return &carRepository{}
}

func (r *carRepository) Create(ctx context.Context, ext sqlx.ExtContext, c *Car) error {
	const query = `INSERT INTO cars (id, number, status, is_deleted, created_at, updated_at)
		VALUES (:id, :number, :status, :is_deleted, :created_at, :updated_at)`
	_, err := sqlx.NamedExecContext(ctx, ext, query, c)
	return err
}

func (r *carRepository) GetByID(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (*Car, error) {
	var c Car
	query := fmt.Sprintf(`SELECT %s FROM cars WHERE id = $1`, columns)
	if err := sqlx.GetContext(ctx, ext, &c, query, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *carRepository) GetByNumber(ctx context.Context, ext sqlx.ExtContext, number string) (*Car, error) {
	var c Car
	query := fmt.Sprintf(`SELECT %s FROM cars WHERE number = $1 AND is_deleted = FALSE`, columns)
	if err := sqlx.GetContext(ctx, ext, &c, query, number); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *carRepository) Update(ctx context.Context, ext sqlx.ExtContext, c *Car) error {
	const query = `UPDATE cars SET number = :number, status = :status, is_deleted = :is_deleted,
		updated_at = :updated_at WHERE id = :id`
	_, err := sqlx.NamedExecContext(ctx, ext, query, c)
	return err
}

func (r *carRepository) ListActive(ctx context.Context, ext sqlx.ExtContext) ([]*Car, error) {
	var cars []*Car
	query := fmt.Sprintf(`SELECT %s FROM cars WHERE is_deleted = FALSE ORDER BY created_at`, columns)
	if err := sqlx.SelectContext(ctx, ext, &cars, query); err != nil {
		return nil, err
	}
	return cars, nil
}

// ListFree returns serviceable cars not attached to any live team.
func (r *carRepository) ListFree(ctx context.Context, ext sqlx.ExtContext) ([]*Car, error) {
	var cars []*Car
	query := fmt.Sprintf(`SELECT %s FROM cars c
		WHERE c.is_deleted = FALSE AND c.status = TRUE
		AND NOT EXISTS (SELECT 1 FROM teams t WHERE t.car_id = c.id AND t.is_deleted = FALSE)
		ORDER BY c.created_at`, columns)
	if err := sqlx.SelectContext(ctx, ext, &cars, query); err != nil {
		return nil, err
	}
	return cars, nil
}

func (r *carRepository) HasLiveTeam(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS (SELECT 1 FROM teams WHERE car_id = $1 AND is_deleted = FALSE)`
	if err := sqlx.GetContext(ctx, ext, &exists, query, id); err != nil {
		return false, err
	}
	return exists, nil
}
