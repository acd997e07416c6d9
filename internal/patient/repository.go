package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const columns = `id, name, surname, patronym, gender, age, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, ext sqlx.ExtContext, p *Patient) error
	GetByID(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (*Patient, error)
	Delete(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) error
	ListAll(ctx context.Context, ext sqlx.ExtContext) ([]*Patient, error)
}

type patientRepository struct{}

func NewRepository() Repository {
	return &patientRepository{}
}

func (r *patientRepository) Create(ctx context.Context, ext sqlx.ExtContext, p *Patient) error {
	const query = `INSERT INTO patients (id, name, surname, patronym, gender, age, created_at, updated_at)
		VALUES (:id, :name, :surname, :patronym, :gender, :age, :created_at, :updated_at)`
	_, err := sqlx.NamedExecContext(ctx, ext, query, p)
	return err
}

func (r *patientRepository) GetByID(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (*Patient, error) {
	var p Patient
	query := fmt.Sprintf(`SELECT %s FROM patients WHERE id = $1`, columns)
	if err := sqlx.GetContext(ctx, ext, &p, query, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepository) Delete(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) error {
	_, err := ext.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	return err
}

func (r *patientRepository) ListAll(ctx context.Context, ext sqlx.ExtContext) ([]*Patient, error) {
	var patients []*Patient
	query := fmt.Sprintf(`SELECT %s FROM patients ORDER BY created_at`, columns)
	if err := sqlx.SelectContext(ctx, ext, &patients, query); err != nil {
		return nil, err
	}
	return patients, nil
}
