package call

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const columns = `id, status, type, reason, address, date_time, lat, lon, patient_id, team_id, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, ext sqlx.ExtContext, c *Call) error
	GetByID(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (*Call, error)
	Update(ctx context.Context, ext sqlx.ExtContext, c *Call) error
	ListAll(ctx context.Context, ext sqlx.ExtContext) ([]*Call, error)
	ListByStatus(ctx context.Context, ext sqlx.ExtContext, status Status) ([]*Call, error)
	ListActual(ctx context.Context, ext sqlx.ExtContext) ([]*Call, error)
	GetAcceptedByTeam(ctx context.Context, ext sqlx.ExtContext, teamID uuid.UUID) (*Call, error)
	FindDuplicate(ctx context.Context, ext sqlx.ExtContext, d Draft) (bool, error)
	GetFullInfo(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (*FullInfo, error)
}

type callRepository struct{}

func NewRepository() Repository {
	return &callRepository{}
}

func (r *callRepository) Create(ctx context.Context, ext sqlx.ExtContext, c *Call) error {
	const query = `INSERT INTO calls (id, status, type, reason, address, date_time, lat, lon, patient_id, team_id, created_at, updated_at)
		VALUES (:id, :status, :type, :reason, :address, :date_time, :lat, :lon, :patient_id, :team_id, :created_at, :updated_at)`
	_, err := sqlx.NamedExecContext(ctx, ext, query, c)
	return err
}

func (r *callRepository) GetByID(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (*Call, error) {
	var c Call
	query := fmt.Sprintf(`SELECT %s FROM calls WHERE id = $1`, columns)
	if err := sqlx.GetContext(ctx, ext, &c, query, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *callRepository) Update(ctx context.Context, ext sqlx.ExtContext, c *Call) error {
	const query = `UPDATE calls SET status = :status, type = :type, reason = :reason, address = :address,
		date_time = :date_time, lat = :lat, lon = :lon, patient_id = :patient_id, team_id = :team_id,
		updated_at = :updated_at WHERE id = :id`
	_, err := sqlx.NamedExecContext(ctx, ext, query, c)
	return err
}

func (r *callRepository) ListAll(ctx context.Context, ext sqlx.ExtContext) ([]*Call, error) {
	var calls []*Call
	query := fmt.Sprintf(`SELECT %s FROM calls ORDER BY created_at DESC`, columns)
	if err := sqlx.SelectContext(ctx, ext, &calls, query); err != nil {
		return nil, err
	}
	return calls, nil
}

func (r *callRepository) ListByStatus(ctx context.Context, ext sqlx.ExtContext, status Status) ([]*Call, error) {
	var calls []*Call
	query := fmt.Sprintf(`SELECT %s FROM calls WHERE status = $1 ORDER BY created_at DESC`, columns)
	if err := sqlx.SelectContext(ctx, ext, &calls, query, status); err != nil {
		return nil, err
	}
	return calls, nil
}

// ListActual returns calls still in flight, new or accepted.
func (r *callRepository) ListActual(ctx context.Context, ext sqlx.ExtContext) ([]*Call, error) {
	var calls []*Call
	query := fmt.Sprintf(`SELECT %s FROM calls WHERE status IN ('new', 'accepted') ORDER BY created_at DESC`, columns)
	if err := sqlx.SelectContext(ctx, ext, &calls, query); err != nil {
		return nil, err
	}
	return calls, nil
}

func (r *callRepository) GetAcceptedByTeam(ctx context.Context, ext sqlx.ExtContext, teamID uuid.UUID) (*Call, error) {
	var c Call
	query := fmt.Sprintf(`SELECT %s FROM calls WHERE team_id = $1 AND status = 'accepted'`, columns)
	if err := sqlx.GetContext(ctx, ext, &c, query, teamID); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindDuplicate reports whether a non-terminal call with the exact same
// submitted fields already exists.
func (r *callRepository) FindDuplicate(ctx context.Context, ext sqlx.ExtContext, d Draft) (bool, error) {
	const query = `SELECT id FROM calls
		WHERE status IN ('new', 'accepted')
		AND reason = $1 AND address = $2 AND date_time = $3 AND lat = $4 AND lon = $5 AND patient_id = $6
		LIMIT 1`

	var id uuid.UUID
	err := sqlx.GetContext(ctx, ext, &id, query, d.Reason, d.Address, d.DateTime, d.Lat, d.Lon, d.Patient)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *callRepository) GetFullInfo(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (*FullInfo, error) {
	const query = `SELECT c.id, c.reason, c.address, c.date_time, c.status, c.type, c.lat, c.lon,
		p.name AS patient_name, p.surname AS patient_surname, p.patronym AS patient_patronym,
		p.age AS patient_age, p.gender AS patient_gender,
		c.created_at, c.updated_at
		FROM calls c
		JOIN patients p ON p.id = c.patient_id
		WHERE c.id = $1`

	var info FullInfo
	if err := sqlx.GetContext(ctx, ext, &info, query, id); err != nil {
		return nil, err
	}
	return &info, nil
}
