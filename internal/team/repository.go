package team

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const columns = `id, worker1_id, worker2_id, worker3_id, car_id, lat, lon, is_moving, is_deleted, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, ext sqlx.ExtContext, t *Team) error
	GetByID(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (*Team, error)
	GetByWorkerID(ctx context.Context, ext sqlx.ExtContext, workerID uuid.UUID) (*Team, error)
	Update(ctx context.Context, ext sqlx.ExtContext, t *Team) error
	UpdatePosition(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID, lat, lon float64) error
	SetMoving(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID, moving bool) error
	ListActive(ctx context.Context, ext sqlx.ExtContext) ([]*Team, error)
	ListFullInfo(ctx context.Context, ext sqlx.ExtContext) ([]*FullInfo, error)
	ListFree(ctx context.Context, ext sqlx.ExtContext) ([]*Team, error)
	IsBusy(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (bool, error)
}

type teamRepository struct{}

func NewRepository() Repository {
	return &teamRepository{}
}

func (r *teamRepository) Create(ctx context.Context, ext sqlx.ExtContext, t *Team) error {
	const query = `INSERT INTO teams (id, worker1_id, worker2_id, worker3_id, car_id, lat, lon, is_moving, is_deleted, created_at, updated_at)
		VALUES (:id, :worker1_id, :worker2_id, :worker3_id, :car_id, :lat, :lon, :is_moving, :is_deleted, :created_at, :updated_at)`
	_, err := sqlx.NamedExecContext(ctx, ext, query, t)
	return err
}

func (r *teamRepository) GetByID(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (*Team, error) {
	var t Team
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE id = $1`, columns)
	if err := sqlx.GetContext(ctx, ext, &t, query, id); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *teamRepository) GetByWorkerID(ctx context.Context, ext sqlx.ExtContext, workerID uuid.UUID) (*Team, error) {
	var t Team
	query := fmt.Sprintf(`SELECT %s FROM teams
		WHERE is_deleted = FALSE AND (worker1_id = $1 OR worker2_id = $1 OR worker3_id = $1)`, columns)
	if err := sqlx.GetContext(ctx, ext, &t, query, workerID); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *teamRepository) Update(ctx context.Context, ext sqlx.ExtContext, t *Team) error {
	const query = `UPDATE teams SET worker1_id = :worker1_id, worker2_id = :worker2_id, worker3_id = :worker3_id,
		car_id = :car_id, lat = :lat, lon = :lon, is_moving = :is_moving, is_deleted = :is_deleted,
		updated_at = :updated_at WHERE id = :id`
	_, err := sqlx.NamedExecContext(ctx, ext, query, t)
	return err
}

func (r *teamRepository) UpdatePosition(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID, lat, lon float64) error {
	const query = `UPDATE teams SET lat = $2, lon = $3, updated_at = $4 WHERE id = $1`
	_, err := ext.ExecContext(ctx, query, id, lat, lon, time.Now())
	return err
}

func (r *teamRepository) SetMoving(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID, moving bool) error {
	const query = `UPDATE teams SET is_moving = $2, updated_at = $3 WHERE id = $1`
	_, err := ext.ExecContext(ctx, query, id, moving, time.Now())
	return err
}

func (r *teamRepository) ListActive(ctx context.Context, ext sqlx.ExtContext) ([]*Team, error) {
	var teams []*Team
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE is_deleted = FALSE ORDER BY created_at`, columns)
	if err := sqlx.SelectContext(ctx, ext, &teams, query); err != nil {
		return nil, err
	}
	return teams, nil
}

type fullInfoRow struct {
	ID        uuid.UUID `db:"id"`
	W1Name    string    `db:"w1_name"`
	W1Surname string    `db:"w1_surname"`
	W1Patron  string    `db:"w1_patronym"`
	W2Name    string    `db:"w2_name"`
	W2Surname string    `db:"w2_surname"`
	W2Patron  string    `db:"w2_patronym"`
	W3Name    string    `db:"w3_name"`
	W3Surname string    `db:"w3_surname"`
	W3Patron  string    `db:"w3_patronym"`
	CarNumber string    `db:"car_number"`
	IsBusy    bool      `db:"is_busy"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *teamRepository) ListFullInfo(ctx context.Context, ext sqlx.ExtContext) ([]*FullInfo, error) {
	const query = `SELECT t.id,
		u1.name AS w1_name, u1.surname AS w1_surname, u1.patronym AS w1_patronym,
		u2.name AS w2_name, u2.surname AS w2_surname, u2.patronym AS w2_patronym,
		u3.name AS w3_name, u3.surname AS w3_surname, u3.patronym AS w3_patronym,
		c.number AS car_number,
		EXISTS (SELECT 1 FROM calls cl WHERE cl.team_id = t.id AND cl.status = 'accepted') AS is_busy,
		t.created_at, t.updated_at
		FROM teams t
		JOIN users u1 ON u1.id = t.worker1_id
		JOIN users u2 ON u2.id = t.worker2_id
		JOIN users u3 ON u3.id = t.worker3_id
		JOIN cars c ON c.id = t.car_id
		WHERE t.is_deleted = FALSE
		ORDER BY t.created_at`

	var rows []*fullInfoRow
	if err := sqlx.SelectContext(ctx, ext, &rows, query); err != nil {
		return nil, err
	}

	result := make([]*FullInfo, 0, len(rows))
	for _, row := range rows {
		result = append(result, &FullInfo{
			ID:         row.ID,
			Worker1FIO: shortName(row.W1Surname, row.W1Name, row.W1Patron),
			Worker2FIO: shortName(row.W2Surname, row.W2Name, row.W2Patron),
			Worker3FIO: shortName(row.W3Surname, row.W3Name, row.W3Patron),
			CarNumber:  row.CarNumber,
			IsBusy:     row.IsBusy,
			CreatedAt:  row.CreatedAt,
			UpdatedAt:  row.UpdatedAt,
		})
	}
	return result, nil
}

// ListFree returns teams with no accepted call and a serviceable car.
func (r *teamRepository) ListFree(ctx context.Context, ext sqlx.ExtContext) ([]*Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams t
		WHERE t.is_deleted = FALSE
		AND NOT EXISTS (SELECT 1 FROM calls cl WHERE cl.team_id = t.id AND cl.status = 'accepted')
		AND EXISTS (SELECT 1 FROM cars c WHERE c.id = t.car_id AND c.status = TRUE)
		ORDER BY t.created_at`, prefixed("t"))

	var teams []*Team
	if err := sqlx.SelectContext(ctx, ext, &teams, query); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *teamRepository) IsBusy(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (bool, error) {
	var busy bool
	const query = `SELECT EXISTS (SELECT 1 FROM calls WHERE team_id = $1 AND status = 'accepted')`
	if err := sqlx.GetContext(ctx, ext, &busy, query, id); err != nil {
		return false, err
	}
	return busy, nil
}

func shortName(surname, name, patronym string) string {
	initial := func(s string) string {
		r := []rune(s)
		if len(r) == 0 {
			return "?"
		}
		return string(r[0])
	}
	return fmt.Sprintf("%s %s. %s.", surname, initial(name), initial(patronym))
}

func prefixed(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.worker1_id, %[1]s.worker2_id, %[1]s.worker3_id, %[1]s.car_id,
		%[1]s.lat, %[1]s.lon, %[1]s.is_moving, %[1]s.is_deleted, %[1]s.created_at, %[1]s.updated_at`, alias)
}
