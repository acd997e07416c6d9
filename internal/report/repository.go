package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	TeamsLoad(ctx context.Context, ext sqlx.ExtContext, since time.Time) ([]*teamLoadRow, error)
	CallCounts(ctx context.Context, ext sqlx.ExtContext, since time.Time) (*CallsStatistics, error)
	CallRows(ctx context.Context, ext sqlx.ExtContext, since time.Time) ([]*callReportRow, error)
}

type reportRepository struct{}

func NewRepository() Repository {
	return &reportRepository{}
}

type teamLoadRow struct {
	TeamID    uuid.UUID `db:"team_id"`
	CarNumber string    `db:"car_number"`
	Completed int       `db:"completed"`
}

func (r *reportRepository) TeamsLoad(ctx context.Context, ext sqlx.ExtContext, since time.Time) ([]*teamLoadRow, error) {
	const query = `SELECT t.id AS team_id, c.number AS car_number,
		COUNT(cl.id) AS completed
		FROM teams t
		JOIN cars c ON c.id = t.car_id
		LEFT JOIN calls cl ON cl.team_id = t.id AND cl.status = 'completed' AND cl.updated_at >= $1
		WHERE t.is_deleted = FALSE
		GROUP BY t.id, c.number
		ORDER BY completed DESC`

	var rows []*teamLoadRow
	if err := sqlx.SelectContext(ctx, ext, &rows, query, since); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reportRepository) CallCounts(ctx context.Context, ext sqlx.ExtContext, since time.Time) (*CallsStatistics, error) {
	const query = `SELECT
		COUNT(*) FILTER (WHERE status = 'completed') AS completed,
		COUNT(*) FILTER (WHERE status = 'rejected') AS rejected,
		COUNT(*) FILTER (WHERE status IN ('new', 'accepted')) AS in_flight,
		COUNT(*) AS total
		FROM calls WHERE created_at >= $1`

	var stats CallsStatistics
	if err := sqlx.GetContext(ctx, ext, &stats, query, since); err != nil {
		return nil, err
	}
	return &stats, nil
}

type callReportRow struct {
	ID       uuid.UUID `db:"id"`
	Reason   string    `db:"reason"`
	Address  string    `db:"address"`
	DateTime time.Time `db:"date_time"`
	Status   string    `db:"status"`
	Type     string    `db:"type"`

	PatientName     string `db:"patient_name"`
	PatientSurname  string `db:"patient_surname"`
	PatientPatronym string `db:"patient_patronym"`
	PatientAge      int    `db:"patient_age"`
	PatientGender   string `db:"patient_gender"`

	CarNumber *string `db:"car_number"`
	W1Surname *string `db:"w1_surname"`
	W2Surname *string `db:"w2_surname"`
	W3Surname *string `db:"w3_surname"`
}

func (r *reportRepository) CallRows(ctx context.Context, ext sqlx.ExtContext, since time.Time) ([]*callReportRow, error) {
	const query = `SELECT cl.id, cl.reason, cl.address, cl.date_time, cl.status, cl.type,
		p.name AS patient_name, p.surname AS patient_surname, p.patronym AS patient_patronym,
		p.age AS patient_age, p.gender AS patient_gender,
		c.number AS car_number,
		u1.surname AS w1_surname, u2.surname AS w2_surname, u3.surname AS w3_surname
		FROM calls cl
		JOIN patients p ON p.id = cl.patient_id
		LEFT JOIN teams t ON t.id = cl.team_id
		LEFT JOIN cars c ON c.id = t.car_id
		LEFT JOIN users u1 ON u1.id = t.worker1_id
		LEFT JOIN users u2 ON u2.id = t.worker2_id
		LEFT JOIN users u3 ON u3.id = t.worker3_id
		WHERE cl.created_at >= $1
		ORDER BY cl.created_at DESC`

	var rows []*callReportRow
	if err := sqlx.SelectContext(ctx, ext, &rows, query, since); err != nil {
		return nil, err
	}
	return rows, nil
}
