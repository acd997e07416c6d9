package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	domainerrors "github.com/Dmitriy-Gavrilov/Medicine/internal/errors"
)

type TeamLoad struct {
	TeamID    uuid.UUID `json:"team_id"`
	CarNumber string    `json:"car_number"`
	Completed int       `json:"completed"`
}

type CallsStatistics struct {
	Completed int `db:"completed" json:"completed"`
	Rejected  int `db:"rejected" json:"rejected"`
	InFlight  int `db:"in_flight" json:"in_flight"`
	Total     int `db:"total" json:"total"`
}

type CallReportRow struct {
	ID          uuid.UUID `json:"id"`
	Reason      string    `json:"reason"`
	Address     string    `json:"address"`
	DateTime    time.Time `json:"date_time"`
	Status      string    `json:"status"`
	Type        string    `json:"type"`
	PatientInfo string    `json:"patient_info"`
	TeamInfo    string    `json:"team_info"`
}

type Service interface {
	TeamsLoad(ctx context.Context, since time.Time) ([]*TeamLoad, error)
	CallsStatistics(ctx context.Context, since time.Time) (*CallsStatistics, error)
	CallsReport(ctx context.Context, since time.Time) ([]*CallReportRow, error)
}

type service struct {
	repo Repository
	db   *sqlx.DB
}

func NewService(repo Repository, db *sqlx.DB) Service {
	return &service{repo: repo, db: db}
}

func (s *service) TeamsLoad(ctx context.Context, since time.Time) ([]*TeamLoad, error) {
	rows, err := s.repo.TeamsLoad(ctx, s.db, since)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to build team load report", err)
	}

	result := make([]*TeamLoad, 0, len(rows))
	for _, row := range rows {
		result = append(result, &TeamLoad{
			TeamID:    row.TeamID,
			CarNumber: row.CarNumber,
			Completed: row.Completed,
		})
	}
	return result, nil
}

func (s *service) CallsStatistics(ctx context.Context, since time.Time) (*CallsStatistics, error) {
	stats, err := s.repo.CallCounts(ctx, s.db, since)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to build call statistics", err)
	}
	return stats, nil
}

func (s *service) CallsReport(ctx context.Context, since time.Time) ([]*CallReportRow, error) {
	rows, err := s.repo.CallRows(ctx, s.db, since)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to build call report", err)
	}

	result := make([]*CallReportRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, &CallReportRow{
			ID:          row.ID,
			Reason:      row.Reason,
			Address:     row.Address,
			DateTime:    row.DateTime,
			Status:      row.Status,
			Type:        row.Type,
			PatientInfo: patientInfo(row),
			TeamInfo:    teamInfo(row),
		})
	}
	return result, nil
}

func patientInfo(row *callReportRow) string {
	return fmt.Sprintf("%s %s %s, %s, %d",
		row.PatientSurname, row.PatientName, row.PatientPatronym, row.PatientGender, row.PatientAge)
}

// teamInfo renders the assigned crew, or a dash for calls that never reached a
// team.
func teamInfo(row *callReportRow) string {
	if row.CarNumber == nil {
		return "-"
	}

	surnames := make([]string, 0, 3)
	for _, s := range []*string{row.W1Surname, row.W2Surname, row.W3Surname} {
		if s != nil {
			surnames = append(surnames, *s)
		}
	}
	return fmt.Sprintf("%s (%s)", strings.Join(surnames, ", "), *row.CarNumber)
}
