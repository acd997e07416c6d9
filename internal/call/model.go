package call

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Dmitriy-Gavrilov/Medicine/internal/common"
	domainerrors "github.com/Dmitriy-Gavrilov/Medicine/internal/errors"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/patient"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusAccepted  Status = "accepted"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

type Type string

const (
	TypeCritical  Type = "critical"
	TypeImportant Type = "important"
	TypeCommon    Type = "common"
)

func (t Type) Valid() bool {
	switch t {
	case TypeCritical, TypeImportant, TypeCommon:
		return true
	}
	return false
}

// priority rank: lower dispatches first.
var priority = map[Type]int{
	TypeCritical:  0,
	TypeImportant: 1,
	TypeCommon:    2,
}

type Call struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Status    Status     `db:"status" json:"status"`
	Type      Type       `db:"type" json:"type"`
	Reason    string     `db:"reason" json:"reason"`
	Address   string     `db:"address" json:"address"`
	DateTime  time.Time  `db:"date_time" json:"date_time"`
	Lat       float64    `db:"lat" json:"lat"`
	Lon       float64    `db:"lon" json:"lon"`
	PatientID uuid.UUID  `db:"patient_id" json:"patient_id"`
	TeamID    *uuid.UUID `db:"team_id" json:"team_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

type Draft struct {
	Reason   string
	Address  string
	DateTime time.Time
	Lat      float64
	Lon      float64
	Type     Type
	Patient  uuid.UUID
}

func New(d Draft) *Call {
	now := time.Now()
	return &Call{
		ID:        uuid.New(),
		Status:    StatusNew,
		Type:      d.Type,
		Reason:    d.Reason,
		Address:   d.Address,
		DateTime:  d.DateTime,
		Lat:       d.Lat,
		Lon:       d.Lon,
		PatientID: d.Patient,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Call) Coordinates() common.Coordinates {
	return common.NewCoordinates(c.Lat, c.Lon)
}

// Accept assigns a team; only a new call can be accepted. The team id is set
// together with the status so an accepted call always carries its team.
func (c *Call) Accept(teamID uuid.UUID) error {
	if c.Status != StatusNew {
		return domainerrors.CallInvalidTransition(string(c.Status), string(StatusAccepted))
	}
	c.Status = StatusAccepted
	c.TeamID = &teamID
	c.UpdatedAt = time.Now()
	return nil
}

func (c *Call) Reject() error {
	if c.Status != StatusNew {
		return domainerrors.CallInvalidTransition(string(c.Status), string(StatusRejected))
	}
	c.Status = StatusRejected
	c.UpdatedAt = time.Now()
	return nil
}

func (c *Call) Complete() error {
	if c.Status != StatusAccepted {
		return domainerrors.CallInvalidTransition(string(c.Status), string(StatusCompleted))
	}
	c.Status = StatusCompleted
	c.UpdatedAt = time.Now()
	return nil
}

// ResetToNew is the trouble path: the team is cleared and the call is
// re-announced. Only an accepted call can be reset.
func (c *Call) ResetToNew() error {
	if c.Status != StatusAccepted {
		return domainerrors.CallInvalidTransition(string(c.Status), string(StatusNew))
	}
	c.Status = StatusNew
	c.TeamID = nil
	c.UpdatedAt = time.Now()
	return nil
}

// SortByPriority orders calls critical first, then important, then common;
// within a tier the most recent date_time comes first.
func SortByPriority(calls []*Call) {
	sort.SliceStable(calls, func(i, j int) bool {
		pi, pj := priority[calls[i].Type], priority[calls[j].Type]
		if pi != pj {
			return pi < pj
		}
		return calls[i].DateTime.After(calls[j].DateTime)
	})
}

// FullInfo is the call detail projection including the patient.
type FullInfo struct {
	ID              uuid.UUID      `db:"id" json:"id"`
	Reason          string         `db:"reason" json:"reason"`
	Address         string         `db:"address" json:"address"`
	DateTime        time.Time      `db:"date_time" json:"date_time"`
	Status          Status         `db:"status" json:"status"`
	Type            Type           `db:"type" json:"type"`
	Lat             float64        `db:"lat" json:"lat"`
	Lon             float64        `db:"lon" json:"lon"`
	PatientName     string         `db:"patient_name" json:"patient_name"`
	PatientSurname  string         `db:"patient_surname" json:"patient_surname"`
	PatientPatronym string         `db:"patient_patronym" json:"patient_patronym"`
	PatientAge      int            `db:"patient_age" json:"patient_age"`
	PatientGender   patient.Gender `db:"patient_gender" json:"patient_gender"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}
