package team

import (
	"time"

	"github.com/google/uuid"

	"github.com/Dmitriy-Gavrilov/Medicine/internal/common"
)

type Team struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Worker1ID uuid.UUID `db:"worker1_id" json:"worker1_id"`
	Worker2ID uuid.UUID `db:"worker2_id" json:"worker2_id"`
	Worker3ID uuid.UUID `db:"worker3_id" json:"worker3_id"`
	CarID     uuid.UUID `db:"car_id" json:"car_id"`
	Lat       float64   `db:"lat" json:"lat"`
	Lon       float64   `db:"lon" json:"lon"`
	IsMoving  bool      `db:"is_moving" json:"is_moving"`
	IsDeleted bool      `db:"is_deleted" json:"is_deleted"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Default station the teams start from.
const (
	defaultLat = 59.907126
	defaultLon = 30.326599
)

func New(worker1, worker2, worker3, carID uuid.UUID) *Team {
	now := time.Now()
	return &Team{
		ID:        uuid.New(),
		Worker1ID: worker1,
		Worker2ID: worker2,
		Worker3ID: worker3,
		CarID:     carID,
		Lat:       defaultLat,
		Lon:       defaultLon,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (t *Team) Position() common.Coordinates {
	return common.NewCoordinates(t.Lat, t.Lon)
}

func (t *Team) WorkerIDs() []uuid.UUID {
	return []uuid.UUID{t.Worker1ID, t.Worker2ID, t.Worker3ID}
}

// FullInfo is the aggregate listing row shown to dispatchers.
type FullInfo struct {
	ID         uuid.UUID `json:"id"`
	Worker1FIO string    `json:"worker1_fio"`
	Worker2FIO string    `json:"worker2_fio"`
	Worker3FIO string    `json:"worker3_fio"`
	CarNumber  string    `json:"car_number"`
	IsBusy     bool      `json:"is_busy"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
