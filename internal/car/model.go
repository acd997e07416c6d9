package car

import (
	"time"

	"github.com/google/uuid"
)

type Car struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Number    string    `db:"number" json:"number"`
	Status    bool      `db:"status" json:"status"` // serviceable flag
	IsDeleted bool      `db:"is_deleted" json:"is_deleted"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func New(number string) *Car {
	now := time.Now()
	return &Car{
		ID:        uuid.New(),
		Number:    number,
		Status:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Car) MarkBroken() {
	c.Status = false
	c.UpdatedAt = time.Now()
}
