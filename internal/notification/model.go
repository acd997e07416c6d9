package notification

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeTrouble Type = "trouble"
	TypeSuccess Type = "success"
	TypeMessage Type = "message"
)

type Notification struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Type      Type      `db:"notification_type" json:"notification_type"`
	Text      string    `db:"text" json:"text"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func New(kind Type, text string, userID uuid.UUID) *Notification {
	now := time.Now()
	return &Notification{
		ID:        uuid.New(),
		Type:      kind,
		Text:      text,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
