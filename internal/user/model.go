package user

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleDispatcher Role = "dispatcher"
	RoleWorker     Role = "worker"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDispatcher, RoleWorker, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Login     string    `db:"login" json:"login"`
	Password  string    `db:"password" json:"-"`
	Role      Role      `db:"role" json:"role"`
	Name      string    `db:"name" json:"name"`
	Surname   string    `db:"surname" json:"surname"`
	Patronym  string    `db:"patronym" json:"patronym"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func New(login, passwordHash string, role Role, name, surname, patronym string) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New(),
		Login:     login,
		Password:  passwordHash,
		Role:      role,
		Name:      name,
		Surname:   surname,
		Patronym:  patronym,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ShortName renders "Surname N. P." for team listings.
func (u *User) ShortName() string {
	name := "?"
	if len(u.Name) > 0 {
		name = string([]rune(u.Name)[0])
	}
	patronym := "?"
	if len(u.Patronym) > 0 {
		patronym = string([]rune(u.Patronym)[0])
	}
	return fmt.Sprintf("%s %s. %s.", u.Surname, name, patronym)
}

// FullName renders "Surname Name Patronym" for reports.
func (u *User) FullName() string {
	return fmt.Sprintf("%s %s %s", u.Surname, u.Name, u.Patronym)
}
