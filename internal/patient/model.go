package patient

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

type Patient struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Surname   string    `db:"surname" json:"surname"`
	Patronym  string    `db:"patronym" json:"patronym"`
	Gender    Gender    `db:"gender" json:"gender"`
	Age       int       `db:"age" json:"age"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func New(name, surname, patronym string, gender Gender, age int) *Patient {
	now := time.Now()
	return &Patient{
		ID:        uuid.New(),
		Name:      name,
		Surname:   surname,
		Patronym:  patronym,
		Gender:    gender,
		Age:       age,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Summary renders "Surname Name Patronym, M, 42" for reports.
func (p *Patient) Summary() string {
	g := "M"
	if p.Gender == GenderFemale {
		g = "F"
	}
	return fmt.Sprintf("%s %s %s, %s, %d", p.Surname, p.Name, p.Patronym, g, p.Age)
}
