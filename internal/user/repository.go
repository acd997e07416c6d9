package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const columns = `id, login, password, role, name, surname, patronym, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, ext sqlx.ExtContext, u *User) error
	GetByID(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (*User, error)
	GetByLogin(ctx context.Context, ext sqlx.ExtContext, login string) (*User, error)
	Update(ctx context.Context, ext sqlx.ExtContext, u *User) error
	Delete(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) error
	ListAll(ctx context.Context, ext sqlx.ExtContext) ([]*User, error)
	ListByRole(ctx context.Context, ext sqlx.ExtContext, role Role) ([]*User, error)
}

type userRepository struct{}

func NewRepository() Repository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, ext sqlx.ExtContext, u *User) error {
	const query = `INSERT INTO users (id, login, password, role, name, surname, patronym, created_at, updated_at)
		VALUES (:id, :login, :password, :role, :name, :surname, :patronym, :created_at, :updated_at)`

	_, err := sqlx.NamedExecContext(ctx, ext, query, u)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (*User, error) {
	var u User
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, columns)
	if err := sqlx.GetContext(ctx, ext, &u, query, id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, ext sqlx.ExtContext, login string) (*User, error) {
	var u User
	query := fmt.Sprintf(`SELECT %s FROM users WHERE login = $1`, columns)
	if err := sqlx.GetContext(ctx, ext, &u, query, login); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Update(ctx context.Context, ext sqlx.ExtContext, u *User) error {
	const query = `UPDATE users SET login = :login, password = :password, role = :role,
		name = :name, surname = :surname, patronym = :patronym, updated_at = :updated_at
		WHERE id = :id`
	_, err := sqlx.NamedExecContext(ctx, ext, query, u)
	return err
}

func (r *userRepository) Delete(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) error {
	_, err := ext.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func (r *userRepository) ListAll(ctx context.Context, ext sqlx.ExtContext) ([]*User, error) {
	var users []*User
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at`, columns)
	if err := sqlx.SelectContext(ctx, ext, &users, query); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ListByRole(ctx context.Context, ext sqlx.ExtContext, role Role) ([]*User, error) {
	var users []*User
	query := fmt.Sprintf(`SELECT %s FROM users WHERE role = $1 ORDER BY created_at`, columns)
	if err := sqlx.SelectContext(ctx, ext, &users, query, role); err != nil {
		return nil, err
	}
	return users, nil
}
