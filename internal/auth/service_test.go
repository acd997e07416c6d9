package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domainerrors "github.com/Dmitriy-Gavrilov/Medicine/internal/errors"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/jwt"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/user"
)

// fakeUsers implements only the lookup Login needs; the embedded interface
// covers the rest of user.Service.
type fakeUsers struct {
	user.Service
	user *user.User
}

func (f *fakeUsers) GetByLogin(ctx context.Context, login string) (*user.User, error) {
	if f.user == nil || f.user.Login != login {
		return nil, domainerrors.UserNotFound(login)
	}
	return f.user, nil
}

func newLoginFixture(t *testing.T) (Service, *user.User) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	u := &user.User{
		ID:       uuid.New(),
		Login:    "disp1",
		Password: string(hash),
		Role:     user.RoleDispatcher,
	}
	jwtService := jwt.NewService("test-secret", time.Hour)
	return NewService(&fakeUsers{user: u}, jwtService), u
}

func TestLogin_IssuesValidToken(t *testing.T) {
	service, u := newLoginFixture(t)

	resp, err := service.Login(context.Background(), LoginRequest{
		Login:    "disp1",
		Password: "secret",
		Role:     user.RoleDispatcher,
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}

	claims, err := jwt.NewService("test-secret", time.Hour).ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("token did not validate: %v", err)
	}
	if claims.Sub != u.ID.String() || claims.Role != string(user.RoleDispatcher) {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	service, _ := newLoginFixture(t)

	_, err := service.Login(context.Background(), LoginRequest{
		Login:    "disp1",
		Password: "wrong",
		Role:     user.RoleDispatcher,
	})
	assertCode(t, err, domainerrors.ErrUnauthorized)
}

func TestLogin_UnknownLogin(t *testing.T) {
	service, _ := newLoginFixture(t)

	_, err := service.Login(context.Background(), LoginRequest{
		Login:    "ghost",
		Password: "secret",
		Role:     user.RoleDispatcher,
	})
	assertCode(t, err, domainerrors.ErrUnauthorized)
}

func TestLogin_RoleMismatch(t *testing.T) {
	service, _ := newLoginFixture(t)

	_, err := service.Login(context.Background(), LoginRequest{
		Login:    "disp1",
		Password: "secret",
		Role:     user.RoleAdmin,
	})
	assertCode(t, err, domainerrors.ErrForbidden)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var de *domainerrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	if de.Code != code {
		t.Fatalf("expected %s, got %s", code, de.Code)
	}
}
