package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	domainerrors "github.com/Dmitriy-Gavrilov/Medicine/internal/errors"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/jwt"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/user"
)

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type LoginRequest struct {
	Login    string    `json:"login" binding:"required"`
	Password string    `json:"password" binding:"required"`
	Role     user.Role `json:"role" binding:"required"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

type service struct {
	users user.Service
	jwt   *jwt.Service
}

func NewService(users user.Service, jwtService *jwt.Service) Service {
	return &service{users: users, jwt: jwtService}
}

// Login checks the credentials and the requested role. A wrong password and an
// unknown login are indistinguishable to the caller.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := s.users.GetByLogin(ctx, req.Login)
	if err != nil {
		return nil, domainerrors.NewUnauthorized("invalid login or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return nil, domainerrors.NewUnauthorized("invalid login or password")
	}

	if u.Role != req.Role {
		return nil, domainerrors.NewForbidden("user does not hold the requested role")
	}

	token, err := s.jwt.GenerateToken(u.ID.String(), string(u.Role))
	if err != nil {
		return nil, domainerrors.NewInternal("failed to issue token", err)
	}

	return &LoginResponse{Token: token, User: u}, nil
}
