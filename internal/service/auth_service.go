package service

import (
	"context"

	"contacts/internal/domain"
	"contacts/internal/dto"
)

type AuthService interface {
	Register(ctx context.Context, r dto.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, r dto.LoginRequest) (*dto.TokenResponse, error)
	ConfirmEmail(ctx context.Context, token string) (alreadyConfirmed bool, err error)
	ResendConfirmation(ctx context.Context, email string) (alreadyConfirmed bool, err error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}
