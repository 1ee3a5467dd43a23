package services

import (
	"context"
	"errors"

	"bureau-backend/internal/repositories"

	"github.com/pquerna/otp/totp"
)

// TOTPService handles second-factor enrollment for operator accounts.
// The enabled flag flips on only after the first successful verification,
// so a half-finished enrollment never locks anyone out.
type TOTPService struct {
	users *repositories.UserRepository
}

func NewTOTPService(users *repositories.UserRepository) *TOTPService {
	return &TOTPService{users: users}
}

// Setup generates a new secret and returns the otpauth:// provisioning URL
// for the authenticator app.
func (s *TOTPService) Setup(ctx context.Context, userID int, email string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "bureau-backend",
		AccountName: email,
	})
	if err != nil {
		return "", err
	}
	if err := s.users.SetTOTPSecret(ctx, userID, key.Secret()); err != nil {
		return "", err
	}
	return key.URL(), nil
}

// Verify checks a code against the stored secret.
func (s *TOTPService) Verify(ctx context.Context, userID int, code string) (bool, error) {
	secret, err := s.users.GetTOTPSecret(ctx, userID)
	if err != nil {
		return false, err
	}
	if secret == "" {
		return false, errors.New("totp not set up")
	}
	return totp.Validate(code, secret), nil
}

// Confirm verifies the first code after setup and enables the second factor.
func (s *TOTPService) Confirm(ctx context.Context, userID int, code string) error {
	ok, err := s.Verify(ctx, userID, code)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("invalid totp code")
	}
	return s.users.EnableTOTP(ctx, userID)
}
