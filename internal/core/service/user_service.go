package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/medicalunion/medical-union-api/internal/core/domain"
	"github.com/medicalunion/medical-union-api/internal/core/ports"
)

// UserService implements the authenticated self-service operations. Mutations
// require the identity to exist before the procedure is invoked, so a stale
// token for a deleted account surfaces USER_NOT_FOUND instead of a procedure
// error.
type UserService struct {
	gateway ports.ProcedureGateway
	store   ports.UserStore
	log     zerolog.Logger
}

func NewUserService(gateway ports.ProcedureGateway, store ports.UserStore, log zerolog.Logger) *UserService {
	return &UserService{gateway: gateway, store: store, log: log}
}

// Me returns the caller's profile.
func (s *UserService) Me(ctx context.Context, userID int64) (*ports.UserInfo, error) {
	return fetchUserInfo(ctx, s.gateway, userID)
}

// UpdateProfile submits the mutable profile fields to user_update_profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in ports.UpdateProfileInput) error {
	if in.Name == "" && in.IDNumber == "" && in.Phone == "" {
		return domain.NewError(domain.KindInvalidInput, "nothing to update")
	}
	if _, err := s.store.FindByID(ctx, userID); err != nil {
		return err
	}

	outcome := s.gateway.Call(ctx, procUpdateProfile,
		[]any{userID, nilIfEmpty(in.Name), nilIfEmpty(in.IDNumber), nilIfEmpty(in.Phone)},
		nil,
	)
	if err := outcome.Err(); err != nil {
		return err
	}

	s.log.Info().Int64("user_id", userID).Msg("profile updated")
	return nil
}

// ChangePassword verifies the old password against the stored hash before the
// new hash is computed and submitted. Tokens issued before the change remain
// valid until their own expiry; only future logins are affected.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return domain.NewError(domain.KindInvalidInput, "oldPassword and newPassword are required")
	}

	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !VerifyPassword(oldPassword, u.PasswordHash) {
		return domain.NewError(domain.KindInvalidPassword, "old password is incorrect")
	}

	newHash, err := HashPassword(newPassword)
	if err != nil {
		return domain.NewError(domain.KindInfrastructure, "password hashing failed")
	}

	outcome := s.gateway.Call(ctx, procChangePassword,
		[]any{userID, newHash},
		nil,
	)
	if err := outcome.Err(); err != nil {
		return err
	}

	s.log.Info().Int64("user_id", userID).Msg("password changed")
	return nil
}
