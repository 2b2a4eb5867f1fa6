package ports

import "context"

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	Name     string
	IDNumber string
	Phone    string
}

// UserService implements the authenticated self-service operations.
type UserService interface {
	Me(ctx context.Context, userID int64) (*UserInfo, error)
	UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) error
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
}
