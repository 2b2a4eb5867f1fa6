package ports

import (
	"context"

	"github.com/medicalunion/medical-union-api/internal/core/domain"
)

// UserStore reads identity rows directly, outside the stored-procedure
// protocol. The lifecycle service needs the stored password hash before it
// will touch any procedure that mutates the account.
//
// A missing row is reported as a *domain.Error with KindUserNotFound; callers
// decide whether that surfaces as USER_NOT_FOUND or is folded into
// INVALID_CREDENTIALS.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// DoctorPasswordByCode returns the stored hash for a doctor looked up by
	// staff code. Doctors may log in with their code instead of a username.
	DoctorPasswordByCode(ctx context.Context, code string) (string, error)
}
