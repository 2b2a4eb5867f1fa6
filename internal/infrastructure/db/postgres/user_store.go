package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicalunion/medical-union-api/internal/core/domain"
	"github.com/medicalunion/medical-union-api/internal/core/ports"
)

const userColumns = `id, username, password_hash, role, phone,
	COALESCE(id_number, ''), COALESCE(profile, 'null'::jsonb), created_at, updated_at`

// UserStore reads identity rows directly; all writes go through the
// stored-procedure gateway.
type UserStore struct {
	pool *pgxpool.Pool
}

var _ ports.UserStore = (*UserStore)(nil)

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findOne(ctx, "username = $1", username)
}

func (s *UserStore) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return s.findOne(ctx, "phone = $1", phone)
}

func (s *UserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.findOne(ctx, "id = $1", id)
}

// DoctorPasswordByCode looks up a doctor's stored hash by staff code; the
// hash lives on the doctors table, not on users.
func (s *UserStore) DoctorPasswordByCode(ctx context.Context, code string) (string, error) {
	var hash string
	err := s.pool.QueryRow(ctx,
		`SELECT password_hash FROM doctors WHERE doctor_code = $1`, code,
	).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.NewError(domain.KindUserNotFound, "doctor not found")
	}
	if err != nil {
		return "", domain.NewError(domain.KindInfrastructure, fmt.Sprintf("find doctor: %v", err))
	}
	return hash, nil
}

func (s *UserStore) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	var (
		u       domain.User
		profile []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where, arg,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Phone,
		&u.IDNumber, &profile, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewError(domain.KindUserNotFound, "user not found")
	}
	if err != nil {
		return nil, domain.NewError(domain.KindInfrastructure, fmt.Sprintf("find user: %v", err))
	}
	if string(profile) != "null" {
		u.Profile = profile
	}
	return &u, nil
}
