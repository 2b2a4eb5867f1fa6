package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicalunion/medical-union-api/internal/core/domain"
	"github.com/medicalunion/medical-union-api/internal/core/ports"
	"github.com/medicalunion/medical-union-api/internal/core/token"
)

// Stored procedures the account lifecycle drives. Each declares errcode and
// errmsg as its trailing out-parameters; the gateway consumes those into the
// outcome's Code/Message.
const (
	procRegister       = "user_register"
	procLoginSimple    = "user_login_simple"
	procGetInfo        = "user_get_info"
	procUpdateProfile  = "user_update_profile"
	procChangePassword = "user_change_password"
)

// AuthService orchestrates register, login, and logout against the
// stored-procedure gateway. It holds no identity state between requests.
type AuthService struct {
	gateway ports.ProcedureGateway
	store   ports.UserStore
	issuer  *token.Issuer
	revoker ports.TokenRevoker
	log     zerolog.Logger
}

// NewAuthService wires the auth orchestration. revoker may be nil, in which
// case logout validates the token but keeps no deny-list.
func NewAuthService(gateway ports.ProcedureGateway, store ports.UserStore, issuer *token.Issuer, revoker ports.TokenRevoker, log zerolog.Logger) *AuthService {
	return &AuthService{gateway: gateway, store: store, issuer: issuer, revoker: revoker, log: log}
}

// Register hashes the password and hands the account to the user_register
// procedure. The procedure owns the uniqueness check: under concurrent
// registration of the same username exactly one call commits, the rest report
// DUPLICATE_USERNAME.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (int64, error) {
	if in.Username == "" || in.Password == "" || in.Phone == "" {
		return 0, domain.NewError(domain.KindInvalidInput, "username, password and phone are required")
	}
	role := in.Role
	if role == "" {
		role = domain.RolePatient
	}
	if !domain.ValidRole(role) {
		return 0, domain.NewError(domain.KindInvalidInput, "unknown role")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return 0, domain.NewError(domain.KindInfrastructure, "password hashing failed")
	}

	outcome := s.gateway.Call(ctx, procRegister,
		[]any{in.Username, hash, role, in.Phone},
		[]string{"user_id"},
	)
	if err := outcome.Err(); err != nil {
		return 0, err
	}

	userID, ok := outcome.Int64("user_id")
	if !ok {
		return 0, domain.NewError(domain.KindInfrastructure, "register procedure returned no user id")
	}

	s.log.Info().Int64("user_id", userID).Str("role", role).Msg("user registered")
	return userID, nil
}

// Login verifies the credential against the stored hash, then lets the
// user_login_simple procedure return the authoritative profile fields and
// record the login. An unknown identifier and a wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	if in.LoginName == "" || in.Password == "" {
		return nil, domain.NewError(domain.KindInvalidInput, "loginName and password are required")
	}
	if !domain.ValidLoginType(in.LoginType) {
		return nil, domain.NewError(domain.KindInvalidInput, "loginType must be username, phone or doctor_code")
	}

	storedHash, err := s.storedHash(ctx, in)
	if err != nil {
		if domain.KindOf(err) == domain.KindUserNotFound {
			return nil, domain.NewError(domain.KindInvalidCredentials, "invalid credentials")
		}
		return nil, err
	}
	if !VerifyPassword(in.Password, storedHash) {
		return nil, domain.NewError(domain.KindInvalidCredentials, "invalid credentials")
	}

	outcome := s.gateway.Call(ctx, procLoginSimple,
		[]any{in.LoginName, nilIfEmpty(in.UserType)},
		[]string{"user_id", "username", "role", "phone", "profile_json", "last_login_at"},
	)
	if err := outcome.Err(); err != nil {
		return nil, err
	}

	userID, ok := outcome.Int64("user_id")
	if !ok {
		// Procedure committed but reported no identity: treat as a failed
		// login, not a success with a zero id.
		return nil, domain.NewError(domain.KindInvalidCredentials, "invalid credentials")
	}
	role := outcome.String("role")

	signed, _, err := s.issuer.Issue(userID, role)
	if err != nil {
		return nil, domain.NewError(domain.KindInfrastructure, "token signing failed")
	}

	s.log.Info().Int64("user_id", userID).Str("role", role).Msg("user logged in")

	return &ports.LoginResult{
		UserID:   userID,
		Username: outcome.String("username"),
		Role:     role,
		Profile:  rawJSON(outcome.String("profile_json")),
		Token:    signed,
	}, nil
}

// Logout revokes the presented token for its remaining validity. A token that
// no longer validates is rejected rather than silently accepted.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	claims, err := s.issuer.Parse(rawToken)
	if err != nil {
		return domain.NewError(domain.KindUnauthorized, "invalid token")
	}
	if s.revoker == nil || claims.TokenID == "" {
		return nil
	}

	ttl := claims.Remaining(time.Now().UTC())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.TokenID, ttl); err != nil {
		s.log.Error().Err(err).Msg("token revocation failed")
		return domain.NewError(domain.KindInfrastructure, "logout failed")
	}

	s.log.Info().Int64("user_id", claims.UserID).Msg("user logged out")
	return nil
}

// UserInfo fetches the authoritative profile through user_get_info.
func (s *AuthService) UserInfo(ctx context.Context, userID int64) (*ports.UserInfo, error) {
	return fetchUserInfo(ctx, s.gateway, userID)
}

// storedHash resolves the password hash for the stated identifier type.
func (s *AuthService) storedHash(ctx context.Context, in ports.LoginInput) (string, error) {
	switch in.LoginType {
	case domain.LoginByDoctorCode:
		return s.store.DoctorPasswordByCode(ctx, in.LoginName)
	case domain.LoginByPhone:
		u, err := s.store.FindByPhone(ctx, in.LoginName)
		if err != nil {
			return "", err
		}
		return u.PasswordHash, nil
	default:
		u, err := s.store.FindByUsername(ctx, in.LoginName)
		if err != nil {
			return "", err
		}
		return u.PasswordHash, nil
	}
}

// fetchUserInfo is shared by AuthService.UserInfo and UserService.Me, which
// expose the same procedure on two routes.
func fetchUserInfo(ctx context.Context, gateway ports.ProcedureGateway, userID int64) (*ports.UserInfo, error) {
	outcome := gateway.Call(ctx, procGetInfo,
		[]any{userID},
		[]string{"username", "role", "phone", "id_number", "profile_json", "created_at", "updated_at"},
	)
	if err := outcome.Err(); err != nil {
		return nil, err
	}

	return &ports.UserInfo{
		UserID:   userID,
		Username: outcome.String("username"),
		Role:     outcome.String("role"),
		IDNumber: outcome.String("id_number"),
		Phone:    outcome.String("phone"),
		Profile:  rawJSON(outcome.String("profile_json")),
	}, nil
}

func rawJSON(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
