package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicalunion/medical-union-api/internal/core/domain"
	"github.com/medicalunion/medical-union-api/internal/core/ports"
	"github.com/medicalunion/medical-union-api/internal/core/token"
)

// stubGateway returns a canned outcome per procedure name and records calls.
type stubGateway struct {
	outcomes map[string]domain.ProcedureOutcome
	calls    []string
	lastIn   map[string][]any
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		outcomes: make(map[string]domain.ProcedureOutcome),
		lastIn:   make(map[string][]any),
	}
}

func (g *stubGateway) Call(_ context.Context, procedure string, in []any, _ []string) domain.ProcedureOutcome {
	g.calls = append(g.calls, procedure)
	g.lastIn[procedure] = in
	if o, ok := g.outcomes[procedure]; ok {
		return o
	}
	return domain.ProcedureOutcome{Code: domain.CodeOK, Out: map[string]any{}}
}

func (g *stubGateway) called(procedure string) bool {
	for _, c := range g.calls {
		if c == procedure {
			return true
		}
	}
	return false
}

type stubStore struct {
	byUsername map[string]*domain.User
	byPhone    map[string]*domain.User
	byID       map[int64]*domain.User
	doctorHash map[string]string
	err        error
}

func newStubStore() *stubStore {
	return &stubStore{
		byUsername: make(map[string]*domain.User),
		byPhone:    make(map[string]*domain.User),
		byID:       make(map[int64]*domain.User),
		doctorHash: make(map[string]string),
	}
}

func (s *stubStore) add(u *domain.User) {
	s.byUsername[u.Username] = u
	s.byPhone[u.Phone] = u
	s.byID[u.ID] = u
}

func (s *stubStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.byUsername[username]; ok {
		return u, nil
	}
	return nil, domain.NewError(domain.KindUserNotFound, "user not found")
}

func (s *stubStore) FindByPhone(_ context.Context, phone string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.byPhone[phone]; ok {
		return u, nil
	}
	return nil, domain.NewError(domain.KindUserNotFound, "user not found")
}

func (s *stubStore) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, domain.NewError(domain.KindUserNotFound, "user not found")
}

func (s *stubStore) DoctorPasswordByCode(_ context.Context, code string) (string, error) {
	if h, ok := s.doctorHash[code]; ok {
		return h, nil
	}
	return "", domain.NewError(domain.KindUserNotFound, "doctor not found")
}

type stubRevoker struct {
	revoked map[string]time.Duration
	err     error
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Duration)}
}

func (r *stubRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if r.err != nil {
		return r.err
	}
	r.revoked[tokenID] = ttl
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := r.revoked[tokenID]
	return ok, nil
}

func newTestAuthService(gw *stubGateway, store *stubStore, rev ports.TokenRevoker) *AuthService {
	return NewAuthService(gw, store, token.NewIssuer("test-secret", time.Hour), rev, zerolog.Nop())
}

func TestRegister_Success(t *testing.T) {
	gw := newStubGateway()
	gw.outcomes[procRegister] = domain.ProcedureOutcome{
		Code: domain.CodeOK,
		Out:  map[string]any{"user_id": int64(1)},
	}
	svc := newTestAuthService(gw, newStubStore(), nil)

	id, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice", Password: "Str0ngPw!", Role: domain.RolePatient, Phone: "13800000000",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected user id 1, got %d", id)
	}

	in := gw.lastIn[procRegister]
	if len(in) != 4 {
		t.Fatalf("expected 4 procedure inputs, got %d", len(in))
	}
	hash, _ := in[1].(string)
	if hash == "Str0ngPw!" || hash == "" {
		t.Fatalf("password must be hashed before reaching the procedure")
	}
	if !VerifyPassword("Str0ngPw!", hash) {
		t.Fatalf("submitted hash does not verify against the password")
	}
}

func TestRegister_DefaultsRoleToPatient(t *testing.T) {
	gw := newStubGateway()
	gw.outcomes[procRegister] = domain.ProcedureOutcome{
		Code: domain.CodeOK,
		Out:  map[string]any{"user_id": int64(2)},
	}
	svc := newTestAuthService(gw, newStubStore(), nil)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "bob", Password: "pw", Phone: "13800000001",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if got := gw.lastIn[procRegister][2]; got != domain.RolePatient {
		t.Fatalf("expected default role PATIENT, got %v", got)
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	gw := newStubGateway()
	svc := newTestAuthService(gw, newStubStore(), nil)

	cases := []ports.RegisterInput{
		{Password: "pw", Phone: "1"},
		{Username: "x", Phone: "1"},
		{Username: "x", Password: "pw"},
		{Username: "x", Password: "pw", Phone: "1", Role: "SUPERUSER"},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); domain.KindOf(err) != domain.KindInvalidInput {
			t.Fatalf("input %+v: expected KindInvalidInput, got %v", in, err)
		}
	}
	if len(gw.calls) != 0 {
		t.Fatalf("gateway must not be called on invalid input")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	gw := newStubGateway()
	gw.outcomes[procRegister] = domain.ProcedureOutcome{
		Code:    domain.CodeDuplicateUsername,
		Message: "Username already exists",
	}
	svc := newTestAuthService(gw, newStubStore(), nil)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice", Password: "pw", Phone: "13800000000",
	})
	if domain.KindOf(err) != domain.KindDuplicateUsername {
		t.Fatalf("expected KindDuplicateUsername, got %v", err)
	}
}

func TestRegister_UnknownCodeFailsClosed(t *testing.T) {
	gw := newStubGateway()
	gw.outcomes[procRegister] = domain.ProcedureOutcome{Code: 9999, Message: "???"}
	svc := newTestAuthService(gw, newStubStore(), nil)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice", Password: "pw", Phone: "13800000000",
	})
	if domain.KindOf(err) != domain.KindInfrastructure {
		t.Fatalf("expected KindInfrastructure for unknown code, got %v", err)
	}
}

func TestRegister_MissingUserIDFailsClosed(t *testing.T) {
	gw := newStubGateway()
	gw.outcomes[procRegister] = domain.ProcedureOutcome{Code: domain.CodeOK, Out: map[string]any{}}
	svc := newTestAuthService(gw, newStubStore(), nil)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice", Password: "pw", Phone: "13800000000",
	})
	if domain.KindOf(err) != domain.KindInfrastructure {
		t.Fatalf("expected KindInfrastructure, got %v", err)
	}
}

func loginOutcome(userID int64, username, role string) domain.ProcedureOutcome {
	return domain.ProcedureOutcome{
		Code: domain.CodeOK,
		Out: map[string]any{
			"user_id":      userID,
			"username":     username,
			"role":         role,
			"phone":        "13800000000",
			"profile_json": `{"name":"Alice"}`,
		},
	}
}

func TestLogin_Success(t *testing.T) {
	hash, err := HashPassword("Str0ngPw!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	store := newStubStore()
	store.add(&domain.User{ID: 1, Username: "alice", Phone: "13800000000", Role: domain.RolePatient, PasswordHash: hash})

	gw := newStubGateway()
	gw.outcomes[procLoginSimple] = loginOutcome(1, "alice", domain.RolePatient)

	issuer := token.NewIssuer("test-secret", time.Hour)
	svc := NewAuthService(gw, store, issuer, nil, zerolog.Nop())

	res, err := svc.Login(context.Background(), ports.LoginInput{
		LoginName: "13800000000", Password: "Str0ngPw!", LoginType: domain.LoginByPhone,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.UserID != 1 || res.Username != "alice" || res.Role != domain.RolePatient {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Token == "" {
		t.Fatalf("expected token")
	}

	claims, err := issuer.Parse(res.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.UserID != 1 || claims.Role != domain.RolePatient {
		t.Fatalf("token claims mismatch: %+v", claims)
	}
}

func TestLogin_UnknownUserAndWrongPasswordLookAlike(t *testing.T) {
	hash, _ := HashPassword("right")
	store := newStubStore()
	store.add(&domain.User{ID: 1, Username: "alice", Phone: "13800000000", PasswordHash: hash})

	svc := newTestAuthService(newStubGateway(), store, nil)

	_, errGhost := svc.Login(context.Background(), ports.LoginInput{
		LoginName: "ghost", Password: "right", LoginType: domain.LoginByUsername,
	})
	_, errWrong := svc.Login(context.Background(), ports.LoginInput{
		LoginName: "alice", Password: "wrong", LoginType: domain.LoginByUsername,
	})

	if domain.KindOf(errGhost) != domain.KindInvalidCredentials {
		t.Fatalf("unknown user: expected KindInvalidCredentials, got %v", errGhost)
	}
	if domain.KindOf(errWrong) != domain.KindInvalidCredentials {
		t.Fatalf("wrong password: expected KindInvalidCredentials, got %v", errWrong)
	}
	if errGhost.Error() != errWrong.Error() {
		t.Fatalf("failure messages must be identical: %q vs %q", errGhost, errWrong)
	}
}

func TestLogin_RequiresExplicitLoginType(t *testing.T) {
	svc := newTestAuthService(newStubGateway(), newStubStore(), nil)

	_, err := svc.Login(context.Background(), ports.LoginInput{
		LoginName: "13800000000", Password: "pw",
	})
	if domain.KindOf(err) != domain.KindInvalidInput {
		t.Fatalf("expected KindInvalidInput without loginType, got %v", err)
	}
}

func TestLogin_DoctorCode(t *testing.T) {
	hash, _ := HashPassword("doctorpw")
	store := newStubStore()
	store.doctorHash["D-100"] = hash

	gw := newStubGateway()
	gw.outcomes[procLoginSimple] = loginOutcome(7, "drwho", domain.RoleDoctor)

	svc := newTestAuthService(gw, store, nil)

	res, err := svc.Login(context.Background(), ports.LoginInput{
		LoginName: "D-100", Password: "doctorpw", LoginType: domain.LoginByDoctorCode, UserType: domain.RoleDoctor,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Role != domain.RoleDoctor {
		t.Fatalf("expected DOCTOR role, got %s", res.Role)
	}
}

func TestLogin_ProcedureWithoutUserIDFails(t *testing.T) {
	hash, _ := HashPassword("pw")
	store := newStubStore()
	store.add(&domain.User{ID: 1, Username: "alice", Phone: "13800000000", PasswordHash: hash})

	gw := newStubGateway()
	gw.outcomes[procLoginSimple] = domain.ProcedureOutcome{Code: domain.CodeOK, Out: map[string]any{}}

	svc := newTestAuthService(gw, store, nil)

	_, err := svc.Login(context.Background(), ports.LoginInput{
		LoginName: "alice", Password: "pw", LoginType: domain.LoginByUsername,
	})
	if domain.KindOf(err) != domain.KindInvalidCredentials {
		t.Fatalf("expected KindInvalidCredentials, got %v", err)
	}
}

func TestLogin_InfrastructureOutcome(t *testing.T) {
	hash, _ := HashPassword("pw")
	store := newStubStore()
	store.add(&domain.User{ID: 1, Username: "alice", Phone: "13800000000", PasswordHash: hash})

	gw := newStubGateway()
	gw.outcomes[procLoginSimple] = domain.ProcedureOutcome{
		Code:    domain.CodeInfrastructure,
		Message: "connection reset",
	}

	svc := newTestAuthService(gw, store, nil)

	_, err := svc.Login(context.Background(), ports.LoginInput{
		LoginName: "alice", Password: "pw", LoginType: domain.LoginByUsername,
	})
	if domain.KindOf(err) != domain.KindInfrastructure {
		t.Fatalf("expected KindInfrastructure, got %v", err)
	}
}

func TestLogout_RevokesRemainingValidity(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Hour)
	signed, claims, err := issuer.Issue(1, domain.RolePatient)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rev := newStubRevoker()
	svc := NewAuthService(newStubGateway(), newStubStore(), issuer, rev, zerolog.Nop())

	if err := svc.Logout(context.Background(), signed); err != nil {
		t.Fatalf("logout: %v", err)
	}
	ttl, ok := rev.revoked[claims.TokenID]
	if !ok {
		t.Fatalf("token id not revoked")
	}
	if ttl <= 0 || ttl > time.Hour {
		t.Fatalf("unexpected revocation ttl: %v", ttl)
	}
}

func TestLogout_RejectsInvalidToken(t *testing.T) {
	svc := newTestAuthService(newStubGateway(), newStubStore(), newStubRevoker())
	if err := svc.Logout(context.Background(), "junk"); domain.KindOf(err) != domain.KindUnauthorized {
		t.Fatalf("expected KindUnauthorized, got %v", err)
	}
}

func TestUserInfo_MapsOutParameters(t *testing.T) {
	gw := newStubGateway()
	gw.outcomes[procGetInfo] = domain.ProcedureOutcome{
		Code: domain.CodeOK,
		Out: map[string]any{
			"username":     "alice",
			"role":         domain.RolePatient,
			"phone":        "13800000000",
			"id_number":    "110101199001011234",
			"profile_json": `{"name":"Alice"}`,
		},
	}
	svc := newTestAuthService(gw, newStubStore(), nil)

	info, err := svc.UserInfo(context.Background(), 1)
	if err != nil {
		t.Fatalf("user info: %v", err)
	}
	if info.UserID != 1 || info.Username != "alice" || info.IDNumber == "" {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestUserInfo_NotFound(t *testing.T) {
	gw := newStubGateway()
	gw.outcomes[procGetInfo] = domain.ProcedureOutcome{
		Code:    domain.CodeUserNotFound,
		Message: "User not found",
	}
	svc := newTestAuthService(gw, newStubStore(), nil)

	if _, err := svc.UserInfo(context.Background(), 999); domain.KindOf(err) != domain.KindUserNotFound {
		t.Fatalf("expected KindUserNotFound, got %v", err)
	}
}
