package ports

import (
	"context"
	"encoding/json"
)

// RegisterInput carries a registration request into the service layer.
type RegisterInput struct {
	Username string
	Password string
	Role     string
	Phone    string
}

// LoginInput carries a login request. LoginType states which identifier
// LoginName is (username, phone, or doctor_code); it is validated, never
// inferred from the value's shape.
type LoginInput struct {
	LoginName string
	Password  string
	LoginType string
	UserType  string
}

// LoginResult is what a successful login returns to the transport layer.
type LoginResult struct {
	UserID   int64           `json:"userId"`
	Username string          `json:"username"`
	Role     string          `json:"role"`
	Profile  json.RawMessage `json:"profile,omitempty"`
	Token    string          `json:"token"`
}

// UserInfo is the profile shape returned by the get-info operations.
type UserInfo struct {
	UserID   int64           `json:"userId"`
	Username string          `json:"username"`
	Role     string          `json:"role"`
	IDNumber string          `json:"idNumber,omitempty"`
	Phone    string          `json:"phone"`
	Profile  json.RawMessage `json:"profile,omitempty"`
}

// AuthService implements registration, login, and token disposal.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (int64, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	UserInfo(ctx context.Context, userID int64) (*UserInfo, error)
}
