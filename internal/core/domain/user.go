package domain

import (
	"encoding/json"
	"time"
)

// Roles an account can hold. The role travels inside the signed token and is
// what RBAC checks downstream.
const (
	RolePatient = "PATIENT"
	RoleDoctor  = "DOCTOR"
	RoleAdmin   = "ADMIN"
)

// ValidRole reports whether r is one of the known account roles.
func ValidRole(r string) bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// Login identifier types. Callers state explicitly which identifier they are
// presenting; the server never infers it from the value's shape.
const (
	LoginByUsername   = "username"
	LoginByPhone      = "phone"
	LoginByDoctorCode = "doctor_code"
)

// ValidLoginType reports whether t is a recognised login identifier type.
func ValidLoginType(t string) bool {
	switch t {
	case LoginByUsername, LoginByPhone, LoginByDoctorCode:
		return true
	}
	return false
}

// User models a persisted account. The password hash never leaves the server:
// it is excluded from JSON and must never be logged.
type User struct {
	ID           int64           `json:"id"`
	Username     string          `json:"username"`
	PasswordHash string          `json:"-"`
	Role         string          `json:"role"`
	Phone        string          `json:"phone"`
	IDNumber     string          `json:"id_number,omitempty"`
	Profile      json.RawMessage `json:"profile,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
