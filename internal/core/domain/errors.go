package domain

import "net/http"

// ErrorKind is the closed set of failure categories this service surfaces.
// Each kind owns a stable numeric code that appears in the response envelope
// and is the code stored procedures report through their errcode parameter.
type ErrorKind int

const (
	KindOK ErrorKind = iota
	KindDuplicateUsername
	KindInvalidCredentials
	KindUserNotFound
	KindWeakPassword
	KindInvalidInput
	KindUnauthorized
	KindInvalidPassword
	KindInfrastructure
)

// Numeric codes for each kind. The database procedures emit the 1xxx codes;
// CodeInfrastructure is reserved for faults synthesized inside the service
// (driver errors, timeouts, protocol violations).
const (
	CodeOK                 = 0
	CodeDuplicateUsername  = 1001
	CodeInvalidCredentials = 1002
	CodeUserNotFound       = 1003
	CodeWeakPassword       = 1004
	CodeInvalidInput       = 1005
	CodeUnauthorized       = 1006
	CodeInvalidPassword    = 1007
	CodeInfrastructure     = 2001
)

var kindToCode = map[ErrorKind]int{
	KindOK:                 CodeOK,
	KindDuplicateUsername:  CodeDuplicateUsername,
	KindInvalidCredentials: CodeInvalidCredentials,
	KindUserNotFound:       CodeUserNotFound,
	KindWeakPassword:       CodeWeakPassword,
	KindInvalidInput:       CodeInvalidInput,
	KindUnauthorized:       CodeUnauthorized,
	KindInvalidPassword:    CodeInvalidPassword,
	KindInfrastructure:     CodeInfrastructure,
}

// codeToKind is the reverse lookup, built once at init rather than scanned
// per classification.
var codeToKind = func() map[int]ErrorKind {
	m := make(map[int]ErrorKind, len(kindToCode))
	for k, c := range kindToCode {
		m[c] = k
	}
	return m
}()

// Classify maps a numeric result code to its ErrorKind. Codes that are not in
// the table classify as KindInfrastructure — an unknown code must never pass
// as success.
func Classify(code int) ErrorKind {
	if k, ok := codeToKind[code]; ok {
		return k
	}
	return KindInfrastructure
}

// Code returns the stable numeric code for the kind.
func (k ErrorKind) Code() int {
	if c, ok := kindToCode[k]; ok {
		return c
	}
	return CodeInfrastructure
}

// HTTPStatus returns the transport status for the kind. Authentication
// failures and "no such user" share 401 so responses cannot be used to probe
// which accounts exist.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindOK:
		return http.StatusOK
	case KindDuplicateUsername, KindWeakPassword, KindInvalidInput:
		return http.StatusBadRequest
	case KindInvalidCredentials, KindUnauthorized, KindUserNotFound, KindInvalidPassword:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (k ErrorKind) String() string {
	switch k {
	case KindOK:
		return "OK"
	case KindDuplicateUsername:
		return "DUPLICATE_USERNAME"
	case KindInvalidCredentials:
		return "INVALID_CREDENTIALS"
	case KindUserNotFound:
		return "USER_NOT_FOUND"
	case KindWeakPassword:
		return "WEAK_PASSWORD"
	case KindInvalidInput:
		return "INVALID_INPUT"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindInvalidPassword:
		return "INVALID_PASSWORD"
	default:
		return "INFRASTRUCTURE_ERROR"
	}
}

// Error carries an ErrorKind with request-specific context. It is the only
// error shape the service layer lets escape to the HTTP layer.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Message
}

// NewError builds a kind-carrying error. An empty message falls back to the
// kind's name.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the ErrorKind from err, defaulting to KindInfrastructure
// for anything that is not a *Error. Failing closed keeps unexpected errors
// out of the success path.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindOK
	}
	if de, ok := err.(*Error); ok {
		return de.Kind
	}
	return KindInfrastructure
}
