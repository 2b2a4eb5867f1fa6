package service

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a one-way bcrypt hash with a per-credential salt.
// The raw password is never retained or logged.
func HashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether raw matches the stored hash. bcrypt's
// comparison is constant-time over the digest, so mismatches leak nothing
// about how much of the password was right.
func VerifyPassword(raw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(raw)) == nil
}
