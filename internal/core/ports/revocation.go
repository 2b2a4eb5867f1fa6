package ports

import (
	"context"
	"time"
)

// TokenRevoker is the logout deny-list. Revoked token ids live only as long
// as the token itself would have; after that the entry is useless and the
// store may drop it.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
