package repositories

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"context"

	"github.com/redis/go-redis/v9"

	"github.com/sbilibin2017/gw-book-rental/internal/logger"
)

// RevokedTokenRepository stores logged-out session tokens in Redis until they
// would have expired on their own.
type RevokedTokenRepository struct {
	client *redis.Client
}

// NewRevokedTokenRepository creates a new repository instance.
func NewRevokedTokenRepository(client *redis.Client) *RevokedTokenRepository {
	return &RevokedTokenRepository{client: client}
}

func revokedTokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("revoked_token:%s", hex.EncodeToString(sum[:]))
}

// Revoke marks a token as revoked for the given remaining lifetime.
func (r *RevokedTokenRepository) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired, nothing to store.
		return nil
	}
	key := revokedTokenKey(token)
	err := r.client.Set(ctx, key, "1", ttl).Err()

	logger.Log.Infow("token revoke",
		"key", key,
		"ttl", ttl,
		"error", err,
	)

	return err
}

// IsRevoked reports whether a token has been revoked.
func (r *RevokedTokenRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	key := revokedTokenKey(token)

	_, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Log.Errorw("token revocation check failed", "key", key, "error", err)
		return false, err
	}
	return true, nil
}
