package identity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/case-service/internal/config"
)

const cacheKeyPrefix = "scim:user:"

// Resolver looks up identity profiles through a Redis cache in front of
// the SCIM client. Cache failures degrade to a direct lookup; only the
// SCIM call itself can fail the resolution.
type Resolver struct {
	client Client
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewResolver wires the cache-backed resolver. The redis client may be
// nil, in which case every lookup goes to the identity service.
func NewResolver(client Client, redisClient *redis.Client, cfg config.SCIMConfig, logger *zap.Logger) *Resolver {
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Resolver{client: client, redis: redisClient, ttl: ttl, logger: logger}
}

// Resolve returns the profile for an email, serving from cache when the
// entry is fresh.
func (r *Resolver) Resolve(ctx context.Context, email string) (*Profile, error) {
	if cached := r.fromCache(ctx, email); cached != nil {
		return cached, nil
	}

	profile, err := r.client.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	r.toCache(ctx, email, profile)
	return profile, nil
}

func (r *Resolver) fromCache(ctx context.Context, email string) *Profile {
	if r.redis == nil {
		return nil
	}
	raw, err := r.redis.Get(ctx, cacheKeyPrefix+email).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("identity cache read failed", zap.Error(err))
		}
		return nil
	}
	var profile Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		r.logger.Warn("identity cache entry corrupt", zap.String("email", email), zap.Error(err))
		return nil
	}
	return &profile
}

func (r *Resolver) toCache(ctx context.Context, email string, profile *Profile) {
	if r.redis == nil {
		return
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, cacheKeyPrefix+email, raw, r.ttl).Err(); err != nil {
		r.logger.Warn("identity cache write failed", zap.Error(err))
	}
}
