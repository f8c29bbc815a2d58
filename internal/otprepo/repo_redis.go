// Package otprepo manages storage of pending registration codes.
package otprepo

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mkovtun/minibank/internal/domain"
	"github.com/mkovtun/minibank/pkg/errorspkg"
)

const keyPrefix = "otp:"

// RepoRedis keeps one-time codes in redis, keyed by phone, expiring with the
// key TTL. Nothing else cleans them up.
type RepoRedis struct {
	client *redis.Client
}

// NewRepoRedis returns otp RepoRedis.
func NewRepoRedis(client *redis.Client) *RepoRedis {
	return &RepoRedis{client: client}
}

// Set stores the code for the phone with the given TTL, replacing any
// previous code.
func (r *RepoRedis) Set(ctx context.Context, phone, code string, ttl time.Duration) error {
	l := zerolog.Ctx(ctx)

	if err := r.client.Set(ctx, keyPrefix+phone, code, ttl).Err(); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

// Get returns the pending code for the phone.
func (r *RepoRedis) Get(ctx context.Context, phone string) (string, error) {
	l := zerolog.Ctx(ctx)

	code, err := r.client.Get(ctx, keyPrefix+phone).Result()
	if err != nil {
		if err == redis.Nil {
			return "", domain.ErrOTPNotFound
		}

		l.Error().Err(err).Send()

		return "", errorspkg.ErrInternal
	}

	return code, nil
}

// Delete removes the pending code for the phone.
func (r *RepoRedis) Delete(ctx context.Context, phone string) error {
	l := zerolog.Ctx(ctx)

	if err := r.client.Del(ctx, keyPrefix+phone).Err(); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}
