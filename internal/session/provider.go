package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"shopfront/internal/model"
)

// keyPrefix namespaces session keys in Redis.
const keyPrefix = "session:"

// Provider obtains or creates the anonymous identity for a device.
type Provider interface {
	// EnsureSession returns the session for the given token if it is
	// still valid, creating and persisting a new anonymous session
	// otherwise. The boolean reports whether a new session was
	// created. Failures wrap model.ErrAuthUnavailable; callers treat
	// a missing session as "cart operations are no-ops".
	EnsureSession(ctx context.Context, token string) (model.Session, bool, error)
}

// redisProvider stores anonymous sessions in Redis under
// "session:<id>" with a sliding TTL, the session value being the
// creation timestamp.
type redisProvider struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisProvider creates a Redis-backed session provider. Sessions
// expire after ttl of inactivity; every EnsureSession on a live
// session extends it.
func NewRedisProvider(client *redis.Client, ttl time.Duration, logger zerolog.Logger) Provider {
	return &redisProvider{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "session-provider").Logger(),
	}
}

// EnsureSession validates the presented token against Redis and falls
// back to creating a fresh anonymous session.
func (p *redisProvider) EnsureSession(ctx context.Context, token string) (model.Session, bool, error) {
	if token != "" {
		sess, err := p.lookup(ctx, token)
		if err == nil {
			return sess, false, nil
		}
		if !errors.Is(err, redis.Nil) {
			p.logger.Error().Err(err).Msg("failed to look up session")
			return model.Session{}, false, fmt.Errorf("%w: lookup session: %v", model.ErrAuthUnavailable, err)
		}
		p.logger.Debug().Msg("presented session token expired or unknown, creating a new session")
	}

	return p.create(ctx)
}

func (p *redisProvider) lookup(ctx context.Context, token string) (model.Session, error) {
	id, err := uuid.Parse(token)
	if err != nil {
		// Malformed tokens are treated like expired ones.
		return model.Session{}, redis.Nil
	}

	raw, err := p.client.Get(ctx, keyPrefix+id.String()).Result()
	if err != nil {
		return model.Session{}, err
	}

	createdAt, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return model.Session{}, fmt.Errorf("corrupt session record: %w", err)
	}

	// Sliding expiry: touching the session keeps the device's cart
	// alive for as long as it keeps visiting.
	if err := p.client.Expire(ctx, keyPrefix+id.String(), p.ttl).Err(); err != nil {
		p.logger.Warn().Err(err).Str("session_id", id.String()).Msg("failed to extend session TTL")
	}

	return model.Session{ID: id, CreatedAt: createdAt}, nil
}

func (p *redisProvider) create(ctx context.Context) (model.Session, bool, error) {
	sess := model.Session{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
	}

	// SetNX so a freshly generated id can never clobber an existing
	// record, however unlikely a uuid collision is.
	ok, err := p.client.SetNX(ctx, keyPrefix+sess.ID.String(), sess.CreatedAt.Format(time.RFC3339Nano), p.ttl).Result()
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to create anonymous session")
		return model.Session{}, false, fmt.Errorf("%w: create session: %v", model.ErrAuthUnavailable, err)
	}
	if !ok {
		return model.Session{}, false, fmt.Errorf("%w: session id collision", model.ErrAuthUnavailable)
	}

	p.logger.Info().
		Str("session_id", sess.ID.String()).
		Msg("anonymous session created")

	return sess, true, nil
}
