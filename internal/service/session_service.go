package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Revoked tokens without an expiry are remembered this long.
const defaultRevocationTTL = 24 * time.Hour

// SessionService ends sessions by revoking the bearer token that carried them.
type SessionService interface {
	SignOut(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type sessionService struct {
	store  *redis.Client
	logger zerolog.Logger
	now    func() time.Time
}

// NewSessionService constructs the session service. A nil store makes sign-out client side only.
func NewSessionService(store *redis.Client, logger zerolog.Logger) SessionService {
	return &sessionService{
		store:  store,
		logger: logger.With().Str("component", "session_service").Logger(),
		now:    time.Now,
	}
}

func (s *sessionService) SignOut(ctx context.Context, tokenID string, expiresAt time.Time) error {
	tokenID = strings.TrimSpace(tokenID)
	if s.store == nil || tokenID == "" {
		s.logger.Debug().Msg("sign-out without revocable token")
		return nil
	}

	ttl := defaultRevocationTTL
	if !expiresAt.IsZero() {
		ttl = expiresAt.Sub(s.now())
		if ttl <= 0 {
			return nil
		}
		if ttl < time.Second {
			ttl = time.Second
		}
	}

	if err := s.store.Set(ctx, revocationKey(tokenID), "1", ttl).Err(); err != nil {
		return transportError("revoke token", err)
	}
	s.logger.Info().Str("token_id", tokenID).Dur("ttl", ttl).Msg("token revoked")
	return nil
}

func (s *sessionService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	tokenID = strings.TrimSpace(tokenID)
	if s.store == nil || tokenID == "" {
		return false, nil
	}
	err := s.store.Get(ctx, revocationKey(tokenID)).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, transportError("read revocation", err)
	}
}

func revocationKey(tokenID string) string {
	return fmt.Sprintf("auth:revoked:%s", tokenID)
}
