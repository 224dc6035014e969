// Package identity verifies bearer tokens presented by portal clients and
// turns them into a models.Identity.
package identity

import (
	"context"

	"github.com/pkg/errors"

	"social-service/portal-service/apperrors"
	"social-service/portal-service/config"
	"social-service/portal-service/models"
)

// ErrInvalidToken marks tokens that were checked and refused. It is never a
// sign that the identity provider is unhealthy.
var ErrInvalidToken = errors.New("invalid token")

type Verifier interface {
	Verify(ctx context.Context, token string) (*models.Identity, error)
}

func invalid(reason string) error {
	return apperrors.Wrap(apperrors.KindUnauthorized, errors.Wrap(ErrInvalidToken, reason), "invalid or expired token")
}

// Chain tries each verifier in order and returns the first identity. When
// every verifier refuses the token the last refusal is returned; an
// infrastructure failure is returned only if no verifier accepted the token.
type Chain []Verifier

func (c Chain) Verify(ctx context.Context, token string) (*models.Identity, error) {
	if token == "" {
		return nil, apperrors.Unauthorized("no token provided")
	}
	var refused, failed error
	for _, v := range c {
		id, err := v.Verify(ctx, token)
		if err == nil {
			return id, nil
		}
		if apperrors.Is(err, apperrors.KindUnauthorized) {
			refused = err
		} else {
			failed = err
		}
	}
	if failed != nil {
		return nil, failed
	}
	if refused != nil {
		return nil, refused
	}
	return nil, apperrors.Unauthorized("no token verifier configured")
}

// FromConfig builds the verifier chain enabled by cfg: portal-signed HS256
// tokens when JWT_SECRET is set, then Google ID tokens when GOOGLE_CLIENT_ID
// is set.
func FromConfig(cfg *config.Config) Chain {
	var chain Chain
	if cfg.JWTSecret != "" {
		chain = append(chain, NewJWTVerifier(cfg.JWTSecret))
	}
	if cfg.GoogleClientID != "" {
		chain = append(chain, NewGoogleVerifier(cfg.TokenInfoURL, cfg.GoogleClientID, cfg.TokenTimeout))
	}
	return chain
}
