package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker"

	"social-service/portal-service/apperrors"
	"social-service/portal-service/logging"
	"social-service/portal-service/models"
)

// GoogleVerifier validates Google ID tokens against the tokeninfo endpoint.
// Calls go through a circuit breaker so an unreachable endpoint fails fast.
type GoogleVerifier struct {
	endpoint string
	audience string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
}

func NewGoogleVerifier(endpoint, audience string, timeout time.Duration) *GoogleVerifier {
	return &GoogleVerifier{
		endpoint: endpoint,
		audience: audience,
		client:   &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "google-tokeninfo",
			MaxRequests: 1,
			Timeout:     10 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 3
			},
			// Refused tokens are answers, not outages.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrInvalidToken)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
			},
		}),
	}
}

type tokenInfo struct {
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Exp           string `json:"exp"`
}

func (g *GoogleVerifier) Verify(ctx context.Context, token string) (*models.Identity, error) {
	res, err := g.breaker.Execute(func() (interface{}, error) {
		return g.tokenInfo(ctx, token)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, invalid(err.Error())
		}
		logging.Logger.WithError(err).Error("Event ID: TOKENINFO_UNAVAILABLE, Description: Token verification service unavailable")
		return nil, apperrors.Internal(err, "token verification unavailable")
	}

	info := res.(*tokenInfo)
	if info.Aud != g.audience {
		return nil, invalid("audience mismatch")
	}
	if info.Email == "" || info.EmailVerified == "false" {
		return nil, invalid("email not verified")
	}
	if exp, err := strconv.ParseInt(info.Exp, 10, 64); err == nil && time.Unix(exp, 0).Before(time.Now()) {
		return nil, invalid("token expired")
	}
	return &models.Identity{
		Subject: info.Sub,
		Email:   strings.ToLower(info.Email),
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}

func (g *GoogleVerifier) tokenInfo(ctx context.Context, token string) (*tokenInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?id_token="+url.QueryEscape(token), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build tokeninfo request")
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "call tokeninfo")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized:
		return nil, errors.Wrapf(ErrInvalidToken, "tokeninfo status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Errorf("tokeninfo status %d", resp.StatusCode)
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errors.Wrap(err, "decode tokeninfo")
	}
	return &info, nil
}
