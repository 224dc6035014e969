package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-service/portal-service/apperrors"
	"social-service/portal-service/identity"
	"social-service/portal-service/models"
	"social-service/portal-service/services"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if ok {
		w.Header().Set("X-Email", id.Email)
	}
	w.WriteHeader(http.StatusNoContent)
}

func signed(t *testing.T, v *identity.JWTVerifier, email string) string {
	t.Helper()
	token, err := v.Sign(models.Identity{Email: email}, time.Minute)
	require.NoError(t, err)
	return token
}

func TestTokenFrom(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", TokenFrom(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("x-access-token", "def")
	assert.Equal(t, "def", TokenFrom(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("token", "ghi")
	assert.Equal(t, "ghi", TokenFrom(r))
}

func TestAuthenticate(t *testing.T) {
	v := identity.NewJWTVerifier("secret")
	h := Authenticate(v)(http.HandlerFunc(okHandler))

	t.Run("anonymous passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Email"))
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed(t, v, "a@uca.edu.sv"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "a@uca.edu.sv", rec.Header().Get("X-Email"))
	})

	t.Run("bad token refused", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unauthorized", body["kind"])
	})
}

type stubResolver struct {
	admins map[string]bool
}

func (s stubResolver) ResolveAdmin(_ context.Context, email string) (*services.AdminPrincipal, error) {
	if s.admins[email] {
		return &services.AdminPrincipal{Email: email, Source: "administrator"}, nil
	}
	return nil, apperrors.Forbidden("administrator access required")
}

func TestRequireAdmin(t *testing.T) {
	v := identity.NewJWTVerifier("secret")
	h := Authenticate(v)(RequireAdmin(stubResolver{admins: map[string]bool{"boss@uca.edu.sv": true}})(http.HandlerFunc(okHandler)))

	tests := []struct {
		name  string
		email string
		want  int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"student", "s@uca.edu.sv", http.StatusForbidden},
		{"admin", "boss@uca.edu.sv", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/petition/x/approve", nil)
			if tt.email != "" {
				req.Header.Set("Authorization", "Bearer "+signed(t, v, tt.email))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(apperrors.NotFound("x")))
	assert.Equal(t, http.StatusBadRequest, StatusFor(apperrors.CapacityConflict("x")))
	assert.Equal(t, http.StatusBadRequest, StatusFor(apperrors.StateConflict("x")))
	assert.Equal(t, http.StatusForbidden, StatusFor(apperrors.Forbidden("x")))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(assert.AnError))
}

func TestWriteErrorHidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), apperrors.Internal(assert.AnError, "db down"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestRateLimiter(t *testing.T) {
	h := NewRateLimiter(0.001, 2).Middleware(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	l := NewRateLimiter(1, 1)
	clock := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	for i := 0; i < 100; i++ {
		l.limiter(fmt.Sprintf("10.0.%d.%d", i/250, i%250))
	}
	require.Len(t, l.clients, 100)

	clock = clock.Add(defaultLimiterIdleTTL / 2)
	l.limiter("10.9.9.9")
	assert.Len(t, l.clients, 101, "nothing is idle yet")

	clock = clock.Add(defaultLimiterIdleTTL)
	l.limiter("10.0.0.1")
	assert.Len(t, l.clients, 1)
	assert.Contains(t, l.clients, "10.0.0.1")
}

func TestRateLimiterKeepsActiveClients(t *testing.T) {
	l := NewRateLimiter(0.001, 1)
	clock := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	first := l.limiter("10.0.0.1")
	require.True(t, first.Allow())
	for i := 0; i < 5; i++ {
		clock = clock.Add(defaultLimiterIdleTTL / 2)
		assert.Same(t, first, l.limiter("10.0.0.1"))
	}
}

func TestRequestLoggerSetsID(t *testing.T) {
	var seen string
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
}
