package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blog-platform/pkg/token"
	"blog-platform/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newRouter(m *token.Manager) chi.Router {
	log := zap.NewNop()
	r := chi.NewRouter()
	r.Use(Recover(log))
	r.With(Authenticate(m, log)).Get("/me", func(w http.ResponseWriter, r *http.Request) {
		p, ok := utils.GetPrincipal(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(p.AccountID.String() + "|" + p.Role))
	})
	r.With(Authenticate(m, log), RequireRole("ADMIN", log)).Get("/admin", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func do(t *testing.T, h http.Handler, path, auth string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	m := token.NewManager(testSecret, 7*24*time.Hour)
	r := newRouter(m)
	id := uuid.New()

	raw, _, err := m.Issue(id, "USER")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bearer without token", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusForbidden},
		{"valid", "Bearer " + raw, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, r, "/me", tc.header)
			assert.Equal(t, tc.want, rec.Code)
		})
	}

	rec := do(t, r, "/me", "Bearer "+raw)
	assert.Equal(t, id.String()+"|USER", rec.Body.String())
}

func TestAuthenticate_RejectsForeignSignature(t *testing.T) {
	other := token.NewManager("another-secret", time.Hour)
	raw, _, err := other.Issue(uuid.New(), "ADMIN")
	require.NoError(t, err)

	rec := do(t, newRouter(token.NewManager(testSecret, time.Hour)), "/me", "Bearer "+raw)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired token")
}

func TestAuthenticate_RejectsExpired(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	m := token.NewManager(testSecret, 7*24*time.Hour, token.WithClock(func() time.Time { return clock() }))

	raw, _, err := m.Issue(uuid.New(), "USER")
	require.NoError(t, err)

	r := newRouter(m)
	require.Equal(t, http.StatusOK, do(t, r, "/me", "Bearer "+raw).Code)

	later := now.Add(7*24*time.Hour + time.Minute)
	clock = func() time.Time { return later }
	assert.Equal(t, http.StatusForbidden, do(t, r, "/me", "Bearer "+raw).Code)
}

func TestAuthenticate_MissingSecretRejectsAll(t *testing.T) {
	signer := token.NewManager(testSecret, time.Hour)
	raw, _, err := signer.Issue(uuid.New(), "USER")
	require.NoError(t, err)

	rec := do(t, newRouter(token.NewManager("", time.Hour)), "/me", "Bearer "+raw)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole(t *testing.T) {
	m := token.NewManager(testSecret, time.Hour)
	r := newRouter(m)

	user, _, err := m.Issue(uuid.New(), "USER")
	require.NoError(t, err)
	admin, _, err := m.Issue(uuid.New(), "ADMIN")
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, do(t, r, "/admin", "Bearer "+user).Code)
	assert.Equal(t, http.StatusNoContent, do(t, r, "/admin", "Bearer "+admin).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, r, "/admin", "").Code)
}

func TestRequireRole_WithoutAuthenticate(t *testing.T) {
	h := RequireRole("ADMIN", zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":false,"message":"Internal server error"}`, rec.Body.String())
}

func TestRateLimitByIP(t *testing.T) {
	h := RateLimitByIP(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
