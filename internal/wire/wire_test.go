package wire

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blog-platform/internal/data/repository"
	"blog-platform/pkg/token"
	"blog-platform/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestApp wires the router without storage; every request below is
// answered before a repository is touched.
func newTestApp(t *testing.T) (*App, *token.Manager) {
	t.Helper()
	tokens := token.NewManager("wire-secret", time.Hour)
	config := &utils.Config{RateLimit: utils.RateLimitConfig{AuthPerMinute: 2}}
	return Wiring(&repository.Repository{}, tokens, nil, nil, config, zap.NewNop()), tokens
}

func serve(app *App, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if auth != "" {
		req.Header.Set("Authorization", "Bearer "+auth)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndMetrics(t *testing.T) {
	app, _ := newTestApp(t)

	rec := serve(app, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = serve(app, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestGuardedRoutes(t *testing.T) {
	app, tokens := newTestApp(t)

	userToken, _, err := tokens.Issue(uuid.New(), "USER")
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		code   int
	}{
		{"me without token", http.MethodGet, "/api/auth/me", "", http.StatusUnauthorized},
		{"me with garbage token", http.MethodGet, "/api/auth/me", "garbage", http.StatusForbidden},
		{"admin without token", http.MethodGet, "/api/admin/stats", "", http.StatusUnauthorized},
		{"admin as user", http.MethodGet, "/api/admin/stats", userToken, http.StatusForbidden},
		{"create post without token", http.MethodPost, "/api/posts", "", http.StatusUnauthorized},
		{"profile without token", http.MethodGet, "/api/users/me", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(app, tt.method, tt.path, tt.auth, "")
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	app, _ := newTestApp(t)

	// malformed bodies are rejected before any service call
	for i := 0; i < 2; i++ {
		rec := serve(app, http.MethodPost, "/api/auth/login", "", "{")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	rec := serve(app, http.MethodPost, "/api/auth/login", "", "{")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
