package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/pkg/encrypter"
	"ndr-srv/pkg/scope"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger implements log.Logger for testing
type testLogger struct{}

func (m *testLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *testLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *testLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *testLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *testLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *testLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *testLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *testLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *testLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *testLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *testLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *testLogger) Panicf(ctx context.Context, template string, arg ...any)  {}
func (m *testLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *testLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}

const testSecret = "middleware-test-secret"

func newTestRouter(t *testing.T, keyHash string) (*gin.Engine, scope.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	manager := scope.New(testSecret)
	mw := New(&testLogger{}, manager, keyHash)

	r := gin.New()
	r.GET("/private", mw.Auth(), func(c *gin.Context) {
		sc := scope.GetScopeFromContext(c.Request.Context())
		c.String(http.StatusOK, sc.UserID+"|"+sc.Role)
	})
	r.POST("/internal", mw.InternalAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, manager
}

func TestAuth(t *testing.T) {
	r, manager := newTestRouter(t, "")
	token, err := manager.CreateToken(scope.Payload{UserID: "u-1", Username: "ops", Role: model.RoleSupervisor})
	require.NoError(t, err)

	tcs := map[string]struct {
		header   string
		wantCode int
		wantBody string
	}{
		"missing header": {wantCode: http.StatusUnauthorized},
		"wrong scheme":   {header: "Basic abc", wantCode: http.StatusUnauthorized},
		"bad token":      {header: "Bearer nope", wantCode: http.StatusUnauthorized},
		"valid token":    {header: "Bearer " + token, wantCode: http.StatusOK, wantBody: "u-1|SUPERVISOR"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantCode, w.Code)
			if tc.wantBody != "" {
				assert.Equal(t, tc.wantBody, w.Body.String())
			}
		})
	}
}

func TestInternalAuth(t *testing.T) {
	hash, err := encrypter.HashSecret("internal-key")
	require.NoError(t, err)
	r, _ := newTestRouter(t, hash)

	tcs := map[string]struct {
		key      string
		wantCode int
	}{
		"missing key": {wantCode: http.StatusUnauthorized},
		"wrong key":   {key: "other", wantCode: http.StatusUnauthorized},
		"valid key":   {key: "internal-key", wantCode: http.StatusOK},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/internal", nil)
			if tc.key != "" {
				req.Header.Set(internalKeyHeader, tc.key)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.wantCode, w.Code)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(DefaultCORSConfig("https://ops.example.com")))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequestWithContext(context.Background(), http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://ops.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://ops.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Internal-Key")
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(RateLimitConfig{Limit: 2, Window: time.Minute})
	rl.clock = func() time.Time { return now }

	require.NoError(t, rl.Allow("op-1"))
	require.NoError(t, rl.Allow("op-1"))

	err := rl.Allow("op-1")
	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, 2, rlErr.Max)

	// other operators have their own window
	assert.NoError(t, rl.Allow("op-2"))

	now = now.Add(61 * time.Second)
	assert.NoError(t, rl.Allow("op-1"))

	rl.cleanup()
	assert.Len(t, rl.timestamps, 1)
}

func TestRateLimit_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := scope.New(testSecret)
	mw := New(&testLogger{}, manager, "").WithRateLimiter(NewRateLimiter(RateLimitConfig{Limit: 1, Window: time.Hour}))

	r := gin.New()
	r.POST("/send", mw.Auth(), mw.RateLimit(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token, err := manager.CreateToken(scope.Payload{UserID: "op-1", Username: "op", Role: model.RoleOperator})
	require.NoError(t, err)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/send", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestRateLimit_NoLimiterPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mw := New(&testLogger{}, scope.New(testSecret), "")

	r := gin.New()
	r.GET("/x", mw.RateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for range 3 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

type capturingLogger struct {
	testLogger
	mu     sync.Mutex
	errors []string
}

func (m *capturingLogger) Errorf(ctx context.Context, template string, arg ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, fmt.Sprintf(template, arg...))
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tcs := map[string]struct {
		scope        *model.Scope
		written      bool
		wantCode     int
		wantOperator string
	}{
		"anonymous": {wantCode: http.StatusInternalServerError, wantOperator: "Operator: anonymous"},
		"operator": {
			scope:        &model.Scope{UserID: "op-7", Role: model.RoleOperator},
			wantCode:     http.StatusInternalServerError,
			wantOperator: "Operator: op-7/OPERATOR",
		},
		"already written": {written: true, wantCode: http.StatusAccepted, wantOperator: "Operator: anonymous"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			l := &capturingLogger{}
			r := gin.New()
			r.Use(Recovery(l, nil))
			r.POST("/api/v1/actions/:id/approve", func(c *gin.Context) {
				if tc.scope != nil {
					c.Request = c.Request.WithContext(scope.SetScopeToContext(c.Request.Context(), *tc.scope))
				}
				if tc.written {
					c.Status(http.StatusAccepted)
					c.Writer.WriteHeaderNow()
				}
				panic("boom")
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/actions/a-1/approve", nil))

			assert.Equal(t, tc.wantCode, w.Code)
			require.Len(t, l.errors, 1)
			assert.Contains(t, l.errors[0], "boom")
			assert.Contains(t, l.errors[0], "Route: /api/v1/actions/:id/approve")
			assert.Contains(t, l.errors[0], tc.wantOperator)
		})
	}
}

func TestRecovery_AbortHandlerPropagates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := &capturingLogger{}
	r := gin.New()
	r.Use(Recovery(l, nil))
	r.GET("/stream", func(c *gin.Context) {
		panic(http.ErrAbortHandler)
	})

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/stream", nil))
	})
	assert.Empty(t, l.errors)
}
