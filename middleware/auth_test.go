package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aquablue/aquablue-server/config"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenClaims(subject, scope string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: subject},
		CustomClaims:     &CustomClaims{Scope: scope},
	}
}

func TestCustomClaims_HasScope(t *testing.T) {
	tests := []struct {
		name  string
		scope string
		want  bool
	}{
		{name: "only scope", scope: "read:orders", want: true},
		{name: "among others", scope: "openid read:messages read:orders", want: true},
		{name: "extra whitespace", scope: "  read:orders  ", want: true},
		{name: "different scope", scope: "write:orders", want: false},
		{name: "prefix only", scope: "read", want: false},
		{name: "empty", scope: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CustomClaims{Scope: tt.scope}.HasScope(ReadOrdersScope))
		})
	}
}

func TestGetClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := GetClaims(c)
	assert.ErrorIs(t, err, ErrNoClaims)

	c.Set(contextKeyClaims, "not claims")
	_, err = GetClaims(c)
	assert.Error(t, err)

	want := tokenClaims("auth0|ops", ReadOrdersScope)
	c.Set(contextKeyClaims, want)
	got, err := GetClaims(c)
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestAdminIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "anonymous", AdminIdentity(c))

	c.Set(gin.AuthUserKey, "ops")
	assert.Equal(t, "ops", AdminIdentity(c))

	c.Set(contextKeyOperator, "auth0|123")
	assert.Equal(t, "auth0|123", AdminIdentity(c), "token subject wins over basic auth")
}

func TestRequireScope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		claims     *validator.ValidatedClaims
		wantStatus int
	}{
		{name: "granted", claims: tokenClaims("auth0|ops", "read:orders read:messages"), wantStatus: http.StatusOK},
		{name: "missing scope", claims: tokenClaims("auth0|intern", "read:messages"), wantStatus: http.StatusForbidden},
		{name: "no token", claims: nil, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/admin", func(c *gin.Context) {
				if tt.claims != nil {
					c.Set(contextKeyClaims, tt.claims)
				}
				c.Next()
			}, RequireScope(ReadOrdersScope), func(c *gin.Context) {
				c.String(http.StatusOK, "admin")
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				assert.NotEqual(t, "admin", w.Body.String())
			}
		})
	}
}

func adminRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	guard, err := AdminAccess(cfg)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/admin", append(guard, func(c *gin.Context) {
		c.String(http.StatusOK, AdminIdentity(c))
	})...)
	return router
}

func TestAdminAccessOpenWhenUnconfigured(t *testing.T) {
	router := adminRouter(t, &config.Config{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestAdminAccessWarnsWhenOpen(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	tests := []struct {
		env      string
		wantWarn bool
	}{
		{env: "production", wantWarn: true},
		{env: "development", wantWarn: true},
		{env: "test", wantWarn: false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			var buf bytes.Buffer
			slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

			guard, err := AdminAccess(&config.Config{GoEnv: tt.env})
			require.NoError(t, err)
			assert.Empty(t, guard)
			assert.Equal(t, tt.wantWarn, strings.Contains(buf.String(), "admin routes are not protected"))
		})
	}
}

func TestAdminAccessBasicAuth(t *testing.T) {
	router := adminRouter(t, &config.Config{AdminUsername: "ops", AdminPassword: "hunter2"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Aqua Blue Admin")

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.SetBasicAuth("ops", "wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.SetBasicAuth("ops", "hunter2")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ops", w.Body.String())
}

func TestAdminAccessJWT(t *testing.T) {
	router := adminRouter(t, &config.Config{
		Auth0Domain:   "aquablue.eu.auth0.com",
		Auth0Audience: "https://api.aquablue.in",
	})

	for name, header := range map[string]string{
		"missing token":   "",
		"malformed token": "Bearer not.a.jwt",
		"wrong scheme":    "Basic b3BzOmh1bnRlcjI=",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"Failed to validate JWT."}`, w.Body.String())
		})
	}
}
