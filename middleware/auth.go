package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aquablue/aquablue-server/config"
	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
)

// ReadOrdersScope grants access to the admin listing and the order listing API
const ReadOrdersScope = "read:orders"

// CustomClaims carries the space-separated scope list of an admin token
type CustomClaims struct {
	Scope string `json:"scope"`
}

// Validate satisfies validator.CustomClaims; scopes are checked per route by RequireScope.
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// HasScope reports whether expectedScope is one of the granted scopes.
func (c CustomClaims) HasScope(expectedScope string) bool {
	for _, scope := range strings.Fields(c.Scope) {
		if scope == expectedScope {
			return true
		}
	}
	return false
}

// AdminAccess returns the handlers guarding operator-only routes.
// Auth0 JWTs with the read:orders scope are required when AUTH0_DOMAIN is set;
// otherwise HTTP basic auth when admin credentials are set; otherwise nothing,
// with a warning outside the test environment.
func AdminAccess(cfg *config.Config) (gin.HandlersChain, error) {
	switch {
	case cfg.Auth0Domain != "":
		ensureToken, err := EnsureValidToken(cfg)
		if err != nil {
			return nil, err
		}
		return gin.HandlersChain{ensureToken, RequireScope(ReadOrdersScope)}, nil
	case cfg.AdminUsername != "":
		return gin.HandlersChain{gin.BasicAuthForRealm(gin.Accounts{
			cfg.AdminUsername: cfg.AdminPassword,
		}, "Aqua Blue Admin")}, nil
	default:
		if !cfg.IsTest() {
			slog.Warn("admin routes are not protected; set AUTH0_DOMAIN or ADMIN_USERNAME/ADMIN_PASSWORD")
		}
		return gin.HandlersChain{}, nil
	}
}

// EnsureValidToken rejects requests without a valid RS256 token from the configured Auth0 tenant.
func EnsureValidToken(cfg *config.Config) (gin.HandlerFunc, error) {
	issuerURL, err := url.Parse("https://" + cfg.Auth0Domain + "/")
	if err != nil {
		return nil, fmt.Errorf("failed to parse the issuer url: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.Auth0Audience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the jwt validator: %w", err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		slog.Warn("rejected admin token", "path", r.URL.Path, "error", err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"error":"Failed to validate JWT."}`)); writeErr != nil {
			slog.Error("failed to write error response", "error", writeErr)
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		passed := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			passed = true
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)

			c.Set(contextKeyOperator, token.RegisteredClaims.Subject)
			c.Set(contextKeyClaims, token)
			c.Request = r
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
			return
		}
		c.Next()
	}, nil
}

// ErrNoClaims is returned when a request carries no validated token
var ErrNoClaims = errors.New("token claims not found in context")

const (
	contextKeyOperator = "admin_operator"
	contextKeyClaims   = "validated_claims"
)

// AdminIdentity names the operator behind an admin request: the token subject,
// the basic-auth user, or "anonymous" when admin routes are open.
func AdminIdentity(c *gin.Context) string {
	if subject := c.GetString(contextKeyOperator); subject != "" {
		return subject
	}
	if user := c.GetString(gin.AuthUserKey); user != "" {
		return user
	}
	return "anonymous"
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, ok := c.Get(contextKeyClaims)
	if !ok {
		return nil, ErrNoClaims
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", claims)
	}

	return validatedClaims, nil
}

// RequireScope aborts with 403 unless the validated token grants scope
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := GetClaims(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not retrieve token claims"})
			return
		}

		customClaims, ok := claims.CustomClaims.(*CustomClaims)
		if !ok || !customClaims.HasScope(scope) {
			slog.Warn("admin token lacks scope", "operator", AdminIdentity(c), "scope", scope)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions to access this resource"})
			return
		}

		c.Next()
	}
}
