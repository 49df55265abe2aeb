package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"github.com/medisetu/portal-api/pkg/auth"
	apperrors "github.com/medisetu/portal-api/pkg/errors"
	"github.com/medisetu/portal-api/pkg/httputil"
)

const ContextClaims = "claims"

// claimsCacheTTL bounds how long a verified token is trusted without
// re-verification. Kept short so expiry is still honored promptly.
const claimsCacheTTL = time.Minute

type AuthMiddleware struct {
	tokens auth.TokenService
	cache  *gocache.Cache
}

func NewAuthMiddleware(tokens auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		cache:  gocache.New(claimsCacheTTL, 5*time.Minute),
	}
}

// Authenticate verifies the bearer token and sets the claims in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.ErrorBody{Error: "missing authorization header"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.ErrorBody{Error: "invalid authorization format"})
			return
		}
		token := parts[1]

		if cached, ok := m.cache.Get(token); ok {
			claims := cached.(*auth.Claims)
			if claims.ExpiresAt != nil && time.Now().Before(claims.ExpiresAt.Time) {
				c.Set(ContextClaims, claims)
				c.Next()
				return
			}
			m.cache.Delete(token)
		}

		claims, err := m.tokens.Verify(token)
		if err != nil {
			msg := "invalid token"
			if appErr, ok := apperrors.As(err); ok && appErr.Code == apperrors.ErrExpiredToken {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.ErrorBody{Error: msg})
			return
		}

		m.cache.Set(token, claims, claimsCacheTTL)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose token carries a different role.
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok || claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, httputil.ErrorBody{Error: "forbidden"})
			return
		}
		c.Next()
	}
}

// ClaimsFromContext returns the verified claims set by Authenticate.
func ClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
