package middleware

import (
	"context"
	"strings"

	"crypto_cashier/internal/apperr"
	"crypto_cashier/internal/domain"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the admin JWT for browser clients.
const SessionCookie = "session"

// Authenticator resolves a session token into a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}

// CurrentPrincipal returns the principal attached by Auth.
func CurrentPrincipal(c *gin.Context) (domain.Principal, bool) {
	return PrincipalFrom(c.Request.Context())
}

// Auth requires a valid session from the Authorization header or the
// session cookie and attaches the principal to the request context.
func Auth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := auth.Authenticate(c.Request.Context(), tokenFrom(c))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
		c.Set("user_id", p.UserID)
		c.Set("role", string(p.Role))
		c.Next()
	}
}

// OptionalAuth attaches the principal when a valid session is present and
// lets anonymous requests through.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFrom(c); token != "" {
			if p, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
				c.Set("user_id", p.UserID)
			}
		}
		c.Next()
	}
}

// RequireRole lets through principals holding one of roles. Must run after Auth.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			AbortWithError(c, apperr.Unauthorized("authentication required"))
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		AbortWithError(c, apperr.Forbidden("insufficient role"))
	}
}

func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if token, err := c.Cookie(SessionCookie); err == nil {
		return token
	}
	return ""
}

// AbortWithError writes the standard error body for err.
func AbortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperr.HTTPStatus(err), gin.H{
		"error": apperr.Message(err),
		"code":  apperr.KindOf(err),
	})
}
