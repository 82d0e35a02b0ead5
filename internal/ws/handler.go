package ws

import (
	"context"
	"net/http"

	"crypto_cashier/internal/apperr"
	"crypto_cashier/internal/domain"
	"crypto_cashier/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Authenticator resolves a session token into a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
}

// HandleWS upgrades admin sessions to the event feed. Browsers cannot set
// headers on a websocket handshake, so the token comes from ?token= or the
// session cookie.
func HandleWS(hub *Hub, auth Authenticator, allowedOrigins []string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}

	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token, _ = c.Cookie("session")
		}

		p, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err), "code": apperr.KindOf(err)})
			return
		}
		if p.Role != domain.RoleAdmin && p.Role != domain.RoleOperator {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required", "code": apperr.KindForbidden})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the error response
			logger.Warn("ws upgrade error", "error", err, "user_id", p.UserID)
			return
		}

		go NewClient(p, conn, hub).Run()
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}
