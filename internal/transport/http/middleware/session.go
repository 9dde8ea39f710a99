package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"miniblog/internal/app"
	"miniblog/internal/transport/http/response"
)

const (
	ContextPrincipalKey = "principal"
	ContextTokenKey     = "session_token"

	SessionCookieName = "session_token"
)

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (app.Principal, error)
}

// LoadSession attaches the caller's principal when the request carries a live
// session token. Requests without one, or with a dead one, continue as
// anonymous.
func LoadSession(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.Next()
			return
		}

		principal, err := sessions.Resolve(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(ContextPrincipalKey, principal)
			c.Set(ContextTokenKey, token)
		case !errors.Is(err, app.ErrUnauthorized):
			log.Printf("resolve session failed: %v", err)
		}
		c.Next()
	}
}

// RequireLogin rejects anonymous callers with 401.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := app.Require(PrincipalFrom(c)); err != nil {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, err.Error())
			return
		}
		c.Next()
	}
}

func PrincipalFrom(c *gin.Context) app.Principal {
	value, exists := c.Get(ContextPrincipalKey)
	if !exists {
		return nil
	}
	principal, _ := value.(app.Principal)
	return principal
}

func TokenFrom(c *gin.Context) string {
	return c.GetString(ContextTokenKey)
}

func tokenFromRequest(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	const prefix = "Bearer "
	if strings.HasPrefix(authHeader, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}
