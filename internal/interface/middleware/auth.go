package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

const identityKey = "identity"

// Identity is the authenticated caller attached to the request by Auth.
type Identity struct {
	UserID string
}

// TokenVerifier resolves a session token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Auth rejects requests without a token (401) or with a token that fails
// verification (403). On success the caller's Identity is set on the context.
func Auth(transport helpers.SessionTransport, tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := transport.Extract(c)
		if !ok {
			resp := response.Error[any](c, http.StatusUnauthorized, "Access denied. No token provided.", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		userID, err := tokens.Verify(token)
		if err != nil {
			resp := response.Error[any](c, http.StatusForbidden, "Invalid or expired token.", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Set(identityKey, Identity{UserID: userID})
		c.Next()
	}
}

// IdentityFrom returns the identity set by Auth, if any.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok && id.UserID != ""
}
