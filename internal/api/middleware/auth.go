package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gocomet/ride-booking/internal/domain/user"
	"github.com/gocomet/ride-booking/pkg/token"
	"github.com/google/uuid"
)

// Context keys set by Auth and read by handlers.
const (
	CallerIDKey   = "caller_id"
	CallerRoleKey = "caller_role"
)

// Auth verifies the Bearer token and stores the caller identity and role in
// the request context. Handlers thread that pair explicitly into every
// engine call.
func Auth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "Missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "Invalid authorization header")
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(CallerIDKey, claims.UserID)
		c.Set(CallerRoleKey, user.Role(claims.Role))
		c.Next()
	}
}

// Caller returns the authenticated caller identity and role set by Auth.
func Caller(c *gin.Context) (uuid.UUID, user.Role, bool) {
	idVal, ok := c.Get(CallerIDKey)
	if !ok {
		return uuid.Nil, "", false
	}
	roleVal, ok := c.Get(CallerRoleKey)
	if !ok {
		return uuid.Nil, "", false
	}

	id, okID := idVal.(uuid.UUID)
	role, okRole := roleVal.(user.Role)
	if !okID || !okRole {
		return uuid.Nil, "", false
	}
	return id, role, true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    "UNAUTHORIZED",
		"message": message,
	})
}
