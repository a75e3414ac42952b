package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kaiwacoach/kaiwa-backend/internal/common"
)

// UserIDKey is the gin context key holding the resolved internal user id.
const UserIDKey = "user_id"

type claims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthRequired resolves the bearer token to an internal user id. Token
// issuance is handled by the external auth service; this layer only
// verifies and extracts identity.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
			c.Abort()
			return
		}
		raw := strings.TrimPrefix(h, "Bearer ")

		var cl claims
		token, err := jwt.ParseWithClaims(raw, &cl, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || cl.UserID == 0 {
			common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
			c.Abort()
			return
		}

		c.Set(UserIDKey, cl.UserID)
		c.Next()
	}
}
