package identity

import (
	"net/http"
	"strings"
	"time"

	"github.com/beka-birhanu/vinom-nav/service/i"
	"github.com/gin-gonic/gin"
)

const (
	// ContextUserClaims is the key used to store user claims in the Gin context.
	ContextUserClaims = "userClaims"

	// RoleOperator may change stored agent configurations.
	RoleOperator = "operator"

	roleClaim = "role"
)

// Authoriz checks the bearer token of the request. When roles are given the
// token's role claim must be one of them.
func Authoriz(ts i.Tokenizer, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		// Split the "Bearer" prefix from the token.
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := ts.Decode(parts[1])
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if len(roles) > 0 && !hasRole(claims, roles) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Set(ContextUserClaims, claims)
		c.Next()
	}
}

func hasRole(claims map[string]interface{}, roles []string) bool {
	role, ok := claims[roleClaim].(string)
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// OperatorToken mints an operator token valid for ttl.
func OperatorToken(ts i.Tokenizer, ttl time.Duration) (string, error) {
	return ts.Generate(map[string]interface{}{roleClaim: RoleOperator}, ttl)
}
