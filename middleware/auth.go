package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/rehhab/pos-terminal/models"
)

// AuthError represents an authentication/authorization failure
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// Claims are the token claims the gateway issues on login
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken creates a signed HS256 token for a user
func IssueToken(secret string, user models.User, ttl time.Duration) (string, error) {
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a token string and returns its claims
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, &AuthError{Code: "INVALID_TOKEN", Message: "Failed to validate token"}
	}
	if !token.Valid {
		return nil, &AuthError{Code: "INVALID_TOKEN", Message: "Token is not valid"}
	}
	return claims, nil
}

// EnsureValidToken is a middleware that will check the validity of the
// bearer token and stash the caller's identity in the Gin context.
func EnsureValidToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if header == "" || tokenString == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_TOKEN",
					"message": "Missing bearer token",
				},
			})
			return
		}

		claims, err := ParseToken(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TOKEN",
					"message": "Failed to validate token",
				},
			})
			return
		}

		c.Set("username", claims.Subject)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireRole gates a route group to one role
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerRole, exists := c.Get("role")
		if !exists || callerRole != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Insufficient role for this resource",
				},
			})
			return
		}
		c.Next()
	}
}

// GetRole extracts the caller's role from the Gin context
func GetRole(c *gin.Context) (string, error) {
	role, exists := c.Get("role")
	if !exists {
		return "", &AuthError{Code: "MISSING_ROLE", Message: "Role not found in context"}
	}
	roleStr, ok := role.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_ROLE", Message: "Role is not a string"}
	}
	return roleStr, nil
}
