package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/markethub/backend/internal/infrastructure/auth"
	"github.com/markethub/backend/internal/interfaces/http/dto"
)

// Context keys for values extracted from validated JWT claims.
const (
	JWTUserIDKey = "jwt_user_id"
	JWTEmailKey  = "jwt_email"
	JWTRoleKey   = "jwt_role"
	JWTClaimsKey = "jwt_claims"
)

// JWTAuth returns a middleware that validates Bearer tokens and stores the
// claims in the request context. Requests without a valid token are rejected
// with 401.
func JWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing authorization token")
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				abortUnauthorized(c, dto.ErrCodeTokenExpired, "Token has expired")
			default:
				abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Invalid authorization token")
			}
			return
		}

		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTEmailKey, claims.Email)
		c.Set(JWTRoleKey, claims.Role)
		c.Set(JWTClaimsKey, claims)

		c.Next()
	}
}

// RequireAdmin returns a middleware that rejects non-admin users with 403.
// It must run after JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(JWTRoleKey)
		if role != auth.RoleAdmin {
			requestID := c.GetString("request_id")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden,
				"Admin role required",
				requestID,
			))
			return
		}
		c.Next()
	}
}

// GetJWTUserID returns the authenticated user ID, or "" when unauthenticated
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetJWTClaims returns the full claims set, or nil when unauthenticated
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(JWTClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, code, message string) {
	requestID := c.GetString("request_id")
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, requestID))
}
