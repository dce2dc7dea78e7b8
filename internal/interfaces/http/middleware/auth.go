package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/muhohoweb/shoe-app/internal/infrastructure/auth"
	"github.com/muhohoweb/shoe-app/internal/interfaces/http/dto"
)

// ContextKeyAdminUser is the gin context key carrying the authenticated username
const ContextKeyAdminUser = "admin_user"

// JWTAuth returns a middleware that requires a valid bearer token.
// The authenticated username is stored in the gin context under
// ContextKeyAdminUser.
func JWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Missing or malformed Authorization header"))
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			code := dto.ErrCodeTokenInvalid
			message := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrCodeTokenExpired
				message = "Token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
			return
		}

		c.Set(ContextKeyAdminUser, claims.Username)
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
