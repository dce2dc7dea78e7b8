package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/muhohoweb/shoe-app/internal/infrastructure/auth"
	"github.com/muhohoweb/shoe-app/internal/infrastructure/config"
	"github.com/muhohoweb/shoe-app/internal/interfaces/http/middleware"
)

// AuthHandler handles back-office authentication
type AuthHandler struct {
	BaseHandler
	jwtService *auth.JWTService
	admin      config.AdminConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(jwtService *auth.JWTService, admin config.AdminConfig) *AuthHandler {
	return &AuthHandler{
		jwtService: jwtService,
		admin:      admin,
	}
}

// LoginRequest represents admin login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
}

// Login authenticates the admin account and issues a JWT
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if !h.credentialsValid(req.Username, req.Password) {
		h.Unauthorized(c, "Invalid username or password")
		return
	}

	token, expiresAt, err := h.jwtService.GenerateToken(req.Username)
	if err != nil {
		h.InternalError(c, "Unable to issue token")
		return
	}

	h.Success(c, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  req.Username,
	})
}

func (h *AuthHandler) credentialsValid(username, password string) bool {
	if h.admin.PasswordHash == "" {
		return false
	}
	if username != h.admin.Username {
		// Run the hash comparison anyway so failures take constant time
		// regardless of which credential was wrong.
		_ = bcrypt.CompareHashAndPassword([]byte(h.admin.PasswordHash), []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(h.admin.PasswordHash), []byte(password)) == nil
}
