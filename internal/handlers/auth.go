// internal/handlers/auth.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"agririsk-back/internal/auth"
	"agririsk-back/internal/metrics"
	"agririsk-back/internal/middleware"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	Token   string `json:"token"`
}

func Register(svc *auth.Service, m *metrics.Metrics, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := bindJSON(c, &req); err != nil {
			respondError(c, logger, err)
			return
		}

		user, err := svc.Register(c.Request.Context(), req.Email, req.Password)
		m.RecordAuth("register", err)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		})
	}
}

func Login(svc *auth.Service, m *metrics.Metrics, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := bindJSON(c, &req); err != nil {
			respondError(c, logger, err)
			return
		}

		user, token, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		m.RecordAuth("login", err)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, LoginResponse{
			Message: "Login successful",
			Email:   user.Email,
			Token:   token,
		})
	}
}

func Logout(svc *auth.Service, m *metrics.Metrics, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svc.Logout(c.Request.Context(), middleware.CurrentUser(c))
		m.RecordAuth("logout", err)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

func ValidateToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"email": middleware.CurrentUser(c).Email,
	})
}

func Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to your dashboard",
		"email":   middleware.CurrentUser(c).Email,
	})
}

func respondError(c *gin.Context, logger *slog.Logger, err error) {
	middleware.AbortWithError(c, logger, err)
}
