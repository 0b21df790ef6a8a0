package middleware

import (
	"log/slog"

	"agririsk-back/internal/auth"
	"agririsk-back/internal/metrics"
	"agririsk-back/internal/models"

	"github.com/gin-gonic/gin"
)

const userKey = "user"

// AuthMiddleware resolves the bearer token to a user and stores it in the
// context for CurrentUser.
func AuthMiddleware(svc *auth.Service, m *metrics.Metrics, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		m.RecordAuth("authenticate", err)
		if err != nil {
			AbortWithError(c, logger, err)
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user set by AuthMiddleware.
func CurrentUser(c *gin.Context) *models.User {
	user, _ := c.MustGet(userKey).(*models.User)
	return user
}
