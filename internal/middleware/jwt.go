package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
	appErrors "github.com/GTD-web/ems-backend-sub027/pkg/errors"
	"github.com/GTD-web/ems-backend-sub027/pkg/logger"
	"github.com/GTD-web/ems-backend-sub027/pkg/response"
)

const (
	// ContextUserKey is the gin context key storing JWT claims.
	ContextUserKey = "currentUser"
	// ContextActorKey is the gin context key storing the resolved actor.
	ContextActorKey = "currentActor"
)

// TokenValidator verifies bearer tokens and maps claims to an actor.
type TokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
	Actor(claims *models.JWTClaims) models.Actor
}

// JWT protects routes by requiring a valid access token.
func JWT(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		actor := validator.Actor(claims)
		c.Set(ContextUserKey, claims)
		c.Set(ContextActorKey, actor)
		c.Set(logger.ActorKey, actor.ID)
		c.Next()
	}
}

// ActorFromContext returns the actor stored by JWT.
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	value, exists := c.Get(ContextActorKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := value.(models.Actor)
	return actor, ok && actor.ID != ""
}
