package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"vendor-hub.backend/internal/domain/entities"
	"vendor-hub.backend/internal/domain/repositories"
	"vendor-hub.backend/pkg/jwt"
	"vendor-hub.backend/pkg/redis"
)

const (
	AuthorizationHeader = "Authorization"
	SessionHeader       = "X-Session-ID"
	BearerPrefix        = "Bearer "
	// ActorKey is the context key for the authenticated actor
	ActorKey = "actor"
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
)

// AuthMiddleware authenticates via a Redis-backed session id or a bearer
// token. The actor is loaded fresh from the user store so role changes take
// effect on the next request, not at next login.
func AuthMiddleware(jwtService *jwt.JWTService, sessionStore *redis.SessionStore, userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""

		if sessionID := c.GetHeader(SessionHeader); sessionID != "" && sessionStore != nil {
			session, err := sessionStore.GetSession(c.Request.Context(), sessionID)
			if err == nil && session != nil {
				tokenString = session.AccessToken
			}
		}

		if tokenString == "" {
			authHeader := c.GetHeader(AuthorizationHeader)
			if !strings.HasPrefix(authHeader, BearerPrefix) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"kind":    "UNAUTHORIZED",
					"message": "authentication required",
				})
				return
			}
			tokenString = strings.TrimPrefix(authHeader, BearerPrefix)
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			message := "invalid token"
			if err == jwt.ErrExpiredToken {
				message = "token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"kind":    "UNAUTHORIZED",
				"message": message,
			})
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"kind":    "UNAUTHORIZED",
				"message": "account no longer exists",
			})
			return
		}

		c.Set(ActorKey, user.Actor())
		c.Set(UserIDKey, user.ID)
		c.Next()
	}
}

// CurrentActor gets the authenticated actor from context
func CurrentActor(c *gin.Context) (entities.Actor, bool) {
	v, exists := c.Get(ActorKey)
	if !exists {
		return entities.Actor{}, false
	}
	return v.(entities.Actor), true
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	return v.(uuid.UUID), true
}

// RequireRole only passes requests whose actor holds one of the roles
func RequireRole(roles ...entities.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := CurrentActor(c)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"kind":    "UNAUTHORIZED",
				"message": "authentication required",
			})
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"kind":    "FORBIDDEN",
			"message": "insufficient permissions",
		})
	}
}

// RequireModeration passes moderators, the manager, and super admins
func RequireModeration() gin.HandlerFunc {
	return RequireRole(entities.UserRoleModerator, entities.UserRoleManager, entities.UserRoleSuperAdmin)
}

// RequireSuperAdmin passes super admins only
func RequireSuperAdmin() gin.HandlerFunc {
	return RequireRole(entities.UserRoleSuperAdmin)
}
