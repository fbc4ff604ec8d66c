package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"vendor-hub.backend/pkg/utils"
)

const RequestIDKey = "request_id"

// RequestIDMiddleware tags every request with an ID, honoring one supplied
// by the caller. IDs are UUIDv7 so log lines sort by arrival time.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = utils.GenerateUUIDv7().String()
		}

		c.Set(RequestIDKey, id)
		c.Header("X-Request-ID", id)

		// The logger reads the plain string key off the request context.
		ctx := context.WithValue(c.Request.Context(), "request_id", id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
