package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vendor-hub.backend/pkg/metrics"
)

const serviceVersion = "1.0.0"

// applyCORSMiddleware reflects the request origin so the dashboard can be
// served from any host during development. Credentialed requests forbid a
// wildcard origin.
func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID, Idempotency-Key")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

// registerHealthRoute exposes the liveness check and the Prometheus scrape
// endpoint, both outside the /api/v1 tree and the auth middleware.
func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "vendor-hub-backend",
			"version": serviceVersion,
		})
	})
	r.GET("/metrics", metrics.Handler())
}
