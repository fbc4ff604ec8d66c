package main

import (
	"github.com/gin-gonic/gin"
	"vendor-hub.backend/internal/interfaces/http/handlers"
	"vendor-hub.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler         *handlers.AuthHandler
	profileHandler      *handlers.ProfileHandler
	moderationHandler   *handlers.ModerationHandler
	queueHandler        *handlers.QueueHandler
	escalationHandler   *handlers.EscalationHandler
	riskHandler         *handlers.RiskHandler
	auditHandler        *handlers.AuditHandler
	notificationHandler *handlers.NotificationHandler
	adminHandler        *handlers.AdminHandler
	authMiddleware      gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/logout", d.authMiddleware, d.authHandler.Logout)
			auth.GET("/me", d.authMiddleware, d.authHandler.Me)
		}

		// Vendor-facing profile routes (protected)
		profiles := v1.Group("/profiles")
		profiles.Use(d.authMiddleware)
		{
			profiles.POST("", middleware.IdempotencyMiddleware(), d.profileHandler.Submit)
			profiles.GET("/me", d.profileHandler.Mine)
			profiles.GET("/:id", d.profileHandler.Get)
			profiles.POST("/me/appeal", d.profileHandler.SubmitAppeal)
			profiles.POST("/me/response", d.profileHandler.SubmitResponse)
		}

		// Moderation actions on a profile (moderators, manager, super admin).
		// Decision endpoints accept an Idempotency-Key so a retried request
		// cannot apply a transition twice.
		moderation := v1.Group("/profiles/:id")
		moderation.Use(d.authMiddleware, middleware.RequireModeration())
		{
			moderation.POST("/claim", d.moderationHandler.Claim)
			moderation.POST("/take-over", d.moderationHandler.TakeOver)
			moderation.POST("/release", d.moderationHandler.Release)
			moderation.POST("/approve", middleware.IdempotencyMiddleware(), d.moderationHandler.Approve)
			moderation.POST("/reject", middleware.IdempotencyMiddleware(), d.moderationHandler.Reject)
			moderation.POST("/request-info", middleware.IdempotencyMiddleware(), d.moderationHandler.RequestInfo)
			moderation.POST("/suspend", middleware.IdempotencyMiddleware(), d.moderationHandler.Suspend)
			moderation.POST("/appeal/approve", middleware.IdempotencyMiddleware(), d.moderationHandler.ApproveAppeal)
			moderation.POST("/appeal/deny", middleware.IdempotencyMiddleware(), d.moderationHandler.DenyAppeal)
			moderation.GET("/verifications", d.moderationHandler.VerificationHistory)

			moderation.POST("/escalate", d.escalationHandler.Escalate)
			moderation.POST("/escalation/resolve", d.escalationHandler.Resolve)

			moderation.POST("/risk/assessment", d.riskHandler.IngestAssessment)
			moderation.POST("/risk/complete", middleware.IdempotencyMiddleware(), d.riskHandler.CompleteReview)
			moderation.POST("/risk/suspend", middleware.IdempotencyMiddleware(), d.riskHandler.SuspendFromReview)
			moderation.POST("/risk/unassign", d.riskHandler.UnassignReview)
		}

		// Risk assessment sweep over unassessed profiles
		v1.POST("/risk/trigger", d.authMiddleware, middleware.RequireModeration(), d.riskHandler.TriggerAssessments)

		// Task queues (moderators, manager, super admin)
		queues := v1.Group("/queues")
		queues.Use(d.authMiddleware, middleware.RequireModeration())
		{
			queues.GET("/pool", d.queueHandler.ListPool)
			queues.GET("/mine", d.queueHandler.ListMine)
			queues.GET("/escalated", d.queueHandler.ListEscalated)
		}

		// Audit ledger (moderators, manager, super admin)
		v1.GET("/audit", d.authMiddleware, middleware.RequireModeration(), d.auditHandler.Query)

		// Notification inbox (any authenticated user, scoped to the caller)
		notifications := v1.Group("/notifications")
		notifications.Use(d.authMiddleware)
		{
			notifications.GET("", d.notificationHandler.List)
			notifications.POST("/:id/read", d.notificationHandler.MarkRead)
		}

		// Admin routes. Role checks also live in the usecases; the
		// middleware just rejects obvious non-staff traffic early.
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware)
		{
			admin.GET("/users", middleware.RequireModeration(), d.adminHandler.ListUsers)
			admin.PUT("/users/:id/role", middleware.RequireSuperAdmin(), d.adminHandler.UpdateRole)
			admin.DELETE("/users/:id", middleware.RequireSuperAdmin(), d.adminHandler.PurgeUser)
		}
	}
}
