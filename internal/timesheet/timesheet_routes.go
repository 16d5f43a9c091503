package timesheet

import (
	"go-worklog/internal/middleware"
	"go-worklog/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	timesheets := r.Group("/timesheets")
	timesheets.Use(middleware.AuthMiddleware())
	timesheets.Use(middleware.ContextLogger(logger))
	{
		timesheets.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "timesheet", "read"),
			handler.GetAll,
		)

		timesheets.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "timesheet", "read"),
			handler.GetById,
		)

		timesheets.POST("",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "timesheet", "create"),
			handler.Create,
		)

		timesheets.PUT("/:id",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "timesheet", "create"),
			handler.Update,
		)

		timesheets.POST("/:id/submit",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "timesheet", "submit"),
			handler.Submit,
		)

		timesheets.POST("/:id/approve",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "timesheet", "approve"),
			handler.Approve,
		)

		timesheets.POST("/:id/reject",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "timesheet", "approve"),
			handler.Reject,
		)

		timesheets.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "timesheet", "delete"),
			handler.Delete,
		)
	}
}
