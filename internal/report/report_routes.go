package report

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
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	reports.Use(middleware.ContextLogger(logger))
	{
		reports.GET("/timesheet-summary",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "report", "read"),
			handler.TimesheetSummary,
		)

		reports.GET("/project-hours",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "report", "read"),
			handler.ProjectHours,
		)

		reports.GET("/export",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "report", "read"),
			handler.Export,
		)
	}
}
