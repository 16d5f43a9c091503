package invoice

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
	invoices := r.Group("/invoices")
	invoices.Use(middleware.AuthMiddleware())
	invoices.Use(middleware.ContextLogger(logger))
	{
		invoices.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "invoice", "read"),
			handler.GetAll,
		)

		invoices.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "invoice", "read"),
			handler.GetById,
		)

		invoices.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "invoice", "create"),
			handler.Create,
		)

		invoices.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "invoice", "update"),
			handler.Update,
		)

		invoices.DELETE("/:id",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "invoice", "delete"),
			handler.Delete,
		)
	}
}
