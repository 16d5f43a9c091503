package reimbursement

import (
	"go-worklog/internal/middleware"
	"go-worklog/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	reimbursements := r.Group("/reimbursements")
	reimbursements.Use(middleware.AuthMiddleware())
	reimbursements.Use(middleware.ContextLogger(logger))
	{
		reimbursements.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "reimbursement", "read"),
			handler.GetAll,
		)

		reimbursements.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "reimbursement", "read"),
			handler.GetById,
		)

		reimbursements.GET("/:id/receipt",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "reimbursement", "read"),
			handler.GetReceipt,
		)

		reimbursements.POST("",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "reimbursement", "create"),
			middleware.ExtractUserID(),
			middleware.Idempotency(rdb),
			handler.Create,
		)

		reimbursements.POST("/with-file",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "reimbursement", "create"),
			middleware.ExtractUserID(),
			middleware.Idempotency(rdb),
			handler.CreateWithFile,
		)

		reimbursements.POST("/:id/approve",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "reimbursement", "approve"),
			handler.Approve,
		)

		reimbursements.POST("/:id/reject",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "reimbursement", "approve"),
			handler.Reject,
		)

		reimbursements.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "reimbursement", "delete"),
			handler.Delete,
		)
	}
}
