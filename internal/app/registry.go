package app

import (
	"database/sql"

	"go-worklog/internal/auth"
	"go-worklog/internal/invoice"
	"go-worklog/internal/leave"
	"go-worklog/internal/messaging/kafka"
	"go-worklog/internal/project"
	"go-worklog/internal/rbac"
	"go-worklog/internal/reimbursement"
	"go-worklog/internal/report"
	"go-worklog/internal/timesheet"
	"go-worklog/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	projectRepo := project.NewRepository(gormDB)
	invoiceRepo := invoice.NewRepository(gormDB)
	timesheetRepo := timesheet.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	reimbursementRepo := reimbursement.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	userService := user.NewService(userRepo, logger)
	authService := auth.NewService(userRepo, logger)
	projectService := project.NewService(projectRepo, rdb, logger)
	invoiceService := invoice.NewService(invoiceRepo, logger)
	timesheetService := timesheet.NewService(db, timesheetRepo, outboxRepo, userRepo, logger)
	leaveService := leave.NewService(db, leaveRepo, outboxRepo, userRepo, logger)
	reimbursementService := reimbursement.NewService(db, reimbursementRepo, outboxRepo, userRepo, logger)
	reportService := report.NewService(timesheetRepo, logger)

	// --- Handlers ---
	userHandler := user.NewHandler(userService, logger)
	authHandler := auth.NewHandler(authService, logger)
	projectHandler := project.NewHandler(projectService, logger)
	invoiceHandler := invoice.NewHandler(invoiceService, logger)
	timesheetHandler := timesheet.NewHandler(timesheetService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	reimbursementHandler := reimbursement.NewHandler(reimbursementService, rdb, logger)
	reportHandler := report.NewHandler(reportService, logger)

	// --- Routes Registration ---
	api := router.Group("/api")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler, rbacService, logger)
		project.RegisterRoutes(api, projectHandler, rbacService, logger)
		invoice.RegisterRoutes(api, invoiceHandler, rbacService, logger)
		timesheet.RegisterRoutes(api, timesheetHandler, rbacService, logger)
		leave.RegisterRoutes(api, leaveHandler, rbacService, logger)
		reimbursement.RegisterRoutes(api, reimbursementHandler, rbacService, rdb, logger)
		report.RegisterRoutes(api, reportHandler, rbacService, logger)
	}

	return nil
}
