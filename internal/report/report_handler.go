package report

import (
	"fmt"
	"net/http"
	"time"

	"go-worklog/internal/shared/apperror"
	"go-worklog/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("report.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("report request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) TimesheetSummary(c *gin.Context) {
	summary, err := h.service.TimesheetSummary(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary, nil)
}

func (h *Handler) ProjectHours(c *gin.Context) {
	hours, err := h.service.ProjectHours(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, hours, nil)
}

// Export streams both reports as csv or xlsx.
func (h *Handler) Export(c *gin.Context) {
	summary, err := h.service.TimesheetSummary(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	hours, err := h.service.ProjectHours(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	stamp := time.Now().Format("2006-01-02")
	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		data, err := ExportXLSX(summary, hours)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="worklog-report-%s.xlsx"`, stamp))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)

	case "csv":
		data, err := ExportTimesheetSummaryCSV(summary)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		projectData, err := ExportProjectHoursCSV(hours)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		data = append(data, '\n')
		data = append(data, projectData...)
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="worklog-report-%s.csv"`, stamp))
		c.Data(http.StatusOK, "text/csv", data)

	default:
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "format must be csv or xlsx", nil)
	}
}
