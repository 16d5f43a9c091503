package reimbursement

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-worklog/internal/shared/apperror"
	"go-worklog/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("reimbursement.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("reimbursement.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("reimbursement request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	h.releaseIdempotencyLock(c)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// finishIdempotent stores the successful response so a retried POST with
// the same Idempotency-Key replays it instead of creating twice.
func (h *Handler) finishIdempotent(c *gin.Context, resp any) {
	if h.rdb == nil {
		return
	}
	cacheKey := c.GetString("idempotency_cache_key")
	lockKey := c.GetString("idempotency_lock_key")
	if cacheKey == "" {
		return
	}
	if data, err := json.Marshal(resp); err == nil {
		h.rdb.Set(c.Request.Context(), cacheKey, data, 24*time.Hour)
	}
	if lockKey != "" {
		h.rdb.Del(c.Request.Context(), lockKey)
	}
}

func (h *Handler) releaseIdempotencyLock(c *gin.Context) {
	if h.rdb == nil {
		return
	}
	if lockKey := c.GetString("idempotency_lock_key"); lockKey != "" {
		h.rdb.Del(c.Request.Context(), lockKey)
	}
}

func getActor(c *gin.Context) (role, id string) {
	return c.GetString("role"), c.GetString("user_id")
}

func (h *Handler) Create(c *gin.Context) {
	_, actorID := getActor(c)

	var req CreateReimbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create reimbursement validation failed", zap.Error(err))
		h.releaseIdempotencyLock(c)
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.finishIdempotent(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

// CreateWithFile is the multipart variant: form fields plus a receipt
// file part.
func (h *Handler) CreateWithFile(c *gin.Context) {
	_, actorID := getActor(c)

	amount, err := strconv.ParseFloat(c.PostForm("amount"), 64)
	if err != nil || amount <= 0 {
		h.releaseIdempotencyLock(c)
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "amount must be a positive number", nil)
		return
	}

	req := CreateReimbursementRequest{
		Amount:      amount,
		Description: c.PostForm("description"),
		ExpenseDate: c.PostForm("expense_date"),
	}
	if strings.TrimSpace(req.Description) == "" {
		h.releaseIdempotencyLock(c)
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "description is required", nil)
		return
	}

	var receipt *Receipt
	if fileHeader, err := c.FormFile("receipt"); err == nil {
		if fileHeader.Size > MaxReceiptBytes {
			h.releaseIdempotencyLock(c)
			response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "receipt exceeds the 5 MB limit", nil)
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, MaxReceiptBytes+1))
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		receipt = &Receipt{
			Name: fileHeader.Filename,
			Type: fileHeader.Header.Get("Content-Type"),
			Data: data,
		}
	}

	resp, err := h.service.CreateWithReceipt(c.Request.Context(), actorID, req, receipt)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.finishIdempotent(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	actorRole, actorID := getActor(c)
	status := strings.TrimSpace(c.Query("status"))

	resp, err := h.service.GetAll(c.Request.Context(), actorRole, actorID, status)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	actorRole, actorID := getActor(c)

	resp, err := h.service.GetByID(c.Request.Context(), actorRole, actorID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetReceipt(c *gin.Context) {
	actorRole, actorID := getActor(c)

	receipt, err := h.service.GetReceipt(c.Request.Context(), actorRole, actorID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+receipt.Name+`"`)
	c.Data(http.StatusOK, receipt.Type, receipt.Data)
}

func (h *Handler) Approve(c *gin.Context) {
	actorRole, actorID := getActor(c)

	var req DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid input", err.Error())
			return
		}
	}

	resp, err := h.service.Approve(c.Request.Context(), actorRole, actorID, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	actorRole, actorID := getActor(c)

	var req DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid input", err.Error())
			return
		}
	}

	resp, err := h.service.Reject(c.Request.Context(), actorRole, actorID, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	_, actorID := getActor(c)

	if err := h.service.Delete(c.Request.Context(), actorID, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
