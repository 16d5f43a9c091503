package invoice

import (
	"context"
	"errors"
	"strings"
	"time"

	invoiceerrors "go-worklog/internal/invoice/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=invoice_service.go -destination=mock/invoice_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error)
	GetByID(ctx context.Context, id string) (*InvoiceResponse, error)
	GetAll(ctx context.Context, status string) ([]InvoiceResponse, error)
	Update(ctx context.Context, id string, req UpdateInvoiceRequest) (*InvoiceResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	log := zap.L().Named("invoice.service")
	if len(logger) > 0 && logger[0] != nil {
		log = logger[0].Named("invoice.service")
	}
	return &service{repo: repo, logger: log}
}

func (s *service) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, invoiceerrors.ErrInvalidProjectRef
	}

	inv := &Invoice{
		ID:             uuid.New(),
		ProjectID:      projectID,
		Milestone:      strings.TrimSpace(req.Milestone),
		EstimatedHours: req.EstimatedHours,
		EstimatedCost:  req.EstimatedCost,
		Status:         StatusDraft,
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, invoiceerrors.ErrInvalidProjectRef
		}
		s.logger.Error("create invoice failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("invoice created",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("project_id", inv.ProjectID.String()),
	)
	return toResponse(inv), nil
}

func (s *service) GetByID(ctx context.Context, id string) (*InvoiceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, invoiceerrors.ErrInvalidInvoiceID
	}

	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invoiceerrors.ErrInvoiceNotFound
		}
		return nil, err
	}
	return toResponse(inv), nil
}

func (s *service) GetAll(ctx context.Context, status string) ([]InvoiceResponse, error) {
	invoices, err := s.repo.FindAll(ctx, status)
	if err != nil {
		return nil, err
	}

	out := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		out = append(out, *toResponse(&invoices[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, invoiceerrors.ErrInvalidInvoiceID
	}

	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invoiceerrors.ErrInvoiceNotFound
		}
		return nil, err
	}

	// Paid is a terminal state for bookkeeping integrity.
	if inv.Status == StatusPaid {
		return nil, invoiceerrors.ErrPaidImmutable
	}

	inv.Milestone = strings.TrimSpace(req.Milestone)
	inv.EstimatedHours = req.EstimatedHours
	inv.EstimatedCost = req.EstimatedCost
	inv.ActualHours = req.ActualHours
	inv.ActualCost = req.ActualCost
	inv.Status = req.Status

	if err := s.repo.Update(ctx, inv); err != nil {
		s.logger.Error("update invoice failed", zap.String("invoice_id", id), zap.Error(err))
		return nil, err
	}

	return toResponse(inv), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return invoiceerrors.ErrInvalidInvoiceID
	}

	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invoiceerrors.ErrInvoiceNotFound
		}
		return err
	}
	if inv.Status == StatusPaid {
		return invoiceerrors.ErrPaidImmutable
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete invoice failed", zap.String("invoice_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("invoice deleted", zap.String("invoice_id", id))
	return nil
}

func toResponse(inv *Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:             inv.ID.String(),
		ProjectID:      inv.ProjectID.String(),
		Milestone:      inv.Milestone,
		EstimatedHours: inv.EstimatedHours,
		EstimatedCost:  inv.EstimatedCost,
		ActualHours:    inv.ActualHours,
		ActualCost:     inv.ActualCost,
		Status:         inv.Status,
		CreatedAt:      inv.CreatedAt.Format(time.RFC3339),
	}
}
