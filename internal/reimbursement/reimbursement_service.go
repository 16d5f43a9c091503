package reimbursement

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-worklog/internal/events"
	"go-worklog/internal/messaging/kafka"
	reimbursementerrors "go-worklog/internal/reimbursement/errors"
	"go-worklog/internal/shared/contextutil"
	"go-worklog/internal/user"
	"go-worklog/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const MaxReceiptBytes = 5 << 20

var allowedReceiptTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// Receipt is a validated attachment ready for storage.
type Receipt struct {
	Name string
	Type string
	Data []byte
}

//go:generate mockgen -source=reimbursement_service.go -destination=mock/reimbursement_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateReimbursementRequest) (*ReimbursementResponse, error)
	CreateWithReceipt(ctx context.Context, actorID string, req CreateReimbursementRequest, receipt *Receipt) (*ReimbursementResponse, error)
	GetByID(ctx context.Context, actorRole, actorID, id string) (*ReimbursementResponse, error)
	GetReceipt(ctx context.Context, actorRole, actorID, id string) (*Receipt, error)
	GetAll(ctx context.Context, actorRole, actorID, status string) ([]ReimbursementResponse, error)
	Approve(ctx context.Context, actorRole, actorID, id string, req DecisionRequest) (*ReimbursementResponse, error)
	Reject(ctx context.Context, actorRole, actorID, id string, req DecisionRequest) (*ReimbursementResponse, error)
	Delete(ctx context.Context, actorID, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	users  user.Repository
	policy workflow.DeciderPolicy
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	users user.Repository,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithPolicy(db, repo, outbox, users, nil, logger...)
}

func NewServiceWithPolicy(
	db *sql.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	users user.Repository,
	policy workflow.DeciderPolicy,
	logger ...*zap.Logger,
) Service {
	log := zap.L().Named("reimbursement.service")
	if len(logger) > 0 && logger[0] != nil {
		log = logger[0].Named("reimbursement.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outbox,
		users:  users,
		policy: policy,
		logger: log,
	}
}

const dateLayout = "2006-01-02"

// Create handles the JSON endpoint where the receipt rides along as a
// base64 string. A missing receipt is allowed; approvers can reject on
// that basis.
func (s *service) Create(ctx context.Context, actorID string, req CreateReimbursementRequest) (*ReimbursementResponse, error) {
	var receipt *Receipt
	if req.Receipt != "" {
		data, err := base64.StdEncoding.DecodeString(req.Receipt)
		if err != nil {
			return nil, reimbursementerrors.ErrInvalidReceipt
		}
		receipt = &Receipt{Name: req.ReceiptName, Type: req.ReceiptType, Data: data}
	}
	return s.CreateWithReceipt(ctx, actorID, req, receipt)
}

func (s *service) CreateWithReceipt(
	ctx context.Context,
	actorID string,
	req CreateReimbursementRequest,
	receipt *Receipt,
) (*ReimbursementResponse, error) {
	expenseDate, err := time.Parse(dateLayout, req.ExpenseDate)
	if err != nil {
		return nil, reimbursementerrors.ErrInvalidExpenseDate
	}

	ownerID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, reimbursementerrors.ErrInvalidReimbursementID
	}

	if receipt != nil {
		if err := ValidateReceipt(receipt); err != nil {
			return nil, err
		}
	}

	rb := &Reimbursement{
		ID:          uuid.New(),
		UserID:      ownerID,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		ExpenseDate: expenseDate,
		Status:      string(workflow.Reimbursements.Initial),
	}
	if receipt != nil {
		rb.ReceiptName = receipt.Name
		rb.ReceiptType = receipt.Type
		rb.Receipt = receipt.Data
	}

	if err := s.repo.Create(ctx, rb); err != nil {
		s.logger.Error("create reimbursement failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("reimbursement created",
		zap.String("reimbursement_id", rb.ID.String()),
		zap.String("user_id", actorID),
		zap.Float64("amount", rb.Amount),
	)
	return toResponse(rb), nil
}

func (s *service) GetByID(ctx context.Context, actorRole, actorID, id string) (*ReimbursementResponse, error) {
	rb, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if rb.UserID.String() != actorID && !canReadAll(actorRole) {
		return nil, reimbursementerrors.ErrNotOwner
	}
	return toResponse(rb), nil
}

func (s *service) GetReceipt(ctx context.Context, actorRole, actorID, id string) (*Receipt, error) {
	rb, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if rb.UserID.String() != actorID && !canReadAll(actorRole) {
		return nil, reimbursementerrors.ErrNotOwner
	}
	if len(rb.Receipt) == 0 {
		return nil, reimbursementerrors.ErrReceiptNotFound
	}
	return &Receipt{Name: rb.ReceiptName, Type: rb.ReceiptType, Data: rb.Receipt}, nil
}

func (s *service) GetAll(ctx context.Context, actorRole, actorID, status string) ([]ReimbursementResponse, error) {
	var (
		items []Reimbursement
		err   error
	)
	if canReadAll(actorRole) {
		items, err = s.repo.FindAll(ctx, status)
	} else {
		items, err = s.repo.FindAllByUser(ctx, actorID)
		if err == nil && status != "" {
			filtered := make([]Reimbursement, 0, len(items))
			for _, rb := range items {
				if rb.Status == status {
					filtered = append(filtered, rb)
				}
			}
			items = filtered
		}
	}
	if err != nil {
		return nil, err
	}

	out := make([]ReimbursementResponse, 0, len(items))
	for i := range items {
		out = append(out, *toResponse(&items[i]))
	}
	return out, nil
}

func (s *service) Approve(ctx context.Context, actorRole, actorID, id string, req DecisionRequest) (*ReimbursementResponse, error) {
	return s.decide(ctx, actorRole, actorID, id, workflow.StatusApproved, req.Comments)
}

func (s *service) Reject(ctx context.Context, actorRole, actorID, id string, req DecisionRequest) (*ReimbursementResponse, error) {
	if strings.TrimSpace(req.Comments) == "" {
		return nil, reimbursementerrors.ErrCommentsRequired
	}
	return s.decide(ctx, actorRole, actorID, id, workflow.StatusRejected, req.Comments)
}

func (s *service) decide(
	ctx context.Context,
	actorRole, actorID, id string,
	to workflow.Status,
	comments string,
) (*ReimbursementResponse, error) {
	rb, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	op := workflow.OpApprove
	if to == workflow.StatusRejected {
		op = workflow.OpReject
	}
	if !workflow.Can(s.policy, actorRole, actorID, rb.UserID.String(), op) {
		return nil, reimbursementerrors.ErrDecisionNotAllowed
	}
	if rb.CurrentStatus().Terminal() {
		return nil, reimbursementerrors.ErrAlreadyDecided
	}
	if !workflow.Reimbursements.CanDecide(rb.CurrentStatus()) {
		return nil, reimbursementerrors.ErrInvalidStatusTransition
	}

	owner, err := s.users.FindByID(ctx, rb.UserID.String())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide reimbursement begin tx failed", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rows, err := qtx.TransitionStatus(ctx, id, workflow.Reimbursements.DecidableFrom, to, actorID, comments)
	if err != nil {
		s.logger.Error("decide reimbursement transition failed", zap.String("reimbursement_id", id), zap.Error(err))
		return nil, err
	}
	if rows == 0 {
		return nil, reimbursementerrors.ErrAlreadyDecided
	}

	event := events.DecisionEvent{
		EventType:  "reimbursement." + string(to),
		RequestID:  contextutil.GetRequestID(ctx),
		EntityKind: workflow.Reimbursements.Name,
		EntityID:   id,
		OwnerID:    rb.UserID.String(),
		Status:     string(to),
		Comments:   comments,
		DecidedBy:  actorID,
		OccurredAt: time.Now().UTC(),
	}
	if owner != nil {
		event.OwnerEmail = owner.Email
		event.OwnerName = owner.Name
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     event.RequestID,
		AggregateType: workflow.Reimbursements.Name,
		AggregateID:   id,
		EventType:     event.EventType,
		Topic:         events.DecisionTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("decide reimbursement outbox insert failed", zap.String("reimbursement_id", id), zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("reimbursement decided",
		zap.String("reimbursement_id", id),
		zap.String("status", string(to)),
		zap.String("decided_by", actorID),
	)

	rb, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(rb), nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	rb, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !workflow.Can(s.policy, "", actorID, rb.UserID.String(), workflow.OpDelete) {
		return reimbursementerrors.ErrNotOwner
	}
	if !workflow.Reimbursements.CanDelete(rb.CurrentStatus()) {
		return reimbursementerrors.ErrInvalidStatusTransition
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete reimbursement failed", zap.String("reimbursement_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("reimbursement deleted", zap.String("reimbursement_id", id))
	return nil
}

// ValidateReceipt enforces the allowed content types and the size cap.
func ValidateReceipt(r *Receipt) error {
	if len(r.Data) > MaxReceiptBytes {
		return reimbursementerrors.ErrReceiptTooLarge
	}
	if !allowedReceiptTypes[strings.ToLower(strings.TrimSpace(r.Type))] {
		return reimbursementerrors.ErrInvalidReceipt
	}
	return nil
}

func (s *service) find(ctx context.Context, id string) (*Reimbursement, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, reimbursementerrors.ErrInvalidReimbursementID
	}

	rb, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reimbursementerrors.ErrReimbursementNotFound
		}
		return nil, err
	}
	return rb, nil
}

func canReadAll(role string) bool {
	return role == workflow.RoleManager || role == workflow.RoleAdmin
}

func toResponse(rb *Reimbursement) *ReimbursementResponse {
	resp := &ReimbursementResponse{
		ID:          rb.ID.String(),
		UserID:      rb.UserID.String(),
		Amount:      rb.Amount,
		Description: rb.Description,
		ExpenseDate: rb.ExpenseDate.Format(dateLayout),
		Status:      rb.Status,
		ReceiptName: rb.ReceiptName,
		ReceiptType: rb.ReceiptType,
		HasReceipt:  rb.ReceiptName != "",
		Comments:    rb.Comments,
		CreatedAt:   rb.CreatedAt.Format(time.RFC3339),
	}
	if rb.ReviewedBy != nil {
		v := rb.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if rb.ReviewedAt != nil {
		v := rb.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}
