package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-worklog/internal/events"
	leaveerrors "go-worklog/internal/leave/errors"
	"go-worklog/internal/messaging/kafka"
	"go-worklog/internal/shared/contextutil"
	"go-worklog/internal/user"
	usererrors "go-worklog/internal/user/errors"
	"go-worklog/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateLeaveRequest) (*LeaveResponse, error)
	GetByID(ctx context.Context, actorRole, actorID, id string) (*LeaveResponse, error)
	GetAll(ctx context.Context, actorRole, actorID, status string) ([]LeaveResponse, error)
	Approve(ctx context.Context, actorRole, actorID, id string, req DecisionRequest) (*LeaveResponse, error)
	Reject(ctx context.Context, actorRole, actorID, id string, req DecisionRequest) (*LeaveResponse, error)
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
	log := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		log = logger[0].Named("leave.service")
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

func (s *service) Create(ctx context.Context, actorID string, req CreateLeaveRequest) (*LeaveResponse, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, leaveerrors.ErrEndBeforeStart
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, leaveerrors.ErrEndBeforeStart
	}
	if end.Before(start) {
		return nil, leaveerrors.ErrEndBeforeStart
	}

	ownerID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, leaveerrors.ErrReasonRequired
	}

	days := DaysBetween(start, end)

	// Reject up front when the balance clearly cannot cover the span.
	// The approve transaction re-checks with a guarded update.
	owner, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, err
	}
	if owner.LeaveBalance < days {
		return nil, leaveerrors.ErrInsufficientBalance
	}

	l := &Leave{
		ID:        uuid.New(),
		UserID:    ownerID,
		StartDate: start,
		EndDate:   end,
		Days:      days,
		Reason:    reason,
		Status:    string(workflow.Leaves.Initial),
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("create leave failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("leave created",
		zap.String("leave_id", l.ID.String()),
		zap.String("user_id", actorID),
		zap.Float64("days", days),
	)
	return toResponse(l), nil
}

func (s *service) GetByID(ctx context.Context, actorRole, actorID, id string) (*LeaveResponse, error) {
	l, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.UserID.String() != actorID && !canReadAll(actorRole) {
		return nil, leaveerrors.ErrNotOwner
	}
	return toResponse(l), nil
}

func (s *service) GetAll(ctx context.Context, actorRole, actorID, status string) ([]LeaveResponse, error) {
	var (
		leaves []Leave
		err    error
	)
	if canReadAll(actorRole) {
		leaves, err = s.repo.FindAll(ctx, status)
	} else {
		leaves, err = s.repo.FindAllByUser(ctx, actorID)
		if err == nil && status != "" {
			filtered := make([]Leave, 0, len(leaves))
			for _, l := range leaves {
				if l.Status == status {
					filtered = append(filtered, l)
				}
			}
			leaves = filtered
		}
	}
	if err != nil {
		return nil, err
	}

	out := make([]LeaveResponse, 0, len(leaves))
	for i := range leaves {
		out = append(out, *toResponse(&leaves[i]))
	}
	return out, nil
}

func (s *service) Approve(ctx context.Context, actorRole, actorID, id string, req DecisionRequest) (*LeaveResponse, error) {
	return s.decide(ctx, actorRole, actorID, id, workflow.StatusApproved, req.Comments)
}

func (s *service) Reject(ctx context.Context, actorRole, actorID, id string, req DecisionRequest) (*LeaveResponse, error) {
	if strings.TrimSpace(req.Comments) == "" {
		return nil, leaveerrors.ErrCommentsRequired
	}
	return s.decide(ctx, actorRole, actorID, id, workflow.StatusRejected, req.Comments)
}

// decide runs the conditional transition, the balance deduction on
// approve, and the outbox insert in a single transaction.
func (s *service) decide(
	ctx context.Context,
	actorRole, actorID, id string,
	to workflow.Status,
	comments string,
) (*LeaveResponse, error) {
	l, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	op := workflow.OpApprove
	if to == workflow.StatusRejected {
		op = workflow.OpReject
	}
	if !workflow.Can(s.policy, actorRole, actorID, l.UserID.String(), op) {
		return nil, leaveerrors.ErrDecisionNotAllowed
	}
	if l.CurrentStatus().Terminal() {
		return nil, leaveerrors.ErrAlreadyDecided
	}
	if !workflow.Leaves.CanDecide(l.CurrentStatus()) {
		return nil, leaveerrors.ErrInvalidStatusTransition
	}

	owner, err := s.users.FindByID(ctx, l.UserID.String())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rows, err := qtx.TransitionStatus(ctx, id, workflow.Leaves.DecidableFrom, to, actorID, comments)
	if err != nil {
		s.logger.Error("decide leave transition failed", zap.String("leave_id", id), zap.Error(err))
		return nil, err
	}
	if rows == 0 {
		return nil, leaveerrors.ErrAlreadyDecided
	}

	if to == workflow.StatusApproved {
		rows, err := qtx.DeductBalance(ctx, l.UserID.String(), l.Days)
		if err != nil {
			s.logger.Error("deduct leave balance failed", zap.String("leave_id", id), zap.Error(err))
			return nil, err
		}
		if rows == 0 {
			// Balance shrank since the request was filed.
			return nil, leaveerrors.ErrInsufficientBalance
		}
	}

	event := events.DecisionEvent{
		EventType:  "leave." + string(to),
		RequestID:  contextutil.GetRequestID(ctx),
		EntityKind: workflow.Leaves.Name,
		EntityID:   id,
		OwnerID:    l.UserID.String(),
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
		AggregateType: workflow.Leaves.Name,
		AggregateID:   id,
		EventType:     event.EventType,
		Topic:         events.DecisionTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("decide leave outbox insert failed", zap.String("leave_id", id), zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("leave decided",
		zap.String("leave_id", id),
		zap.String("status", string(to)),
		zap.String("decided_by", actorID),
	)

	l, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(l), nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	l, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !workflow.Can(s.policy, "", actorID, l.UserID.String(), workflow.OpDelete) {
		return leaveerrors.ErrNotOwner
	}
	if !workflow.Leaves.CanDelete(l.CurrentStatus()) {
		return leaveerrors.ErrInvalidStatusTransition
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete leave failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("leave deleted", zap.String("leave_id", id))
	return nil
}

func (s *service) find(ctx context.Context, id string) (*Leave, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return l, nil
}

func canReadAll(role string) bool {
	return role == workflow.RoleManager || role == workflow.RoleAdmin
}

func toResponse(l *Leave) *LeaveResponse {
	resp := &LeaveResponse{
		ID:        l.ID.String(),
		UserID:    l.UserID.String(),
		StartDate: l.StartDate.Format(dateLayout),
		EndDate:   l.EndDate.Format(dateLayout),
		Days:      l.Days,
		Reason:    l.Reason,
		Status:    l.Status,
		Comments:  l.Comments,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
	if l.ReviewedBy != nil {
		v := l.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if l.ReviewedAt != nil {
		v := l.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}
