package timesheet

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-worklog/internal/events"
	"go-worklog/internal/messaging/kafka"
	"go-worklog/internal/shared/contextutil"
	timesheeterrors "go-worklog/internal/timesheet/errors"
	"go-worklog/internal/user"
	"go-worklog/internal/workflow"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=timesheet_service.go -destination=mock/timesheet_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateTimesheetRequest) (*TimesheetResponse, error)
	GetByID(ctx context.Context, actorRole, actorID, id string) (*TimesheetResponse, error)
	GetAll(ctx context.Context, actorRole, actorID, status string) ([]TimesheetResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateTimesheetRequest) (*TimesheetResponse, error)
	Submit(ctx context.Context, actorID, id string) (*TimesheetResponse, error)
	Approve(ctx context.Context, actorRole, actorID, id string, req DecisionRequest) (*TimesheetResponse, error)
	Reject(ctx context.Context, actorRole, actorID, id string, req DecisionRequest) (*TimesheetResponse, error)
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

// NewServiceWithPolicy lets a deployment swap the flat decider pool for
// a hierarchical one without touching transition code.
func NewServiceWithPolicy(
	db *sql.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	users user.Repository,
	policy workflow.DeciderPolicy,
	logger ...*zap.Logger,
) Service {
	log := zap.L().Named("timesheet.service")
	if len(logger) > 0 && logger[0] != nil {
		log = logger[0].Named("timesheet.service")
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

const weekLayout = "2006-01-02"

func (s *service) Create(ctx context.Context, actorID string, req CreateTimesheetRequest) (*TimesheetResponse, error) {
	weekStart, err := time.Parse(weekLayout, req.WeekStart)
	if err != nil {
		return nil, timesheeterrors.ErrWeekStartNotMonday
	}
	if weekStart.Weekday() != time.Monday {
		return nil, timesheeterrors.ErrWeekStartNotMonday
	}

	ownerID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, timesheeterrors.ErrInvalidTimesheetID
	}

	entries, err := toEntries(req.Entries)
	if err != nil {
		return nil, err
	}
	ts := &Timesheet{
		ID:         uuid.New(),
		UserID:     ownerID,
		WeekStart:  weekStart,
		Entries:    entries,
		TotalHours: entries.TotalHours(),
		Status:     string(workflow.Timesheets.Initial),
	}

	if err := s.repo.Create(ctx, ts); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, timesheeterrors.ErrDuplicateWeek
		}
		s.logger.Error("create timesheet failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("timesheet created",
		zap.String("timesheet_id", ts.ID.String()),
		zap.String("user_id", actorID),
		zap.String("week_start", req.WeekStart),
	)
	return toResponse(ts), nil
}

func (s *service) GetByID(ctx context.Context, actorRole, actorID, id string) (*TimesheetResponse, error) {
	ts, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	// Employees may only read their own sheets.
	if ts.UserID.String() != actorID && !canReadAll(actorRole) {
		return nil, timesheeterrors.ErrNotOwner
	}
	return toResponse(ts), nil
}

func (s *service) GetAll(ctx context.Context, actorRole, actorID, status string) ([]TimesheetResponse, error) {
	var (
		sheets []Timesheet
		err    error
	)
	if canReadAll(actorRole) {
		sheets, err = s.repo.FindAll(ctx, status)
	} else {
		sheets, err = s.repo.FindAllByUser(ctx, actorID)
		if err == nil && status != "" {
			filtered := make([]Timesheet, 0, len(sheets))
			for _, ts := range sheets {
				if ts.Status == status {
					filtered = append(filtered, ts)
				}
			}
			sheets = filtered
		}
	}
	if err != nil {
		return nil, err
	}

	out := make([]TimesheetResponse, 0, len(sheets))
	for i := range sheets {
		out = append(out, *toResponse(&sheets[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateTimesheetRequest) (*TimesheetResponse, error) {
	ts, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if ts.UserID.String() != actorID {
		return nil, timesheeterrors.ErrNotOwner
	}
	if !workflow.Timesheets.CanEdit(ts.CurrentStatus()) {
		return nil, timesheeterrors.ErrInvalidStatusTransition
	}

	entries, err := toEntries(req.Entries)
	if err != nil {
		return nil, err
	}
	ts.Entries = entries
	ts.TotalHours = ts.Entries.TotalHours()

	if err := s.repo.Update(ctx, ts); err != nil {
		s.logger.Error("update timesheet failed", zap.String("timesheet_id", id), zap.Error(err))
		return nil, err
	}
	return toResponse(ts), nil
}

func (s *service) Submit(ctx context.Context, actorID, id string) (*TimesheetResponse, error) {
	ts, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !workflow.Can(s.policy, "", actorID, ts.UserID.String(), workflow.OpSubmit) {
		return nil, timesheeterrors.ErrNotOwner
	}
	if !workflow.Timesheets.CanSubmit(ts.CurrentStatus()) {
		return nil, timesheeterrors.ErrInvalidStatusTransition
	}

	rows, err := s.repo.Submit(ctx, id, ts.Entries.TotalHours())
	if err != nil {
		s.logger.Error("submit timesheet failed", zap.String("timesheet_id", id), zap.Error(err))
		return nil, err
	}
	if rows == 0 {
		return nil, timesheeterrors.ErrInvalidStatusTransition
	}

	s.logger.Info("timesheet submitted",
		zap.String("timesheet_id", id),
		zap.String("user_id", actorID),
	)
	return s.findResponse(ctx, id)
}

func (s *service) Approve(ctx context.Context, actorRole, actorID, id string, req DecisionRequest) (*TimesheetResponse, error) {
	return s.decide(ctx, actorRole, actorID, id, workflow.StatusApproved, req.Comments)
}

func (s *service) Reject(ctx context.Context, actorRole, actorID, id string, req DecisionRequest) (*TimesheetResponse, error) {
	if !hasText(req.Comments) {
		return nil, timesheeterrors.ErrCommentsRequired
	}
	return s.decide(ctx, actorRole, actorID, id, workflow.StatusRejected, req.Comments)
}

// decide applies approve/reject atomically. The conditional update and
// the outbox insert share one transaction, so a decision and its
// notification either both land or neither does.
func (s *service) decide(
	ctx context.Context,
	actorRole, actorID, id string,
	to workflow.Status,
	comments string,
) (*TimesheetResponse, error) {
	ts, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	op := workflow.OpApprove
	if to == workflow.StatusRejected {
		op = workflow.OpReject
	}
	if !workflow.Can(s.policy, actorRole, actorID, ts.UserID.String(), op) {
		return nil, timesheeterrors.ErrDecisionNotAllowed
	}
	if ts.CurrentStatus().Terminal() {
		return nil, timesheeterrors.ErrAlreadyDecided
	}
	if !workflow.Timesheets.CanDecide(ts.CurrentStatus()) {
		return nil, timesheeterrors.ErrInvalidStatusTransition
	}

	owner, err := s.users.FindByID(ctx, ts.UserID.String())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide timesheet begin tx failed", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rows, err := qtx.TransitionStatus(ctx, id, workflow.Timesheets.DecidableFrom, to, actorID, comments)
	if err != nil {
		s.logger.Error("decide timesheet transition failed", zap.String("timesheet_id", id), zap.Error(err))
		return nil, err
	}
	if rows == 0 {
		// A concurrent decider won the race.
		return nil, timesheeterrors.ErrAlreadyDecided
	}

	event := events.DecisionEvent{
		EventType:  "timesheet." + string(to),
		RequestID:  contextutil.GetRequestID(ctx),
		EntityKind: workflow.Timesheets.Name,
		EntityID:   id,
		OwnerID:    ts.UserID.String(),
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
	outboxEvent := kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     event.RequestID,
		AggregateType: workflow.Timesheets.Name,
		AggregateID:   id,
		EventType:     event.EventType,
		Topic:         events.DecisionTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		s.logger.Error("decide timesheet outbox insert failed", zap.String("timesheet_id", id), zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("timesheet decided",
		zap.String("timesheet_id", id),
		zap.String("status", string(to)),
		zap.String("decided_by", actorID),
	)
	return s.findResponse(ctx, id)
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	ts, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !workflow.Can(s.policy, "", actorID, ts.UserID.String(), workflow.OpDelete) {
		return timesheeterrors.ErrNotOwner
	}
	if !workflow.Timesheets.CanDelete(ts.CurrentStatus()) {
		return timesheeterrors.ErrInvalidStatusTransition
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete timesheet failed", zap.String("timesheet_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("timesheet deleted", zap.String("timesheet_id", id))
	return nil
}

func (s *service) find(ctx context.Context, id string) (*Timesheet, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, timesheeterrors.ErrInvalidTimesheetID
	}

	ts, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, timesheeterrors.ErrTimesheetNotFound
		}
		return nil, err
	}
	return ts, nil
}

func (s *service) findResponse(ctx context.Context, id string) (*TimesheetResponse, error) {
	ts, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(ts), nil
}

func canReadAll(role string) bool {
	return role == workflow.RoleManager || role == workflow.RoleAdmin
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

func toEntries(payload []EntryPayload) (Entries, error) {
	entries := make(Entries, 0, len(payload))
	for _, p := range payload {
		if !ValidActivityType(p.ActivityType) {
			return nil, timesheeterrors.ErrInvalidActivityType
		}
		entries = append(entries, Entry{
			ProjectCode:  p.ProjectCode,
			ActivityType: p.ActivityType,
			Description:  p.Description,
			Mon:          p.Mon,
			Tue:          p.Tue,
			Wed:          p.Wed,
			Thu:          p.Thu,
			Fri:          p.Fri,
		})
	}
	return entries, nil
}

func toResponse(ts *Timesheet) *TimesheetResponse {
	resp := &TimesheetResponse{
		ID:         ts.ID.String(),
		UserID:     ts.UserID.String(),
		WeekStart:  ts.WeekStart.Format(weekLayout),
		Entries:    ts.Entries,
		TotalHours: ts.Entries.TotalHours(),
		Status:     ts.Status,
		Comments:   ts.Comments,
		CreatedAt:  ts.CreatedAt.Format(time.RFC3339),
	}
	if resp.Entries == nil {
		resp.Entries = []Entry{}
	}
	if ts.SubmittedAt != nil {
		v := ts.SubmittedAt.Format(time.RFC3339)
		resp.SubmittedAt = &v
	}
	if ts.ReviewedBy != nil {
		v := ts.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if ts.ReviewedAt != nil {
		v := ts.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}
