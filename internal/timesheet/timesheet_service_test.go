package timesheet_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"go-worklog/internal/events"
	"go-worklog/internal/messaging/kafka"
	"go-worklog/internal/timesheet"
	timesheeterrors "go-worklog/internal/timesheet/errors"
	"go-worklog/internal/user"
	"go-worklog/internal/workflow"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeTimesheetRepo struct {
	createFn        func(ctx context.Context, ts *timesheet.Timesheet) error
	findByIDFn      func(ctx context.Context, id string) (*timesheet.Timesheet, error)
	findAllByUserFn func(ctx context.Context, userID string) ([]timesheet.Timesheet, error)
	findAllFn       func(ctx context.Context, status string) ([]timesheet.Timesheet, error)
	findApprovedFn  func(ctx context.Context) ([]timesheet.Timesheet, error)
	updateFn        func(ctx context.Context, ts *timesheet.Timesheet) error
	submitFn        func(ctx context.Context, id string, totalHours float64) (int64, error)
	transitionFn    func(ctx context.Context, id string, from, to workflow.Status, reviewedBy, comments string) (int64, error)
	deleteFn        func(ctx context.Context, id string) error
}

func (f *fakeTimesheetRepo) WithTx(tx *sql.Tx) timesheet.Repository { return f }

func (f *fakeTimesheetRepo) Create(ctx context.Context, ts *timesheet.Timesheet) error {
	return f.createFn(ctx, ts)
}

func (f *fakeTimesheetRepo) FindByID(ctx context.Context, id string) (*timesheet.Timesheet, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeTimesheetRepo) FindAllByUser(ctx context.Context, userID string) ([]timesheet.Timesheet, error) {
	return f.findAllByUserFn(ctx, userID)
}

func (f *fakeTimesheetRepo) FindAll(ctx context.Context, status string) ([]timesheet.Timesheet, error) {
	return f.findAllFn(ctx, status)
}

func (f *fakeTimesheetRepo) FindApproved(ctx context.Context) ([]timesheet.Timesheet, error) {
	return f.findApprovedFn(ctx)
}

func (f *fakeTimesheetRepo) Update(ctx context.Context, ts *timesheet.Timesheet) error {
	return f.updateFn(ctx, ts)
}

func (f *fakeTimesheetRepo) Submit(ctx context.Context, id string, totalHours float64) (int64, error) {
	return f.submitFn(ctx, id, totalHours)
}

func (f *fakeTimesheetRepo) TransitionStatus(ctx context.Context, id string, from, to workflow.Status, reviewedBy, comments string) (int64, error) {
	return f.transitionFn(ctx, id, from, to, reviewedBy, comments)
}

func (f *fakeTimesheetRepo) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

type fakeOutboxRepo struct {
	created []kafka.OutboxEvent
	err     error
}

func (f *fakeOutboxRepo) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fakeUserRepo struct {
	users map[string]*user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error { return nil }

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*user.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindAll(ctx context.Context) ([]user.User, error) { return nil, nil }
func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error   { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id string) error      { return nil }

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func newSheet(ownerID uuid.UUID, status workflow.Status) *timesheet.Timesheet {
	return &timesheet.Timesheet{
		ID:        uuid.New(),
		UserID:    ownerID,
		WeekStart: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		Entries: timesheet.Entries{
			{ProjectCode: "ACME", ActivityType: timesheet.ActivityBillable, Mon: 8, Tue: 8, Wed: 8, Thu: 8, Fri: 8},
		},
		TotalHours: 40,
		Status:     string(status),
	}
}

func TestTimesheetService_Create(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("success recomputes total hours", func(t *testing.T) {
		var stored *timesheet.Timesheet
		repo := &fakeTimesheetRepo{
			createFn: func(ctx context.Context, ts *timesheet.Timesheet) error {
				stored = ts
				return nil
			},
		}
		svc := timesheet.NewService(nil, repo, &fakeOutboxRepo{}, &fakeUserRepo{})

		resp, err := svc.Create(ctx, ownerID.String(), timesheet.CreateTimesheetRequest{
			WeekStart: "2026-08-24",
			Entries: []timesheet.EntryPayload{
				{ProjectCode: "ACME", ActivityType: timesheet.ActivityBillable, Mon: 8, Tue: 7.5},
				{ProjectCode: "INT", ActivityType: timesheet.ActivityNonBillable, Fri: 2},
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, "draft", resp.Status)
		assert.Equal(t, 17.5, resp.TotalHours)
		assert.Equal(t, 17.5, stored.TotalHours)
	})

	t.Run("negative week start must be monday", func(t *testing.T) {
		svc := timesheet.NewService(nil, &fakeTimesheetRepo{}, &fakeOutboxRepo{}, &fakeUserRepo{})

		_, err := svc.Create(ctx, ownerID.String(), timesheet.CreateTimesheetRequest{
			WeekStart: "2026-08-25",
		})

		assert.ErrorIs(t, err, timesheeterrors.ErrWeekStartNotMonday)
	})

	t.Run("negative unknown activity type is rejected", func(t *testing.T) {
		svc := timesheet.NewService(nil, &fakeTimesheetRepo{}, &fakeOutboxRepo{}, &fakeUserRepo{})

		_, err := svc.Create(ctx, ownerID.String(), timesheet.CreateTimesheetRequest{
			WeekStart: "2026-08-24",
			Entries: []timesheet.EntryPayload{
				{ProjectCode: "ACME", ActivityType: "dev", Mon: 8},
			},
		})

		assert.ErrorIs(t, err, timesheeterrors.ErrInvalidActivityType)
	})

	t.Run("negative duplicate week maps to conflict", func(t *testing.T) {
		repo := &fakeTimesheetRepo{
			createFn: func(ctx context.Context, ts *timesheet.Timesheet) error {
				return &pgconn.PgError{Code: "23505"}
			},
		}
		svc := timesheet.NewService(nil, repo, &fakeOutboxRepo{}, &fakeUserRepo{})

		_, err := svc.Create(ctx, ownerID.String(), timesheet.CreateTimesheetRequest{
			WeekStart: "2026-08-24",
		})

		assert.ErrorIs(t, err, timesheeterrors.ErrDuplicateWeek)
	})
}

func TestTimesheetService_Submit(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("success draft to submitted", func(t *testing.T) {
		sheet := newSheet(ownerID, workflow.StatusDraft)
		submitted := false
		repo := &fakeTimesheetRepo{
			findByIDFn: func(ctx context.Context, id string) (*timesheet.Timesheet, error) {
				if submitted {
					s := *sheet
					s.Status = string(workflow.StatusSubmitted)
					return &s, nil
				}
				return sheet, nil
			},
			submitFn: func(ctx context.Context, id string, totalHours float64) (int64, error) {
				submitted = true
				assert.Equal(t, float64(40), totalHours)
				return 1, nil
			},
		}
		svc := timesheet.NewService(nil, repo, &fakeOutboxRepo{}, &fakeUserRepo{})

		resp, err := svc.Submit(ctx, ownerID.String(), sheet.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, "submitted", resp.Status)
	})

	t.Run("negative non-owner cannot submit", func(t *testing.T) {
		sheet := newSheet(ownerID, workflow.StatusDraft)
		repo := &fakeTimesheetRepo{
			findByIDFn: func(ctx context.Context, id string) (*timesheet.Timesheet, error) {
				return sheet, nil
			},
		}
		svc := timesheet.NewService(nil, repo, &fakeOutboxRepo{}, &fakeUserRepo{})

		_, err := svc.Submit(ctx, uuid.New().String(), sheet.ID.String())

		assert.ErrorIs(t, err, timesheeterrors.ErrNotOwner)
	})

	t.Run("negative resubmitting a submitted sheet", func(t *testing.T) {
		sheet := newSheet(ownerID, workflow.StatusSubmitted)
		repo := &fakeTimesheetRepo{
			findByIDFn: func(ctx context.Context, id string) (*timesheet.Timesheet, error) {
				return sheet, nil
			},
		}
		svc := timesheet.NewService(nil, repo, &fakeOutboxRepo{}, &fakeUserRepo{})

		_, err := svc.Submit(ctx, ownerID.String(), sheet.ID.String())

		assert.ErrorIs(t, err, timesheeterrors.ErrInvalidStatusTransition)
	})
}

func TestTimesheetService_Decide(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	managerID := uuid.New()

	owner := &user.User{ID: ownerID, Email: "owner@example.com", Name: "Owner", Role: "employee"}
	users := &fakeUserRepo{users: map[string]*user.User{ownerID.String(): owner}}

	t.Run("success approve writes outbox event in tx", func(t *testing.T) {
		db, sqlMock, _ := sqlmock.New()
		defer db.Close()
		expectTx(t, sqlMock, true)

		sheet := newSheet(ownerID, workflow.StatusSubmitted)
		decided := false
		repo := &fakeTimesheetRepo{
			findByIDFn: func(ctx context.Context, id string) (*timesheet.Timesheet, error) {
				if decided {
					s := *sheet
					s.Status = string(workflow.StatusApproved)
					return &s, nil
				}
				return sheet, nil
			},
			transitionFn: func(ctx context.Context, id string, from, to workflow.Status, reviewedBy, comments string) (int64, error) {
				assert.Equal(t, workflow.StatusSubmitted, from)
				assert.Equal(t, workflow.StatusApproved, to)
				assert.Equal(t, managerID.String(), reviewedBy)
				decided = true
				return 1, nil
			},
		}
		outbox := &fakeOutboxRepo{}
		svc := timesheet.NewService(db, repo, outbox, users)

		resp, err := svc.Approve(ctx, "manager", managerID.String(), sheet.ID.String(), timesheet.DecisionRequest{})

		assert.NoError(t, err)
		assert.Equal(t, "approved", resp.Status)
		assert.Len(t, outbox.created, 1)
		assert.Equal(t, events.DecisionTopic, outbox.created[0].Topic)

		var event events.DecisionEvent
		assert.NoError(t, json.Unmarshal(outbox.created[0].Payload, &event))
		assert.Equal(t, "timesheet.approved", event.EventType)
		assert.Equal(t, "owner@example.com", event.OwnerEmail)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("negative employee cannot approve", func(t *testing.T) {
		sheet := newSheet(ownerID, workflow.StatusSubmitted)
		repo := &fakeTimesheetRepo{
			findByIDFn: func(ctx context.Context, id string) (*timesheet.Timesheet, error) {
				return sheet, nil
			},
		}
		svc := timesheet.NewService(nil, repo, &fakeOutboxRepo{}, users)

		_, err := svc.Approve(ctx, "employee", ownerID.String(), sheet.ID.String(), timesheet.DecisionRequest{})

		assert.ErrorIs(t, err, timesheeterrors.ErrDecisionNotAllowed)
	})

	t.Run("negative reject requires comments", func(t *testing.T) {
		svc := timesheet.NewService(nil, &fakeTimesheetRepo{}, &fakeOutboxRepo{}, users)

		_, err := svc.Reject(ctx, "manager", managerID.String(), uuid.New().String(), timesheet.DecisionRequest{Comments: "   "})

		assert.ErrorIs(t, err, timesheeterrors.ErrCommentsRequired)
	})

	t.Run("negative already decided", func(t *testing.T) {
		sheet := newSheet(ownerID, workflow.StatusApproved)
		repo := &fakeTimesheetRepo{
			findByIDFn: func(ctx context.Context, id string) (*timesheet.Timesheet, error) {
				return sheet, nil
			},
		}
		svc := timesheet.NewService(nil, repo, &fakeOutboxRepo{}, users)

		_, err := svc.Approve(ctx, "manager", managerID.String(), sheet.ID.String(), timesheet.DecisionRequest{})

		assert.ErrorIs(t, err, timesheeterrors.ErrAlreadyDecided)
	})

	t.Run("negative draft sheet is not decidable", func(t *testing.T) {
		sheet := newSheet(ownerID, workflow.StatusDraft)
		repo := &fakeTimesheetRepo{
			findByIDFn: func(ctx context.Context, id string) (*timesheet.Timesheet, error) {
				return sheet, nil
			},
		}
		svc := timesheet.NewService(nil, repo, &fakeOutboxRepo{}, users)

		_, err := svc.Approve(ctx, "manager", managerID.String(), sheet.ID.String(), timesheet.DecisionRequest{})

		assert.ErrorIs(t, err, timesheeterrors.ErrInvalidStatusTransition)
	})

	t.Run("negative race loser sees already decided", func(t *testing.T) {
		db, sqlMock, _ := sqlmock.New()
		defer db.Close()
		expectTx(t, sqlMock, false)

		sheet := newSheet(ownerID, workflow.StatusSubmitted)
		repo := &fakeTimesheetRepo{
			findByIDFn: func(ctx context.Context, id string) (*timesheet.Timesheet, error) {
				return sheet, nil
			},
			transitionFn: func(ctx context.Context, id string, from, to workflow.Status, reviewedBy, comments string) (int64, error) {
				return 0, nil
			},
		}
		svc := timesheet.NewService(db, repo, &fakeOutboxRepo{}, users)

		_, err := svc.Reject(ctx, "manager", managerID.String(), sheet.ID.String(), timesheet.DecisionRequest{Comments: "late"})

		assert.ErrorIs(t, err, timesheeterrors.ErrAlreadyDecided)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestTimesheetService_Delete(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("negative submitted sheet cannot be deleted", func(t *testing.T) {
		sheet := newSheet(ownerID, workflow.StatusSubmitted)
		repo := &fakeTimesheetRepo{
			findByIDFn: func(ctx context.Context, id string) (*timesheet.Timesheet, error) {
				return sheet, nil
			},
		}
		svc := timesheet.NewService(nil, repo, &fakeOutboxRepo{}, &fakeUserRepo{})

		err := svc.Delete(ctx, ownerID.String(), sheet.ID.String())

		assert.ErrorIs(t, err, timesheeterrors.ErrInvalidStatusTransition)
	})

	t.Run("success draft delete by owner", func(t *testing.T) {
		sheet := newSheet(ownerID, workflow.StatusDraft)
		deleted := false
		repo := &fakeTimesheetRepo{
			findByIDFn: func(ctx context.Context, id string) (*timesheet.Timesheet, error) {
				return sheet, nil
			},
			deleteFn: func(ctx context.Context, id string) error {
				deleted = true
				return nil
			},
		}
		svc := timesheet.NewService(nil, repo, &fakeOutboxRepo{}, &fakeUserRepo{})

		assert.NoError(t, svc.Delete(ctx, ownerID.String(), sheet.ID.String()))
		assert.True(t, deleted)
	})

	// Uniqueness only binds live rows, so a deleted draft's week can be
	// booked again.
	t.Run("delete then recreate same week succeeds", func(t *testing.T) {
		live := map[string]*timesheet.Timesheet{}
		byID := map[string]*timesheet.Timesheet{}
		weekOf := func(ts *timesheet.Timesheet) string {
			return ts.UserID.String() + "|" + ts.WeekStart.Format("2006-01-02")
		}
		repo := &fakeTimesheetRepo{
			createFn: func(ctx context.Context, ts *timesheet.Timesheet) error {
				if _, taken := live[weekOf(ts)]; taken {
					return &pgconn.PgError{Code: "23505"}
				}
				live[weekOf(ts)] = ts
				byID[ts.ID.String()] = ts
				return nil
			},
			findByIDFn: func(ctx context.Context, id string) (*timesheet.Timesheet, error) {
				return byID[id], nil
			},
			deleteFn: func(ctx context.Context, id string) error {
				delete(live, weekOf(byID[id]))
				return nil
			},
		}
		svc := timesheet.NewService(nil, repo, &fakeOutboxRepo{}, &fakeUserRepo{})
		req := timesheet.CreateTimesheetRequest{
			WeekStart: "2026-08-24",
			Entries: []timesheet.EntryPayload{
				{ProjectCode: "ACME", ActivityType: timesheet.ActivityBillable, Mon: 8},
			},
		}

		first, err := svc.Create(ctx, ownerID.String(), req)
		assert.NoError(t, err)

		_, err = svc.Create(ctx, ownerID.String(), req)
		assert.ErrorIs(t, err, timesheeterrors.ErrDuplicateWeek)

		assert.NoError(t, svc.Delete(ctx, ownerID.String(), first.ID))

		second, err := svc.Create(ctx, ownerID.String(), req)
		assert.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestTimesheetService_GetAll(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	sheets := []timesheet.Timesheet{*newSheet(ownerID, workflow.StatusDraft)}

	repo := &fakeTimesheetRepo{
		findAllFn: func(ctx context.Context, status string) ([]timesheet.Timesheet, error) {
			return sheets, nil
		},
		findAllByUserFn: func(ctx context.Context, userID string) ([]timesheet.Timesheet, error) {
			assert.Equal(t, ownerID.String(), userID)
			return sheets, nil
		},
	}
	svc := timesheet.NewService(nil, repo, &fakeOutboxRepo{}, &fakeUserRepo{})

	t.Run("employee is scoped to own sheets", func(t *testing.T) {
		resp, err := svc.GetAll(ctx, "employee", ownerID.String(), "")
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
	})

	t.Run("admin sees all", func(t *testing.T) {
		resp, err := svc.GetAll(ctx, "admin", uuid.New().String(), "")
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
	})
}
