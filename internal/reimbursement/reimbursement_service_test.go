package reimbursement_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"testing"
	"time"

	"go-worklog/internal/messaging/kafka"
	"go-worklog/internal/reimbursement"
	reimbursementerrors "go-worklog/internal/reimbursement/errors"
	"go-worklog/internal/user"
	"go-worklog/internal/workflow"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeReimbursementRepo struct {
	createFn        func(ctx context.Context, rb *reimbursement.Reimbursement) error
	findByIDFn      func(ctx context.Context, id string) (*reimbursement.Reimbursement, error)
	findAllByUserFn func(ctx context.Context, userID string) ([]reimbursement.Reimbursement, error)
	findAllFn       func(ctx context.Context, status string) ([]reimbursement.Reimbursement, error)
	transitionFn    func(ctx context.Context, id string, from, to workflow.Status, reviewedBy, comments string) (int64, error)
	deleteFn        func(ctx context.Context, id string) error
}

func (f *fakeReimbursementRepo) WithTx(tx *sql.Tx) reimbursement.Repository { return f }

func (f *fakeReimbursementRepo) Create(ctx context.Context, rb *reimbursement.Reimbursement) error {
	return f.createFn(ctx, rb)
}

func (f *fakeReimbursementRepo) FindByID(ctx context.Context, id string) (*reimbursement.Reimbursement, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeReimbursementRepo) FindAllByUser(ctx context.Context, userID string) ([]reimbursement.Reimbursement, error) {
	return f.findAllByUserFn(ctx, userID)
}

func (f *fakeReimbursementRepo) FindAll(ctx context.Context, status string) ([]reimbursement.Reimbursement, error) {
	return f.findAllFn(ctx, status)
}

func (f *fakeReimbursementRepo) TransitionStatus(ctx context.Context, id string, from, to workflow.Status, reviewedBy, comments string) (int64, error) {
	return f.transitionFn(ctx, id, from, to, reviewedBy, comments)
}

func (f *fakeReimbursementRepo) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

type fakeOutboxRepo struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepo) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error {
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

func pendingReimbursement(ownerID uuid.UUID) *reimbursement.Reimbursement {
	return &reimbursement.Reimbursement{
		ID:          uuid.New(),
		UserID:      ownerID,
		Amount:      120.50,
		Description: "train tickets",
		ExpenseDate: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		Status:      string(workflow.StatusPending),
	}
}

func TestReimbursementService_Create(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("success with base64 receipt", func(t *testing.T) {
		var stored *reimbursement.Reimbursement
		repo := &fakeReimbursementRepo{
			createFn: func(ctx context.Context, rb *reimbursement.Reimbursement) error {
				stored = rb
				return nil
			},
		}
		svc := reimbursement.NewService(nil, repo, &fakeOutboxRepo{}, &fakeUserRepo{})

		receipt := []byte("fake-jpeg-bytes")
		resp, err := svc.Create(ctx, ownerID.String(), reimbursement.CreateReimbursementRequest{
			Amount:      120.50,
			Description: "train tickets",
			ExpenseDate: "2026-08-20",
			ReceiptName: "tickets.jpg",
			ReceiptType: "image/jpeg",
			Receipt:     base64.StdEncoding.EncodeToString(receipt),
		})

		assert.NoError(t, err)
		assert.Equal(t, "pending", resp.Status)
		assert.True(t, resp.HasReceipt)
		assert.True(t, bytes.Equal(receipt, stored.Receipt))
	})

	t.Run("success without receipt", func(t *testing.T) {
		repo := &fakeReimbursementRepo{
			createFn: func(ctx context.Context, rb *reimbursement.Reimbursement) error {
				return nil
			},
		}
		svc := reimbursement.NewService(nil, repo, &fakeOutboxRepo{}, &fakeUserRepo{})

		resp, err := svc.Create(ctx, ownerID.String(), reimbursement.CreateReimbursementRequest{
			Amount:      40,
			Description: "lunch with client",
			ExpenseDate: "2026-08-20",
		})

		assert.NoError(t, err)
		assert.False(t, resp.HasReceipt)
	})

	t.Run("negative receipt type not allowed", func(t *testing.T) {
		svc := reimbursement.NewService(nil, &fakeReimbursementRepo{}, &fakeOutboxRepo{}, &fakeUserRepo{})

		_, err := svc.Create(ctx, ownerID.String(), reimbursement.CreateReimbursementRequest{
			Amount:      40,
			Description: "archive",
			ExpenseDate: "2026-08-20",
			ReceiptName: "archive.zip",
			ReceiptType: "application/zip",
			Receipt:     base64.StdEncoding.EncodeToString([]byte("zip")),
		})

		assert.ErrorIs(t, err, reimbursementerrors.ErrInvalidReceipt)
	})

	t.Run("negative receipt over size cap", func(t *testing.T) {
		err := reimbursement.ValidateReceipt(&reimbursement.Receipt{
			Name: "huge.pdf",
			Type: "application/pdf",
			Data: make([]byte, reimbursement.MaxReceiptBytes+1),
		})

		assert.ErrorIs(t, err, reimbursementerrors.ErrReceiptTooLarge)
	})
}

func TestReimbursementService_Decide(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	managerID := uuid.New()
	users := &fakeUserRepo{users: map[string]*user.User{
		ownerID.String(): {ID: ownerID, Email: "o@x.com", Name: "O"},
	}}

	t.Run("negative employee cannot reject", func(t *testing.T) {
		rb := pendingReimbursement(ownerID)
		repo := &fakeReimbursementRepo{
			findByIDFn: func(ctx context.Context, id string) (*reimbursement.Reimbursement, error) {
				return rb, nil
			},
		}
		svc := reimbursement.NewService(nil, repo, &fakeOutboxRepo{}, users)

		_, err := svc.Reject(ctx, "employee", ownerID.String(), rb.ID.String(), reimbursement.DecisionRequest{Comments: "no"})

		assert.ErrorIs(t, err, reimbursementerrors.ErrDecisionNotAllowed)
	})

	t.Run("negative manager reject without comments", func(t *testing.T) {
		svc := reimbursement.NewService(nil, &fakeReimbursementRepo{}, &fakeOutboxRepo{}, users)

		_, err := svc.Reject(ctx, "manager", managerID.String(), uuid.New().String(), reimbursement.DecisionRequest{Comments: "  "})

		assert.ErrorIs(t, err, reimbursementerrors.ErrCommentsRequired)
	})

	t.Run("success manager reject with reason lands rejected", func(t *testing.T) {
		db, sqlMock, _ := sqlmock.New()
		defer db.Close()
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		rb := pendingReimbursement(ownerID)
		decided := false
		repo := &fakeReimbursementRepo{
			findByIDFn: func(ctx context.Context, id string) (*reimbursement.Reimbursement, error) {
				if decided {
					r := *rb
					r.Status = string(workflow.StatusRejected)
					r.Comments = "missing receipt"
					return &r, nil
				}
				return rb, nil
			},
			transitionFn: func(ctx context.Context, id string, from, to workflow.Status, reviewedBy, comments string) (int64, error) {
				assert.Equal(t, workflow.StatusPending, from)
				assert.Equal(t, workflow.StatusRejected, to)
				assert.Equal(t, "missing receipt", comments)
				decided = true
				return 1, nil
			},
		}
		outbox := &fakeOutboxRepo{}
		svc := reimbursement.NewService(db, repo, outbox, users)

		resp, err := svc.Reject(ctx, "manager", managerID.String(), rb.ID.String(), reimbursement.DecisionRequest{Comments: "missing receipt"})

		assert.NoError(t, err)
		assert.Equal(t, "rejected", resp.Status)
		assert.Equal(t, "missing receipt", resp.Comments)
		assert.Len(t, outbox.created, 1)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("negative decided reimbursement stays decided", func(t *testing.T) {
		rb := pendingReimbursement(ownerID)
		rb.Status = string(workflow.StatusApproved)
		repo := &fakeReimbursementRepo{
			findByIDFn: func(ctx context.Context, id string) (*reimbursement.Reimbursement, error) {
				return rb, nil
			},
		}
		svc := reimbursement.NewService(nil, repo, &fakeOutboxRepo{}, users)

		_, err := svc.Approve(ctx, "admin", managerID.String(), rb.ID.String(), reimbursement.DecisionRequest{})

		assert.ErrorIs(t, err, reimbursementerrors.ErrAlreadyDecided)
	})
}

func TestReimbursementService_GetReceipt(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("negative receipt missing", func(t *testing.T) {
		rb := pendingReimbursement(ownerID)
		repo := &fakeReimbursementRepo{
			findByIDFn: func(ctx context.Context, id string) (*reimbursement.Reimbursement, error) {
				return rb, nil
			},
		}
		svc := reimbursement.NewService(nil, repo, &fakeOutboxRepo{}, &fakeUserRepo{})

		_, err := svc.GetReceipt(ctx, "employee", ownerID.String(), rb.ID.String())

		assert.ErrorIs(t, err, reimbursementerrors.ErrReceiptNotFound)
	})

	t.Run("negative other employee cannot fetch receipt", func(t *testing.T) {
		rb := pendingReimbursement(ownerID)
		rb.Receipt = []byte("data")
		rb.ReceiptName = "r.pdf"
		repo := &fakeReimbursementRepo{
			findByIDFn: func(ctx context.Context, id string) (*reimbursement.Reimbursement, error) {
				return rb, nil
			},
		}
		svc := reimbursement.NewService(nil, repo, &fakeOutboxRepo{}, &fakeUserRepo{})

		_, err := svc.GetReceipt(ctx, "employee", uuid.New().String(), rb.ID.String())

		assert.ErrorIs(t, err, reimbursementerrors.ErrNotOwner)
	})
}
