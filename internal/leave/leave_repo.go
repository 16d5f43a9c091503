package leave

import (
	"context"
	"database/sql"

	"go-worklog/internal/workflow"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, id string) (*Leave, error)
	FindAllByUser(ctx context.Context, userID string) ([]Leave, error)
	FindAll(ctx context.Context, status string) ([]Leave, error)
	TransitionStatus(ctx context.Context, id string, from, to workflow.Status, reviewedBy, comments string) (int64, error)
	DeductBalance(ctx context.Context, userID string, days float64) (int64, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAll(ctx context.Context, status string) ([]Leave, error) {
	q := r.db.WithContext(ctx).Order("start_date DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var leaves []Leave
	err := q.Find(&leaves).Error
	return leaves, err
}

// TransitionStatus applies the decision conditionally on the current
// status. Zero rows means a concurrent decider got there first.
func (r *repository) TransitionStatus(
	ctx context.Context,
	id string,
	from, to workflow.Status,
	reviewedBy, comments string,
) (int64, error) {
	query := `
UPDATE leaves
SET
	status = $2,
	reviewed_by = $3,
	reviewed_at = NOW(),
	comments = $4,
	updated_at = NOW()
WHERE id = $1
	AND status = $5
	AND deleted_at IS NULL
`
	return r.exec(ctx, query, id, string(to), reviewedBy, comments, string(from))
}

// DeductBalance subtracts the approved days, guarded so the balance
// can never go negative. Zero rows means insufficient balance.
func (r *repository) DeductBalance(ctx context.Context, userID string, days float64) (int64, error) {
	query := `
UPDATE users
SET
	leave_balance = leave_balance - $2,
	updated_at = NOW()
WHERE id = $1
	AND leave_balance >= $2
	AND deleted_at IS NULL
`
	return r.exec(ctx, query, userID, days)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Leave{}, "id = ?", id).Error
}

func (r *repository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}

	res := r.db.WithContext(ctx).Exec(query, args...)
	return res.RowsAffected, res.Error
}
