package reimbursement

import (
	"context"
	"database/sql"

	"go-worklog/internal/workflow"

	"gorm.io/gorm"
)

//go:generate mockgen -source=reimbursement_repo.go -destination=mock/reimbursement_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Reimbursement) error
	FindByID(ctx context.Context, id string) (*Reimbursement, error)
	FindAllByUser(ctx context.Context, userID string) ([]Reimbursement, error)
	FindAll(ctx context.Context, status string) ([]Reimbursement, error)
	TransitionStatus(ctx context.Context, id string, from, to workflow.Status, reviewedBy, comments string) (int64, error)
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

func (r *repository) Create(ctx context.Context, rb *Reimbursement) error {
	return r.db.WithContext(ctx).Create(rb).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Reimbursement, error) {
	var rb Reimbursement
	err := r.db.WithContext(ctx).First(&rb, "id = ?", id).Error
	return &rb, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]Reimbursement, error) {
	var items []Reimbursement
	err := r.db.WithContext(ctx).
		Omit("receipt").
		Where("user_id = ?", userID).
		Order("expense_date DESC").
		Find(&items).Error
	return items, err
}

func (r *repository) FindAll(ctx context.Context, status string) ([]Reimbursement, error) {
	q := r.db.WithContext(ctx).Omit("receipt").Order("expense_date DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var items []Reimbursement
	err := q.Find(&items).Error
	return items, err
}

func (r *repository) TransitionStatus(
	ctx context.Context,
	id string,
	from, to workflow.Status,
	reviewedBy, comments string,
) (int64, error) {
	query := `
UPDATE reimbursements
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

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Reimbursement{}, "id = ?", id).Error
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
