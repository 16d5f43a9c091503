package timesheet

import (
	"context"
	"database/sql"

	"go-worklog/internal/workflow"

	"gorm.io/gorm"
)

//go:generate mockgen -source=timesheet_repo.go -destination=mock/timesheet_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, ts *Timesheet) error
	FindByID(ctx context.Context, id string) (*Timesheet, error)
	FindAllByUser(ctx context.Context, userID string) ([]Timesheet, error)
	FindAll(ctx context.Context, status string) ([]Timesheet, error)
	FindApproved(ctx context.Context) ([]Timesheet, error)
	Update(ctx context.Context, ts *Timesheet) error
	Submit(ctx context.Context, id string, totalHours float64) (int64, error)
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

func (r *repository) Create(ctx context.Context, ts *Timesheet) error {
	return r.db.WithContext(ctx).Create(ts).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Timesheet, error) {
	var ts Timesheet
	err := r.db.WithContext(ctx).First(&ts, "id = ?", id).Error
	return &ts, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]Timesheet, error) {
	var sheets []Timesheet
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("week_start DESC").
		Find(&sheets).Error
	return sheets, err
}

func (r *repository) FindAll(ctx context.Context, status string) ([]Timesheet, error) {
	q := r.db.WithContext(ctx).Order("week_start DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var sheets []Timesheet
	err := q.Find(&sheets).Error
	return sheets, err
}

func (r *repository) FindApproved(ctx context.Context) ([]Timesheet, error) {
	var sheets []Timesheet
	err := r.db.WithContext(ctx).
		Where("status = ?", string(workflow.StatusApproved)).
		Order("week_start ASC").
		Find(&sheets).Error
	return sheets, err
}

func (r *repository) Update(ctx context.Context, ts *Timesheet) error {
	return r.db.WithContext(ctx).Save(ts).Error
}

// Submit flips draft to submitted with a status guard in the WHERE
// clause. Zero rows means the sheet was not in draft anymore.
func (r *repository) Submit(ctx context.Context, id string, totalHours float64) (int64, error) {
	query := `
UPDATE timesheets
SET
	status = $2,
	total_hours = $3,
	submitted_at = NOW(),
	updated_at = NOW()
WHERE id = $1
	AND status = $4
	AND deleted_at IS NULL
`
	return r.exec(ctx, query,
		id, string(workflow.StatusSubmitted), totalHours, string(workflow.StatusDraft),
	)
}

// TransitionStatus applies the decision as a conditional update. The
// status guard makes concurrent deciders race safely: exactly one
// UPDATE matches, the loser sees zero rows.
func (r *repository) TransitionStatus(
	ctx context.Context,
	id string,
	from, to workflow.Status,
	reviewedBy, comments string,
) (int64, error) {
	query := `
UPDATE timesheets
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
	return r.db.WithContext(ctx).Delete(&Timesheet{}, "id = ?", id).Error
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
