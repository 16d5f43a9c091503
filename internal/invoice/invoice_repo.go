package invoice

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=invoice_repo.go -destination=mock/invoice_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	FindByID(ctx context.Context, id string) (*Invoice, error)
	FindAll(ctx context.Context, status string) ([]Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, inv *Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Invoice, error) {
	var inv Invoice
	err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error
	return &inv, err
}

func (r *repository) FindAll(ctx context.Context, status string) ([]Invoice, error) {
	q := r.db.WithContext(ctx).Order("issue_date DESC, number DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var invoices []Invoice
	err := q.Find(&invoices).Error
	return invoices, err
}

func (r *repository) Update(ctx context.Context, inv *Invoice) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Invoice{}, "id = ?", id).Error
}
