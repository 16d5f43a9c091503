package reimbursement

import (
	"time"

	"go-worklog/internal/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Reimbursement struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Amount      float64   `gorm:"column:amount;type:numeric(12,2);not null"`
	Description string    `gorm:"column:description;type:text;not null"`
	ExpenseDate time.Time `gorm:"column:expense_date;type:date;not null"`
	Status      string    `gorm:"column:status;type:varchar(20);not null;default:'pending'"`

	ReceiptName string `gorm:"column:receipt_name;type:varchar(255)"`
	ReceiptType string `gorm:"column:receipt_type;type:varchar(100)"`
	Receipt     []byte `gorm:"column:receipt;type:bytea"`

	ReviewedBy *uuid.UUID `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt *time.Time `gorm:"column:reviewed_at"`
	Comments   string     `gorm:"column:comments;type:text"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (r *Reimbursement) CurrentStatus() workflow.Status {
	return workflow.Status(r.Status)
}
