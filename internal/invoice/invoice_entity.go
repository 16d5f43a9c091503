package invoice

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusPaid      = "paid"
)

type Invoice struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectID      uuid.UUID `gorm:"column:project_id;type:uuid;not null"`
	Milestone      string    `gorm:"column:milestone;type:text"`
	EstimatedHours float64   `gorm:"column:estimated_hours;type:numeric(10,2);not null;default:0"`
	EstimatedCost  float64   `gorm:"column:estimated_cost;type:numeric(12,2);not null;default:0"`
	ActualHours    float64   `gorm:"column:actual_hours;type:numeric(10,2);not null;default:0"`
	ActualCost     float64   `gorm:"column:actual_cost;type:numeric(12,2);not null;default:0"`
	Status         string    `gorm:"column:status;type:varchar(20);not null;default:'draft'"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}
