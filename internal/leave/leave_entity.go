package leave

import (
	"time"

	"go-worklog/internal/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Leave struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	StartDate time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null"`
	Days      float64   `gorm:"column:days;type:numeric(5,2);not null"`
	Reason    string    `gorm:"column:reason;type:text;not null"`
	Status    string    `gorm:"column:status;type:varchar(20);not null;default:'pending'"`

	ReviewedBy *uuid.UUID `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt *time.Time `gorm:"column:reviewed_at"`
	Comments   string     `gorm:"column:comments;type:text"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (l *Leave) CurrentStatus() workflow.Status {
	return workflow.Status(l.Status)
}

// DaysBetween counts calendar days from start to end inclusive. The
// stored value is always recomputed server side.
func DaysBetween(start, end time.Time) float64 {
	return end.Sub(start).Hours()/24 + 1
}
