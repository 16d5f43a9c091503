package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Email              string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	Password           string     `gorm:"column:password;type:text;not null"`
	Name               string     `gorm:"column:name;type:varchar(255);not null"`
	Role               string     `gorm:"column:role;type:varchar(20);not null;default:'employee'"`
	ReportingManagerID *uuid.UUID `gorm:"column:reporting_manager_id;type:uuid"`
	LeaveBalance       float64    `gorm:"column:leave_balance;type:numeric(6,2);not null;default:20"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}
