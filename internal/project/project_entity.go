package project

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamMembers is a JSONB array of user IDs stored on the project row.
type TeamMembers []string

func (m TeamMembers) Value() (driver.Value, error) {
	if m == nil {
		m = TeamMembers{}
	}
	return json.Marshal(m)
}

func (m *TeamMembers) Scan(src any) error {
	if src == nil {
		*m = TeamMembers{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported team_members source type")
	}
}

func (m TeamMembers) Contains(userID string) bool {
	for _, id := range m {
		if id == userID {
			return true
		}
	}
	return false
}

type Project struct {
	ID               uuid.UUID   `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Code             string      `gorm:"column:code;type:varchar(50);not null;uniqueIndex:uq_projects_code"`
	Description      string      `gorm:"column:description;type:text;not null"`
	ProjectManagerID uuid.UUID   `gorm:"column:project_manager_id;type:uuid;not null"`
	EstimatedHours   float64     `gorm:"column:estimated_hours;type:numeric(10,2);not null;default:0"`
	TeamMembers      TeamMembers `gorm:"column:team_members;type:jsonb;not null;default:'[]'"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}
