package timesheet

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"go-worklog/internal/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActivityBillable    = "billable"
	ActivityNonBillable = "non_billable"
	ActivityLeave       = "leave"
)

// ValidActivityType reports whether the value is one of the three
// bookable activity categories.
func ValidActivityType(v string) bool {
	return v == ActivityBillable || v == ActivityNonBillable || v == ActivityLeave
}

// Entry is one row of a weekly timesheet: hours per weekday booked
// against a project.
type Entry struct {
	ProjectCode  string  `json:"project_code"`
	ActivityType string  `json:"activity_type"`
	Description  string  `json:"description,omitempty"`
	Mon          float64 `json:"mon"`
	Tue          float64 `json:"tue"`
	Wed          float64 `json:"wed"`
	Thu          float64 `json:"thu"`
	Fri          float64 `json:"fri"`
}

func (e Entry) Hours() float64 {
	return e.Mon + e.Tue + e.Wed + e.Thu + e.Fri
}

// Entries is the JSONB column holding all rows of a week.
type Entries []Entry

func (e Entries) Value() (driver.Value, error) {
	if e == nil {
		e = Entries{}
	}
	return json.Marshal(e)
}

func (e *Entries) Scan(src any) error {
	if src == nil {
		*e = Entries{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	default:
		return errors.New("unsupported entries source type")
	}
}

// TotalHours sums every weekday cell across all entries. Stored totals
// are always recomputed from this, never trusted from the client.
func (e Entries) TotalHours() float64 {
	var total float64
	for _, entry := range e {
		total += entry.Hours()
	}
	return total
}

type Timesheet struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	WeekStart  time.Time `gorm:"column:week_start;type:date;not null"`
	Entries    Entries   `gorm:"column:entries;type:jsonb;not null;default:'[]'"`
	TotalHours float64   `gorm:"column:total_hours;type:numeric(6,2);not null;default:0"`
	Status     string    `gorm:"column:status;type:varchar(20);not null;default:'draft'"`

	SubmittedAt *time.Time `gorm:"column:submitted_at"`
	ReviewedBy  *uuid.UUID `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at"`
	Comments    string     `gorm:"column:comments;type:text"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (t *Timesheet) CurrentStatus() workflow.Status {
	return workflow.Status(t.Status)
}
