package timesheet

type EntryPayload struct {
	ProjectCode  string  `json:"project_code" binding:"required,max=50"`
	ActivityType string  `json:"activity_type" binding:"required,oneof=billable non_billable leave"`
	Description  string  `json:"description"`
	Mon          float64 `json:"mon" binding:"gte=0,lte=24"`
	Tue          float64 `json:"tue" binding:"gte=0,lte=24"`
	Wed          float64 `json:"wed" binding:"gte=0,lte=24"`
	Thu          float64 `json:"thu" binding:"gte=0,lte=24"`
	Fri          float64 `json:"fri" binding:"gte=0,lte=24"`
}

type CreateTimesheetRequest struct {
	WeekStart string         `json:"week_start" binding:"required,datetime=2006-01-02"`
	Entries   []EntryPayload `json:"entries" binding:"omitempty,dive"`
}

type UpdateTimesheetRequest struct {
	Entries []EntryPayload `json:"entries" binding:"required,dive"`
}

// DecisionRequest carries the reviewer comment. Required for reject,
// optional for approve.
type DecisionRequest struct {
	Comments string `json:"comments"`
}

type TimesheetResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	WeekStart   string  `json:"week_start"`
	Entries     []Entry `json:"entries"`
	TotalHours  float64 `json:"total_hours"`
	Status      string  `json:"status"`
	SubmittedAt *string `json:"submitted_at,omitempty"`
	ReviewedBy  *string `json:"reviewed_by,omitempty"`
	ReviewedAt  *string `json:"reviewed_at,omitempty"`
	Comments    string  `json:"comments,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
