package project

type CreateProjectRequest struct {
	Code             string   `json:"project_code" binding:"required,max=50"`
	Description      string   `json:"description" binding:"required"`
	ProjectManagerID string   `json:"project_manager_id" binding:"required,uuid"`
	EstimatedHours   float64  `json:"estimated_hours" binding:"gte=0"`
	TeamMembers      []string `json:"team_members" binding:"omitempty,dive,uuid"`
}

type UpdateProjectRequest struct {
	Description      string   `json:"description" binding:"required"`
	ProjectManagerID string   `json:"project_manager_id" binding:"required,uuid"`
	EstimatedHours   float64  `json:"estimated_hours" binding:"gte=0"`
	TeamMembers      []string `json:"team_members" binding:"omitempty,dive,uuid"`
}

type ProjectResponse struct {
	ID               string   `json:"id"`
	Code             string   `json:"project_code"`
	Description      string   `json:"description"`
	ProjectManagerID string   `json:"project_manager_id"`
	EstimatedHours   float64  `json:"estimated_hours"`
	TeamMembers      []string `json:"team_members"`
	CreatedAt        string   `json:"created_at"`
}

// ProjectOption is the lightweight shape used to fill dropdowns.
type ProjectOption struct {
	ID          string `json:"id"`
	Code        string `json:"project_code"`
	Description string `json:"description"`
}
