package user

type CreateUserRequest struct {
	Email              string   `json:"email" binding:"required,email"`
	Password           string   `json:"password" binding:"required,min=6"`
	Name               string   `json:"name" binding:"required"`
	Role               string   `json:"role" binding:"required,oneof=employee manager admin"`
	ReportingManagerID *string  `json:"reporting_manager_id" binding:"omitempty,uuid"`
	LeaveBalance       *float64 `json:"leave_balance" binding:"omitempty,gte=0"`
}

type UpdateUserRequest struct {
	Name               string   `json:"name" binding:"required"`
	Role               string   `json:"role" binding:"required,oneof=employee manager admin"`
	Password           *string  `json:"password" binding:"omitempty,min=6"`
	ReportingManagerID *string  `json:"reporting_manager_id" binding:"omitempty,uuid"`
	LeaveBalance       *float64 `json:"leave_balance" binding:"omitempty,gte=0"`
}

type UserResponse struct {
	ID                 string  `json:"id"`
	Email              string  `json:"email"`
	Name               string  `json:"name"`
	Role               string  `json:"role"`
	ReportingManagerID *string `json:"reporting_manager_id,omitempty"`
	LeaveBalance       float64 `json:"leave_balance"`
	CreatedAt          string  `json:"created_at"`
}
