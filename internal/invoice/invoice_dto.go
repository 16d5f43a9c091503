package invoice

type CreateInvoiceRequest struct {
	ProjectID      string  `json:"project_id" binding:"required,uuid"`
	Milestone      string  `json:"milestone"`
	EstimatedHours float64 `json:"estimated_hours" binding:"gte=0"`
	EstimatedCost  float64 `json:"estimated_cost" binding:"gte=0"`
}

type UpdateInvoiceRequest struct {
	Milestone      string  `json:"milestone"`
	EstimatedHours float64 `json:"estimated_hours" binding:"gte=0"`
	EstimatedCost  float64 `json:"estimated_cost" binding:"gte=0"`
	ActualHours    float64 `json:"actual_hours" binding:"gte=0"`
	ActualCost     float64 `json:"actual_cost" binding:"gte=0"`
	Status         string  `json:"status" binding:"required,oneof=draft submitted approved paid"`
}

type InvoiceResponse struct {
	ID             string  `json:"id"`
	ProjectID      string  `json:"project_id"`
	Milestone      string  `json:"milestone,omitempty"`
	EstimatedHours float64 `json:"estimated_hours"`
	EstimatedCost  float64 `json:"estimated_cost"`
	ActualHours    float64 `json:"actual_hours"`
	ActualCost     float64 `json:"actual_cost"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
}
