package reimbursement

type CreateReimbursementRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description" binding:"required"`
	ExpenseDate string  `json:"expense_date" binding:"required,datetime=2006-01-02"`
	ReceiptName string  `json:"receipt_name"`
	ReceiptType string  `json:"receipt_type"`
	// Receipt is base64 encoded on the JSON endpoint. The multipart
	// endpoint fills these fields from the uploaded file instead.
	Receipt string `json:"receipt"`
}

type DecisionRequest struct {
	Comments string `json:"comments"`
}

type ReimbursementResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	ExpenseDate string  `json:"expense_date"`
	Status      string  `json:"status"`
	ReceiptName string  `json:"receipt_name,omitempty"`
	ReceiptType string  `json:"receipt_type,omitempty"`
	HasReceipt  bool    `json:"has_receipt"`
	ReviewedBy  *string `json:"reviewed_by,omitempty"`
	ReviewedAt  *string `json:"reviewed_at,omitempty"`
	Comments    string  `json:"comments,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
