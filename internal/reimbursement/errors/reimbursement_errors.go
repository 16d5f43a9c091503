package reimbursementerrors

import (
	"net/http"

	"go-worklog/internal/shared/apperror"
)

var (
	ErrInvalidReimbursementID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid reimbursement id",
		http.StatusBadRequest,
	)
	ErrReimbursementNotFound = apperror.New(
		apperror.CodeNotFound,
		"reimbursement not found",
		http.StatusNotFound,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"only the owner may perform this operation",
		http.StatusForbidden,
	)
	ErrDecisionNotAllowed = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to decide on this reimbursement",
		http.StatusForbidden,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"reimbursement has already been decided",
		http.StatusConflict,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"reimbursement status does not permit this transition",
		http.StatusConflict,
	)
	ErrCommentsRequired = apperror.New(
		apperror.CodeInvalidInput,
		"comments are required when rejecting",
		http.StatusBadRequest,
	)
	ErrInvalidExpenseDate = apperror.New(
		apperror.CodeInvalidInput,
		"expense_date must be a valid date",
		http.StatusBadRequest,
	)
	ErrInvalidReceipt = apperror.New(
		apperror.CodeInvalidInput,
		"receipt must be a jpeg, png or pdf",
		http.StatusBadRequest,
	)
	ErrReceiptTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"receipt exceeds the 5 MB limit",
		http.StatusBadRequest,
	)
	ErrReceiptNotFound = apperror.New(
		apperror.CodeNotFound,
		"no receipt attached",
		http.StatusNotFound,
	)
)
