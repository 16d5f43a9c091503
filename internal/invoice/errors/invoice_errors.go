package invoiceerrors

import (
	"net/http"

	"go-worklog/internal/shared/apperror"
)

var (
	ErrInvalidInvoiceID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid invoice id",
		http.StatusBadRequest,
	)
	ErrInvoiceNotFound = apperror.New(
		apperror.CodeNotFound,
		"invoice not found",
		http.StatusNotFound,
	)
	ErrInvalidProjectRef = apperror.New(
		apperror.CodeInvalidInput,
		"project_id must be a valid project id",
		http.StatusBadRequest,
	)
	ErrPaidImmutable = apperror.New(
		apperror.CodeInvalidState,
		"a paid invoice can no longer be modified",
		http.StatusConflict,
	)
)
