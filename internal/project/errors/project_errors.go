package projecterrors

import (
	"net/http"

	"go-worklog/internal/shared/apperror"
)

var (
	ErrInvalidProjectID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid project id",
		http.StatusBadRequest,
	)
	ErrProjectNotFound = apperror.New(
		apperror.CodeNotFound,
		"project not found",
		http.StatusNotFound,
	)
	ErrInvalidProjectManager = apperror.New(
		apperror.CodeInvalidInput,
		"project_manager_id must be a valid user id",
		http.StatusBadRequest,
	)
	ErrDuplicateCode = apperror.New(
		apperror.CodeConflict,
		"project code already in use",
		http.StatusConflict,
	)
)
