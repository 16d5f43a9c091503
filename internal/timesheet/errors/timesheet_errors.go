package timesheeterrors

import (
	"net/http"

	"go-worklog/internal/shared/apperror"
)

var (
	ErrInvalidTimesheetID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid timesheet id",
		http.StatusBadRequest,
	)
	ErrTimesheetNotFound = apperror.New(
		apperror.CodeNotFound,
		"timesheet not found",
		http.StatusNotFound,
	)
	ErrInvalidActivityType = apperror.New(
		apperror.CodeInvalidInput,
		"activity_type must be billable, non_billable, or leave",
		http.StatusBadRequest,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"only the owner may perform this operation",
		http.StatusForbidden,
	)
	ErrDecisionNotAllowed = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to decide on this timesheet",
		http.StatusForbidden,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"timesheet has already been decided",
		http.StatusConflict,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"timesheet status does not permit this transition",
		http.StatusConflict,
	)
	ErrCommentsRequired = apperror.New(
		apperror.CodeInvalidInput,
		"comments are required when rejecting",
		http.StatusBadRequest,
	)
	ErrDuplicateWeek = apperror.New(
		apperror.CodeConflict,
		"a timesheet for this week already exists",
		http.StatusConflict,
	)
	ErrWeekStartNotMonday = apperror.New(
		apperror.CodeInvalidInput,
		"week_start must be a Monday",
		http.StatusBadRequest,
	)
)
