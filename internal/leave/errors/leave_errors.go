package leaveerrors

import (
	"net/http"

	"go-attend/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found.",
		http.StatusNotFound,
	)
	ErrLeaveNotPending = apperror.New(
		apperror.CodeInvalidState,
		"Leave request has already been decided.",
		http.StatusConflict,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD.",
		http.StatusBadRequest,
	)
	ErrLeaveDateInPast = apperror.New(
		apperror.CodeInvalidInput,
		"Leave date cannot be in the past.",
		http.StatusBadRequest,
	)
	ErrLeaveDateWeekend = apperror.New(
		apperror.CodeInvalidInput,
		"Leave cannot be requested for Saturday or Sunday.",
		http.StatusBadRequest,
	)
	ErrAttendanceExistsOnDate = apperror.New(
		apperror.CodeConflict,
		"Attendance already exists for this date.",
		http.StatusConflict,
	)
)
