package attendanceerrors

import (
	"net/http"

	"go-attend/internal/shared/apperror"
)

var (
	ErrAlreadyMarked = apperror.New(
		apperror.CodeConflict,
		"Attendance already marked for today.",
		http.StatusConflict,
	)
	ErrAttendanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance not found.",
		http.StatusNotFound,
	)
	ErrNotMarkedToday = apperror.New(
		apperror.CodeNotFound,
		"No attendance found for today.",
		http.StatusNotFound,
	)
	ErrInvalidGradeRange = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date range for grading.",
		http.StatusBadRequest,
	)
)
