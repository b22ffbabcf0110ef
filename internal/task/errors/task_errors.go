package taskerrors

import (
	"net/http"

	"go-attend/internal/shared/apperror"
)

var (
	ErrTaskNotFound = apperror.New(
		apperror.CodeNotFound,
		"Task not found.",
		http.StatusNotFound,
	)
	ErrTaskAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"Task has already been approved or rejected.",
		http.StatusConflict,
	)
	ErrNoTasksToday = apperror.New(
		apperror.CodeNotFound,
		"No tasks found for today.",
		http.StatusNotFound,
	)
	ErrInvalidDueDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid due date format, expected YYYY-MM-DD.",
		http.StatusBadRequest,
	)
)
