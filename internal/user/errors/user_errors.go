package usererrors

import (
	"net/http"

	"go-attend/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found.",
		http.StatusNotFound,
	)
	ErrNoUsersFound = apperror.New(
		apperror.CodeNotFound,
		"No users found.",
		http.StatusNotFound,
	)
	ErrEmailAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"User with this email already exists.",
		http.StatusConflict,
	)
)
