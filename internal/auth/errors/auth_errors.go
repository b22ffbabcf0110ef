package autherrors

import (
	"net/http"

	"go-attend/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Incorrect Email or Password. Please try again.",
		http.StatusUnauthorized,
	)
	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeConflict,
		"User with this email already exists.",
		http.StatusConflict,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Token has expired",
		http.StatusUnauthorized,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to generate token",
		http.StatusInternalServerError,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found.",
		http.StatusNotFound,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)
)
