package apperror

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	// submit_comment -> Submit Comment
	s = strings.ReplaceAll(s, "_", " ")

	caser := cases.Title(language.English)
	return caser.String(s)
}

func MapValidationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		// Ambil error pertama
		e := errs[0]

		fieldName := e.Field()
		humanReadableField := formatFieldName(fieldName)

		switch e.Tag() {
		case "required":
			return RequiredField(humanReadableField)
		default:
			return InvalidField(humanReadableField)
		}
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
