// Package response defines the wire schema for error bodies. Every
// error the API returns is a JSON object with a single error_message
// field.
package response

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	NotFoundResponse = ErrorResponse{
		ErrorMessage: "Not found",
	}
	InvalidJSONResponse = ErrorResponse{
		ErrorMessage: "Invalid JSON",
	}
	ServerErrorResponse = ErrorResponse{
		ErrorMessage: "An internal server error occurred. Please try again later.",
	}
)

type ErrorResponse struct {
	ErrorMessage string `json:"error_message"`
}

func Error(msg string) ErrorResponse {
	return ErrorResponse{ErrorMessage: msg}
}

// ValidationErrorResponse flattens a validator error into one
// human-readable error_message.
func ValidationErrorResponse(err error) ErrorResponse {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return InvalidJSONResponse
	}

	issues := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		switch e.Tag() {
		case "required":
			issues = append(issues, fmt.Sprintf("%s is required", e.Field()))
		default:
			issues = append(issues, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}

	return Error(strings.Join(issues, "; "))
}
