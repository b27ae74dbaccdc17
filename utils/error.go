package utils

import (
	"errors"

	"github.com/campeloneto1/tripshare-sub000/services"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

func CreateError(statusCode int, title string, detail string, ctx iris.Context) {
	ctx.StopWithProblem(statusCode, iris.NewProblem().Title(title).Detail(detail))
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(
		iris.StatusInternalServerError,
		"Internal Server Error",
		"An unexpected internal server error occurred.",
		ctx)
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, "Not Found", "Resource not found.", ctx)
}

func CreateForbidden(ctx iris.Context) {
	CreateError(iris.StatusForbidden, "Forbidden", "You are not allowed to perform this action.", ctx)
}

// HandleValidationErrors renders the first failing field of a validator error.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		validationErrors := wrapValidationErrors(errs)

		detail := "One or more fields failed validation."
		if len(validationErrors) > 0 {
			detail = validationErrors[0].Field + " failed on " + validationErrors[0].Tag
		}

		ctx.StopWithProblem(
			iris.StatusUnprocessableEntity,
			iris.NewProblem().
				Title("Validation error").
				Detail(detail).
				Key("errors", validationErrors))
		return
	}

	CreateError(iris.StatusBadRequest, "Bad Request", "Invalid request payload.", ctx)
}

type validationError struct {
	ActualTag string `json:"tag"`
	Namespace string `json:"namespace"`
	Kind      string `json:"kind"`
	Type      string `json:"type"`
	Value     string `json:"value"`
	Field     string `json:"field"`
	Tag       string `json:"-"`
}

func wrapValidationErrors(errs validator.ValidationErrors) []validationError {
	validationErrors := make([]validationError, 0, len(errs))
	for _, validationErr := range errs {
		validationErrors = append(validationErrors, validationError{
			ActualTag: validationErr.ActualTag(),
			Namespace: validationErr.Namespace(),
			Kind:      validationErr.Kind().String(),
			Type:      validationErr.Type().String(),
			Value:     validationErr.Param(),
			Field:     validationErr.Field(),
			Tag:       validationErr.Tag(),
		})
	}
	return validationErrors
}

// HandleServiceError maps the service error taxonomy onto HTTP responses.
func HandleServiceError(err error, ctx iris.Context) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		CreateForbidden(ctx)
	case errors.Is(err, services.ErrConflict):
		CreateError(iris.StatusConflict, "Conflict", err.Error(), ctx)
	case errors.Is(err, services.ErrNotFound):
		CreateNotFound(ctx)
	case errors.Is(err, services.ErrInvalidInput):
		CreateError(iris.StatusBadRequest, "Bad Request", err.Error(), ctx)
	default:
		CreateInternalServerError(ctx)
	}
}
