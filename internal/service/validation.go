package service

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	apperrors "pizzaservice/internal/errors"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type registerInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,pizzaemail"`
	Password string `validate:"required"`
}

type updateInput struct {
	Email string `validate:"omitempty,pizzaemail"`
}

// NewValidator returns a validator with the pizzaemail rule registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("pizzaemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// classifyValidation turns validator failures into the auth error taxonomy.
// A missing field wins over a malformed email.
func classifyValidation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return apperrors.ErrBadRequest
		}
	}
	return apperrors.ErrInvalidEmailFormat
}
