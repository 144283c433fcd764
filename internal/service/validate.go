package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dtroode/cride-server/internal/model"
)

var phonePattern = regexp.MustCompile(`^\+?1?\d{8,15}$`)

const (
	msgRequired     = "This field is required."
	msgInvalidEmail = "Enter a valid email address."
	msgInvalidPhone = "Phone number must be entered in the format: +50769237843. Up to 15 digits allowed."
	msgInvalidValue = "Enter a valid value."
)

// Validator runs field level checks declared in struct tags and reports
// failures keyed by JSON field name.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag name or a nil func.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Struct validates s and returns nil when every field passes.
func (v *Validator) Struct(s any) *model.ValidationError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	verr := model.NewValidationError()
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add(model.NonFieldErrors, err.Error())
		return verr
	}

	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "email":
		return msgInvalidEmail
	case "phone":
		return msgInvalidPhone
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	default:
		return msgInvalidValue
	}
}

// normalizeEmail lowercases the domain part of the address.
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
