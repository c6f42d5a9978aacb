package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/desertthunder/moviehub/internal/shared"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// fieldLabels maps JSON field names to the labels used in messages.
var fieldLabels = map[string]string{
	"title":       "Title",
	"year":        "Year",
	"description": "Description",
	"movie_id":    "Movie",
	"rating":      "Rating",
	"comment":     "Comment",
	"username":    "Username",
	"email":       "Email",
	"password":    "Password",
}

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// FieldError is a single failed rule on one form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError reports every field that blocked a submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("%v: %s", shared.ErrInvalidInput, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error { return shared.ErrInvalidInput }

// UserMessage implements [shared.UserFacing].
func (e *ValidationError) UserMessage() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "\n")
}

// For returns the message recorded for field, if any.
func (e *ValidationError) For(field string) string {
	if e == nil {
		return ""
	}
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// validateStruct runs the struct tags of v and converts failures into a [ValidationError].
func validateStruct(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "number":
		return label + " must be a number"
	case "email":
		return label + " must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be between 1 and 5", label)
	case "max", "gt":
		if fe.Field() == "rating" {
			return fmt.Sprintf("%s must be between 1 and 5", label)
		}
		return label + " is out of range"
	default:
		return label + " is invalid"
	}
}
