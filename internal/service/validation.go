// Package service holds the caller-side rules the record store does not
// enforce: input validation, uniqueness, defaults and checkout.
package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmptyCart          = errors.New("cart is empty")
)

// FieldError names one failed rule.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (f FieldError) String() string {
	if f.Param == "" {
		return f.Field + ": " + f.Tag
	}
	return f.Field + ": " + f.Tag + "=" + f.Param
}

// ValidationError lists every rule an input broke. It matches
// ErrInvalidInput under errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Has reports whether field failed.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// numeric tags such as gte see decimals as float64
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

func check(input any) error {
	return asValidationError(validate.Struct(input))
}

func checkVar(field string, value any, tag string) error {
	err := validate.Var(value, tag)
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		fields := make([]FieldError, len(vErrs))
		for i, fe := range vErrs {
			fields[i] = FieldError{Field: field, Tag: fe.Tag(), Param: fe.Param()}
		}
		return &ValidationError{Fields: fields}
	}
	return err
}

func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return fmt.Errorf("validate: %w", err)
	}
	fields := make([]FieldError, len(vErrs))
	for i, fe := range vErrs {
		fields[i] = FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()}
	}
	return &ValidationError{Fields: fields}
}
