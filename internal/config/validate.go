package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// A CSV delimiter is empty (default) or exactly one character
		// that cannot appear in quoting or line structure.
		_ = validate.RegisterValidation("delimiter", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if s == "" {
				return true
			}
			if utf8.RuneCountInString(s) != 1 {
				return false
			}
			r, _ := utf8.DecodeRuneInString(s)
			return r != '"' && r != '\r' && r != '\n' && r != utf8.RuneError
		})
	})
	return validate
}

// ValidationError lists every invalid setting.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Validate checks a settings struct.
func Validate(cfg any) error {
	err := validatorInstance().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Problems = append(verr.Problems, fmt.Sprintf("%s %s", settingName(fe.Field()), formatValidationError(fe)))
	}
	return verr
}

// settingName turns a struct field name into its flag spelling,
// e.g. CurrencyColumn -> currency-column.
func settingName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(e.Param(), " ", ", "))
	case "delimiter":
		return "must be a single character other than a quote or line break"
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
