package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
)

var ddmmyyyyRegex = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

const DateLayout = "02-01-2006"

// RegisterCustom installs the service's custom rules on gin's validator.
// Safe to call more than once.
func RegisterCustom() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	return Register(v)
}

// Register adds the custom rules and json field naming to v.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	if err := v.RegisterValidation("minwords", minWords); err != nil {
		return err
	}
	return v.RegisterValidation("ddmmyyyy", ddmmyyyy)
}

func minWords(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(strings.Fields(fl.Field().String())) >= n
}

func ddmmyyyy(fl validator.FieldLevel) bool {
	return IsValidDate(fl.Field().String())
}

// IsValidDate checks the string is a real calendar date in DD-MM-YYYY format
func IsValidDate(date string) bool {
	if !ddmmyyyyRegex.MatchString(date) {
		return false
	}
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// Translate converts binding errors into a validation error carrying
// field-level detail. Other errors become a generic validation failure.
func Translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Validation("Invalid request format", apperrors.FieldError{Field: "body", Message: "could not be parsed"})
	}

	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return apperrors.Validation("Validation failed", fields...)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "minwords":
		return fmt.Sprintf("must contain at least %s words", fe.Param())
	case "ddmmyyyy":
		return "must be a date in DD-MM-YYYY format"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
