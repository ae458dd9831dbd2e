package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/Mastel22/boondocks-bn-backend/internal/errors"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

var (
	registerOnce sync.Once
	registerErr  error
)

// Register installs the custom rules and JSON field naming on gin's validator.
// It is safe to call more than once.
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		registerErr = Configure(v)
	})
	return registerErr
}

// Configure adds the custom rules to a validator instance
func Configure(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	rules := []struct {
		tag string
		fn  validator.Func
	}{
		{"trimmed", isTrimmed},
		{"isodate", isISODate},
	}
	for _, rule := range rules {
		if err := v.RegisterValidation(rule.tag, rule.fn); err != nil {
			return fmt.Errorf("failed to register %q rule: %w", rule.tag, err)
		}
	}
	return nil
}

// jsonFieldName reports fields by their JSON name, falling back to the query/form name
func jsonFieldName(fld reflect.StructField) string {
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
}

// isTrimmed rejects strings with leading or trailing whitespace
func isTrimmed(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return strings.TrimSpace(s) == s
}

// isISODate accepts YYYY-MM-DD calendar dates
func isISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

// FieldErrors translates a binding error into messages keyed by JSON field name
func FieldErrors(err error) []apierrors.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]apierrors.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, apierrors.FieldError{
				Field:   fe.Field(),
				Message: message(fe),
			})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []apierrors.FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%q must be a %s", typeErr.Field, typeName(typeErr.Type)),
		}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return []apierrors.FieldError{{Message: "request body is not valid JSON"}}
	}

	if errors.Is(err, io.EOF) {
		return []apierrors.FieldError{{Message: "request body is required"}}
	}

	return []apierrors.FieldError{{Message: err.Error()}}
}

// BindError wraps a binding failure as a 400 VALIDATION_ERROR
func BindError(err error) *apierrors.APIError {
	return apierrors.ValidationErrors(FieldErrors(err))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "alphanum":
		return fmt.Sprintf("%q must only contain alpha-numeric characters", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%q must contain at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("%q must be greater than or equal to %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%q must be less than or equal to %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%q must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "trimmed":
		return fmt.Sprintf("%q must not have leading or trailing whitespace", field)
	case "isodate":
		return fmt.Sprintf("%q must be a date in YYYY-MM-DD format", field)
	case "e164":
		return fmt.Sprintf("%q must be a phone number in international format", field)
	case "numeric":
		return fmt.Sprintf("%q must only contain digits", field)
	case "len":
		return fmt.Sprintf("%q length must be %s characters long", field, fe.Param())
	case "required_if":
		return fmt.Sprintf("%q is required", field)
	case "dive":
		return fmt.Sprintf("%q contains an invalid item", field)
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return t.Kind().String()
	}
}
