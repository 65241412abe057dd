package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a rejected submission payload
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MissingField builds the error reported for an absent or empty required field
func MissingField(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("Missing required field: %s", field),
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so messages match the request payload
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// RequireFields checks the payload for each field in order and reports the first one
// that is absent or empty.
func RequireFields(payload map[string]any, fields ...string) error {
	for _, field := range fields {
		if !IsPresent(payload[field]) {
			return MissingField(field)
		}
	}
	return nil
}

// IsPresent reports whether a decoded JSON value counts as supplied.
// null, false, zero, blank strings and empty arrays or objects do not.
func IsPresent(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case bool:
		return val
	case float64:
		return val != 0
	case json.Number:
		return val.String() != "0"
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

// StringField returns the payload value for key as text. Numbers sent by form
// serializers are rendered without exponent or trailing zeros.
func StringField(payload map[string]any, key string) string {
	switch val := payload[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// CoerceInt interprets a decoded JSON value as an integer. Whole numbers and
// numeric text such as "3" are accepted; fractions and other text are not.
// Both forms are limited to the 32-bit integer range.
func CoerceInt(field string, v any) (int, error) {
	invalid := &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("Invalid %s: must be a whole number", field),
	}
	outOfRange := &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("Invalid %s: out of range", field),
	}

	var text string
	switch val := v.(type) {
	case float64:
		if val != math.Trunc(val) {
			return 0, invalid
		}
		if val > math.MaxInt32 || val < math.MinInt32 {
			return 0, outOfRange
		}
		return int(val), nil
	case json.Number:
		text = val.String()
	case string:
		text = strings.TrimSpace(val)
	default:
		return 0, invalid
	}

	n, err := strconv.ParseInt(text, 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		return 0, outOfRange
	}
	if err != nil {
		return 0, invalid
	}
	return int(n), nil
}

// ValidateStruct runs struct tag validation and converts the first failure into a ValidationError
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return MissingField(fe.Field())
	case "gt":
		return &ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("Invalid %s: must be a positive integer", fe.Field()),
		}
	default:
		return &ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("Invalid %s", fe.Field()),
		}
	}
}
