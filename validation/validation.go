// Package validation checks request structs with go-playground/validator and the
// domain enum tags (team, need, item, unit).
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/sajhasahayog/relief-api/models"
)

// ErrInvalid is matched by every validation failure
var ErrInvalid = errors.New("invalid input")

// Error lists the problems found in one request
type Error struct {
	Problems []string
}

func (e *Error) Error() string {
	return "invalid input: " + strings.Join(e.Problems, "; ")
}

// Is lets errors.Is match ErrInvalid
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// Invalid builds a single-problem validation error
func Invalid(format string, args ...interface{}) error {
	return &Error{Problems: []string{fmt.Sprintf(format, args...)}}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	enums := map[string]func(string) bool{
		"team": func(s string) bool { return models.TeamID(s).Valid() },
		"need": func(s string) bool { return models.NeedID(s).Valid() },
		"item": func(s string) bool { return models.ItemID(s).Valid() },
		"unit": func(s string) bool { return models.UnitID(s).Valid() },
		"role": func(s string) bool { return models.Role(s).Valid() },
	}
	for tag, ok := range enums {
		ok := ok
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return ok(fl.Field().String())
		})
	}
	return v
}

// Struct validates s against its validate tags
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return &Error{Problems: problems}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s needs at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s needs at least %s entries", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s is not an email address", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "team", "need", "item", "unit", "role", "oneof":
		return fmt.Sprintf("%s has unknown value %q", fe.Field(), fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
