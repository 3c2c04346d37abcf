package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the calendar date format accepted by datetime tags.
const DateLayout = "2006-01-02"

var (
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report fields by their wire name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	custom := map[string]validator.Func{
		"password": func(fl validator.FieldLevel) bool {
			return Password(fl.Field().String())
		},
		"phone": func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(phoneSeparators.Replace(fl.Field().String()))
		},
		"nowhitespace": func(fl validator.FieldLevel) bool {
			return !hasWhitespace(fl.Field().String())
		},
		"finite": func(fl validator.FieldLevel) bool {
			f := fl.Field().Float()
			return !math.IsNaN(f) && !math.IsInf(f, 0)
		},
		"integral": func(fl validator.FieldLevel) bool {
			f := fl.Field().Float()
			return f == math.Trunc(f)
		},
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	return v
}

// Problem is one failed check on one field.
type Problem struct {
	Field   string
	Tag     string
	Message string
}

// Check runs the validate tags of s, a pointer to a request struct. When any
// required field is missing only the missing fields are reported.
func Check(s any) []Problem {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Problem{{Message: err.Error()}}
	}

	var missing, invalid []Problem
	for _, fe := range verrs {
		p := Problem{Field: fe.Field(), Tag: fe.Tag(), Message: message(fe)}
		if fe.Tag() == "required" {
			missing = append(missing, p)
		} else {
			invalid = append(invalid, p)
		}
	}
	if len(missing) > 0 {
		return missing
	}
	return invalid
}

// Messages flattens problems into their client-facing text.
func Messages(problems []Problem) []string {
	if len(problems) == 0 {
		return nil
	}
	out := make([]string, len(problems))
	for i, p := range problems {
		out[i] = p.Message
	}
	return out
}

func message(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "finite":
		return field + " must be a number"
	case "integral":
		return field + " must be a whole number"
	case "gte":
		if param == "0" {
			return field + " must not be negative"
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "datetime":
		if param == DateLayout {
			return field + " must be a date in YYYY-MM-DD format"
		}
		return fmt.Sprintf("%s must be a date in %s format", field, param)
	case "phone":
		return field + " must be a phone number of 7 to 15 digits"
	case "email":
		return field + " must be a valid email address"
	case "nowhitespace":
		return field + " must not contain whitespace"
	case "password":
		return PasswordPolicyText
	default:
		return field + " is invalid"
	}
}
