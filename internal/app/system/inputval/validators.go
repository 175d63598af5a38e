// Package inputval validates request input before anything reaches a store.
//
// Struct input is checked with go-playground/validator using `validate`
// tags; messages use the `label` tag and errors name the `json` field.
package inputval

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/teamstats/internal/app/system/apperr"
	"github.com/dalemusser/teamstats/internal/domain/models"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the only accepted game date format.
const DateLayout = "2006-01-02"

// Jersey number bounds.
const (
	MinJersey = 1
	MaxJersey = 99
)

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return IsValidObjectID(fl.Field().String())
		})
		_ = v.RegisterValidation("position", func(fl validator.FieldLevel) bool {
			return IsValidPosition(fl.Field().String())
		})
		_ = v.RegisterValidation("periodlength", func(fl validator.FieldLevel) bool {
			return IsValidPeriodLength(int(fl.Field().Int()))
		})
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			return IsValidDate(fl.Field().String())
		})
		_ = v.RegisterValidation("jersey", func(fl validator.FieldLevel) bool {
			n := int(fl.Field().Int())
			return n >= MinJersey && n <= MaxJersey
		})
		_ = v.RegisterValidation("bareemail", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// FieldError is a single failed rule.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the failures from Validate.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Err returns the first failure as a validation *apperr.Error, or nil.
func (r *Result) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return apperr.Validation(r.Errors[0].Field, r.Errors[0].Message)
}

// Validate checks s (a struct or pointer to struct) against its tags.
func Validate(s any) *Result {
	res := &Result{}
	err := engine().Struct(s)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}

	t := reflect.Indirect(reflect.ValueOf(s)).Type()
	for _, fe := range verrs {
		label := fe.Field()
		if sf, found := t.FieldByName(fe.StructField()); found {
			if l := sf.Tag.Get("label"); l != "" {
				label = l
			}
		}
		res.Errors = append(res.Errors, FieldError{Field: fe.Field(), Message: message(label, fe)})
	}
	return res
}

func message(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s.", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", label, fe.Param())
	case "email", "bareemail":
		return "A valid email address is required."
	case "objectid":
		return label + " must be a valid ID."
	case "position":
		return label + " must be Forward, Defense, or Goalie."
	case "periodlength":
		return label + " must be 15 or 20."
	case "isodate":
		return label + " must be a date (YYYY-MM-DD)."
	case "jersey":
		return "invalid range"
	default:
		return label + " is invalid."
	}
}

// IsValidObjectID reports whether s (trimmed) is a 24-hex Mongo ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}

// IsValidPosition reports whether s is one of the roster positions.
func IsValidPosition(s string) bool {
	switch s {
	case models.PositionForward, models.PositionDefense, models.PositionGoalie:
		return true
	}
	return false
}

// IsValidPeriodLength reports whether n is an allowed period length in minutes.
func IsValidPeriodLength(n int) bool {
	return n == 15 || n == 20
}

// IsValidDate reports whether s is a calendar date in DateLayout.
func IsValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

var localPartRe = regexp.MustCompile(`^[A-Za-z0-9!#$%&'*+/=?^_{|}~-]+(\.[A-Za-z0-9!#$%&'*+/=?^_{|}~-]+)*$`)
var domainRe = regexp.MustCompile(`^[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*$`)

// IsValidEmail reports whether s is a bare address (no display name).
// Single-label domains such as "localhost" are accepted.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	return localPartRe.MatchString(s[:at]) && domainRe.MatchString(s[at+1:])
}
