package validation

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

// FieldError describes a single failed field check.
type FieldError struct {
	Message string `json:"message"`
	Field   string `json:"field"`
}

// Errors is the aggregated validation outcome: at most one error per field,
// in field declaration order.
type Errors []FieldError

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for _, fe := range e {
		fields = append(fields, fe.Field)
	}
	return fmt.Sprintf("invalid fields: %s", strings.Join(fields, ", "))
}

// ErrorsResponse is the client-facing transport shape for field errors.
type ErrorsResponse struct {
	ErrorsMessages []FieldError `json:"errorsMessages"`
}

// WriteResponse sends the errors as a 400 response in the errorsMessages
// envelope.
func WriteResponse(w http.ResponseWriter, errs Errors) {
	respJson, err := json.Marshal(ErrorsResponse{ErrorsMessages: errs})
	if err != nil {
		log.Errorf("marshal validation errors: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if _, err := w.Write(respJson); err != nil {
		log.Errorf("write validation errors response: %s", err)
	}
}

// Check inspects a trimmed field value and returns a failure message,
// or an empty string when the value passes.
type Check func(value string) string

// Field binds an input value to its ordered list of checks.
type Field struct {
	Name   string
	Value  string
	Checks []Check
}

// Run evaluates every field against all of its checks. It does not stop at
// the first failing field; per field, only the first failing check
// contributes a message. Values are trimmed before checking.
func Run(fields ...Field) Errors {
	var errs Errors
	for _, f := range fields {
		value := strings.TrimSpace(f.Value)
		for _, check := range f.Checks {
			if msg := check(value); msg != "" {
				errs = append(errs, FieldError{Field: f.Name, Message: msg})
				break
			}
		}
	}
	return errs
}

// LengthBetween fails with the given message when the trimmed value is
// shorter than min or longer than max characters.
func LengthBetween(min, max int, message string) Check {
	return func(value string) string {
		length := utf8.RuneCountInString(value)
		if length < min || length > max {
			return message
		}
		return ""
	}
}

// MaxLength fails with the given message when the trimmed value is longer
// than max characters.
func MaxLength(max int, message string) Check {
	return func(value string) string {
		if utf8.RuneCountInString(value) > max {
			return message
		}
		return ""
	}
}

// SecureURL fails with the given message unless the value is an absolute
// URL with the https scheme.
func SecureURL(message string) Check {
	return func(value string) string {
		u, err := url.Parse(value)
		if err != nil || !u.IsAbs() || u.Scheme != "https" || u.Host == "" {
			return message
		}
		return ""
	}
}
