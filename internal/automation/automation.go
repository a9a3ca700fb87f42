// Package automation defines the contract every automation module
// implements and the registry the server dispatches through.
package automation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Descriptor is the static description of an automation: identity plus the
// payload shape callers are expected to submit.
type Descriptor struct {
	Kind              string      `json:"kind"`
	Version           string      `json:"version"`
	Title             string      `json:"title"`
	Description       string      `json:"description,omitempty"`
	Fields            []FieldSpec `json:"fields"`
	ResultContentType string      `json:"result_content_type"`
}

// FieldSpec documents one expected payload field.
type FieldSpec struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Rule     string `json:"rule,omitempty"`
}

// Automation is one self-contained module exposing the fixed endpoint
// contract for one business task. Implementations must be safe for
// concurrent use: Run is invoked from worker goroutines.
type Automation interface {
	// Descriptor returns the static schema descriptor. No side effects.
	Descriptor() Descriptor
	// Validate checks a raw payload against the expected shape and returns
	// a *ValidationError describing every failing field.
	Validate(raw json.RawMessage) error
	// Run executes the automation against a validated payload and returns
	// the serialized result. Errors (and panics, caught by the worker)
	// resolve the submission to the error state.
	Run(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
}

// FieldError names one payload field that failed validation and the rule
// it violated.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError carries the full list of failing fields so callers can
// surface them all at once.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid payload"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" ("+f.Rule+")")
	}
	return "invalid payload: " + strings.Join(parts, ", ")
}

// validate is shared by all automations. Field names in errors come from
// json tags so they match what the caller actually submitted.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeAndValidate unmarshals raw into dst and runs struct validation,
// converting failures into a *ValidationError.
func DecodeAndValidate(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return &ValidationError{Fields: []FieldError{{Field: "payload", Rule: "required"}}}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &ValidationError{Fields: []FieldError{{Field: "payload", Rule: "json"}}}
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]FieldError, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
			}
			return &ValidationError{Fields: fields}
		}
		return fmt.Errorf("validate payload: %w", err)
	}
	return nil
}
