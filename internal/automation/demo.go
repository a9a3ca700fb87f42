package automation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// demoPayload is the input shape for the demo automation.
type demoPayload struct {
	Message string `json:"message" validate:"required,min=1,max=500"`
	Repeat  int    `json:"repeat" validate:"omitempty,gte=1,lte=10"`
	Fail    bool   `json:"fail,omitempty"`
}

type demoResult struct {
	Message string   `json:"message"`
	Echoes  []string `json:"echoes"`
	Count   int      `json:"count"`
}

// Demo is a trivial echo automation used to exercise the platform end to
// end. Setting "fail": true in the payload forces a processing failure,
// which is handy for demos and for verifying the error path in staging.
type Demo struct{}

// NewDemo returns the demo automation.
func NewDemo() *Demo { return &Demo{} }

func (d *Demo) Descriptor() Descriptor {
	return Descriptor{
		Kind:        "demo",
		Version:     "1",
		Title:       "Demo echo",
		Description: "Echoes the submitted message a configurable number of times.",
		Fields: []FieldSpec{
			{Name: "message", Type: "string", Required: true, Rule: "min=1,max=500"},
			{Name: "repeat", Type: "int", Required: false, Rule: "gte=1,lte=10"},
			{Name: "fail", Type: "bool", Required: false},
		},
		ResultContentType: "application/json",
	}
}

func (d *Demo) Validate(raw json.RawMessage) error {
	var p demoPayload
	return DecodeAndValidate(raw, &p)
}

func (d *Demo) Run(_ context.Context, payload json.RawMessage) (json.RawMessage, error) {
	var p demoPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if p.Fail {
		return nil, fmt.Errorf("failure requested by payload")
	}
	if p.Repeat == 0 {
		p.Repeat = 1
	}

	echoes := make([]string, p.Repeat)
	for i := range echoes {
		echoes[i] = strings.TrimSpace(p.Message)
	}
	out, err := json.Marshal(demoResult{Message: p.Message, Echoes: echoes, Count: len(echoes)})
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return out, nil
}
