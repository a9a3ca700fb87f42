package automation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDemoValidate(t *testing.T) {
	d := NewDemo()

	if err := d.Validate(json.RawMessage(`{"message":"hola","repeat":3}`)); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}

	err := d.Validate(json.RawMessage(`{"repeat":3}`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "message" || verr.Fields[0].Rule != "required" {
		t.Errorf("unexpected field errors: %+v", verr.Fields)
	}

	err = d.Validate(json.RawMessage(`{"message":"x","repeat":99}`))
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields[0].Field != "repeat" || verr.Fields[0].Rule != "lte" {
		t.Errorf("unexpected field errors: %+v", verr.Fields)
	}
}

func TestDemoValidateMalformedJSON(t *testing.T) {
	d := NewDemo()
	var verr *ValidationError
	if err := d.Validate(json.RawMessage(`{`)); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for malformed JSON, got %v", err)
	}
	if err := d.Validate(nil); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for empty payload, got %v", err)
	}
}

func TestDemoRun(t *testing.T) {
	d := NewDemo()
	out, err := d.Run(context.Background(), json.RawMessage(`{"message":"hola","repeat":2}`))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var res demoResult
	if err := json.Unmarshal(out, &res); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if res.Count != 2 || len(res.Echoes) != 2 || res.Echoes[0] != "hola" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestDemoRunForcedFailure(t *testing.T) {
	d := NewDemo()
	if _, err := d.Run(context.Background(), json.RawMessage(`{"message":"x","fail":true}`)); err == nil {
		t.Fatal("expected forced failure")
	}
}

func TestReportRun(t *testing.T) {
	r := NewReport()
	payload := json.RawMessage(`{"title":"Ventas","columns":["mes","total"],"rows":[["enero","10"],["febrero"]]}`)
	if err := r.Validate(payload); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	out, err := r.Run(context.Background(), payload)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var res reportResult
	if err := json.Unmarshal(out, &res); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if res.Rows != 2 {
		t.Errorf("rows = %d, want 2", res.Rows)
	}
	lines := strings.Split(strings.TrimSpace(res.CSV), "\n")
	if len(lines) != 3 || lines[0] != "mes,total" {
		t.Errorf("unexpected csv: %q", res.CSV)
	}
	// Short row padded to header width.
	if lines[2] != "febrero," {
		t.Errorf("short row not padded: %q", lines[2])
	}
}

func TestReportRunRejectsWideRow(t *testing.T) {
	r := NewReport()
	payload := json.RawMessage(`{"title":"t","columns":["a"],"rows":[["1","2"]]}`)
	if _, err := r.Run(context.Background(), payload); err == nil {
		t.Fatal("expected error for row wider than header")
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(NewDemo()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Register(NewReport()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Register(NewDemo()); err == nil {
		t.Fatal("expected duplicate registration error")
	}

	if _, ok := reg.Get("demo"); !ok {
		t.Error("demo not found")
	}
	if _, ok := reg.Get("nope"); ok {
		t.Error("unexpected automation for unknown kind")
	}

	descs := reg.Descriptors()
	if len(descs) != 2 || descs[0].Kind != "demo" || descs[1].Kind != "report" {
		t.Errorf("descriptors not sorted by kind: %+v", descs)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{{Field: "message", Rule: "required"}}}
	if !strings.Contains(err.Error(), "message (required)") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
