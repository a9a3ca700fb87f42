package automation

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
)

type reportPayload struct {
	Title   string     `json:"title" validate:"required,min=1,max=200"`
	Columns []string   `json:"columns" validate:"required,min=1,dive,required"`
	Rows    [][]string `json:"rows" validate:"omitempty,max=10000"`
}

type reportResult struct {
	Title string `json:"title"`
	Rows  int    `json:"rows"`
	CSV   string `json:"csv"`
}

// Report renders a tabular payload into CSV. Rows shorter than the header
// are padded, longer ones are rejected.
type Report struct{}

// NewReport returns the report automation.
func NewReport() *Report { return &Report{} }

func (r *Report) Descriptor() Descriptor {
	return Descriptor{
		Kind:        "report",
		Version:     "1",
		Title:       "CSV report",
		Description: "Renders submitted columns and rows into a CSV document.",
		Fields: []FieldSpec{
			{Name: "title", Type: "string", Required: true, Rule: "min=1,max=200"},
			{Name: "columns", Type: "[]string", Required: true, Rule: "min=1"},
			{Name: "rows", Type: "[][]string", Required: false, Rule: "max=10000"},
		},
		ResultContentType: "application/json",
	}
}

func (r *Report) Validate(raw json.RawMessage) error {
	var p reportPayload
	return DecodeAndValidate(raw, &p)
}

func (r *Report) Run(_ context.Context, payload json.RawMessage) (json.RawMessage, error) {
	var p reportPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(p.Columns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, row := range p.Rows {
		if len(row) > len(p.Columns) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", i, len(row), len(p.Columns))
		}
		for len(row) < len(p.Columns) {
			row = append(row, "")
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	out, err := json.Marshal(reportResult{Title: p.Title, Rows: len(p.Rows), CSV: buf.String()})
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return out, nil
}
