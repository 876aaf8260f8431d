package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/rcliao/harbour/internal/domain"
)

const batchSchema = `{"type": "array"}`

// Types only. Missing or empty values are left for domain.Validate so the
// message matches the one the form path gives.
const recordSchema = `{
	"type": "object",
	"properties": {
		"title":           {"type": ["string", "null"]},
		"importance":      {"type": ["number", "string", "null"]},
		"estimated_hours": {"type": ["number", "string", "null"]},
		"due_date":        {"type": ["string", "null"]},
		"dependencies": {
			"type": ["string", "array", "null"],
			"items": {"type": "string"}
		}
	}
}`

var (
	batchLoader  = gojsonschema.NewStringLoader(batchSchema)
	recordLoader = gojsonschema.NewStringLoader(recordSchema)
)

// Importer turns a pasted JSON array into tasks, all or nothing.
type Importer struct {
	store *TaskStore
}

func NewImporter(store *TaskStore) *Importer {
	return &Importer{store: store}
}

// Import parses raw, checks every record and appends the whole batch in one
// persisted write. Any failure leaves the store untouched.
func (im *Importer) Import(ctx context.Context, raw string) ([]domain.Task, error) {
	drafts, err := ParseBatch(raw)
	if err != nil {
		return nil, err
	}
	return im.store.appendDrafts(ctx, drafts)
}

// ParseBatch decodes and validates raw into drafts without touching any
// store.
func ParseBatch(raw string) ([]domain.Draft, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, domain.ErrEmptyImport
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &domain.ParseError{Err: err}
	}

	result, err := gojsonschema.Validate(batchLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to check import shape: %w", err)
	}
	if !result.Valid() {
		return nil, &domain.ShapeError{Got: kindOf(doc)}
	}

	records := doc.([]any)
	drafts := make([]domain.Draft, 0, len(records))
	for i, rec := range records {
		d, err := parseRecord(rec)
		if err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				verr.Record = i + 1
			}
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func parseRecord(rec any) (domain.Draft, error) {
	d, err := DraftFromRecord(rec)
	if err != nil {
		return domain.Draft{}, err
	}
	if err := domain.Validate(d); err != nil {
		return domain.Draft{}, err
	}
	return d, nil
}

// DraftFromRecord converts one decoded JSON task object into a draft.
// Numbers become their text form and a dependency array is joined with
// commas. Only JSON types are checked here; field constraints are left to
// domain.Validate.
func DraftFromRecord(rec any) (domain.Draft, error) {
	result, err := gojsonschema.Validate(recordLoader, gojsonschema.NewGoLoader(rec))
	if err != nil {
		return domain.Draft{}, fmt.Errorf("failed to check import record: %w", err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return domain.Draft{}, &domain.ValidationError{
			Field:   schemaField(first.Field()),
			Message: "has the wrong type: " + first.Description(),
		}
	}

	obj := rec.(map[string]any)
	d := domain.Draft{
		Title:          domain.TextOf(obj["title"]),
		Importance:     domain.TextOf(obj["importance"]),
		EstimatedHours: domain.TextOf(obj["estimated_hours"]),
		DueDate:        domain.TextOf(obj["due_date"]),
	}
	switch deps := obj["dependencies"].(type) {
	case string:
		d.Dependencies = deps
	case []any:
		parts := make([]string, 0, len(deps))
		for _, dep := range deps {
			parts = append(parts, domain.TextOf(dep))
		}
		d.Dependencies = strings.Join(parts, ",")
	}
	return d, nil
}

// schemaField maps a gojsonschema context path to the offending top level
// field, e.g. "dependencies.0" to "dependencies".
func schemaField(path string) string {
	if path == "" || path == "(root)" {
		return "record"
	}
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
