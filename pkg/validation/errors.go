package validation

import (
	"encoding/json"
	"fmt"

	z "github.com/Oudwins/zog"
)

const MessageValidationError = "Validation error"

// Error is a rejected payload. Details is a FieldErrors keyed by field path.
type Error struct {
	Message string
	Details any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Details)
}

func newError(details any) *Error {
	return &Error{Message: MessageValidationError, Details: details}
}

// FromIssues flattens a zog issue map, dropping the $first shortcut entry.
func FromIssues(errs z.ZogIssueMap) *Error {
	fields := FieldErrors{}
	fields.AddIssues(errs)
	return newError(fields)
}

type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) AddIssues(errs z.ZogIssueMap) {
	for path, issues := range errs {
		if path == "$first" {
			continue
		}
		for _, issue := range issues {
			f.Add(path, issue.Message)
		}
	}
}

func (f FieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return newError(f)
}

func decodeObject(body []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil || m == nil {
		return nil, newError(FieldErrors{"$root": {"body must be a JSON object"}})
	}
	return m, nil
}

// optionalObject returns the compact JSON of an object field, nil when the field is
// absent or null.
func optionalObject(m map[string]any, key string, fields FieldErrors) json.RawMessage {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		fields.Add(key, "must be an object")
		return nil
	}
	b, err := json.Marshal(obj)
	if err != nil {
		fields.Add(key, "must be serializable")
		return nil
	}
	return b
}
