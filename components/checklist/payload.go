package checklist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-hypermedia/pkg/collection"
	"github.com/goliatone/go-hypermedia/pkg/representor"
)

// payload bodies larger than this are rejected outright.
const maxPayloadBytes = 1 << 20

// decodePayload normalizes the accepted write encodings into one name/value
// map: Collection+JSON template submissions, plain JSON objects and HTML
// form posts. Underscore-prefixed form fields are transport artifacts
// (_method, CSRF inputs) and never reach the domain layer.
func decodePayload(r *http.Request) (map[string]any, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return nil, representor.StatusError{
				Code: http.StatusBadRequest,
				Err:  fmt.Errorf("checklist: parse form: %w", err),
			}
		}
		values := make(map[string]any, len(r.PostForm))
		for name, vals := range r.PostForm {
			if strings.HasPrefix(name, "_") || len(vals) == 0 {
				continue
			}
			values[name] = vals[0]
		}
		return values, nil
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes+1))
	if err != nil {
		return nil, representor.StatusError{
			Code: http.StatusBadRequest,
			Err:  fmt.Errorf("checklist: read payload: %w", err),
		}
	}
	if len(raw) > maxPayloadBytes {
		return nil, representor.StatusError{
			Code: http.StatusRequestEntityTooLarge,
			Err:  fmt.Errorf("checklist: payload exceeds %d bytes", maxPayloadBytes),
		}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var submission struct {
		Template *collection.Template `json:"template"`
	}
	if err := json.Unmarshal(raw, &submission); err == nil && submission.Template != nil {
		values := make(map[string]any, len(submission.Template.Data))
		for _, d := range submission.Template.Data {
			if d.Name != "" {
				values[d.Name] = d.Value
			}
		}
		return values, nil
	}

	var object map[string]any
	if err := json.Unmarshal(raw, &object); err != nil {
		return nil, representor.StatusError{
			Code: http.StatusBadRequest,
			Err:  fmt.Errorf("checklist: decode payload: %w", err),
		}
	}
	return object, nil
}

func definitionInput(values map[string]any) DefinitionInput {
	return DefinitionInput{
		Name:        stringValue(values["name"]),
		Description: stringValue(values["description"]),
		Tasks:       taskDefinitionsValue(values["task_definitions"]),
	}
}

func instanceInput(values map[string]any) InstanceInput {
	return InstanceInput{
		DefinitionID: stringValue(values["workflow_definition_id"]),
		Name:         stringValue(values["name"]),
		UserID:       stringValue(values["user_id"]),
		Status:       stringValue(values["status"]),
	}
}

func taskInput(values map[string]any) TaskInput {
	return TaskInput{
		WorkflowID: stringValue(values["workflow_instance_id"]),
		Name:       stringValue(values["name"]),
		Order:      orderValue(values["order"]),
	}
}

// taskDefinitionsValue accepts the structured array form of the JSON API and
// the one-task-per-line textarea form the blueprint template emits.
func taskDefinitionsValue(v any) []TaskDefinition {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		var defs []TaskDefinition
		for _, line := range strings.Split(t, "\n") {
			name := strings.TrimSpace(line)
			if name == "" {
				continue
			}
			defs = append(defs, TaskDefinition{Name: name, Order: len(defs) + 1})
		}
		return defs
	case []TaskDefinition:
		return append([]TaskDefinition(nil), t...)
	case []any:
		var defs []TaskDefinition
		for _, entry := range t {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			def := TaskDefinition{Name: stringValue(m["name"])}
			if order, ok := intValue(m["order"]); ok {
				def.Order = order
			}
			defs = append(defs, def)
		}
		return defs
	default:
		return nil
	}
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func intValue(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			return 0, false
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func orderValue(v any) *int {
	n, ok := intValue(v)
	if !ok {
		return nil
	}
	return &n
}
