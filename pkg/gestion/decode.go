package gestion

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	pkgerrors "github.com/urbandrive/storefront/pkg/errors"
)

// The gestion API is inconsistent about envelopes ({data: T} vs bare T)
// and key casing (PascalCase, camelCase, snake_case). Every response goes
// through one explicit normalizer per entity, built on the helpers below.
// A payload that does not yield the entity's required fields is an error,
// never a silent zero value.

type object map[string]json.RawMessage

// decodeObject parses raw into a key-canonicalized object, unwrapping a
// single {data: {...}} envelope if present.
func decodeObject(raw []byte) (object, error) {
	raw = unwrapData(raw)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unexpected response shape")
	}
	out := make(object, len(fields))
	for key, value := range fields {
		out[canonicalKey(key)] = value
	}
	return out, nil
}

// decodeList parses raw into the element slice, accepting a bare array,
// a {data: [...]} envelope, or a single object (returned as one element).
func decodeList(raw []byte) ([]json.RawMessage, error) {
	raw = unwrapData(raw)
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unexpected list shape")
		}
		return items, nil
	}
	if strings.HasPrefix(trimmed, "{") {
		return []json.RawMessage{json.RawMessage(raw)}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("unexpected list payload %.40q", trimmed))
}

// unwrapData strips one {data: T} envelope. Anything else passes through.
func unwrapData(raw []byte) []byte {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		inner := strings.TrimSpace(string(envelope.Data))
		if inner != "" && inner != "null" {
			return envelope.Data
		}
	}
	return raw
}

// isEmptyPayload reports whether the body carries no record at all.
func isEmptyPayload(raw []byte) bool {
	trimmed := strings.TrimSpace(string(unwrapData(raw)))
	return trimmed == "" || trimmed == "null" || trimmed == "{}" || trimmed == "[]"
}

func canonicalKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(key), "_", "")
}

func (o object) lookup(names ...string) (json.RawMessage, bool) {
	for _, name := range names {
		if value, ok := o[canonicalKey(name)]; ok {
			trimmed := strings.TrimSpace(string(value))
			if trimmed != "" && trimmed != "null" {
				return value, true
			}
		}
	}
	return nil, false
}

func (o object) str(names ...string) string {
	raw, ok := o.lookup(names...)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	// numbers and booleans stringified, matching how callers display them
	return strings.Trim(string(raw), `"`)
}

func (o object) int64(names ...string) int64 {
	raw, ok := o.lookup(names...)
	if !ok {
		return 0
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, perr := strconv.ParseInt(strings.TrimSpace(s), 10, 64); perr == nil {
			return parsed
		}
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int64(f)
	}
	return 0
}

func (o object) float(names ...string) float64 {
	raw, ok := o.lookup(names...)
	if !ok {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, perr := strconv.ParseFloat(strings.TrimSpace(s), 64); perr == nil {
			return parsed
		}
	}
	return 0
}

func (o object) boolean(names ...string) bool {
	raw, ok := o.lookup(names...)
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	return false
}

// dateOnly truncates timestamps to YYYY-MM-DD so ranges compare
// lexicographically.
func dateOnly(value string) string {
	if len(value) > 10 {
		return value[:10]
	}
	return value
}

func missingField(entity, field string) error {
	return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("%s payload missing %s", entity, field))
}
