package docstore

import (
	"encoding/json"
	"fmt"
	"time"
)

// Document is one stored record: an opaque store-assigned id plus a flat
// field map. Field values round-trip through JSON, so readers see strings,
// bools, float64 numbers, []any and map[string]any. The typed entity layer
// (pkg/community) validates and narrows these at the subscription boundary.
type Document struct {
	ID     string
	Fields map[string]any
}

// serverTimestamp is the sentinel type behind ServerTimestamp.
type serverTimestamp struct{}

// ServerTimestamp marks a field to be filled with the store's clock at write
// time. Callers use it for createdAt/updatedAt fields so ordering is decided
// by the store, never by client clocks.
var ServerTimestamp = serverTimestamp{}

// String returns the named field as a string, or "" if absent or not a string.
func (d Document) String(field string) string {
	s, _ := d.Fields[field].(string)
	return s
}

// Bool returns the named field as a bool, false if absent.
func (d Document) Bool(field string) bool {
	b, _ := d.Fields[field].(bool)
	return b
}

// Int64 returns the named field as an int64. JSON numbers decode as float64;
// values that are not numbers return 0.
func (d Document) Int64(field string) int64 {
	switch v := d.Fields[field].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}

// Time interprets the named field as a millisecond unix timestamp.
// Absent or malformed fields return the zero time.
func (d Document) Time(field string) time.Time {
	ms := d.Int64(field)
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// StringSlice returns the named field as a slice of strings. Non-string
// elements are skipped. Absent fields return an empty slice, never nil.
func (d Document) StringSlice(field string) []string {
	out := []string{}
	raw, ok := d.Fields[field].([]any)
	if !ok {
		return out
	}
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Has reports whether the named field is present.
func (d Document) Has(field string) bool {
	_, ok := d.Fields[field]
	return ok
}

// fieldsToHash converts a field map to the Redis hash representation.
// Every value is JSON-encoded into its hash entry; time.Time values are
// stored as millisecond unix timestamps. ServerTimestamp sentinels must be
// resolved by the caller before this point.
func fieldsToHash(fields map[string]any) (map[string]any, error) {
	hash := make(map[string]any, len(fields))
	for name, value := range fields {
		if _, ok := value.(serverTimestamp); ok {
			return nil, fmt.Errorf("unresolved server timestamp in field %q", name)
		}
		if t, ok := value.(time.Time); ok {
			value = t.UnixMilli()
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode field %q: %w", name, err)
		}
		hash[name] = string(encoded)
	}
	return hash, nil
}

// hashToDocument converts a Redis hash back into a Document.
func hashToDocument(id string, hash map[string]string) (Document, error) {
	fields := make(map[string]any, len(hash))
	for name, raw := range hash {
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return Document{}, fmt.Errorf("failed to decode field %q: %w", name, err)
		}
		fields[name] = value
	}
	return Document{ID: id, Fields: fields}, nil
}
