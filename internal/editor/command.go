// Package editor implements the reversible command layer: every scene
// mutation the panels perform is expressed as a Command, executed through an
// Executor that maintains the undo/redo stacks.
package editor

import (
	"encoding/json"
	"fmt"
)

// Command is a serializable, reversible scene mutation. Undo after Execute
// restores all observable state, including index positions, exactly.
type Command interface {
	// Execute applies the mutation.
	Execute() error
	// Undo reverts a previously executed command.
	Undo()
	// Type returns the stable command type name used for serialization and
	// merge eligibility.
	Type() string
	// Serialize writes the command's reconstruction fields into rec.
	Serialize(rec *Record)
	// Deserialize reads the command's fields from rec, falling back to
	// defaults (invalid handle, index 0, empty string) for missing fields.
	Deserialize(rec *Record)
	// Merge attempts to fold this command into prev, the current top of the
	// undo stack. On success prev absorbs this command's effect and this
	// command is discarded.
	Merge(prev Command) bool
}

// Record is the generic key-value serializer commands persist through. It is
// tolerant on read: missing or mistyped fields yield the caller's default.
type Record struct {
	fields map[string]json.RawMessage
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{fields: make(map[string]json.RawMessage)}
}

// SetInt writes an integer field.
func (r *Record) SetInt(key string, v int) {
	raw, _ := json.Marshal(v)
	r.fields[key] = raw
}

// SetString writes a string field.
func (r *Record) SetString(key, v string) {
	raw, _ := json.Marshal(v)
	r.fields[key] = raw
}

// SetBool writes a boolean field.
func (r *Record) SetBool(key string, v bool) {
	raw, _ := json.Marshal(v)
	r.fields[key] = raw
}

// Int reads an integer field, returning def when absent or invalid.
func (r *Record) Int(key string, def int) int {
	raw, ok := r.fields[key]
	if !ok {
		return def
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	return v
}

// String reads a string field, returning def when absent or invalid.
func (r *Record) String(key, def string) string {
	raw, ok := r.fields[key]
	if !ok {
		return def
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	return v
}

// Bool reads a boolean field, returning def when absent or invalid.
func (r *Record) Bool(key string, def bool) bool {
	raw, ok := r.fields[key]
	if !ok {
		return def
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	return v
}

// MarshalJSON implements json.Marshaler.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.fields)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	r.fields = make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &r.fields); err != nil {
		return fmt.Errorf("failed to decode command record: %w", err)
	}
	return nil
}
