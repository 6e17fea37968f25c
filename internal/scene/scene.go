// Package scene implements the script scene: per-component ordered lists of
// script instances with typed, text-addressed properties. It is the
// collaborator the editor command layer and the panels mutate.
package scene

import "strconv"

// ComponentHandle identifies a bundle of script instances attached to an
// entity. Handles are opaque to callers; InvalidComponent is the zero of the
// domain and is what command deserialization falls back to.
type ComponentHandle int32

// InvalidComponent is the sentinel for an unresolved component reference.
const InvalidComponent ComponentHandle = -1

// PropertyType enumerates the value kinds a script property can carry.
type PropertyType int

const (
	PropertyBoolean PropertyType = iota
	PropertyFloat
	PropertyEntity
	PropertyResource
	PropertyString
	PropertyAny
)

// String returns a stable lowercase name, used in scene documents.
func (t PropertyType) String() string {
	switch t {
	case PropertyBoolean:
		return "boolean"
	case PropertyFloat:
		return "float"
	case PropertyEntity:
		return "entity"
	case PropertyResource:
		return "resource"
	case PropertyString:
		return "string"
	default:
		return "any"
	}
}

// ParsePropertyType is the inverse of PropertyType.String. Unknown names
// map to PropertyAny.
func ParsePropertyType(s string) PropertyType {
	switch s {
	case "boolean":
		return PropertyBoolean
	case "float":
		return PropertyFloat
	case "entity":
		return PropertyEntity
	case "resource":
		return PropertyResource
	case "string":
		return PropertyString
	default:
		return PropertyAny
	}
}

// Property is one named, typed value on a script instance. Values are stored
// in canonical text form regardless of type; see FormatFloat for the float
// convention.
type Property struct {
	Name         string       `json:"name"`
	Type         PropertyType `json:"type"`
	ResourceType string       `json:"resourceType,omitempty"`
	Value        string       `json:"value"`
}

// Instance is one script attachment within a component. Identity is
// (component, index); indices shift on insert/remove, which is why the
// command layer stores indices rather than stable IDs.
type Instance struct {
	Path       string
	Properties []Property
}

// Scene is the contract the editor command layer operates against.
// All index parameters must be valid at call time; the command executor is
// single-goroutine so stale indices cannot arise from races.
type Scene interface {
	// AddScript appends a blank instance and returns its index.
	AddScript(cmp ComponentHandle) int
	// RemoveScript deletes the instance at index, shifting later instances.
	RemoveScript(cmp ComponentHandle, index int)
	// InsertScript inserts a blank instance at index.
	InsertScript(cmp ComponentHandle, index int)
	// MoveScript swaps the instance at index with its neighbor; up means
	// toward index 0. Out-of-range moves are no-ops.
	MoveScript(cmp ComponentHandle, index int, up bool)

	ScriptCount(cmp ComponentHandle) int
	PropertyCount(cmp ComponentHandle, index int) int
	PropertyName(cmp ComponentHandle, index, propIndex int) string
	PropertyType(cmp ComponentHandle, index, propIndex int) PropertyType
	PropertyResourceType(cmp ComponentHandle, index, propIndex int) string

	PropertyValue(cmp ComponentHandle, index int, name string) string
	SetPropertyValue(cmp ComponentHandle, index int, name, value string)

	ScriptPath(cmp ComponentHandle, index int) string
	SetScriptPath(cmp ComponentHandle, index int, path string)

	// SerializeScript captures the full instance state (path and all
	// property values) into a blob that DeserializeScript can restore.
	SerializeScript(cmp ComponentHandle, index int) ([]byte, error)
	DeserializeScript(cmp ComponentHandle, index int, blob []byte) error

	// BeginFunctionCall invokes the named script hook if the instance's
	// source defines it, reporting whether a call happened. EndFunctionCall
	// must be called after a successful begin.
	BeginFunctionCall(cmp ComponentHandle, index int, name string) bool
	EndFunctionCall()
}

// FormatFloat renders a float property value in its canonical text form:
// 5 significant digits.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 5, 64)
}

// ParseFloat parses a canonical float property value. Invalid text parses
// as 0, matching the forgiving control behavior of the property grid.
func ParseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
