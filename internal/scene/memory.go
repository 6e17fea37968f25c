package scene

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
)

// Backend runs script sources on behalf of the scene: discovering the
// property set a source declares and invoking named hooks. It is optional;
// a scene without a backend still supports every structural operation.
type Backend interface {
	// DiscoverProperties evaluates the source at path and returns the
	// properties it declares, with default values in canonical text form.
	DiscoverProperties(path string) ([]Property, error)
	// InvokeHook evaluates the source at path with the given property
	// values bound and calls fn if the source defines it. The bool reports
	// whether a function was actually called.
	InvokeHook(path string, props []Property, fn string) (bool, error)
}

// MemoryScene is the in-memory Scene implementation the editor operates on.
// It is not safe for concurrent use; the command executor and the panels all
// run on a single goroutine.
type MemoryScene struct {
	components map[ComponentHandle][]*Instance
	nextHandle ComponentHandle
	backend    Backend
	logger     *slog.Logger
}

// NewMemoryScene creates an empty scene. logger may be nil.
func NewMemoryScene(logger *slog.Logger) *MemoryScene {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryScene{
		components: make(map[ComponentHandle][]*Instance),
		logger:     logger,
	}
}

// SetBackend attaches a script backend used for property discovery and hook
// calls. Passing nil detaches.
func (s *MemoryScene) SetBackend(b Backend) { s.backend = b }

// CreateComponent allocates a new, empty script component.
func (s *MemoryScene) CreateComponent() ComponentHandle {
	h := s.nextHandle
	s.nextHandle++
	s.components[h] = nil
	return h
}

// Components returns all component handles in ascending order.
func (s *MemoryScene) Components() []ComponentHandle {
	out := make([]ComponentHandle, 0, len(s.components))
	for h := range s.components {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *MemoryScene) instance(cmp ComponentHandle, index int) *Instance {
	list := s.components[cmp]
	if index < 0 || index >= len(list) {
		s.logger.Warn("stale script index", "component", int(cmp), "index", index)
		return nil
	}
	return list[index]
}

// AddScript implements Scene. Unknown component references fail silently,
// returning -1.
func (s *MemoryScene) AddScript(cmp ComponentHandle) int {
	if _, ok := s.components[cmp]; !ok {
		s.logger.Warn("unknown component", "component", int(cmp))
		return -1
	}
	s.components[cmp] = append(s.components[cmp], &Instance{})
	return len(s.components[cmp]) - 1
}

// RemoveScript implements Scene.
func (s *MemoryScene) RemoveScript(cmp ComponentHandle, index int) {
	list := s.components[cmp]
	if index < 0 || index >= len(list) {
		s.logger.Warn("stale script index", "component", int(cmp), "index", index)
		return
	}
	s.components[cmp] = append(list[:index], list[index+1:]...)
}

// InsertScript implements Scene. Unknown component references fail silently.
func (s *MemoryScene) InsertScript(cmp ComponentHandle, index int) {
	list, ok := s.components[cmp]
	if !ok {
		s.logger.Warn("unknown component", "component", int(cmp))
		return
	}
	if index < 0 || index > len(list) {
		s.logger.Warn("stale script index", "component", int(cmp), "index", index)
		return
	}
	list = append(list, nil)
	copy(list[index+1:], list[index:])
	list[index] = &Instance{}
	s.components[cmp] = list
}

// MoveScript implements Scene. Boundary moves are no-ops.
func (s *MemoryScene) MoveScript(cmp ComponentHandle, index int, up bool) {
	list := s.components[cmp]
	other := index + 1
	if up {
		other = index - 1
	}
	if index < 0 || index >= len(list) || other < 0 || other >= len(list) {
		return
	}
	list[index], list[other] = list[other], list[index]
}

// ScriptCount implements Scene.
func (s *MemoryScene) ScriptCount(cmp ComponentHandle) int {
	return len(s.components[cmp])
}

// PropertyCount implements Scene.
func (s *MemoryScene) PropertyCount(cmp ComponentHandle, index int) int {
	inst := s.instance(cmp, index)
	if inst == nil {
		return 0
	}
	return len(inst.Properties)
}

// PropertyName implements Scene.
func (s *MemoryScene) PropertyName(cmp ComponentHandle, index, propIndex int) string {
	if p := s.property(cmp, index, propIndex); p != nil {
		return p.Name
	}
	return ""
}

// PropertyType implements Scene.
func (s *MemoryScene) PropertyType(cmp ComponentHandle, index, propIndex int) PropertyType {
	if p := s.property(cmp, index, propIndex); p != nil {
		return p.Type
	}
	return PropertyAny
}

// PropertyResourceType implements Scene.
func (s *MemoryScene) PropertyResourceType(cmp ComponentHandle, index, propIndex int) string {
	if p := s.property(cmp, index, propIndex); p != nil {
		return p.ResourceType
	}
	return ""
}

func (s *MemoryScene) property(cmp ComponentHandle, index, propIndex int) *Property {
	inst := s.instance(cmp, index)
	if inst == nil || propIndex < 0 || propIndex >= len(inst.Properties) {
		return nil
	}
	return &inst.Properties[propIndex]
}

// PropertyValue implements Scene. Unknown names read as empty.
func (s *MemoryScene) PropertyValue(cmp ComponentHandle, index int, name string) string {
	inst := s.instance(cmp, index)
	if inst == nil {
		return ""
	}
	for i := range inst.Properties {
		if inst.Properties[i].Name == name {
			return inst.Properties[i].Value
		}
	}
	return ""
}

// SetPropertyValue implements Scene. Setting an unknown name declares it as
// a PropertyAny property, mirroring dynamic script properties.
func (s *MemoryScene) SetPropertyValue(cmp ComponentHandle, index int, name, value string) {
	inst := s.instance(cmp, index)
	if inst == nil {
		return
	}
	for i := range inst.Properties {
		if inst.Properties[i].Name == name {
			inst.Properties[i].Value = value
			return
		}
	}
	inst.Properties = append(inst.Properties, Property{Name: name, Type: PropertyAny, Value: value})
}

// ScriptPath implements Scene.
func (s *MemoryScene) ScriptPath(cmp ComponentHandle, index int) string {
	inst := s.instance(cmp, index)
	if inst == nil {
		return ""
	}
	return inst.Path
}

// SetScriptPath implements Scene. When a backend is attached the property
// set is re-discovered from the new source; values of properties that keep
// their name survive the swap.
func (s *MemoryScene) SetScriptPath(cmp ComponentHandle, index int, path string) {
	inst := s.instance(cmp, index)
	if inst == nil {
		return
	}
	inst.Path = path
	if s.backend == nil || path == "" {
		return
	}
	props, err := s.backend.DiscoverProperties(path)
	if err != nil {
		s.logger.Error("property discovery failed", "path", path, "error", err)
		return
	}
	old := inst.Properties
	for i := range props {
		for j := range old {
			if old[j].Name == props[i].Name {
				props[i].Value = old[j].Value
				break
			}
		}
	}
	inst.Properties = props
}

type instanceSnapshot struct {
	Path       string     `json:"path"`
	Properties []Property `json:"properties"`
}

// SerializeScript implements Scene.
func (s *MemoryScene) SerializeScript(cmp ComponentHandle, index int) ([]byte, error) {
	inst := s.instance(cmp, index)
	if inst == nil {
		return nil, fmt.Errorf("no script at component %d index %d", cmp, index)
	}
	return json.Marshal(instanceSnapshot{Path: inst.Path, Properties: inst.Properties})
}

// DeserializeScript implements Scene.
func (s *MemoryScene) DeserializeScript(cmp ComponentHandle, index int, blob []byte) error {
	inst := s.instance(cmp, index)
	if inst == nil {
		return fmt.Errorf("no script at component %d index %d", cmp, index)
	}
	var snap instanceSnapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return fmt.Errorf("failed to decode script snapshot: %w", err)
	}
	inst.Path = snap.Path
	inst.Properties = snap.Properties
	return nil
}

// BeginFunctionCall implements Scene.
func (s *MemoryScene) BeginFunctionCall(cmp ComponentHandle, index int, name string) bool {
	inst := s.instance(cmp, index)
	if inst == nil || inst.Path == "" || s.backend == nil {
		return false
	}
	called, err := s.backend.InvokeHook(inst.Path, inst.Properties, name)
	if err != nil {
		s.logger.Error("script hook failed", "path", inst.Path, "hook", name, "error", err)
		return false
	}
	return called
}

// EndFunctionCall implements Scene. Hook invocation is synchronous, so this
// only closes the begin/end pairing of the contract.
func (s *MemoryScene) EndFunctionCall() {}
