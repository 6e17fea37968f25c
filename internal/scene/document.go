package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk form of a scene: components with their ordered
// script attachments. Property order inside a script is significant and
// preserved.
type Document struct {
	Components []ComponentDocument `yaml:"components"`
}

// ComponentDocument is one script component in a scene document.
type ComponentDocument struct {
	Name    string           `yaml:"name,omitempty"`
	Scripts []ScriptDocument `yaml:"scripts"`
}

// ScriptDocument is one script attachment in a scene document.
type ScriptDocument struct {
	Source     string             `yaml:"source"`
	Properties []PropertyDocument `yaml:"properties,omitempty"`
}

// PropertyDocument is one property in a scene document.
type PropertyDocument struct {
	Name         string `yaml:"name"`
	Type         string `yaml:"type"`
	ResourceType string `yaml:"resourceType,omitempty"`
	Value        string `yaml:"value"`
}

// LoadDocument reads a scene document from path.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene %s: %w", path, err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scene %s: %w", path, err)
	}
	return &doc, nil
}

// SaveDocument writes a scene document to path.
func SaveDocument(path string, doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scene %s: %w", path, err)
	}
	return nil
}

// Populate loads the document's components into the scene, returning the
// handles in document order.
func (s *MemoryScene) Populate(doc *Document) []ComponentHandle {
	handles := make([]ComponentHandle, 0, len(doc.Components))
	for _, c := range doc.Components {
		h := s.CreateComponent()
		handles = append(handles, h)
		for _, sc := range c.Scripts {
			idx := s.AddScript(h)
			// Assign the path directly; discovery would clobber the
			// document's recorded property set.
			inst := s.instance(h, idx)
			inst.Path = sc.Source
			for _, p := range sc.Properties {
				inst.Properties = append(inst.Properties, Property{
					Name:         p.Name,
					Type:         ParsePropertyType(p.Type),
					ResourceType: p.ResourceType,
					Value:        p.Value,
				})
			}
		}
	}
	return handles
}

// Snapshot captures the scene's current state as a document.
func (s *MemoryScene) Snapshot() *Document {
	doc := &Document{}
	for _, h := range s.Components() {
		cd := ComponentDocument{Name: fmt.Sprintf("component-%d", h)}
		for _, inst := range s.components[h] {
			sd := ScriptDocument{Source: inst.Path}
			for _, p := range inst.Properties {
				sd.Properties = append(sd.Properties, PropertyDocument{
					Name:         p.Name,
					Type:         p.Type.String(),
					ResourceType: p.ResourceType,
					Value:        p.Value,
				})
			}
			cd.Scripts = append(cd.Scripts, sd)
		}
		doc.Components = append(doc.Components, cd)
	}
	return doc
}
