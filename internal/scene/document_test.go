package scene

import (
	"path/filepath"
	"testing"
)

func sampleDocument() *Document {
	return &Document{
		Components: []ComponentDocument{
			{
				Name: "player",
				Scripts: []ScriptDocument{
					{
						Source: "mover.js",
						Properties: []PropertyDocument{
							{Name: "speed", Type: "float", Value: "2.5"},
							{Name: "enabled", Type: "boolean", Value: "true"},
						},
					},
					{
						Source: "gun.js",
						Properties: []PropertyDocument{
							{Name: "sound", Type: "resource", ResourceType: "clip", Value: "fire.wav"},
						},
					},
				},
			},
			{
				Name:    "door",
				Scripts: []ScriptDocument{{Source: "door.js"}},
			},
		},
	}
}

func TestDocumentSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := SaveDocument(path, sampleDocument()); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}

	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument failed: %v", err)
	}
	if len(doc.Components) != 2 {
		t.Fatalf("Expected 2 components, got %d", len(doc.Components))
	}
	if doc.Components[0].Scripts[0].Source != "mover.js" {
		t.Errorf("Expected mover.js, got %q", doc.Components[0].Scripts[0].Source)
	}
	props := doc.Components[0].Scripts[0].Properties
	if len(props) != 2 || props[0].Name != "speed" || props[0].Value != "2.5" {
		t.Errorf("Unexpected properties after round trip: %+v", props)
	}
	if doc.Components[0].Scripts[1].Properties[0].ResourceType != "clip" {
		t.Errorf("Expected resource type preserved, got %+v", doc.Components[0].Scripts[1].Properties[0])
	}
}

func TestLoadDocumentMissingFile(t *testing.T) {
	if _, err := LoadDocument(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing scene file")
	}
}

func TestPopulateAndSnapshot(t *testing.T) {
	sc := NewMemoryScene(nil)
	handles := sc.Populate(sampleDocument())
	if len(handles) != 2 {
		t.Fatalf("Expected 2 handles, got %d", len(handles))
	}

	if got := sc.ScriptCount(handles[0]); got != 2 {
		t.Fatalf("Expected 2 scripts on first component, got %d", got)
	}
	if got := sc.ScriptPath(handles[0], 0); got != "mover.js" {
		t.Errorf("Expected mover.js, got %q", got)
	}
	if got := sc.PropertyValue(handles[0], 0, "speed"); got != "2.5" {
		t.Errorf("Expected speed=2.5, got %q", got)
	}
	if got := sc.PropertyType(handles[0], 0, 0); got != PropertyFloat {
		t.Errorf("Expected float property, got %v", got)
	}
	if got := sc.PropertyResourceType(handles[0], 1, 0); got != "clip" {
		t.Errorf("Expected resource type clip, got %q", got)
	}

	snap := sc.Snapshot()
	if len(snap.Components) != 2 {
		t.Fatalf("Expected 2 components in snapshot, got %d", len(snap.Components))
	}
	if snap.Components[0].Scripts[0].Source != "mover.js" {
		t.Errorf("Expected mover.js in snapshot, got %q", snap.Components[0].Scripts[0].Source)
	}
	got := snap.Components[0].Scripts[0].Properties[0]
	if got.Name != "speed" || got.Type != "float" || got.Value != "2.5" {
		t.Errorf("Unexpected snapshot property: %+v", got)
	}
}

func TestPopulateDoesNotTriggerDiscovery(t *testing.T) {
	backend := &fakeBackend{props: []Property{{Name: "clobber", Type: PropertyString, Value: "x"}}}
	sc := NewMemoryScene(nil)
	sc.SetBackend(backend)

	handles := sc.Populate(sampleDocument())
	if len(backend.calls) != 0 {
		t.Errorf("Expected no discovery during populate, got calls %v", backend.calls)
	}
	if got := sc.PropertyValue(handles[0], 0, "speed"); got != "2.5" {
		t.Errorf("Expected document property set intact, got %q", got)
	}
}
