package mapconf

import (
	"context"
	"testing"
)

// memStore is a minimal in-memory StateStore for tests.
type memStore struct {
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) GetState(_ context.Context, key string) (string, bool) {
	v, ok := s.data[key]
	return v, ok
}

func (s *memStore) SetState(_ context.Context, key, val string) error {
	s.data[key] = val
	return nil
}

func (s *memStore) DeleteState(_ context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func TestLoadSavedFirstRun(t *testing.T) {
	reg := NewRegistry()
	cfg := LoadSaved(context.Background(), newMemStore(), reg)

	if cfg.Basemap != DefaultBasemap {
		t.Errorf("expected defaults on first run, got basemap %q", cfg.Basemap)
	}
}

// A corrupt stored blob must behave identically to no stored blob.
func TestLoadSavedCorruptBlob(t *testing.T) {
	reg := NewRegistry()
	st := newMemStore()
	st.data[StateKey] = "{definitely not json"

	cfg := LoadSaved(context.Background(), st, reg)
	def := reg.Default()
	if cfg.Basemap != def.Basemap || cfg.Zoom != def.Zoom {
		t.Errorf("corrupt blob did not fall back to defaults: %#v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	reg := NewRegistry()
	st := newMemStore()

	in := reg.Default()
	in.Basemap = "dark"
	in.Zoom = 9
	in.Controls["fullscreen"] = Control{Enabled: true, Position: "top-left"}
	in = reg.Normalize(in)

	if err := Save(context.Background(), st, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out := LoadSaved(context.Background(), st, reg)
	if out.Basemap != "dark" || out.Zoom != 9 {
		t.Errorf("round trip lost values: %#v", out)
	}
	if ctl := out.Controls["fullscreen"]; !ctl.Enabled || ctl.Position != "top-left" {
		t.Errorf("control round trip mismatch: %#v", ctl)
	}
}
