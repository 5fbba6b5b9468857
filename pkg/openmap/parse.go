package openmap

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for the three fields a document cannot live without.
var (
	ErrMissingVersion  = errors.New("project file is missing the version field")
	ErrMissingConfig   = errors.New("project file is missing the config section")
	ErrMissingViewport = errors.New("project file is missing the viewport section")
)

// fileProbe mirrors FileState with presence-detectable fields so a missing
// section can be told apart from an empty one.
type fileProbe struct {
	Version  *string         `json:"version"`
	Config   json.RawMessage `json:"config"`
	Viewport json.RawMessage `json:"viewport"`
}

// Parse decodes raw text as a .openmap document. Version, config and viewport
// are the minimum viable document; each missing one fails with its own error.
// Datasets default to an empty ordered list. No migration is applied: the
// document is returned as stored even if its version differs from Version.
func Parse(data []byte) (*FileState, error) {
	var probe fileProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("not a valid project file: %w", err)
	}
	if probe.Version == nil || *probe.Version == "" {
		return nil, ErrMissingVersion
	}
	if len(probe.Config) == 0 || string(probe.Config) == "null" {
		return nil, ErrMissingConfig
	}
	if len(probe.Viewport) == 0 || string(probe.Viewport) == "null" {
		return nil, ErrMissingViewport
	}

	var fs FileState
	if err := json.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("failed to decode project file: %w", err)
	}
	if fs.Datasets == nil {
		fs.Datasets = []Dataset{}
	}
	return &fs, nil
}
