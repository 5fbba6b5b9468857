package mapconf

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"mapdesk/pkg/store"
)

// StateKey is the fixed store key holding the last-chosen landing configuration.
const StateKey = "landing_config"

// LoadSaved returns the last-chosen landing configuration, normalized against
// the registry. A missing or corrupt blob behaves identically to first run:
// the defaults are returned and no error is raised.
func LoadSaved(ctx context.Context, st store.StateStore, reg *Registry) Config {
	raw, ok := st.GetState(ctx, StateKey)
	if !ok || raw == "" {
		return reg.Default()
	}

	var c Config
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		slog.Debug("Discarding corrupt saved landing config", "error", err)
		return reg.Default()
	}
	return reg.Normalize(c)
}

// Save persists the landing configuration under StateKey.
func Save(ctx context.Context, st store.StateStore, c Config) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal landing config: %w", err)
	}
	if err := st.SetState(ctx, StateKey, string(data)); err != nil {
		return fmt.Errorf("failed to save landing config: %w", err)
	}
	return nil
}
