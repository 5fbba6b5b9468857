package mapconf

// Default returns a total configuration: the default basemap, a whole-world
// initial view and every recognized control populated from the default table.
func (r *Registry) Default() Config {
	style, _ := r.Resolve(DefaultBasemap)
	return Config{
		Basemap:  DefaultBasemap,
		StyleURL: style,
		Center:   [2]float64{0, 20},
		Zoom:     2,
		Controls: DefaultControls(),
	}
}

// Normalize totalizes a partial configuration. Every recognized control is
// populated (saved values win over defaults), unknown control names are
// dropped, and a basemap id that does not resolve falls back to the default
// basemap. The style URL is always re-resolved from the registry so stale
// saved URLs cannot survive a registry change.
func (r *Registry) Normalize(c Config) Config {
	out := c.Clone()

	style, ok := r.Resolve(out.Basemap)
	if !ok {
		out.Basemap = DefaultBasemap
		style, _ = r.Resolve(DefaultBasemap)
	}
	out.StyleURL = style

	controls := DefaultControls()
	for name, ctl := range c.Controls {
		if _, known := controls[name]; !known {
			continue
		}
		if ctl.Position == "" {
			ctl.Position = controls[name].Position
		}
		controls[name] = ctl
	}
	out.Controls = controls

	if out.Zoom == 0 && out.Center == ([2]float64{}) {
		def := r.Default()
		out.Center = def.Center
		out.Zoom = def.Zoom
	}

	return out
}
