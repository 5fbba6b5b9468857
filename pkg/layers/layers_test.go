package layers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		name string
		geom []orb.Geometry
		want []string
	}{
		{"points", []orb.Geometry{orb.Point{1, 2}}, []string{"circle"}},
		{"lines", []orb.Geometry{orb.LineString{{0, 0}, {1, 1}}}, []string{"line"}},
		{"polygons", []orb.Geometry{orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}, []string{"fill", "line"}},
		{"mixed", []orb.Geometry{
			orb.Point{1, 2},
			orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}},
		}, []string{"fill", "line", "circle"}},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := geojson.NewFeatureCollection()
			for _, g := range tt.geom {
				fc.Append(geojson.NewFeature(g))
			}
			assert.Equal(t, tt.want, Kinds(fc))
		})
	}
}

func TestLayerIDRoundTrip(t *testing.T) {
	ids := LayerIDs("a1b2", []string{KindFill, KindLine, KindCircle})
	assert.Equal(t, []string{"a1b2-fill", "a1b2-line", "a1b2-circle"}, ids)
	for i, kind := range []string{KindFill, KindLine, KindCircle} {
		assert.Equal(t, kind, KindOf(ids[i]))
	}
}

func TestKindOf(t *testing.T) {
	// Dataset ids can themselves contain dashes; only the last segment counts.
	assert.Equal(t, "fill", KindOf("550e8400-e29b-fill"))
	assert.Equal(t, "", KindOf("nodash"))
	assert.Equal(t, "", KindOf("dataset-heatmap"))
	assert.Equal(t, "", KindOf(""))
}

func TestLoadGeoJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pois.geojson")
	doc := `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[13.4,52.5]},"properties":{"name":"Berlin"}}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	fc, err := Load(path)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "Berlin", fc.Features[0].Properties["name"])
	assert.Equal(t, []string{"circle"}, Kinds(fc))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.geojson"))
	assert.Error(t, err)
}

func TestFromGeoJSONInvalid(t *testing.T) {
	_, err := FromGeoJSON([]byte("not json"))
	assert.Error(t, err)
}

func TestBounds(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Point{-10, 5}))
	fc.Append(geojson.NewFeature(orb.LineString{{0, 0}, {20, 15}}))

	b, ok := Bounds(fc)
	require.True(t, ok)
	assert.Equal(t, orb.Point{-10, 0}, b.Min)
	assert.Equal(t, orb.Point{20, 15}, b.Max)

	_, ok = Bounds(geojson.NewFeatureCollection())
	assert.False(t, ok)
}
