// Package layers turns vector data files into GeoJSON feature collections
// and derives the rendering layers a dataset needs on the map.
package layers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Layer kinds, named after the engine layer types they become.
const (
	KindFill   = "fill"
	KindLine   = "line"
	KindCircle = "circle"
)

// Load reads a vector dataset from disk. GeoJSON is read directly;
// shapefiles are converted to a feature collection.
func Load(path string) (*geojson.FeatureCollection, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return FromShapefile(path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
		}
		return FromGeoJSON(data)
	}
}

// FromGeoJSON parses raw GeoJSON into a feature collection.
func FromGeoJSON(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse geojson: %w", err)
	}
	return fc, nil
}

// Kinds returns the layer kinds a feature collection needs, in fill, line,
// circle order. Polygons get both a fill and an outline line layer.
func Kinds(fc *geojson.FeatureCollection) []string {
	var hasFill, hasLine, hasCircle bool
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
			hasFill = true
			hasLine = true
		case orb.LineString, orb.MultiLineString:
			hasLine = true
		case orb.Point, orb.MultiPoint:
			hasCircle = true
		case orb.Collection:
			hasFill = true
			hasLine = true
			hasCircle = true
		}
	}

	var kinds []string
	if hasFill {
		kinds = append(kinds, KindFill)
	}
	if hasLine {
		kinds = append(kinds, KindLine)
	}
	if hasCircle {
		kinds = append(kinds, KindCircle)
	}
	return kinds
}

// LayerIDs derives the engine layer identifiers for a dataset. The UI keeps
// the same convention when it creates layers, so KindOf can recover the kind
// from an id allocated in either process.
func LayerIDs(datasetID string, kinds []string) []string {
	ids := make([]string, len(kinds))
	for i, k := range kinds {
		ids[i] = datasetID + "-" + k
	}
	return ids
}

// KindOf returns the layer kind encoded in a layer id, or "" if the id does
// not follow the <dataset>-<kind> convention.
func KindOf(layerID string) string {
	idx := strings.LastIndex(layerID, "-")
	if idx < 0 {
		return ""
	}
	switch kind := layerID[idx+1:]; kind {
	case KindFill, KindLine, KindCircle:
		return kind
	default:
		return ""
	}
}

// Bounds returns the bounding box of all features, for zoom-to-dataset.
// The second return is false for an empty collection.
func Bounds(fc *geojson.FeatureCollection) (orb.Bound, bool) {
	var bound orb.Bound
	found := false
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		if !found {
			bound = b
			found = true
			continue
		}
		bound = bound.Union(b)
	}
	return bound, found
}
