package layers

import (
	"fmt"
	"log/slog"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FromShapefile converts a shapefile into a GeoJSON feature collection.
// Attribute values are carried over as feature properties. Unsupported shape
// types are skipped, not errors.
func FromShapefile(path string) (*geojson.FeatureCollection, error) {
	shape, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer shape.Close()

	fields := shape.Fields()
	fieldNames := make([]string, len(fields))
	for i, f := range fields {
		fieldNames[i] = f.String()
	}

	fc := geojson.NewFeatureCollection()

	for shape.Next() {
		n, p := shape.Shape()

		var geometry orb.Geometry

		switch s := p.(type) {
		case *shp.Null:
			continue
		case *shp.PolyLine:
			geometry = convertPolyLine(s)
		case *shp.Polygon:
			geometry = convertPolygon(s)
		case *shp.Point:
			geometry = orb.Point{s.X, s.Y}
		case *shp.PointZ:
			geometry = orb.Point{s.X, s.Y}
		default:
			slog.Debug("Skipping unsupported shape type", "type", fmt.Sprintf("%T", p))
			continue
		}

		f := geojson.NewFeature(geometry)
		for i, name := range fieldNames {
			f.Properties[name] = shape.ReadAttribute(n, i)
		}
		fc.Append(f)
	}

	if err := shape.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shapes: %w", err)
	}

	return fc, nil
}

func convertPolyLine(s *shp.PolyLine) orb.MultiLineString {
	var multiline orb.MultiLineString

	for i := 0; i < int(s.NumParts); i++ {
		start := s.Parts[i]
		end := s.NumPoints
		if i < int(s.NumParts)-1 {
			end = s.Parts[i+1]
		}

		var line orb.LineString
		for j := start; j < end; j++ {
			line = append(line, orb.Point{s.Points[j].X, s.Points[j].Y})
		}
		multiline = append(multiline, line)
	}
	return multiline
}

func convertPolygon(s *shp.Polygon) orb.Polygon {
	// All parts become rings of a single polygon; hole detection by winding
	// order is not attempted.
	var poly orb.Polygon

	for i := 0; i < int(s.NumParts); i++ {
		start := s.Parts[i]
		end := s.NumPoints
		if i < int(s.NumParts)-1 {
			end = s.Parts[i+1]
		}

		var ring orb.Ring
		for j := start; j < end; j++ {
			ring = append(ring, orb.Point{s.Points[j].X, s.Points[j].Y})
		}
		poly = append(poly, ring)
	}
	return poly
}
