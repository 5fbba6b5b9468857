// shp2openmap converts a shapefile into a ready-to-open .openmap project.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"mapdesk/pkg/layers"
	"mapdesk/pkg/mapconf"
	"mapdesk/pkg/openmap"
)

func main() {
	inputPath := flag.String("input", "", "Path to input .shp file")
	outputPath := flag.String("output", "", "Path to output .openmap file")
	basemap := flag.String("basemap", mapconf.DefaultBasemap, "Basemap id for the project")
	flag.Parse()

	if *inputPath == "" || *outputPath == "" {
		flag.Usage()
		log.Fatal("Input and output paths are required")
	}

	if err := run(*inputPath, *outputPath, *basemap); err != nil {
		log.Fatal(err)
	}
}

func run(inputPath, outputPath, basemap string) error {
	fc, err := layers.FromShapefile(inputPath)
	if err != nil {
		return err
	}

	reg := mapconf.NewRegistry()
	cfg := reg.Default()
	cfg.Basemap = basemap
	cfg = reg.Normalize(cfg)

	viewport := openmap.Viewport{Center: cfg.Center, Zoom: cfg.Zoom}
	if b, ok := layers.Bounds(fc); ok {
		viewport.Center = [2]float64{(b.Min[0] + b.Max[0]) / 2, (b.Min[1] + b.Max[1]) / 2}
		viewport.Zoom = zoomFor(b.Max[0]-b.Min[0], b.Max[1]-b.Min[1])
		cfg.Center = viewport.Center
		cfg.Zoom = viewport.Zoom
	}

	id := uuid.NewString()
	kinds := layers.Kinds(fc)
	fs := &openmap.FileState{
		Version:  openmap.Version,
		SavedAt:  time.Now().UTC(),
		Config:   cfg,
		Viewport: viewport,
		Datasets: []openmap.Dataset{{
			ID:       id,
			Name:     filepath.Base(inputPath),
			Geometry: fc,
			Visible:  true,
			LayerIDs: layers.LayerIDs(id, kinds),
		}},
	}

	data, err := json.MarshalIndent(fs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Printf("Wrote %s with %d features\n", outputPath, len(fc.Features))
	return nil
}

// zoomFor picks a zoom level that roughly fits the given extent in degrees.
func zoomFor(dLon, dLat float64) float64 {
	extent := math.Max(dLon, dLat)
	if extent <= 0 {
		return 12
	}
	zoom := math.Log2(360 / extent)
	return math.Max(1, math.Min(16, math.Floor(zoom*10)/10))
}
