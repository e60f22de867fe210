package lastools

import (
	"context"
	"path/filepath"
	"strings"
)

// Layer type tags as reported by the host registry.
const (
	LayerVector = "vector"
	LayerRaster = "raster"
	LayerMesh   = "mesh"
	LayerPlugin = "plugin"
)

// PointCloudExt is the extension appended to derived point cloud paths.
const PointCloudExt = ".laz"

// DefaultVectorExt is the vector source extension the flightline layout expects.
const DefaultVectorExt = ".shp"

// Layer is a read-only view of one loaded map layer.
type Layer struct {
	// Name is the registry key of the layer.
	Name string `yaml:"name" json:"name"`
	// Type is the layer type tag.
	Type string `yaml:"type" json:"type"`
	// Source is the layer's data source path.
	Source string `yaml:"source" json:"source"`
}

// IsVector reports whether the layer is a vector layer.
func (l Layer) IsVector() bool {
	return strings.EqualFold(strings.TrimSpace(l.Type), LayerVector)
}

// LayerSource exposes the host's currently loaded layers in registry order.
type LayerSource interface {
	// CurrentLayers returns the loaded layers.
	CurrentLayers(ctx context.Context) ([]Layer, error)
}

// StaticSource is a fixed layer registry.
type StaticSource []Layer

// CurrentLayers returns a copy of the fixed layers.
func (s StaticSource) CurrentLayers(_ context.Context) ([]Layer, error) {
	out := make([]Layer, len(s))
	copy(out, s)
	return out, nil
}

// DerivePointCloudPath replaces the extension of a vector source with .laz.
// It returns ok=false when the source does not carry expectedExt, in which case
// the derived path is still produced but may not name the intended tile.
func DerivePointCloudPath(source, expectedExt string) (string, bool) {
	if expectedExt == "" {
		expectedExt = DefaultVectorExt
	}
	ext := filepath.Ext(source)
	base := strings.TrimSuffix(source, ext)
	return base + PointCloudExt, strings.EqualFold(ext, expectedExt)
}
