package lastools

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidExtent is returned when an area of interest has fewer than four bounds.
var ErrInvalidExtent = errors.New("invalid area of interest")

// Extent is an area of interest as serialized by the host: "xmin,xmax,ymin,ymax".
// Bounds stay strings and are passed to LAStools uninterpreted.
type Extent struct {
	// XMin is the first host token.
	XMin string
	// XMax is the second host token.
	XMax string
	// YMin is the third host token.
	YMin string
	// YMax is the fourth host token.
	YMax string
}

// ParseExtent splits a host extent string by comma. Tokens are kept verbatim,
// whitespace included; tokens after the fourth are ignored.
func ParseExtent(raw string) (Extent, error) {
	parts := strings.Split(raw, ",")
	if len(parts) < 4 {
		return Extent{}, fmt.Errorf("%w: expected 4 comma-separated bounds, got %d in %q", ErrInvalidExtent, len(parts), raw)
	}
	return Extent{
		XMin: parts[0],
		XMax: parts[1],
		YMin: parts[2],
		YMax: parts[3],
	}, nil
}

// InsideArgs returns the bounds in the order -inside expects: min_x min_y max_x max_y.
func (e Extent) InsideArgs() []string {
	return []string{e.XMin, e.YMin, e.XMax, e.YMax}
}

// String returns the extent in host order.
func (e Extent) String() string {
	return strings.Join([]string{e.XMin, e.XMax, e.YMin, e.YMax}, ",")
}
