package lastools

import (
	"context"
	"fmt"
	"strings"
)

// ToolLasview is the executable lasquery drives.
const ToolLasview = "lasview"

// Fixed lasquery flags.
const (
	FlagInput       = "-i"
	FlagFlightlines = "-files_are_flightlines"
	FlagInside      = "-inside"
)

// Request describes one lasquery invocation.
type Request struct {
	// AOI is the area of interest in host order "xmin,xmax,ymin,ymax".
	AOI string
	// Options carries verbosity and additional flags.
	Options Options
	// CorrelationID links log and audit entries of one run.
	CorrelationID string
}

// CommandLine is the argv handed to the runner.
type CommandLine struct {
	// Args starts with the executable path.
	Args []string
	// Extent is the parsed area of interest.
	Extent Extent
	// Warnings lists derived inputs that may not point at the intended files.
	Warnings []string
}

// String joins the arguments with spaces for logging.
func (c CommandLine) String() string {
	return strings.Join(c.Args, " ")
}

// Inputs returns the point cloud paths passed with -i, in order.
func (c CommandLine) Inputs() []string {
	var inputs []string
	for i := 0; i+1 < len(c.Args); i++ {
		if c.Args[i] == FlagInput {
			inputs = append(inputs, c.Args[i+1])
			i++
		}
	}
	return inputs
}

// Builder assembles lasquery command lines.
type Builder struct {
	// Toolbox resolves the lasview executable.
	Toolbox Toolbox
	// Layers is the host layer registry; nil means no layers are loaded.
	Layers LayerSource
	// VectorExt is the expected vector source extension (default .shp).
	VectorExt string
}

// Build returns the command line for req. It has no side effects.
func (b Builder) Build(ctx context.Context, req Request) (CommandLine, error) {
	args := []string{b.Toolbox.Executable(ToolLasview)}
	args = append(args, req.Options.VerboseArgs()...)

	extent, err := ParseExtent(req.AOI)
	if err != nil {
		return CommandLine{}, err
	}

	var layers []Layer
	if b.Layers != nil {
		layers, err = b.Layers.CurrentLayers(ctx)
		if err != nil {
			return CommandLine{}, fmt.Errorf("read layer registry: %w", err)
		}
	}

	var warnings []string
	for _, layer := range layers {
		if !layer.IsVector() {
			continue
		}
		path, ok := DerivePointCloudPath(layer.Source, b.VectorExt)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("layer %q: source %q does not end in %s, derived %q", layer.Name, layer.Source, b.vectorExt(), path))
		}
		args = append(args, FlagInput, path)
	}

	args = append(args, FlagFlightlines, FlagInside)
	args = append(args, extent.InsideArgs()...)
	args = append(args, req.Options.AdditionalArgs()...)

	return CommandLine{Args: args, Extent: extent, Warnings: warnings}, nil
}

func (b Builder) vectorExt() string {
	if b.VectorExt == "" {
		return DefaultVectorExt
	}
	return b.VectorExt
}
