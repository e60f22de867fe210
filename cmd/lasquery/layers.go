package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/codex-k8s/lasquery-mcp-server/internal/lastools"
	"github.com/codex-k8s/lasquery-mcp-server/internal/runtime"
)

func newLayersCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "layers",
		Short: "List registry layers and the point cloud each vector layer maps to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load(cmd)
			if err != nil {
				return err
			}
			tool, err := runtime.Builder{Logger: logger}.QueryTool(cfg)
			if err != nil {
				return configError(err)
			}
			layers, err := tool.Query.Builder.Layers.CurrentLayers(cmd.Context())
			if err != nil {
				return configError(err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tSOURCE\tPOINT CLOUD")
			for _, layer := range layers {
				cloud := "-"
				if layer.IsVector() {
					path, ok := lastools.DerivePointCloudPath(layer.Source, cfg.LAStools.VectorExt)
					cloud = path
					if !ok {
						cloud += " (unexpected extension)"
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", layer.Name, layer.Type, layer.Source, cloud)
			}
			return w.Flush()
		},
	}
}
