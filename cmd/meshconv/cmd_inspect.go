package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/smasonuk/meshconv/internal/body"
	"github.com/smasonuk/meshconv/internal/preview"
)

func (a *app) inspectCmd() *cobra.Command {
	var (
		offset []float64
		scale  float64
		domain []float64
	)

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Report the size of a mesh and where the simulation would place it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.readOptions(cmd)
			if err != nil {
				return err
			}
			m, err := loadMesh(args[0], opts)
			if err != nil {
				return err
			}

			tmpl := body.FromConfig(a.cfg.Body)
			if cmd.Flags().Changed("offset") {
				if tmpl.Offset, err = vec3Flag("offset", offset); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("domain") {
				if tmpl.Domain, err = vec3Flag("domain", domain); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("scale") {
				if scale <= 0 {
					return fmt.Errorf("--scale must be positive, got %g", scale)
				}
				tmpl.ScaleFactor = scale
			}

			printReport(cmd.OutOrStdout(), args[0], tmpl.Inspect(m))
			return nil
		},
	}

	cmd.Flags().Float64SliceVar(&offset, "offset", nil, "body offset x,y,z")
	cmd.Flags().Float64Var(&scale, "scale", 1, "body scale factor")
	cmd.Flags().Float64SliceVar(&domain, "domain", nil, "simulation domain size x,y,z")
	addReadFlags(cmd)
	return cmd
}

func vec3Flag(name string, v []float64) (mgl64.Vec3, error) {
	if len(v) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("--%s needs three values, got %d", name, len(v))
	}
	return mgl64.Vec3{v[0], v[1], v[2]}, nil
}

func printReport(w io.Writer, name string, r body.Report) {
	fmt.Fprintf(w, "%s\n", name)
	fmt.Fprintf(w, "  vertices      %d\n", r.Vertices)
	fmt.Fprintf(w, "  faces         %d\n", r.Faces)
	if r.Vertices == 0 {
		return
	}
	fmt.Fprintf(w, "  bounds        %s .. %s\n", formatVec(r.Min), formatVec(r.Max))
	fmt.Fprintf(w, "  size          %s\n", formatVec(r.Size))
	fmt.Fprintf(w, "  surface area  %g\n", r.SurfaceArea)
	fmt.Fprintf(w, "  volume        %g\n", r.Volume)
	fmt.Fprintf(w, "  placed        %s .. %s\n", formatVec(r.PlacedMin), formatVec(r.PlacedMax))
	switch {
	case !r.DomainKnown:
		fmt.Fprintf(w, "  domain        not set\n")
	case r.InsideDomain:
		fmt.Fprintf(w, "  domain        fits\n")
	default:
		fmt.Fprintf(w, "  domain        OUTSIDE\n")
	}
}

func formatVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%g, %g, %g)", v[0], v[1], v[2])
}

func (a *app) previewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Show a mesh as a rotating wireframe",
		Long: `Opens a window with FILE drawn as a wireframe. Drag to orbit, use the wheel
to zoom and space to toggle the spin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.readOptions(cmd)
			if err != nil {
				return err
			}
			m, err := loadMesh(args[0], opts)
			if err != nil {
				return err
			}
			return preview.Run(filepath.Base(args[0]), m, a.cfg.Preview.Width, a.cfg.Preview.Height)
		},
	}
	addReadFlags(cmd)
	return cmd
}
