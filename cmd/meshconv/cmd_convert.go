package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smasonuk/meshconv"
	"github.com/smasonuk/meshconv/internal/batch"
	"github.com/smasonuk/meshconv/internal/watch"
)

func (a *app) convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert SOURCE DEST",
		Short: "Convert one STL file to OBJ",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.readOptions(cmd)
			if err != nil {
				return err
			}

			res, err := meshconv.ConvertWithOptions(args[0], args[1], meshconv.Options{Read: opts})
			if err != nil {
				return err
			}

			if res.Stats.Discarded > 0 {
				a.logger.Warn("dropped trailing vertices that did not complete a triangle",
					zap.String("source", res.Source), zap.Int("count", res.Stats.Discarded))
			}
			a.logger.Debug("read", zap.Stringer("format", res.Stats.Format),
				zap.Int("lines", res.Stats.Lines), zap.Int("records", res.Stats.Records))

			fmt.Fprintf(cmd.OutOrStdout(), "'%s' -> '%s' conversion complete (%d vertices, %d faces)\n",
				res.Source, res.Destination, res.Vertices, res.Faces)
			return nil
		},
	}
	addReadFlags(cmd)
	return cmd
}

func (a *app) batchCmd() *cobra.Command {
	var (
		dir     string
		outDir  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch [SOURCE...]",
		Short: "Convert many STL files concurrently",
		Long: `Converts each SOURCE, or every *.stl file in --dir, to an .obj file next to it
or in --out. The first failure stops the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.readOptions(cmd)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = a.cfg.OutputDir
			}
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Workers
			}

			var jobs []batch.Job
			switch {
			case dir != "" && len(args) > 0:
				return fmt.Errorf("give either --dir or source files, not both")
			case dir != "":
				jobs, err = batch.PlanDir(dir, outDir)
			case len(args) > 0:
				jobs, err = batch.PlanFiles(args, outDir)
			default:
				return fmt.Errorf("nothing to convert: give source files or --dir")
			}
			if err != nil {
				return err
			}

			if outDir != "" {
				if err := os.MkdirAll(outDir, 0755); err != nil {
					return fmt.Errorf("could not create output directory: %w", err)
				}
			}

			ctx, cancel := signalContext()
			defer cancel()

			results, err := batch.NewRunner(meshconv.Options{Read: opts}, workers, a.logger).Run(ctx, jobs)
			done := 0
			for _, res := range results {
				if res != nil {
					done++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "converted %d of %d files\n", done, len(jobs))
			return err
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "convert every .stl file in this directory")
	cmd.Flags().StringVar(&outDir, "out", "", "write .obj files here instead of next to the sources")
	cmd.Flags().IntVarP(&workers, "workers", "j", 4, "conversions to run at once")
	addReadFlags(cmd)
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	var (
		outDir   string
		existing bool
	)

	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Reconvert STL files in DIR whenever they change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.readOptions(cmd)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = a.cfg.OutputDir
			}
			if outDir != "" {
				if err := os.MkdirAll(outDir, 0755); err != nil {
					return fmt.Errorf("could not create output directory: %w", err)
				}
			}

			w, err := watch.New(watch.Config{
				Dir:             args[0],
				OutDir:          outDir,
				Debounce:        a.cfg.GetDebounce(),
				Options:         meshconv.Options{Read: opts},
				ConvertExisting: existing,
			}, a.logger)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			if err := w.Start(ctx); err != nil {
				w.Stop()
				return err
			}
			<-ctx.Done()
			w.Stop()

			stats := w.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "converted %d, failed %d\n", stats.Converted, stats.Failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "write .obj files here instead of next to the sources")
	cmd.Flags().BoolVar(&existing, "existing", false, "convert STL files already present before watching")
	addReadFlags(cmd)
	return cmd
}
