package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smasonuk/meshconv"
	"github.com/smasonuk/meshconv/internal/config"
	"github.com/smasonuk/meshconv/internal/logging"
)

// app carries what every subcommand needs once the root pre-run has loaded
// the config.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "meshconv",
		Short: "Convert ASCII STL triangle soups into indexed Wavefront OBJ meshes",
		Long: `meshconv reads STL files, merges vertices whose coordinates are exactly
equal, and writes an indexed OBJ file suitable for loading as a simulation
body.

Every run of three "vertex" records becomes one triangle; a trailing partial
triangle is dropped.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			a.cfg = cfg

			a.logger, err = logging.New(cfg.Logging, a.verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "meshconv.yaml", "config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		a.convertCmd(),
		a.batchCmd(),
		a.watchCmd(),
		a.inspectCmd(),
		a.previewCmd(),
		a.configCmd(),
	)
	return rootCmd
}

// readOptions merges the config with any --format/--strict flags the user set.
func (a *app) readOptions(cmd *cobra.Command) (meshconv.ReadOptions, error) {
	opts, err := a.cfg.ReadOptions()
	if err != nil {
		return opts, err
	}
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		if opts.Format, err = meshconv.ParseFormat(f.Value.String()); err != nil {
			return opts, err
		}
	}
	if cmd.Flags().Changed("strict") {
		opts.Strict, _ = cmd.Flags().GetBool("strict")
	}
	return opts, nil
}

func addReadFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "auto", "STL encoding: auto, ascii or binary")
	cmd.Flags().Bool("strict", false, "reject loops that do not hold exactly three vertices")
}

// loadMesh reads an OBJ by extension, anything else as STL.
func loadMesh(path string, opts meshconv.ReadOptions) (*meshconv.Mesh, error) {
	if strings.EqualFold(filepath.Ext(path), ".obj") {
		return meshconv.LoadOBJFile(path)
	}
	m, _, err := meshconv.LoadSTLFile(path, opts)
	return m, err
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
