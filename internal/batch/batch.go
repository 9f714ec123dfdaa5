// Package batch converts many STL files concurrently. Every conversion owns
// its own mesh and lookup table; only independent files run in parallel.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/smasonuk/meshconv"
	"github.com/smasonuk/meshconv/internal/logging"
)

// Job is one source to destination conversion.
type Job struct {
	Source      string
	Destination string
}

type Runner struct {
	opts    meshconv.Options
	workers int
	log     *zap.Logger
}

func NewRunner(opts meshconv.Options, workers int, log *zap.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{opts: opts, workers: workers, log: logging.OrNop(log)}
}

// Run converts every job, at most r.workers at a time. The first failure
// cancels the jobs that have not started yet and is returned. Results are in
// job order; entries for jobs that never ran are nil.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]*meshconv.Result, error) {
	results := make([]*meshconv.Result, len(jobs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.workers)

	for i, job := range jobs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			res, err := meshconv.ConvertWithOptions(job.Source, job.Destination, r.opts)
			if err != nil {
				r.log.Error("conversion failed", zap.String("source", job.Source), zap.Error(err))
				return fmt.Errorf("%s: %w", job.Source, err)
			}

			r.log.Info("converted",
				zap.String("source", res.Source),
				zap.String("destination", res.Destination),
				zap.Int("vertices", res.Vertices),
				zap.Int("faces", res.Faces),
				zap.Int("discarded", res.Stats.Discarded))
			results[i] = res
			return nil
		})
	}

	err := eg.Wait()
	return results, err
}

// DestinationFor maps src to its .obj sibling, or to the same base name in
// outDir when outDir is set.
func DestinationFor(src, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + ".obj"
	if outDir == "" {
		return filepath.Join(filepath.Dir(src), base)
	}
	return filepath.Join(outDir, base)
}

// IsSTL reports whether path has an .stl extension, ignoring case.
func IsSTL(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".stl")
}

// PlanFiles builds jobs for explicit sources. Two sources that would write
// the same destination are rejected.
func PlanFiles(sources []string, outDir string) ([]Job, error) {
	jobs := make([]Job, 0, len(sources))
	seen := make(map[string]string, len(sources))
	for _, src := range sources {
		dst := DestinationFor(src, outDir)
		if prev, dup := seen[dst]; dup {
			return nil, fmt.Errorf("%s and %s both map to %s", prev, src, dst)
		}
		seen[dst] = src
		jobs = append(jobs, Job{Source: src, Destination: dst})
	}
	return jobs, nil
}

// PlanDir builds jobs for every STL file directly inside dir, in name order.
func PlanDir(dir, outDir string) ([]Job, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read directory %s: %w", dir, err)
	}

	var sources []string
	for _, e := range entries {
		if e.IsDir() || !IsSTL(e.Name()) {
			continue
		}
		sources = append(sources, filepath.Join(dir, e.Name()))
	}
	sort.Strings(sources)

	return PlanFiles(sources, outDir)
}
