// Package watch reconverts STL files in a directory whenever they change.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/smasonuk/meshconv"
	"github.com/smasonuk/meshconv/internal/batch"
	"github.com/smasonuk/meshconv/internal/logging"
)

type Config struct {
	Dir    string
	OutDir string // empty writes next to each source

	// Debounce is how long a path must stay quiet before it is converted.
	Debounce time.Duration
	Options  meshconv.Options

	// ConvertExisting converts every STL already in Dir when Start is called.
	ConvertExisting bool
}

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Converted     int
	Failed        int
	LastPath      string
	LastError     string
	LastConverted time.Time
}

type Watcher struct {
	mu       sync.Mutex
	cfg      Config
	watcher  *fsnotify.Watcher
	log      *zap.Logger
	pending  map[string]time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stopped  bool
	stats    Stats
	onResult func(src string, res *meshconv.Result, err error)
}

func New(cfg Config, log *zap.Logger) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 300 * time.Millisecond
	}

	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("could not watch %s: %w", cfg.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("could not watch %s: not a directory", cfg.Dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		cfg:     cfg,
		watcher: fw,
		log:     logging.OrNop(log),
		pending: make(map[string]time.Time),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// OnResult registers a callback invoked after every conversion attempt. It
// must be set before Start.
func (w *Watcher) OnResult(fn func(src string, res *meshconv.Result, err error)) {
	w.onResult = fn
}

// Start begins watching. It is non-blocking; events are handled on a
// goroutine until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return fmt.Errorf("watcher for %s already stopped", w.cfg.Dir)
	}
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.cfg.Dir); err != nil {
		w.abortStart()
		return fmt.Errorf("could not watch %s: %w", w.cfg.Dir, err)
	}
	w.log.Info("watching", zap.String("dir", w.cfg.Dir), zap.Duration("debounce", w.cfg.Debounce))

	if w.cfg.ConvertExisting {
		jobs, err := batch.PlanDir(w.cfg.Dir, w.cfg.OutDir)
		if err != nil {
			w.abortStart()
			return err
		}
		for _, job := range jobs {
			w.convert(job.Source)
		}
	}

	go w.run(ctx)

	return nil
}

func (w *Watcher) abortStart() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// Stop stops the watcher, waits for the event loop to exit and releases the
// underlying notifier. A stopped watcher cannot be restarted.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	wasRunning := w.running
	w.running = false
	w.stopped = true
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}

	if err := w.watcher.Close(); err != nil {
		w.log.Warn("error closing watcher", zap.Error(err))
	}
	w.log.Info("watcher stopped")
}

// Stats returns a snapshot of the counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.cfg.Debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))

		case now := <-ticker.C:
			w.flush(now)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !batch.IsSTL(event.Name) {
		return
	}

	w.mu.Lock()
	w.stats.Events++
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()

	w.log.Debug("change", zap.String("path", event.Name), zap.String("op", event.Op.String()))
}

// flush converts every pending path that has been quiet for the debounce
// period.
func (w *Watcher) flush(now time.Time) {
	var ready []string

	w.mu.Lock()
	for path, seen := range w.pending {
		if now.Sub(seen) >= w.cfg.Debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		w.convert(path)
	}
}

func (w *Watcher) convert(src string) {
	dst := batch.DestinationFor(src, w.cfg.OutDir)
	res, err := meshconv.ConvertWithOptions(src, dst, w.cfg.Options)

	w.mu.Lock()
	w.stats.LastPath = src
	if err != nil {
		w.stats.Failed++
		w.stats.LastError = err.Error()
	} else {
		w.stats.Converted++
		w.stats.LastError = ""
		w.stats.LastConverted = time.Now()
	}
	w.mu.Unlock()

	if err != nil {
		w.log.Error("conversion failed", zap.String("source", src), zap.Error(err))
	} else {
		w.log.Info("converted",
			zap.String("source", filepath.Base(src)),
			zap.String("destination", dst),
			zap.Int("vertices", res.Vertices),
			zap.Int("faces", res.Faces))
	}

	if w.onResult != nil {
		w.onResult(src, res, err)
	}
}
