// Package watch analyzes WAV files as they appear in a directory.
package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/tphakala/go-octave-analyzer/internal/batch"
	"github.com/tphakala/go-octave-analyzer/internal/export"
)

// DefaultSettle is how long a file must stay unchanged before analysis.
const DefaultSettle = 500 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Settle is the quiet period after the last write event. Zero means
	// DefaultSettle.
	Settle time.Duration

	// OnResult, if set, receives every file outcome.
	OnResult func(export.FileOutcome)
}

// Watcher feeds new or rewritten audio files in one directory to a
// batch.Runner. Each file is analyzed once it has been quiet for the
// settle period.
type Watcher struct {
	runner *batch.Runner
	log    logrus.FieldLogger
	opts   Options
	fsw    *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

// New starts watching dir. Events are not handled until Run is called.
func New(runner *batch.Runner, log logrus.FieldLogger, dir string, opts Options) (*Watcher, error) {
	if opts.Settle <= 0 {
		opts.Settle = DefaultSettle
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{
		runner:  runner,
		log:     log.WithField("dir", dir),
		opts:    opts,
		fsw:     fsw,
		pending: make(map[string]*time.Timer),
	}, nil
}

// Run handles events until ctx is canceled or the watcher fails. Pending
// files that have not settled are dropped; analyses already running are
// waited for.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.wg.Wait()
	defer w.stopPending()
	defer func() { _ = w.fsw.Close() }()

	w.log.Info("watching for audio files")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher failed: %w", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !w.runner.Accepts(ev.Name) {
		return
	}

	switch {
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		w.schedule(ev.Name)
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.cancel(ev.Name)
	}
}

// schedule (re)arms the settle timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(w.opts.Settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.opts.Settle, func() {
		w.mu.Lock()
		if _, ok := w.pending[path]; !ok {
			w.mu.Unlock()
			return
		}
		delete(w.pending, path)
		w.wg.Add(1)
		w.mu.Unlock()

		defer w.wg.Done()
		out := w.runner.ProcessFile(w.log, path)
		if w.opts.OnResult != nil {
			w.opts.OnResult(out)
		}
	})
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}
