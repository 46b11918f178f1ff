// Package tlsroots provides default trust-anchor management.
package tlsroots

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/credmesh-go/internal/telemetry/logger"
)

// Watcher watches a root bundle PEM file and pushes changes into a
// Store.
type Watcher struct {
	rootsFile string
	store     *Store
	done      chan struct{}
	watcher   *fsnotify.Watcher
	logger    logger.Logger

	// Debounce settings to avoid multiple reloads
	debounce   time.Duration
	lastReload time.Time
	reloadMu   sync.Mutex
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets the logger for the watcher.
func WithLogger(l logger.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// WithDebounce sets the debounce duration.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher creates a new root bundle watcher feeding store.
func NewWatcher(rootsFile string, store *Store, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		rootsFile: rootsFile,
		store:     store,
		done:      make(chan struct{}),
		logger:    logger.Default(),
		debounce:  500 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(w)
	}

	// Load initial bundle
	if err := w.reload(); err != nil {
		return nil, fmt.Errorf("tlsroots: initial load: %w", err)
	}

	return w, nil
}

// Start starts watching for bundle changes.
// This function blocks until Stop() is called.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tlsroots: create watcher: %w", err)
	}
	w.watcher = watcher

	// Watch the directory containing the bundle file.
	// This handles vim-style renames better.
	rootsDir := filepath.Dir(w.rootsFile)

	if err := watcher.Add(rootsDir); err != nil {
		w.watcher.Close()
		return fmt.Errorf("tlsroots: watch roots dir %s: %w", rootsDir, err)
	}

	w.logger.Info("root bundle watcher started",
		"roots_file", w.rootsFile,
	)

	rootsBase := filepath.Base(w.rootsFile)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Base(event.Name) != rootsBase {
				continue
			}

			// Only reload on write or create events
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			w.logger.Debug("root bundle file changed",
				"file", event.Name,
				"op", event.Op.String(),
			)

			// Debounce rapid changes
			if err := w.debouncedReload(); err != nil {
				w.logger.Error("root bundle reload failed",
					"error", err,
					"roots_file", w.rootsFile,
				)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("root bundle watcher error",
				"error", err,
				"roots_file", w.rootsFile,
			)

		case <-w.done:
			return watcher.Close()
		}
	}
}

// StartAsync starts watching in a goroutine.
func (w *Watcher) StartAsync() {
	go func() {
		if err := w.Start(); err != nil {
			w.logger.Error("root bundle watcher stopped with error",
				"error", err,
			)
		}
	}()
}

// Stop stops watching.
func (w *Watcher) Stop() {
	close(w.done)
}

// debouncedReload reloads the bundle with debouncing.
func (w *Watcher) debouncedReload() error {
	w.reloadMu.Lock()
	defer w.reloadMu.Unlock()

	now := time.Now()
	if now.Sub(w.lastReload) < w.debounce {
		return nil
	}
	w.lastReload = now

	// Small delay to ensure file write is complete
	time.Sleep(100 * time.Millisecond)

	return w.reload()
}

func (w *Watcher) reload() error {
	data, err := os.ReadFile(w.rootsFile)
	if err != nil {
		return fmt.Errorf("read roots file: %w", err)
	}

	// Reject bundles with no parseable certificates; a half-written
	// file must not clobber a good bundle.
	if _, err := CountCertsPEM(data); err != nil {
		return err
	}

	w.store.Set(data)

	w.logger.Info("root bundle reloaded",
		"roots_file", w.rootsFile,
		"bytes", len(data),
	)

	return nil
}
