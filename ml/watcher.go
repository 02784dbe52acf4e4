package ml

import (
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher holds the live Preparer and swaps it atomically when an
// artifact file changes on disk. A failed reload keeps the previous
// artifacts active.
type Watcher struct {
	paths  ArtifactPaths
	logger *zap.Logger

	mu         sync.RWMutex
	current    *Preparer
	generation uint64

	fs   *fsnotify.Watcher
	done chan struct{}
	once sync.Once
}

// NewWatcher performs the initial artifact load. Load failure here is
// fatal for the session, per the startup contract.
func NewWatcher(paths ArtifactPaths, logger *zap.Logger) (*Watcher, error) {
	preparer, err := paths.Load()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		paths:      paths,
		logger:     logger,
		current:    preparer,
		generation: 1,
		done:       make(chan struct{}),
	}, nil
}

// Preparer returns the currently loaded artifact set.
func (w *Watcher) Preparer() *Preparer {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Generation increments on every successful reload. Callers caching
// prediction results key them by generation.
func (w *Watcher) Generation() uint64 {
	return atomic.LoadUint64(&w.generation)
}

// Start begins watching the artifact files for changes.
func (w *Watcher) Start() error {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fs = fs

	paths := []string{w.paths.ModelPath, w.paths.ScalerPath}
	if w.paths.FeatureNamesPath != "" {
		paths = append(paths, w.paths.FeatureNamesPath)
	}
	for _, path := range paths {
		if err := fs.Add(path); err != nil {
			fs.Close()
			w.fs = nil
			return err
		}
	}

	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload(event.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("artifact watcher error", zap.Error(err))
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload(trigger string) {
	preparer, err := w.paths.Load()
	if err != nil {
		w.logger.Error("artifact reload failed, keeping previous model",
			zap.String("trigger", trigger), zap.Error(err))
		return
	}
	w.mu.Lock()
	w.current = preparer
	w.mu.Unlock()
	generation := atomic.AddUint64(&w.generation, 1)
	w.logger.Info("artifacts reloaded",
		zap.String("trigger", trigger), zap.Uint64("generation", generation))
}

// Close stops the watch loop.
func (w *Watcher) Close() error {
	w.once.Do(func() { close(w.done) })
	if w.fs != nil {
		return w.fs.Close()
	}
	return nil
}
