package preset

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/logging"
)

// Library keeps an in-memory catalog of the preset files in one directory,
// refreshed by filesystem events. Consumers only read the catalog; the
// watcher never loads or parses preset content.
type Library struct {
	dir    string
	logger logging.Logger

	mu      sync.RWMutex
	catalog []FileInfo
}

// NewLibrary builds a library over the given directory. The catalog is empty
// until Start or Refresh runs.
func NewLibrary(dir string, logger logging.Logger) *Library {
	if logger == nil {
		logger = logging.New(nil, logging.NewTextFormatter())
	}
	return &Library{
		dir:    dir,
		logger: logger.WithFields(logging.String("component", "preset-library")),
	}
}

// Catalog returns the current snapshot, newest first.
func (l *Library) Catalog() []FileInfo {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]FileInfo, len(l.catalog))
	copy(out, l.catalog)
	return out
}

// Refresh rescans the directory synchronously.
func (l *Library) Refresh() error {
	files, err := listDir(l.dir, "")
	if err != nil {
		return err
	}

	presets := files[:0]
	for _, file := range files {
		if isPresetFile(file.Path) {
			presets = append(presets, file)
		}
	}
	sort.Slice(presets, func(i, j int) bool {
		return presets[i].Modified.After(presets[j].Modified)
	})

	l.mu.Lock()
	l.catalog = presets
	l.mu.Unlock()
	return nil
}

// Start scans once, then watches the directory until the context ends.
// Events only trigger rescans; a watcher error ends the loop.
func (l *Library) Start(ctx context.Context) error {
	if err := l.Refresh(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(l.dir); err != nil {
		watcher.Close()
		return err
	}

	l.logger.Info("Watching preset directory", logging.String("dir", l.dir))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !isPresetFile(event.Name) {
					continue
				}
				if err := l.Refresh(); err != nil {
					l.logger.Warn("Preset rescan failed", logging.ErrorField(err))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return err
			}
		}
	})
	return g.Wait()
}

func isPresetFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".json":
		return true
	default:
		return false
	}
}
