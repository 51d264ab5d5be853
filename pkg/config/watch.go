package config

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/quarrybuild/quarry/pkg/telemetry"
)

// debounceInterval coalesces editor write bursts into one reload.
const debounceInterval = 200 * time.Millisecond

// Watcher re-runs configuration loading whenever the config or project file
// changes on disk.
type Watcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Watch performs an initial load, delivers the result to onReload, and then
// reloads on every change to the resolved config file and project file.
// Inline-only configurations have nothing to watch and are an error.
func (l *Loader) Watch(ctx context.Context, init LoadInit, onReload func(*LoadResult)) (*Watcher, error) {
	result := l.Load(ctx, init)
	onReload(result)

	var paths []string
	if result.Config != nil {
		if p, ok := result.Config["configPath"].(string); ok && p != "" {
			paths = append(paths, p)
		}
	}
	if result.Project.Path != "" {
		paths = append(paths, result.Project.Path)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("nothing to watch: configuration has no file source")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	log := telemetry.NewDefault()
	if result.Config != nil {
		if lg, ok := result.Config["logger"].(*telemetry.Logger); ok && lg != nil {
			log = lg
		}
	}

	w := &Watcher{watcher: fsw, done: make(chan struct{})}
	go w.run(ctx, l, init, onReload, log.NewComponentLogger("config-watcher"))
	return w, nil
}

func (w *Watcher) run(ctx context.Context, l *Loader, init LoadInit, onReload func(*LoadResult), log *telemetry.Logger) {
	defer close(w.done)

	reload := make(chan struct{}, 1)
	var pending *time.Timer

	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if pending == nil {
				pending = time.AfterFunc(debounceInterval, func() {
					select {
					case reload <- struct{}{}:
					default:
					}
				})
			} else {
				pending.Reset(debounceInterval)
			}

		case <-reload:
			pending = nil
			log.Debug("config file changed, reloading")
			onReload(l.Load(ctx, init))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("config watcher error")
		}
	}
}

// Stop ends watching and waits for the reload loop to exit.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
}
