package app

import (
	"context"
	"iter"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"go.trai.ch/mach/internal/adapters/watcher"
	"go.trai.ch/mach/internal/core/ports"
	"go.trai.ch/zerr"
)

// WatcherFactory creates file system watchers.
type WatcherFactory interface {
	New() (ports.Watcher, error)
}

// ChangeFilter drops events that leave file contents unchanged.
type ChangeFilter interface {
	Seed(paths []string)
	Changed(paths []string) []string
}

// FileLister enumerates the files of a tree.
type FileLister interface {
	WalkFiles(root string) iter.Seq[string]
}

// WatchDeps holds the collaborators of watch mode.
type WatchDeps struct {
	Watchers WatcherFactory
	Filter   ChangeFilter
	Files    FileLister
	// Window is the debounce window. Zero selects watcher.DefaultDebounceWindow.
	Window time.Duration
}

// WithWatch enables watch mode.
func (a *App) WithWatch(deps WatchDeps) *App {
	a.watch = &deps
	return a
}

// Watch builds the targets named in args, then rebuilds them whenever the
// content of a file under the Machfile directory changes, until ctx is done.
// Build failures are logged and do not stop watching.
func (a *App) Watch(ctx context.Context, args []string) error {
	if a.watch == nil {
		return zerr.New("watch mode is not configured")
	}

	path, err := a.locate(fileArg(args))
	if err != nil {
		return err
	}
	root := filepath.Dir(path)

	w, err := a.watch.Watchers.New()
	if err != nil {
		return err
	}
	defer func() {
		_ = w.Stop()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := w.Start(ctx, root); err != nil {
		return err
	}

	trigger := make(chan struct{}, 1)
	window := a.watch.Window
	if window == 0 {
		window = watcher.DefaultDebounceWindow
	}
	debouncer := watcher.NewDebouncer(window, func(paths []string) {
		changed := a.watch.Filter.Changed(paths)
		if len(changed) == 0 {
			return
		}
		a.logger.Debug(strconv.Itoa(len(changed)) + " file(s) changed, first " + changed[0])
		select {
		case trigger <- struct{}{}:
		default:
		}
	})

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for event := range w.Events() {
			debouncer.Add(event.Path)
		}
	}()

	for {
		a.watchRun(ctx, path, root, args, trigger)

		select {
		case <-ctx.Done():
			a.watchStop(drained, debouncer, trigger)
			return nil
		case <-trigger:
			a.logger.Info("change detected, rebuilding")
		}
	}
}

// watchRun runs one build and records the resulting file state, so files
// written by the build do not trigger another run.
func (a *App) watchRun(ctx context.Context, path, root string, args []string, trigger <-chan struct{}) {
	if err := a.build(ctx, path, args); err != nil {
		a.logger.Error(err)
	}
	a.watch.Filter.Seed(slices.Collect(a.watch.Files.WalkFiles(root)))

	select {
	case <-trigger:
	default:
	}
	a.logger.Info("watching " + root + " for changes")
}

// watchStop waits for the event stream to end, then flushes the debouncer so
// changes still inside the window are checked before watch mode returns.
func (a *App) watchStop(drained <-chan struct{}, debouncer *watcher.Debouncer, trigger <-chan struct{}) {
	<-drained
	debouncer.Flush()

	select {
	case <-trigger:
		a.logger.Warn("stopped with changes that were not rebuilt")
	default:
	}
}
