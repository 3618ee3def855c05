package session

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileFeed signals changes to a SQLite database file made by any process.
// It watches the parent directory rather than the file so journal files and
// atomic renames are seen too.
type FileFeed struct {
	path    string
	names   map[string]struct{}
	opts    feedOptions
	watcher *fsnotify.Watcher

	closeOnce sync.Once
	done      chan struct{}
}

// NewFileFeed watches the SQLite database at path.
func NewFileFeed(path string, opts ...FeedOption) (*FileFeed, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("abs %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(abs)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	base := filepath.Base(abs)
	return &FileFeed{
		path: abs,
		names: map[string]struct{}{
			base:              {},
			base + "-journal": {},
			base + "-wal":     {},
		},
		opts:    newFeedOptions(opts),
		watcher: w,
		done:    make(chan struct{}),
	}, nil
}

// Watch implements ChangeFeed.
func (f *FileFeed) Watch(ctx context.Context, onChange func()) error {
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-f.done:
			return nil
		case event, ok := <-f.watcher.Events:
			if !ok {
				return nil
			}
			if !f.relevant(event) {
				continue
			}
			if f.opts.debounce <= 0 {
				onChange()
				continue
			}
			fire = time.After(f.opts.debounce)
		case <-fire:
			fire = nil
			onChange()
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return nil
			}
			f.opts.log.Error(ctx, "session file watcher error", "path", f.path, "error", err)
		}
	}
}

func (f *FileFeed) relevant(event fsnotify.Event) bool {
	if _, ok := f.names[filepath.Base(event.Name)]; !ok {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// Close implements ChangeFeed.
func (f *FileFeed) Close() error {
	var err error
	f.closeOnce.Do(func() {
		close(f.done)
		err = f.watcher.Close()
	})
	return err
}
