package words

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Reload is the result of re-reading a watched word list.
type Reload struct {
	Lists Lists
	Err   error
}

// Watch re-reads the named list whenever its file changes. The parent
// directory is watched so that editors replacing the file are seen. The
// channel is closed when ctx is done. Remote sources cannot be watched and
// return a nil channel.
func Watch(ctx context.Context, src Source, name string) (<-chan Reload, error) {
	if src.IsRemote() {
		return nil, nil
	}
	path, err := src.Location(name)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	out := make(chan Reload, 1)

	go func() {
		defer watcher.Close()

		var debounceTimer *time.Timer
		var closed bool
		var mu sync.Mutex

		defer func() {
			mu.Lock()
			closed = true
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			mu.Unlock()
			close(out)
		}()

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				mu.Lock()
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(DefaultDebounce, func() {
					lists, err := Load(ctx, src, name)

					mu.Lock()
					defer mu.Unlock()
					if closed {
						return
					}
					// Drop a stale result nobody read yet.
					select {
					case <-out:
					default:
					}
					out <- Reload{Lists: lists, Err: err}
				})
				mu.Unlock()

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out, nil
}
