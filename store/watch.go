package store

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/thrombe/kolekk/log"
)

// WatchDelay is how long Watch waits for a burst of mutations to settle.
const WatchDelay = 200 * time.Millisecond

// Watch calls fn after the index changes, until ctx is done.
//
// Mutations made through this Store are seen directly. When the store has a
// stamp file, changes made by other kolekk processes are seen through it.
// Bursts of changes within WatchDelay produce a single call.
func (s *Store) Watch(ctx context.Context, fn func()) error {
	local := make(chan struct{}, 1)
	s.subsMu.Lock()
	s.subs[local] = struct{}{}
	s.subsMu.Unlock()

	unsubscribe := func() {
		s.subsMu.Lock()
		delete(s.subs, local)
		s.subsMu.Unlock()
	}

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
		closer func() error
	)

	if s.stamp != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			unsubscribe()
			return fmt.Errorf("watch store: %w", err)
		}
		if err := watcher.Add(filepath.Dir(s.stamp)); err != nil {
			_ = watcher.Close()
			unsubscribe()
			return fmt.Errorf("watch store: %w", err)
		}
		events, errs, closer = watcher.Events, watcher.Errors, watcher.Close
	}

	go func() {
		defer unsubscribe()
		if closer != nil {
			defer closer()
		}

		var (
			timer *time.Timer
			fire  <-chan time.Time
		)
		arm := func() {
			if timer == nil {
				timer = time.NewTimer(WatchDelay)
			} else {
				timer.Reset(WatchDelay)
			}
			fire = timer.C
		}

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return

			case <-local:
				arm()

			case event, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				if event.Name == s.stamp && event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Chmod) != 0 {
					arm()
				}

			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				log.Warnf("store watcher: %v", err)

			case <-fire:
				fire = nil
				fn()
			}
		}
	}()

	return nil
}
