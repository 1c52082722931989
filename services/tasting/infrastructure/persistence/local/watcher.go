package local

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch starts following the blob for writes made by other processes on the
// device. Changes are announced like local writes; content identical to the
// last announcement is suppressed. Watching stops when ctx is done or Close
// is called.
func (s *Store) Watch(ctx context.Context) error {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.stop != nil {
		return fmt.Errorf("local store already watched")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", s.dir, err)
	}

	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		s.processEvents(ctx, w, done)
	}()

	s.stop = func() error {
		close(done)
		err := w.Close()
		<-exited
		return err
	}
	return nil
}

// Close stops the watcher if one is running.
func (s *Store) Close() error {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.stop == nil {
		return nil
	}
	err := s.stop()
	s.stop = nil
	return err
}

func (s *Store) processEvents(ctx context.Context, w *fsnotify.Watcher, done <-chan struct{}) {
	target := filepath.Base(s.path)
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			s.reload(ctx)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.WarnContext(ctx, "local store watcher error", "error", err)
		}
	}
}

// reload re-reads the blob and announces it when it differs from the last emission.
func (s *Store) reload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		s.log.WarnContext(ctx, "local store reload failed", "error", err)
		return
	}
	if bytes.Equal(data, s.last) {
		return
	}
	recs, err := s.decode(ctx, data)
	if err != nil {
		// Partial write from a non-atomic writer; the next event carries the final content.
		s.log.DebugContext(ctx, "ignoring malformed local blob change", "error", err)
		return
	}
	s.last = data
	s.log.DebugContext(ctx, "local store changed externally", "records", len(recs))
	s.hub.Publish(recs)
}
