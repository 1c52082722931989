// Package local persists the device-wide tasting collection as a single JSON
// blob and announces every change to in-process listeners.
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/ghuser/blindtasting/pkg/logger"
	tastingdomain "github.com/ghuser/blindtasting/services/tasting/domain"
	"github.com/ghuser/blindtasting/services/tasting/domain/models"
	"github.com/ghuser/blindtasting/services/tasting/domain/services"
	"github.com/ghuser/blindtasting/services/tasting/infrastructure/notify"
)

// StorageKey names the blob shared by every taster on the device.
const StorageKey = "wine-tastings"

// Store is the device-local tasting collection. Writes replace the whole blob
// atomically; every write is announced with the new full collection.
type Store struct {
	dir  string
	path string
	log  logger.Logger
	hub  *notify.Hub[[]models.TastingRecord]

	// mu serializes read-modify-write cycles and emissions.
	mu   sync.Mutex
	last []byte // blob content behind the most recent emission; nil when absent

	watchMu sync.Mutex
	stop    func() error
}

// Open prepares dir and returns a Store rooted there.
func Open(dir string, log logger.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create local store dir: %w", err)
	}
	s := &Store{
		dir:  dir,
		path: filepath.Join(dir, StorageKey+".json"),
		log:  log.With("component", "local_store"),
		hub:  notify.NewHub[[]models.TastingRecord](),
	}
	if data, err := os.ReadFile(s.path); err == nil {
		s.last = data
	}
	return s, nil
}

// Path is the blob's file path.
func (s *Store) Path() string { return s.path }

// Subscribe registers fn for every subsequent collection change. Listeners run
// with the store locked and must not write to it.
func (s *Store) Subscribe(fn func([]models.TastingRecord)) *notify.Subscription {
	return s.hub.Subscribe(fn)
}

// Observe delivers the current collection to fn, then registers fn for every
// subsequent change. No change can slip between the two.
func (s *Store) Observe(ctx context.Context, fn func([]models.TastingRecord)) (*notify.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	fn(recs)
	return s.hub.Subscribe(fn), nil
}

// Load returns the stored collection in insertion order. A missing or
// unparseable blob yields an empty collection; malformed entries are skipped.
// Writes refuse to build on an unparseable blob.
func (s *Store) Load(ctx context.Context) ([]models.TastingRecord, error) {
	data, err := s.read()
	if err != nil {
		return nil, err
	}
	recs, err := s.decode(ctx, data)
	if err != nil {
		s.log.WarnContext(ctx, "local blob is malformed, treating as empty", "path", s.path, "error", err)
		return []models.TastingRecord{}, nil
	}
	return recs, nil
}

// loadForWrite is Load for read-modify-write cycles. A blob that cannot be
// parsed as a whole is reported as ErrMalformed and left on disk untouched.
func (s *Store) loadForWrite(ctx context.Context) ([]models.TastingRecord, error) {
	data, err := s.read()
	if err != nil {
		return nil, err
	}
	recs, err := s.decode(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", tastingdomain.ErrMalformed, s.path, err)
	}
	return recs, nil
}

// Append adds rec to the end of the collection. An id already present is
// rejected with ErrTastingAlreadyExists.
func (s *Store) Append(ctx context.Context, rec models.TastingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadForWrite(ctx)
	if err != nil {
		return err
	}
	for _, existing := range recs {
		if existing.ID == rec.ID {
			return fmt.Errorf("%w: %s", tastingdomain.ErrTastingAlreadyExists, rec.ID)
		}
	}
	recs = append(recs, rec)
	return s.writeAndEmit(recs)
}

// Patch rewrites the record with the given id using fn. It reports whether a
// record matched; no write happens when none does.
func (s *Store) Patch(ctx context.Context, id uuid.UUID, fn func(*models.TastingRecord)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadForWrite(ctx)
	if err != nil {
		return false, err
	}
	found := false
	for i := range recs {
		if recs[i].ID == id {
			fn(&recs[i])
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}
	return true, s.writeAndEmit(recs)
}

// Remove deletes the blob and announces an empty collection.
func (s *Store) Remove(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", s.path, err)
	}
	s.last = nil
	s.hub.Publish([]models.TastingRecord{})
	return nil
}

// Ping checks that the store directory is still usable.
func (s *Store) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}

func (s *Store) read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return data, nil
}

func (s *Store) decode(ctx context.Context, data []byte) ([]models.TastingRecord, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.TastingRecord{}, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	recs := make([]models.TastingRecord, 0, len(raw))
	for i, entry := range raw {
		var rec models.TastingRecord
		if err := json.Unmarshal(entry, &rec); err != nil {
			s.log.WarnContext(ctx, "skipping undecodable local entry", "index", i, "error", err)
			continue
		}
		if err := services.ValidateStored(&rec); err != nil {
			s.log.WarnContext(ctx, "skipping malformed local entry", "index", i, "error", err)
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// writeAndEmit must be called with s.mu held.
func (s *Store) writeAndEmit(recs []models.TastingRecord) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode local collection: %w", err)
	}
	if err := writeAtomic(s.dir, s.path, data); err != nil {
		return err
	}
	s.last = data
	s.hub.Publish(recs)
	return nil
}

func writeAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, "."+StorageKey+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
