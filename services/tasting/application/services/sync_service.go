package services

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/ghuser/blindtasting/pkg/logger"
	"github.com/ghuser/blindtasting/pkg/telemetry"
	tastingdomain "github.com/ghuser/blindtasting/services/tasting/domain"
	"github.com/ghuser/blindtasting/services/tasting/domain/catalog"
	"github.com/ghuser/blindtasting/services/tasting/domain/models"
	domainsvcs "github.com/ghuser/blindtasting/services/tasting/domain/services"
	"github.com/ghuser/blindtasting/services/tasting/infrastructure/notify"
)

// knownErrors pass through the facade unchanged; anything else is reported
// as ErrBackendUnavailable.
var knownErrors = []error{
	tastingdomain.ErrUnauthenticated,
	tastingdomain.ErrNotFound,
	tastingdomain.ErrBackendUnavailable,
	tastingdomain.ErrMalformed,
	tastingdomain.ErrInvalidTasting,
	tastingdomain.ErrTastingAlreadyExists,
	tastingdomain.ErrWineNotRevealable,
}

// SyncService is the single entry point for tasting notes. Each call is routed
// to exactly one backend: remote when the session is authenticated, local
// otherwise. Every operation returns an explicit error; panics inside a backend
// are recovered and reported as ErrBackendUnavailable.
type SyncService struct {
	local   Backend
	remote  Backend
	catalog *catalog.Catalog
	log     logger.Logger
	ops     *telemetry.OpRecorder
}

// NewSyncService wires the facade. remote may be nil when no shared store is
// configured; authenticated calls then fail with ErrBackendUnavailable.
// ops may be nil to disable tracing and counting.
func NewSyncService(local, remote Backend, cat *catalog.Catalog, log logger.Logger, ops *telemetry.OpRecorder) *SyncService {
	return &SyncService{
		local:   local,
		remote:  remote,
		catalog: cat,
		log:     log.With("component", "tasting_sync"),
		ops:     ops,
	}
}

// Catalog returns the wine catalog records are joined with.
func (s *SyncService) Catalog() *catalog.Catalog {
	return s.catalog
}

// BackendFor returns the backend that serves sess.
func (s *SyncService) BackendFor(sess Session) (Backend, error) {
	if sess.Authenticated() {
		if s.remote == nil {
			return nil, fmt.Errorf("%w: no shared store configured", tastingdomain.ErrBackendUnavailable)
		}
		return s.remote, nil
	}
	if s.local == nil {
		return nil, fmt.Errorf("%w: no local store configured", tastingdomain.ErrBackendUnavailable)
	}
	return s.local, nil
}

// Record builds a new hidden note for the wine with the given catalog id.
func (s *SyncService) Record(wineID string, rating int, price float64, flavors []string, comments string) (*models.TastingRecord, error) {
	wine, ok := s.catalog.Lookup(wineID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown wine %q", tastingdomain.ErrInvalidTasting, wineID)
	}
	r, err := models.NewRating(rating)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tastingdomain.ErrInvalidTasting, err)
	}
	p, err := models.NewPrice(price)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tastingdomain.ErrInvalidTasting, err)
	}
	f, err := models.NewFlavors(flavors...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tastingdomain.ErrInvalidTasting, err)
	}
	return models.NewTastingRecord(wine, r, p, f, comments)
}

// Save persists a new note. The note is always stored hidden.
func (s *SyncService) Save(ctx context.Context, sess Session, rec *models.TastingRecord) error {
	return s.run(ctx, sess, "tasting.save", func(ctx context.Context, b Backend) error {
		if err := domainsvcs.ValidateForCreation(rec); err != nil {
			return err
		}
		return b.Save(ctx, sess, *rec)
	})
}

// Update applies rec's reveal flag to the stored note with the same id. Any
// other field of rec is ignored. Returns ErrNotFound when no note owned by
// the caller matches; nothing is changed in that case.
func (s *SyncService) Update(ctx context.Context, sess Session, rec *models.TastingRecord) error {
	return s.run(ctx, sess, "tasting.update", func(ctx context.Context, b Backend) error {
		if rec == nil || rec.ID == uuid.Nil {
			return fmt.Errorf("%w: note id is required", tastingdomain.ErrNotFound)
		}
		return b.Update(ctx, sess, *rec)
	})
}

// Reveal moves the caller's note with the given id to revealed and returns it.
// Revealing an already revealed note, or one with no wine reference, is a
// no-op that returns the note unchanged.
func (s *SyncService) Reveal(ctx context.Context, sess Session, id uuid.UUID) (models.TastingRecord, error) {
	var out models.TastingRecord
	err := s.run(ctx, sess, "tasting.reveal", func(ctx context.Context, b Backend) error {
		recs, err := b.List(ctx, sess, ListOptions{})
		if err != nil {
			return err
		}
		idx := -1
		for i := range recs {
			if recs[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return tastingdomain.ErrNotFound
		}
		rec := recs[idx].Clone()
		changed, err := rec.Reveal()
		if errors.Is(err, tastingdomain.ErrWineNotRevealable) {
			s.log.DebugContext(ctx, "tasting note has no wine to reveal", "note_id", id, "backend", b.Name())
			out = *rec
			return nil
		}
		if err != nil {
			return err
		}
		if changed {
			if err := b.Update(ctx, sess, *rec); err != nil {
				return err
			}
		}
		out = *rec
		return nil
	})
	return out, err
}

// List returns the caller's notes with their catalog entries attached.
func (s *SyncService) List(ctx context.Context, sess Session, opts ListOptions) ([]models.TastingRecord, error) {
	var out []models.TastingRecord
	err := s.run(ctx, sess, "tasting.list", func(ctx context.Context, b Backend) error {
		recs, err := b.List(ctx, sess, opts)
		if err != nil {
			return err
		}
		out = recs
		return nil
	})
	if out == nil && err == nil {
		out = []models.TastingRecord{}
	}
	return out, err
}

// Clear irreversibly deletes the caller's notes: the whole device collection
// for anonymous callers, the caller's own rows otherwise.
func (s *SyncService) Clear(ctx context.Context, sess Session) error {
	return s.run(ctx, sess, "tasting.clear", func(ctx context.Context, b Backend) error {
		return b.Clear(ctx, sess)
	})
}

// Subscribe delivers the current snapshot to fn and then one snapshot per
// change, until the returned subscription is released. A panicking listener
// is logged and does not affect other listeners.
func (s *SyncService) Subscribe(ctx context.Context, sess Session, fn Listener) (*notify.Subscription, error) {
	var sub *notify.Subscription
	err := s.run(ctx, sess, "tasting.subscribe", func(ctx context.Context, b Backend) error {
		var err error
		sub, err = b.Subscribe(ctx, sess, s.guard(b.Name(), fn))
		return err
	})
	return sub, err
}

func (s *SyncService) guard(backend string, fn Listener) Listener {
	return func(recs []models.TastingRecord) {
		defer func() {
			if r := recover(); r != nil {
				telemetry.ReportPanic(r)
				s.log.Error("tasting listener panicked", "backend", backend, "panic", r, "stack", string(debug.Stack()))
			}
		}()
		fn(recs)
	}
}

// run selects the backend for sess and executes fn with tracing, panic
// recovery and error normalization.
func (s *SyncService) run(ctx context.Context, sess Session, op string, fn func(context.Context, Backend) error) (err error) {
	b, err := s.BackendFor(sess)
	if err != nil {
		return err
	}

	done := func(error) {}
	if s.ops != nil {
		ctx, done = s.ops.Start(ctx, op, b.Name())
	}

	defer func() {
		if r := recover(); r != nil {
			telemetry.ReportPanic(r)
			s.log.ErrorContext(ctx, "tasting operation panicked",
				"op", op, "backend", b.Name(), "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %s panicked: %v", tastingdomain.ErrBackendUnavailable, op, r)
		}
		err = normalize(err)
		switch {
		case err == nil:
		case errors.Is(err, tastingdomain.ErrNotFound):
			s.log.DebugContext(ctx, "tasting operation matched nothing", "op", op, "backend", b.Name())
		default:
			s.log.WarnContext(ctx, "tasting operation failed", "op", op, "backend", b.Name(), "error", err)
		}
		done(err)
	}()

	return fn(ctx, b)
}

func normalize(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", tastingdomain.ErrBackendUnavailable, err)
}
