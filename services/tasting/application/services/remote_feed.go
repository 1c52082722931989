package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/blindtasting/pkg/logger"
	domainevents "github.com/ghuser/blindtasting/services/tasting/domain/events"
	"github.com/ghuser/blindtasting/services/tasting/domain/models"
	"github.com/ghuser/blindtasting/services/tasting/infrastructure/notify"
)

// FeedSubscriber opens a broadcast subscription: every process receives every
// message. *events.EventBus satisfies it.
type FeedSubscriber interface {
	SubscribeFeed(ctx context.Context, topic string, handler func(context.Context, *message.Message) error) (<-chan error, error)
}

// snapshotSource is what the feed re-reads on every change signal.
type snapshotSource interface {
	Snapshot(ctx context.Context) ([]models.TastingRecord, error)
	Invalidate(ctx context.Context)
}

// RemoteFeed turns change signals on the shared table into full snapshots.
// It holds one bus subscription per process however many listeners attach,
// and re-reads the unscoped listing once per signal.
type RemoteFeed struct {
	bus    FeedSubscriber
	source snapshotSource
	hub    *notify.Hub[[]models.TastingRecord]
	log    logger.Logger

	// mu orders initial deliveries against change deliveries.
	mu      sync.Mutex
	started bool
}

// NewRemoteFeed creates a feed. Start must be called before changes are observed.
func NewRemoteFeed(bus FeedSubscriber, source snapshotSource, log logger.Logger) *RemoteFeed {
	return &RemoteFeed{
		bus:    bus,
		source: source,
		hub:    notify.NewHub[[]models.TastingRecord](),
		log:    log,
	}
}

// Start opens the standing bus subscription. It runs until ctx is done.
// Calling Start again is a no-op.
func (f *RemoteFeed) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.started {
		return nil
	}
	if f.bus == nil {
		f.log.WarnContext(ctx, "no event bus; remote subscribers only receive their initial snapshot")
		return nil
	}

	errs, err := f.bus.SubscribeFeed(ctx, domainevents.TopicTastingChanged, f.handle)
	if err != nil {
		return err
	}
	f.started = true

	go func() {
		for err := range errs {
			f.log.ErrorContext(ctx, "tasting feed delivery failed", "error", err)
		}
	}()
	return nil
}

// Subscribe delivers the current unscoped snapshot to fn, then one snapshot
// per change signal until the subscription is released.
func (f *RemoteFeed) Subscribe(ctx context.Context, fn Listener) (*notify.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	recs, err := f.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	fn(recs)
	return f.hub.Subscribe(fn), nil
}

// Listeners reports how many listeners are attached.
func (f *RemoteFeed) Listeners() int {
	return f.hub.Len()
}

func (f *RemoteFeed) handle(ctx context.Context, msg *message.Message) error {
	var evt domainevents.TastingChangedEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		f.log.WarnContext(ctx, "undecodable tasting change signal", "message_uuid", msg.UUID, "error", err)
	} else {
		f.log.DebugContext(ctx, "tasting change signal", "op", evt.Op, "note_id", evt.NoteID)
	}
	return f.refresh(ctx)
}

// refresh re-reads and publishes the snapshot when anyone is listening.
func (f *RemoteFeed) refresh(ctx context.Context) error {
	f.source.Invalidate(ctx)
	if f.hub.Len() == 0 {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	recs, err := f.source.Snapshot(ctx)
	if err != nil {
		return err
	}
	f.hub.Publish(recs)
	return nil
}
