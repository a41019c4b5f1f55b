package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/certapply/certapply/internal/client/api"
	"github.com/certapply/certapply/internal/client/models"
	"github.com/certapply/certapply/internal/logging"
	"github.com/google/uuid"
)

// DefaultPollInterval is how often dashboards refresh their notifications.
const DefaultPollInterval = 10 * time.Second

// Feed is the merged, canonical notification set for one recipient. Merging
// is deterministic and idempotent: the same batches in any order produce
// the same sorted, deduplicated result.
type Feed struct {
	mu     sync.RWMutex
	byID   map[int64]models.Event
	sorted []models.Event
}

func NewFeed() *Feed {
	return &Feed{byID: make(map[int64]models.Event)}
}

// Merge unions the incoming batch with the held events. Identity is the
// event id alone; on conflict the last-seen event wins. The result is
// ordered most-recent-first, ties broken by ascending id so repeated polls
// reproduce the same order.
func (f *Feed) Merge(events []models.Event) []models.Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, e := range events {
		f.byID[e.ID] = e
	}

	merged := make([]models.Event, 0, len(f.byID))
	for _, e := range f.byID {
		merged = append(merged, e)
	}
	sort.Slice(merged, func(i, j int) bool {
		ti, tj := merged[i].Timestamp.Time, merged[j].Timestamp.Time
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return merged[i].ID < merged[j].ID
	})

	f.sorted = merged
	return f.snapshotLocked()
}

// All returns the full merged feed, most recent first.
func (f *Feed) All() []models.Event {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshotLocked()
}

// ThisWeek filters the feed to Monday 00:00:00 through Sunday 23:59:59 of
// the week containing now, inclusive, in now's location.
func (f *Feed) ThisWeek(now time.Time) []models.Event {
	start, end := weekBounds(now)

	f.mu.RLock()
	defer f.mu.RUnlock()

	var week []models.Event
	for _, e := range f.sorted {
		ts := e.Timestamp.In(now.Location())
		if !ts.Before(start) && !ts.After(end) {
			week = append(week, e)
		}
	}
	return week
}

func (f *Feed) snapshotLocked() []models.Event {
	out := make([]models.Event, len(f.sorted))
	copy(out, f.sorted)
	return out
}

// weekBounds returns the inclusive [Monday 00:00:00, Sunday 23:59:59]
// window of the week containing now, in now's location. Both edges are
// built with calendar arithmetic so a DST transition inside the week does
// not shift them off wall clock.
func weekBounds(now time.Time) (time.Time, time.Time) {
	// time.Weekday puts Sunday at 0; shift so Monday is day 0
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	y, m, d := now.AddDate(0, 0, -daysSinceMonday).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	end := time.Date(y, m, d+6, 23, 59, 59, 0, now.Location())
	return start, end
}

// Subscription is the cancellation handle for one polling loop. After Stop
// returns, no further publish occurs: an in-flight response is discarded.
type Subscription struct {
	ID   string
	feed *Feed

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Stop cancels the subscription and blocks any future publish. Safe to call
// more than once.
func (s *Subscription) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.cancel()
}

// Done closes when the polling goroutine has exited.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Events returns the merged feed accumulated so far.
func (s *Subscription) Events() []models.Event { return s.feed.All() }

// ThisWeek returns the feed filtered to the current week.
func (s *Subscription) ThisWeek(now time.Time) []models.Event { return s.feed.ThisWeek(now) }

// publish runs fn unless the subscription was stopped. The lock ordering
// guarantees the no-publish-after-Stop contract.
func (s *Subscription) publish(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	fn()
}

// NotificationService polls the recipient's events and maintains a merged
// feed.
type NotificationService interface {
	Poll(ctx context.Context, recipientID int64, interval time.Duration,
		onUpdate func(events []models.Event), onError func(err error)) *Subscription
}

type notificationService struct {
	client api.Client
	log    logging.Logger
}

func NewNotificationService(client api.Client, log logging.Logger) NotificationService {
	return &notificationService{client: client, log: log.With("service", "notifications")}
}

// Poll starts a recurring fetch for recipientID every interval (an initial
// fetch fires immediately). A failed poll leaves the previously merged feed
// untouched and is reported through onError as transient; the next tick
// retries. Either callback may be nil.
func (n *notificationService) Poll(ctx context.Context, recipientID int64, interval time.Duration,
	onUpdate func(events []models.Event), onError func(err error)) *Subscription {

	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if onUpdate == nil {
		onUpdate = func([]models.Event) {}
	}
	if onError == nil {
		onError = func(error) {}
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		ID:     uuid.NewString(),
		feed:   NewFeed(),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	log := n.log.With("subscription", sub.ID, "recipient", recipientID)

	fetch := func() {
		events, err := n.client.Notifications(ctx, recipientID)
		if err != nil {
			log.Warn(ctx, "poll failed", "error", err)
			sub.publish(func() { onError(err) })
			return
		}
		// merge inside publish so a response racing Stop is discarded whole
		sub.publish(func() { onUpdate(sub.feed.Merge(events)) })
	}

	go func() {
		defer close(sub.done)

		fetch()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				fetch()
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub
}
