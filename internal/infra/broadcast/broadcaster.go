// Package broadcast fans committed room events out to stream subscribers.
package broadcast

import (
	"log/slog"
	"sync"

	"hotel-booking/internal/domain/event"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/shared"
)

var (
	ErrClosed          = errs.New("broadcaster is closed")
	ErrInvalidAudience = errs.New("invalid audience")
)

// CloseReason says why a subscription's channel was closed.
type CloseReason string

const (
	ReasonLagging      CloseReason = "lagging"
	ReasonUnsubscribed CloseReason = "unsubscribed"
	ReasonShutdown     CloseReason = "shutdown"
)

// Broadcaster assigns sequence numbers and delivers every event to every
// subscriber without blocking the publisher. A subscriber that cannot keep up
// is disconnected with ReasonLagging and is expected to resync from a snapshot.
type Broadcaster struct {
	// publishMu orders publications: seq assignment and fan-out happen together.
	publishMu sync.Mutex
	seq       uint64

	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
	closed bool

	buffer int
	logger *slog.Logger
}

func New(buffer int, logger *slog.Logger) *Broadcaster {
	if buffer <= 0 {
		buffer = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		subs:   make(map[uint64]*Subscription),
		buffer: buffer,
		logger: logger,
	}
}

var _ shared.Publisher = (*Broadcaster)(nil)

type Subscription struct {
	id       uint64
	audience event.Audience
	startSeq uint64
	ch       chan event.Event

	once   sync.Once
	reason CloseReason
	b      *Broadcaster
}

func (s *Subscription) Events() <-chan event.Event { return s.ch }
func (s *Subscription) Audience() event.Audience   { return s.audience }

// StartSeq is the last sequence number published before the subscription was
// registered. Every later event is delivered unless the subscription is closed.
func (s *Subscription) StartSeq() uint64 { return s.startSeq }

// Reason is meaningful once Events() has been closed.
func (s *Subscription) Reason() CloseReason {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	return s.reason
}

// Close unsubscribes. Safe to call more than once and after the broadcaster dropped it.
func (s *Subscription) Close() {
	s.b.drop(s, ReasonUnsubscribed)
}

func (b *Broadcaster) Subscribe(audience event.Audience) (*Subscription, error) {
	if !audience.IsValid() {
		return nil, errs.Wrapf(ErrInvalidAudience, "audience %q", audience)
	}

	b.publishMu.Lock()
	defer b.publishMu.Unlock()
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}
	b.nextID++
	s := &Subscription{
		id:       b.nextID,
		audience: audience,
		startSeq: b.seq,
		ch:       make(chan event.Event, b.buffer),
		b:        b,
	}
	b.subs[s.id] = s
	b.logger.Debug("subscriber registered", "subscriber_id", s.id, "audience", audience)
	return s, nil
}

// Publish stamps e with the next sequence number and hands it to every
// subscriber, redacted for its audience. It never blocks on a subscriber.
func (b *Broadcaster) Publish(e event.Event) {
	b.publishMu.Lock()
	defer b.publishMu.Unlock()

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	b.seq++
	e.Seq = b.seq

	var lagging []*Subscription
	for _, s := range b.subs {
		select {
		case s.ch <- e.ForAudience(s.audience):
		default:
			lagging = append(lagging, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range lagging {
		b.logger.Warn("disconnecting lagging subscriber",
			"subscriber_id", s.id,
			"audience", s.audience,
			"buffer", b.buffer,
			"seq", e.Seq)
		b.drop(s, ReasonLagging)
	}
}

func (b *Broadcaster) drop(s *Subscription, reason CloseReason) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s.once.Do(func() {
		delete(b.subs, s.id)
		s.reason = reason
		close(s.ch)
	})
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Broadcaster) LastSeq() uint64 {
	b.publishMu.Lock()
	defer b.publishMu.Unlock()
	return b.seq
}

// Close disconnects every subscriber with ReasonShutdown; later publications are discarded.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	b.closed = true
	subs := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		b.drop(s, ReasonShutdown)
	}
	b.logger.Info("broadcaster closed", "subscribers", len(subs))
}
