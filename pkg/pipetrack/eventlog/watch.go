package eventlog

import (
	"sync"
	"sync/atomic"

	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
)

// WatchHandler receives records appended to a watched store.
type WatchHandler func(rec Record)

// WatchConfig configures delivery to watchers.
type WatchConfig struct {
	// BufferSize is the channel buffer size per subscription.
	// Default: 256
	BufferSize int

	// NonBlocking makes Append drop records for a full subscriber
	// instead of waiting for it.
	// Default: false (blocking)
	NonBlocking bool

	// OnDrop is called when a record is dropped (non-blocking mode).
	OnDrop func(rec Record, subscriptionID int64)
}

// DefaultWatchConfig provides reasonable defaults.
var DefaultWatchConfig = WatchConfig{
	BufferSize: 256,
}

// WatchedStore wraps a Store and fans each appended record out to
// subscribers, optionally filtered by run and event type.
//
// Example:
//
//	ws := eventlog.Watch(eventlog.NewMemoryStore(), eventlog.DefaultWatchConfig)
//	sub := ws.Subscribe(eventlog.WatchFilter{RunID: runID}, func(rec eventlog.Record) {
//	    fmt.Println(rec.Event.EventType())
//	})
//	defer sub.Unsubscribe()
type WatchedStore struct {
	Store

	config WatchConfig

	// appendMu orders store appends and their delivery.
	appendMu sync.Mutex

	mu     sync.RWMutex
	subs   map[int64]*Subscription
	nextID atomic.Int64
	closed atomic.Bool
}

// WatchFilter selects the records a subscription receives.
// Zero fields match everything.
type WatchFilter struct {
	RunID string
	Types []events.EventType
}

func (f WatchFilter) matches(rec Record) bool {
	if f.RunID != "" && f.RunID != rec.RunID {
		return false
	}
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if rec.Event.EventType() == t {
			return true
		}
	}
	return false
}

// Watch wraps store so appended records are delivered to subscribers.
func Watch(store Store, config WatchConfig) *WatchedStore {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultWatchConfig.BufferSize
	}
	return &WatchedStore{
		Store:  store,
		config: config,
		subs:   make(map[int64]*Subscription),
	}
}

// Subscription is an active watch on a store.
type Subscription struct {
	id      int64
	filter  WatchFilter
	handler WatchHandler
	records chan Record
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
	store   *WatchedStore
}

// ID returns the subscription's identifier.
func (s *Subscription) ID() int64 { return s.id }

// Subscribe registers handler for records matching filter. Records are
// delivered in sequence order on a dedicated goroutine, also when several
// goroutines append concurrently. Returns nil if the store is closed.
//
// handler must not call Unsubscribe on its own subscription, and must not
// call Append on this store: with blocking delivery a full buffer would
// wait on the handler that is itself waiting to append.
func (w *WatchedStore) Subscribe(filter WatchFilter, handler WatchHandler) *Subscription {
	if w.closed.Load() || handler == nil {
		return nil
	}

	sub := &Subscription{
		id:      w.nextID.Add(1),
		filter:  filter,
		handler: handler,
		records: make(chan Record, w.config.BufferSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		store:   w,
	}

	w.mu.Lock()
	w.subs[sub.id] = sub
	w.mu.Unlock()

	go sub.process()
	return sub
}

// Append stores evt and then publishes the stored record. Concurrent
// appends are serialized so subscribers see records in the order they
// were stored.
func (w *WatchedStore) Append(runID string, evt events.Event) (Record, error) {
	if w.closed.Load() {
		return Record{}, ErrStoreClosed
	}
	w.appendMu.Lock()
	defer w.appendMu.Unlock()

	rec, err := w.Store.Append(runID, evt)
	if err != nil {
		return rec, err
	}
	w.publish(rec)
	return rec, nil
}

func (w *WatchedStore) publish(rec Record) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, sub := range w.subs {
		if !sub.filter.matches(rec) {
			continue
		}
		if w.config.NonBlocking {
			select {
			case sub.records <- rec:
			default:
				if w.config.OnDrop != nil {
					w.config.OnDrop(rec, sub.id)
				}
			}
			continue
		}
		select {
		case sub.records <- rec:
		case <-sub.done:
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (w *WatchedStore) Subscribers() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.subs)
}

// Close stops every subscription, waits for pending deliveries, then
// closes the underlying store.
func (w *WatchedStore) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return nil
	}

	w.mu.Lock()
	subs := make([]*Subscription, 0, len(w.subs))
	for id, sub := range w.subs {
		subs = append(subs, sub)
		delete(w.subs, id)
	}
	w.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
	return w.Store.Close()
}

// Unsubscribe removes the subscription. Records already buffered are
// still delivered before it returns.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.store.mu.Lock()
	delete(s.store.subs, s.id)
	s.store.mu.Unlock()
	s.stop()
}

func (s *Subscription) stop() {
	s.once.Do(func() { close(s.done) })
	<-s.stopped
}

func (s *Subscription) process() {
	defer close(s.stopped)
	for {
		select {
		case rec := <-s.records:
			s.handler(rec)
		case <-s.done:
			for {
				select {
				case rec := <-s.records:
					s.handler(rec)
				default:
					return
				}
			}
		}
	}
}
