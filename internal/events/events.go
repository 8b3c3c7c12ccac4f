// Package events provides the asynchronous event stream between the sync
// workers and the presentation layer. The orchestrator is the sole producer;
// the consumer drains subscriptions without ever touching worker state.
package events

import (
	"sync"
	"sync/atomic"
	"time"
)

// EventType defines the types of events that can be emitted.
type EventType string

const (
	// EventGroupProgress carries a downloaded-count increment for one group.
	EventGroupProgress EventType = "group_progress"
	// EventGroupStatus carries a status transition for one group.
	EventGroupStatus EventType = "group_status"
	// EventLog carries a human-readable log line.
	EventLog EventType = "log"
	// EventDone signals that a worker run has finished.
	EventDone EventType = "done"
)

// Buffer sizing for subscriber channels. Publish never blocks: events beyond
// the buffer are dropped and counted.
const (
	DefaultBuffer = 1000
	MaxBuffer     = 10000
)

// LogLevel defines log severity levels.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Event is the base interface for all events.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// GroupProgressEvent reports the downloaded count for a group. Within one
// sync run the Downloaded values for a given prefix are non-decreasing.
type GroupProgressEvent struct {
	BaseEvent
	Prefix     string
	Downloaded int
	Total      int
}

// GroupStatusEvent reports a status transition for a group. Status values
// are the engine's Status strings (pending, downloading, completed, partial,
// skipped, stopped).
type GroupStatusEvent struct {
	BaseEvent
	Prefix string
	Status string
}

// LogEvent carries log messages from the workers.
type LogEvent struct {
	BaseEvent
	Level   LogLevel
	Message string
	Prefix  string
	Err     error
}

// DoneEvent signals completion of a worker run.
type DoneEvent struct {
	BaseEvent
	Groups   int
	Duration time.Duration
}

// Bus manages event subscriptions and publishing. It is safe for concurrent
// use by multiple producers and consumers.
type Bus struct {
	subscribers map[EventType][]chan Event
	all         []chan Event
	mu          sync.RWMutex
	bufferSize  int
	closed      bool
	dropped     atomic.Int64
}

// NewBus creates an event bus with the specified per-subscriber buffer size.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultBuffer
	}
	if bufferSize > MaxBuffer {
		bufferSize = MaxBuffer
	}
	return &Bus{
		subscribers: make(map[EventType][]chan Event),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription to a specific event type.
func (b *Bus) Subscribe(eventType EventType) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, b.bufferSize)
	b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	return ch
}

// SubscribeAll creates a subscription to every event type.
func (b *Bus) SubscribeAll() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, b.bufferSize)
	b.all = append(b.all, ch)
	return ch
}

// Publish sends an event to all matching subscribers without blocking.
// Events that would block on a full buffer are dropped and counted.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ch := range b.subscribers[event.Type()] {
		select {
		case ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
	for _, ch := range b.all {
		select {
		case ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// Unsubscribe removes a subscription channel from a specific event type.
func (b *Bus) Unsubscribe(eventType EventType, ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	subs := b.subscribers[eventType]
	for i, sub := range subs {
		if sub == ch {
			subs[i] = subs[len(subs)-1]
			b.subscribers[eventType] = subs[:len(subs)-1]
			break
		}
	}
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, channels := range b.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	for _, ch := range b.all {
		close(ch)
	}
}

// Dropped returns the number of events dropped due to full buffers.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

// PublishProgress publishes a progress increment for a group.
func (b *Bus) PublishProgress(prefix string, downloaded, total int) {
	b.Publish(&GroupProgressEvent{
		BaseEvent:  BaseEvent{EventType: EventGroupProgress, Time: time.Now()},
		Prefix:     prefix,
		Downloaded: downloaded,
		Total:      total,
	})
}

// PublishStatus publishes a status transition for a group.
func (b *Bus) PublishStatus(prefix, status string) {
	b.Publish(&GroupStatusEvent{
		BaseEvent: BaseEvent{EventType: EventGroupStatus, Time: time.Now()},
		Prefix:    prefix,
		Status:    status,
	})
}

// PublishLog publishes a log message.
func (b *Bus) PublishLog(level LogLevel, prefix, message string, err error) {
	b.Publish(&LogEvent{
		BaseEvent: BaseEvent{EventType: EventLog, Time: time.Now()},
		Level:     level,
		Message:   message,
		Prefix:    prefix,
		Err:       err,
	})
}

// PublishDone publishes the end-of-run marker.
func (b *Bus) PublishDone(groups int, duration time.Duration) {
	b.Publish(&DoneEvent{
		BaseEvent: BaseEvent{EventType: EventDone, Time: time.Now()},
		Groups:    groups,
		Duration:  duration,
	})
}
