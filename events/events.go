// Package events merges the bar's independent input sources into a single
// ordered stream for the render loop.
package events

import (
	"context"
	"sync"

	"panelbar/mouse"
)

type Kind int

const (
	Resize  Kind = iota // Width is set
	Pointer             // Mouse is set
	Tick                // a block cache was invalidated, nothing else changed
)

func (k Kind) String() string {
	switch k {
	case Resize:
		return "resize"
	case Pointer:
		return "pointer"
	case Tick:
		return "tick"
	}
	return "unknown"
}

// Event is exactly one of a resize, a pointer event or an interval tick.
// Build events with the constructors so Kind always matches the payload.
type Event struct {
	Kind  Kind
	Width uint32
	Mouse mouse.Event
}

func ResizeEvent(width uint32) Event    { return Event{Kind: Resize, Width: width} }
func PointerEvent(ev mouse.Event) Event { return Event{Kind: Pointer, Mouse: ev} }
func TickEvent() Event                  { return Event{Kind: Tick} }

// Merger fans producers into one channel. Every producer is a separate
// goroutine; values from one producer arrive in the order it sent them and
// nothing is coalesced or dropped. The merged channel closes once every
// attached producer has finished.
//
// Attach all producers before the last one can finish: once the producer
// count drops to zero the merged channel is closed for good.
type Merger struct {
	out  chan Event
	wg   sync.WaitGroup
	once sync.Once
}

// NewMerger returns a merger whose channel holds up to buffer pending events.
func NewMerger(buffer int) *Merger {
	return &Merger{out: make(chan Event, max(buffer, 0))}
}

// Events returns the merged stream.
func (m *Merger) Events() <-chan Event {
	m.once.Do(func() {
		go func() {
			m.wg.Wait()
			close(m.out)
		}()
	})
	return m.out
}

func (m *Merger) send(ctx context.Context, ev Event) bool {
	select {
	case m.out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// AddResize forwards widths until src is closed or ctx is done.
func (m *Merger) AddResize(ctx context.Context, src <-chan uint32) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for w := range src {
			if !m.send(ctx, ResizeEvent(w)) {
				return
			}
		}
	}()
}

// AddPointer forwards pointer events until src is closed or ctx is done.
func (m *Merger) AddPointer(ctx context.Context, src <-chan mouse.Event) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for ev := range src {
			if !m.send(ctx, PointerEvent(ev)) {
				return
			}
		}
	}()
}

// Sink is a producer handle for interval ticks. It counts as a live
// producer until Close is called.
type Sink struct {
	m      *Merger
	mu     sync.Mutex
	closed bool
}

// NewSink attaches a tick producer.
func (m *Merger) NewSink() *Sink {
	m.wg.Add(1)
	return &Sink{m: m}
}

// Notify enqueues a tick. It reports false if ctx ended first or the sink is
// closed.
func (s *Sink) Notify(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || ctx.Err() != nil {
		return false
	}
	return s.m.send(ctx, TickEvent())
}

// Close detaches the producer. Further Notify calls are dropped.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.m.wg.Done()
	}
}
