package framebuffer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"panelbar/pixel"
)

// ErrClosed is returned by Publish once the queue has been closed or its
// sink has failed.
var ErrClosed = errors.New("framebuffer closed")

// Sink consumes encoded frames.
type Sink interface {
	WriteFrame(f Frame) error
	Close() error
}

// Queue hands frames to a sink from a single background goroutine. Only
// the newest pending frame is kept: a frame published while the sink is
// still busy replaces the one waiting before it.
type Queue struct {
	sink   Sink
	logger *slog.Logger

	mu      sync.Mutex
	pending *Frame
	closed  bool
	err     error
	dropped uint64

	wake chan struct{}
	done chan struct{}
}

// NewQueue starts draining into sink. Close the queue to stop it.
func NewQueue(sink Sink, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		sink:   sink,
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go q.drain()
	return q
}

// Publish encodes img and schedules it for output. height is the bar
// height the frame is meant for; a mismatching image is rejected.
func (q *Queue) Publish(img *pixel.Image, height int) error {
	if img.Height() != height {
		return fmt.Errorf("frame height %d, bar height %d", img.Height(), height)
	}
	f := Encode(img)

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return fmt.Errorf("%w: %w", ErrClosed, q.err)
	}
	if q.closed {
		return ErrClosed
	}
	if q.pending != nil {
		q.dropped++
	}
	q.pending = &f
	select {
	case q.wake <- struct{}{}:
	default:
	}
	return nil
}

// Dropped returns how many frames were replaced before reaching the sink.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Err returns the sink error that stopped the queue, if any.
func (q *Queue) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

// Close writes the pending frame, stops the drain goroutine and closes the
// sink. It returns the first sink error.
func (q *Queue) Close() error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.wake)
	}
	q.mu.Unlock()

	<-q.done
	err := q.sink.Close()
	if qerr := q.Err(); qerr != nil {
		return qerr
	}
	return err
}

func (q *Queue) drain() {
	defer close(q.done)
	for range q.wake {
		q.mu.Lock()
		f := q.pending
		q.pending = nil
		q.mu.Unlock()
		if f == nil {
			continue
		}
		if err := q.sink.WriteFrame(*f); err != nil {
			q.logger.Error("writing frame failed", "error", err)
			q.mu.Lock()
			q.err = err
			q.mu.Unlock()
			return
		}
		q.logger.Debug("frame written", "width", f.Width, "height", f.Height)
	}
}
