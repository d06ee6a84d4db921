package events

import (
	"context"
	"testing"
	"time"

	"panelbar/mouse"
)

func TestMergerPreservesProducerOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMerger(0)

	widths := make(chan uint32)
	pointer := make(chan mouse.Event)
	m.AddResize(ctx, widths)
	m.AddPointer(ctx, pointer)

	go func() {
		for w := uint32(1); w <= 50; w++ {
			widths <- w
		}
		close(widths)
	}()
	go func() {
		for i := 0; i < 50; i++ {
			pointer <- mouse.Event{X: float64(i), Y: 1}
		}
		close(pointer)
	}()

	var lastWidth uint32
	lastX := -1.0
	var n int
	for ev := range m.Events() {
		n++
		switch ev.Kind {
		case Resize:
			if ev.Width != lastWidth+1 {
				t.Fatalf("width %d after %d", ev.Width, lastWidth)
			}
			lastWidth = ev.Width
		case Pointer:
			if ev.Mouse.X != lastX+1 {
				t.Fatalf("pointer x %v after %v", ev.Mouse.X, lastX)
			}
			lastX = ev.Mouse.X
		default:
			t.Fatalf("unexpected %v event", ev.Kind)
		}
	}
	if n != 100 {
		t.Errorf("received %d events, want 100", n)
	}
}

func TestMergerClosesAfterLastProducer(t *testing.T) {
	ctx := context.Background()
	m := NewMerger(4)

	widths := make(chan uint32)
	m.AddResize(ctx, widths)
	sink := m.NewSink()
	out := m.Events()

	close(widths)
	if !sink.Notify(ctx) {
		t.Fatal("Notify on live sink failed")
	}
	ev := <-out
	if ev.Kind != Tick || ev.Width != 0 || ev.Mouse != (mouse.Event{}) {
		t.Fatalf("tick = %+v", ev)
	}

	select {
	case ev, ok := <-out:
		t.Fatalf("channel delivered %+v (open=%v) while a sink is alive", ev, ok)
	case <-time.After(20 * time.Millisecond):
	}

	sink.Close()
	sink.Close() // idempotent
	if sink.Notify(ctx) {
		t.Error("Notify after Close succeeded")
	}
	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("unexpected event after close")
		}
	case <-time.After(time.Second):
		t.Fatal("merged channel not closed after last producer")
	}
}

func TestMergerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewMerger(0)
	widths := make(chan uint32, 1)
	m.AddResize(ctx, widths)
	sink := m.NewSink()
	defer sink.Close()

	widths <- 10 // forwarder blocks: nobody reads the merged channel yet
	cancel()
	if sink.Notify(ctx) {
		t.Error("Notify succeeded on cancelled context")
	}
}

func TestConstructors(t *testing.T) {
	if ev := ResizeEvent(640); ev.Kind != Resize || ev.Width != 640 {
		t.Errorf("ResizeEvent = %+v", ev)
	}
	p := mouse.Event{State: mouse.Released, Button: mouse.ButtonLeft, X: 1, Y: 2}
	if ev := PointerEvent(p); ev.Kind != Pointer || ev.Mouse != p {
		t.Errorf("PointerEvent = %+v", ev)
	}
	if TickEvent().Kind.String() != "tick" {
		t.Error("tick kind name")
	}
}
