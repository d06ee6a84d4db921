package input

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"panelbar/mouse"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRead(t *testing.T) {
	in := strings.Join([]string{
		`{"width":1920}`,
		`{"x":10.5,"y":4}`,
		`not json`,
		``,
		`{"x":10,"y":4,"button":272,"state":"released"}`,
		`{"state":"pressed"}`,
		`{"x":1,"y":1,"state":"clicked"}`,
		`{"leave":true}`,
		`{"width":1280,"x":3,"y":2}`,
	}, "\n")

	widths := make(chan uint32, 8)
	pointer := make(chan mouse.Event, 8)
	if err := Read(context.Background(), strings.NewReader(in), 0, widths, pointer, discard()); err != nil {
		t.Fatalf("Read: %v", err)
	}

	var gotWidths []uint32
	for w := range widths {
		gotWidths = append(gotWidths, w)
	}
	if len(gotWidths) != 2 || gotWidths[0] != 1920 || gotWidths[1] != 1280 {
		t.Errorf("widths = %v, want [1920 1280]", gotWidths)
	}

	var got []mouse.Event
	for ev := range pointer {
		got = append(got, ev)
	}
	want := []mouse.Event{
		{X: 10.5, Y: 4},
		{State: mouse.Released, Button: mouse.ButtonLeft, X: 10, Y: 4},
		mouse.Leave(),
		{X: 3, Y: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("pointer events = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReadStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	widths := make(chan uint32) // unbuffered, nobody reading
	pointer := make(chan mouse.Event)
	err := Read(ctx, strings.NewReader(`{"width":10}`+"\n"), 0, widths, pointer, discard())
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if _, ok := <-widths; ok {
		t.Error("widths channel left open")
	}
}

func TestReadInitialWidthComesFirst(t *testing.T) {
	widths := make(chan uint32, 4)
	pointer := make(chan mouse.Event, 4)
	in := `{"width":2560}` + "\n"
	if err := Read(context.Background(), strings.NewReader(in), 1920, widths, pointer, discard()); err != nil {
		t.Fatalf("Read: %v", err)
	}
	var got []uint32
	for w := range widths {
		got = append(got, w)
	}
	if len(got) != 2 || got[0] != 1920 || got[1] != 2560 {
		t.Errorf("widths = %v, want [1920 2560]", got)
	}
}
