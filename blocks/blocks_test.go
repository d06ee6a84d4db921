package blocks

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"panelbar/config"
	"panelbar/mouse"
	"panelbar/pixel"
)

type fakeRunner struct {
	mu      sync.Mutex
	output  string
	err     error
	runs    int
	started []string
}

func (f *fakeRunner) Output(_ context.Context, command string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs++
	if f.err != nil && !errors.Is(f.err, ErrExitStatus) {
		return nil, f.err
	}
	return []byte(f.output), f.err
}

func (f *fakeRunner) Start(command string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, command)
	return nil
}

func (f *fakeRunner) set(output string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.output, f.err = output, err
}

func (f *fakeRunner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs
}

type chanNotifier struct {
	ticks  chan struct{}
	closed chan struct{}
	once   sync.Once
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{ticks: make(chan struct{}), closed: make(chan struct{})}
}

func (n *chanNotifier) Notify(ctx context.Context) bool {
	select {
	case n.ticks <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (n *chanNotifier) Close() { n.once.Do(func() { close(n.closed) }) }

func testSettings(t *testing.T) (Settings, *fakeRunner) {
	t.Helper()
	s, err := NewSettings(config.Defaults(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	r := &fakeRunner{}
	s.Runner = r
	return s, r
}

func str(s string) *string { return &s }
func num(n int) *int       { return &n }

func mustBuild(t *testing.T, s Settings, d config.Block) Block {
	t.Helper()
	b, err := NewRegistry().Build(s, d)
	if err != nil {
		t.Fatalf("Build(%s): %v", d.Module, err)
	}
	return b
}

func TestControlCharactersStripped(t *testing.T) {
	s, _ := testSettings(t)
	for _, text := range []string{"a\nb", "\tab\r\n", "a\r\tb"} {
		dirty := mustBuild(t, s, config.Block{Module: "text", Text: str(text)}).Render()
		clean := mustBuild(t, s, config.Block{Module: "text", Text: str(stripControl(text))}).Render()
		if !pixel.Equal(dirty, clean) {
			t.Errorf("%q renders differently from %q", text, stripControl(text))
		}
	}
	if got := stripControl("x\ny\rz\tw"); got != "xyzw" {
		t.Errorf("stripControl = %q", got)
	}
}

func TestRenderIsCached(t *testing.T) {
	s, _ := testSettings(t)
	b := mustBuild(t, s, config.Block{Module: "text", Text: str("cached")})

	first := b.Render()
	second := b.Render()
	if first != second || !pixel.Equal(first, second) {
		t.Error("second render did not return the cached image")
	}
	if first.Height() != s.BarHeight {
		t.Errorf("height = %d, want %d", first.Height(), s.BarHeight)
	}
}

func TestHoverTogglesInvalidateOnce(t *testing.T) {
	s, _ := testSettings(t)
	hoverBg := color.NRGBA{255, 0, 0, 255}
	b := mustBuild(t, s, config.Block{
		Module: "text",
		Text:   str("hover"),
		Hover:  &config.Hover{Background: "#ff0000"},
	}).(*TextBlock)

	normal := b.Render()
	gen := func() uint64 { _, g := b.cache.get(); return g }

	start := gen()
	ev := mouse.Event{X: 1, Y: 1}
	if !b.MouseEvent(&ev) {
		t.Fatal("entering did not request a redraw")
	}
	if gen() != start+1 {
		t.Errorf("enter cleared the cache %d times", gen()-start)
	}
	hovered := b.Render()
	if got := hovered.At(0, 0); got != hoverBg {
		t.Errorf("hover background = %v, want %v", got, hoverBg)
	}

	ev.X = 2
	if b.MouseEvent(&ev) {
		t.Error("moving inside requested a redraw")
	}
	if gen() != start+1 || b.Render() != hovered {
		t.Error("moving inside invalidated the cache")
	}

	if !b.MouseEvent(nil) {
		t.Fatal("leaving did not request a redraw")
	}
	if gen() != start+2 {
		t.Errorf("leave cleared the cache %d times", gen()-start-1)
	}
	if b.MouseEvent(nil) {
		t.Error("second leave requested a redraw")
	}
	if !pixel.Equal(b.Render(), normal) {
		t.Error("non-hover colors not restored after leaving")
	}
}

func TestMinimumWidthCentersText(t *testing.T) {
	s, _ := testSettings(t)
	narrow := mustBuild(t, s, config.Block{Module: "text", Text: str("i"), Style: config.Style{Spacing: num(0)}}).Render()
	wide := mustBuild(t, s, config.Block{Module: "text", Text: str("i"), Style: config.Style{Spacing: num(4), Width: num(100)}}).Render()

	if wide.Width() != 108 {
		t.Errorf("width = %d, want 108", wide.Width())
	}
	if narrow.Width() >= 100 {
		t.Fatalf("narrow width = %d", narrow.Width())
	}
	bg := wide.At(0, 0)
	firstInk := -1
	for x := 0; x < wide.Width() && firstInk < 0; x++ {
		for y := 0; y < wide.Height(); y++ {
			if wide.At(x, y) != bg {
				firstInk = x
				break
			}
		}
	}
	if firstInk < 40 || firstInk > 60 {
		t.Errorf("glyph starts at x=%d, want it centered", firstInk)
	}
}

func TestEmptyTextIsPaddingOnly(t *testing.T) {
	s, _ := testSettings(t)
	img := mustBuild(t, s, config.Block{Module: "text", Text: str(""), Style: config.Style{Spacing: num(3)}}).Render()
	if img.Width() != 6 {
		t.Errorf("width = %d, want 6", img.Width())
	}
}

func TestCommandRunsOncePerCachePeriod(t *testing.T) {
	s, r := testSettings(t)
	r.set("12:00\n", nil)
	b := mustBuild(t, s, config.Block{Module: "command", Command: str("date")}).(*CommandBlock)

	first := b.Render()
	b.Render()
	if r.count() != 1 {
		t.Fatalf("command ran %d times, want 1", r.count())
	}
	if first.Width() <= 2*5 {
		t.Errorf("width = %d, output not drawn", first.Width())
	}

	b.cache.clear()
	b.Render()
	if r.count() != 2 {
		t.Errorf("command ran %d times after invalidation, want 2", r.count())
	}
}

func TestCommandFailureDegrades(t *testing.T) {
	s, r := testSettings(t)
	r.set("", errors.New("exec: sh not found"))
	b := mustBuild(t, s, config.Block{Module: "command", Command: str("broken")}).(*CommandBlock)

	img := b.Render()
	if img.Width() != 0 || img.Height() != s.BarHeight {
		t.Errorf("failed first render = %dx%d, want 0x%d", img.Width(), img.Height(), s.BarHeight)
	}

	r.set("ok", nil)
	b.cache.clear()
	good := b.Render()

	r.set("", errors.New("fork failed"))
	b.cache.clear()
	if got := b.Render(); got != good {
		t.Error("failed render did not keep the last good image")
	}
}

func TestCommandExitStatusKeepsOutput(t *testing.T) {
	s, r := testSettings(t)
	r.set("partial", fmt.Errorf("%w: exit status 1", ErrExitStatus))
	b := mustBuild(t, s, config.Block{Module: "command", Command: str("false")})
	if img := b.Render(); img.Width() <= 10 {
		t.Errorf("width = %d, output of failing command not drawn", img.Width())
	}
}

func TestCommandInvalidUTF8(t *testing.T) {
	s, r := testSettings(t)
	r.set("a\xffb", nil)
	b := mustBuild(t, s, config.Block{Module: "command", Command: str("bytes")})
	if img := b.Render(); img.Width() <= 10 {
		t.Errorf("width = %d", img.Width())
	}
}

func TestClickOnRelease(t *testing.T) {
	s, r := testSettings(t)
	b := mustBuild(t, s, config.Block{
		Module: "text",
		Text:   str("launch"),
		Click:  map[string]string{"left": "firefox", "273": "menu"},
	})

	b.MouseEvent(&mouse.Event{State: mouse.Pressed, Button: mouse.ButtonLeft, X: 1, Y: 1})
	b.MouseEvent(&mouse.Event{State: mouse.Released, Button: mouse.ButtonMiddle, X: 1, Y: 1})
	b.MouseEvent(&mouse.Event{State: mouse.Released, Button: mouse.ButtonLeft, X: 1, Y: 1})
	b.MouseEvent(&mouse.Event{State: mouse.Released, Button: mouse.ButtonRight, X: 1, Y: 1})

	want := []string{"firefox", "menu"}
	if strings.Join(r.started, ",") != strings.Join(want, ",") {
		t.Errorf("started %v, want %v", r.started, want)
	}
}

func TestIntervalInvalidatesCache(t *testing.T) {
	s, r := testSettings(t)
	r.set("tick", nil)
	b := mustBuild(t, s, config.Block{Module: "command", Command: str("x"), Style: config.Style{Interval: num(500)}})

	b.Render()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n := newChanNotifier()
	start := time.Now()
	b.StartInterval(ctx, n)

	select {
	case <-n.ticks:
	case <-time.After(3 * time.Second):
		t.Fatal("no tick within 3s")
	}
	if elapsed := time.Since(start); elapsed < 500*time.Millisecond {
		t.Errorf("tick after %v, want >= 500ms", elapsed)
	}
	b.Render()
	if r.count() != 2 {
		t.Errorf("command ran %d times, want 2", r.count())
	}

	cancel()
	select {
	case <-n.closed:
	case <-time.After(3 * time.Second):
		t.Fatal("notifier not closed after cancel")
	}
}

func TestStartIntervalWithoutInterval(t *testing.T) {
	s, _ := testSettings(t)
	b := mustBuild(t, s, config.Block{Module: "text", Text: str("static")})
	n := newChanNotifier()
	b.StartInterval(context.Background(), n)
	select {
	case <-n.closed:
	default:
		t.Error("notifier not closed for a block without interval")
	}
}

func TestCachePutAfterClear(t *testing.T) {
	var c cache
	_, gen := c.get()
	c.clear()
	if c.put(pixel.New(1, 1), gen) {
		t.Error("stale render stored after clear")
	}
	if img, _ := c.get(); img != nil {
		t.Error("cache holds stale image")
	}
	_, gen = c.get()
	if !c.put(pixel.New(1, 1), gen) {
		t.Error("fresh render rejected")
	}
}

func TestAlignment(t *testing.T) {
	for _, a := range []Alignment{Left, Center, Right} {
		got, err := ParseAlignment(a.String())
		if err != nil || got != a {
			t.Errorf("ParseAlignment(%q) = %v, %v", a.String(), got, err)
		}
	}
	if _, err := ParseAlignment("middle"); err == nil {
		t.Error("ParseAlignment(middle): want error")
	}
}
