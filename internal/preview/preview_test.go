package preview

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ziadkadry99/canvas/internal/source"
)

type recordingFrame struct {
	loads    []string
	policies []SandboxPolicy
	docs     []Document
	err      error
}

func (f *recordingFrame) Load(doc Document, key string, policy SandboxPolicy) error {
	if f.err != nil {
		return f.err
	}
	f.loads = append(f.loads, key)
	f.policies = append(f.policies, policy)
	f.docs = append(f.docs, doc)
	return nil
}

func TestComposeEmbedsBuffersVerbatim(t *testing.T) {
	var c Composer
	doc := c.Compose("<p>hi</p>", "p { color: red }")

	html := doc.HTML()
	if !strings.HasPrefix(html, "<!DOCTYPE html>") {
		t.Errorf("missing doctype:\n%s", html)
	}
	if !strings.Contains(html, "<body>\n  <p>hi</p>\n</body>") {
		t.Errorf("markup not in body:\n%s", html)
	}

	resetAt := strings.Index(html, ResetRule)
	styleAt := strings.Index(html, "p { color: red }")
	if resetAt < 0 || styleAt < 0 || resetAt > styleAt {
		t.Errorf("reset rule must precede user style (reset %d, style %d)", resetAt, styleAt)
	}
	if strings.Contains(html, "<script") {
		t.Error("composer must not inject scripts")
	}
}

func TestComposeDeterministic(t *testing.T) {
	var c Composer
	a := c.Compose("<div>x</div>", "div{}")
	b := c.Compose("<div>x</div>", "div{}")

	if a.HTML() != b.HTML() || a.Markup() != b.Markup() || a.Style() != b.Style() {
		t.Error("identical inputs produced different documents")
	}
	if b.Sequence() <= a.Sequence() {
		t.Errorf("sequence not increasing: %d then %d", a.Sequence(), b.Sequence())
	}
	if a.Key() == b.Key() {
		t.Error("distinct compositions share a key")
	}
}

func TestComposeAcceptsMalformedInput(t *testing.T) {
	var c Composer
	doc := c.Compose("<div><span>", "}}} {")
	if !strings.Contains(doc.HTML(), "<div><span>") || !strings.Contains(doc.HTML(), "}}} {") {
		t.Error("malformed input should pass through unchanged")
	}
}

func TestRendererStartsIdle(t *testing.T) {
	r := NewRenderer(source.NewStore(), nil, &recordingFrame{})
	if r.State() != Idle {
		t.Errorf("State() = %v, want idle", r.State())
	}
	if _, ok := r.Current(); ok {
		t.Error("Current() should be empty before the first refresh")
	}
}

func TestEndToEndRefresh(t *testing.T) {
	store := source.NewStore()
	frame := &recordingFrame{}
	r := NewRenderer(store, nil, frame)

	store.Write(source.Markup, "<p>hi</p>")
	doc, ok := r.RequestRefresh()
	if !ok {
		t.Fatal("refresh was not displayed")
	}

	if !strings.Contains(doc.HTML(), "<body>\n  <p>hi</p>") {
		t.Errorf("body missing markup:\n%s", doc.HTML())
	}
	if !strings.Contains(doc.HTML(), ResetRule+"\n    \n  </style>") {
		t.Errorf("style block should hold the reset rule then the empty style:\n%s", doc.HTML())
	}
	if r.State() != Ready {
		t.Errorf("State() = %v, want ready", r.State())
	}
}

func TestGenerationMonotonic(t *testing.T) {
	store := source.NewStore()
	frame := &recordingFrame{}
	r := NewRenderer(store, nil, frame)

	var last uint64
	for i := 0; i < 5; i++ {
		store.Write(source.Markup, strings.Repeat("x", i))
		r.RequestRefresh()

		slot := r.Slot()
		if slot.Generation <= last {
			t.Fatalf("generation %d not above %d", slot.Generation, last)
		}
		last = slot.Generation

		if slot.Document.Markup() != strings.Repeat("x", i) {
			t.Errorf("slot shows %q, want latest request", slot.Document.Markup())
		}
	}
	if len(frame.loads) != 5 {
		t.Errorf("frame loaded %d times, want 5", len(frame.loads))
	}
}

func TestSupersededCompositionIsDiscarded(t *testing.T) {
	store := source.NewStore()
	frame := &recordingFrame{}
	r := NewRenderer(store, nil, frame)

	var composer Composer
	nested := false
	r.compose = func(markup, style string) Document {
		if !nested {
			nested = true
			// A newer request overtakes this one while it is composing.
			store.Write(source.Markup, "newer")
			r.RequestRefresh()
		}
		return composer.Compose(markup, style)
	}

	store.Write(source.Markup, "older")
	if _, ok := r.RequestRefresh(); ok {
		t.Error("overtaken composition was displayed")
	}

	cur, ok := r.Current()
	if !ok || cur.Markup() != "newer" {
		t.Errorf("current = %q, want newer", cur.Markup())
	}
	if len(frame.loads) != 1 {
		t.Errorf("frame loaded %d times, want 1", len(frame.loads))
	}
}

func TestSandboxPolicyOnEveryLoad(t *testing.T) {
	frame := &recordingFrame{}
	r := NewRenderer(source.NewStore(), nil, frame)

	for i := 0; i < 3; i++ {
		r.RequestRefresh()
	}
	for i, p := range frame.policies {
		if p != SandboxAllowScripts {
			t.Errorf("load %d policy = %q", i, p)
		}
	}
	if SandboxAllowScripts.CSP() != "sandbox allow-scripts" {
		t.Errorf("CSP() = %q", SandboxAllowScripts.CSP())
	}
}

func TestEveryDocumentGetsFreshKey(t *testing.T) {
	frame := &recordingFrame{}
	r := NewRenderer(source.NewStore(), nil, frame)

	r.RequestRefresh()
	r.RequestRefresh()

	if len(frame.loads) != 2 || frame.loads[0] == frame.loads[1] {
		t.Errorf("keys = %v, want two distinct keys", frame.loads)
	}
}

func TestRejectedFrameStaysIdle(t *testing.T) {
	frame := &recordingFrame{err: errors.New("sandbox unsupported")}
	r := NewRenderer(source.NewStore(), nil, frame)

	if _, ok := r.RequestRefresh(); ok {
		t.Fatal("refresh succeeded on a rejecting frame")
	}
	if r.State() != Idle {
		t.Errorf("State() = %v, want idle", r.State())
	}
	if !errors.Is(r.Err(), ErrFrameRejected) {
		t.Errorf("Err() = %v, want ErrFrameRejected", r.Err())
	}

	frame.err = nil
	if _, ok := r.RequestRefresh(); ok {
		t.Error("renderer retried a rejected frame")
	}

	r.Attach(frame)
	if _, ok := r.RequestRefresh(); !ok {
		t.Error("refresh should work after Attach")
	}
}

func TestDetachStopsRefreshes(t *testing.T) {
	frame := &recordingFrame{}
	r := NewRenderer(source.NewStore(), nil, frame)
	r.RequestRefresh()
	r.Detach()

	if _, ok := r.RequestRefresh(); ok {
		t.Error("refresh after Detach was displayed")
	}
	if r.State() != Idle {
		t.Errorf("State() = %v, want idle", r.State())
	}
}

func TestDebouncerSupersedesPending(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{}, 4)
	d := NewDebouncer(20*time.Millisecond, func() {
		calls.Add(1)
		done <- struct{}{}
	})

	for i := 0; i < 5; i++ {
		d.Trigger()
	}
	if !d.Pending() {
		t.Error("Pending() = false after Trigger")
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced callback never ran")
	}
	time.Sleep(50 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("callback ran %d times, want 1", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(10*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Cancel()
	time.Sleep(40 * time.Millisecond)

	if calls.Load() != 0 {
		t.Error("cancelled callback ran")
	}
	if d.Pending() {
		t.Error("Pending() = true after Cancel")
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{Idle: "idle", Composing: "composing", Ready: "ready", State(9): "unknown"}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
