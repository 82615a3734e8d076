package playground

import (
	"errors"
	"sync"

	"github.com/ziadkadry99/canvas/internal/editor"
	"github.com/ziadkadry99/canvas/internal/theme"
)

// wsSurface mirrors the browser's editor widget. Commands are forwarded to
// the browser and applied to the mirror; edits reported by the browser go
// through receive.
type wsSurface struct {
	out sender

	mu        sync.Mutex
	hasModel  bool
	text      string
	cursor    editor.Position
	hasCursor bool
	language  editor.Language
	scheme    string
	listener  func(string)
}

func newSurface(out sender, hasModel bool, cursor *editor.Position) *wsSurface {
	s := &wsSurface{out: out, hasModel: hasModel}
	if cursor != nil {
		s.cursor = *cursor
		s.hasCursor = true
	}
	return s
}

func (s *wsSurface) HasModel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasModel
}

func (s *wsSurface) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

func (s *wsSurface) SetText(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
	s.forward(serverMessage{Type: "set_text", Text: &text})
}

func (s *wsSurface) Cursor() (editor.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor, s.hasCursor
}

func (s *wsSurface) SetCursor(pos editor.Position) {
	s.mu.Lock()
	s.cursor = pos
	s.hasCursor = true
	s.mu.Unlock()
	s.forward(serverMessage{Type: "set_cursor", Cursor: &pos})
}

func (s *wsSurface) SetLanguage(lang editor.Language) {
	s.mu.Lock()
	s.language = lang
	s.mu.Unlock()
	s.forward(serverMessage{Type: "set_language", Language: lang})
}

func (s *wsSurface) OnContentChanged(fn func(string)) func() {
	s.mu.Lock()
	s.listener = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.listener = nil
		s.mu.Unlock()
	}
}

func (s *wsSurface) DefineColorScheme(name string, scheme theme.Scheme) {
	s.forward(serverMessage{Type: "define_scheme", Name: name, Scheme: &scheme})
}

func (s *wsSurface) ApplyColorScheme(name string) {
	s.mu.Lock()
	s.scheme = name
	s.mu.Unlock()
	s.forward(serverMessage{Type: "apply_scheme", Name: name})
}

// receive applies an edit typed in the browser. It must run on the session
// loop, since the listener is the editor controller.
func (s *wsSurface) receive(text string, cursor *editor.Position) {
	s.mu.Lock()
	s.text = text
	if cursor != nil {
		s.cursor = *cursor
		s.hasCursor = true
	}
	fn := s.listener
	s.mu.Unlock()

	if fn != nil {
		fn(text)
	}
}

func (s *wsSurface) moveCursor(pos editor.Position) {
	s.mu.Lock()
	s.cursor = pos
	s.hasCursor = true
	s.mu.Unlock()
}

func (s *wsSurface) forward(msg serverMessage) {
	if err := s.out.send(msg); err != nil && !errors.Is(err, errConnClosed) {
		logf("forwarding %s: %v", msg.Type, err)
	}
}
