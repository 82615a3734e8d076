package playground

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/canvas/internal/db"
	"github.com/ziadkadry99/canvas/internal/editor"
	"github.com/ziadkadry99/canvas/internal/preview"
	"github.com/ziadkadry99/canvas/internal/session"
	"github.com/ziadkadry99/canvas/internal/theme"
)

type recorder struct {
	msgs []serverMessage
	err  error
}

func (r *recorder) send(msg serverMessage) error {
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recorder) types() []string {
	var out []string
	for _, m := range r.msgs {
		out = append(out, m.Type)
	}
	return out
}

func setupTest(t *testing.T) (*Playground, *httptest.Server, *theme.Store) {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	prefs := theme.NewStore(database)
	stats := session.NewStore(database)
	manager := session.NewManager(session.Options{ExportTitle: "Test Page"}, prefs, stats)
	t.Cleanup(func() { manager.CloseAll(t.Context()) })

	p := New(manager, nil, prefs, stats)
	r := chi.NewRouter()
	p.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return p, srv, prefs
}

func dial(t *testing.T, srv *httptest.Server, clientID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/editor?client=" + clientID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// expect reads messages until one of type typ arrives.
func expect(t *testing.T, conn *websocket.Conn, typ string) serverMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg serverMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", typ, err)
		}
		if msg.Type == typ {
			return msg
		}
	}
}

func write(t *testing.T, conn *websocket.Conn, msg clientMessage) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("writing %s: %v", msg.Type, err)
	}
}

func TestSurfaceForwardsCommands(t *testing.T) {
	out := &recorder{}
	s := newSurface(out, true, nil)

	if _, ok := s.Cursor(); ok {
		t.Error("fresh surface should have no cursor")
	}

	s.DefineColorScheme("canvas-dark", theme.SchemeFor(theme.Dark))
	s.ApplyColorScheme("canvas-dark")
	s.SetLanguage(editor.CSS)
	s.SetText("a{}")
	s.SetCursor(editor.Position{Line: 1, Column: 2})

	want := []string{"define_scheme", "apply_scheme", "set_language", "set_text", "set_cursor"}
	if got := out.types(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("messages = %v, want %v", got, want)
	}
	if s.Text() != "a{}" {
		t.Errorf("Text() = %q", s.Text())
	}
	if pos, ok := s.Cursor(); !ok || pos.Column != 2 {
		t.Errorf("Cursor() = %+v, %v", pos, ok)
	}
}

func TestSurfaceReceiveNotifiesListener(t *testing.T) {
	s := newSurface(&recorder{}, true, nil)
	var got []string
	unregister := s.OnContentChanged(func(text string) { got = append(got, text) })

	s.receive("<p>", &editor.Position{Line: 1, Column: 4})
	unregister()
	s.receive("<p></p>", nil)

	if len(got) != 1 || got[0] != "<p>" {
		t.Errorf("listener saw %v", got)
	}
	if s.Text() != "<p></p>" {
		t.Errorf("Text() = %q", s.Text())
	}
}

func TestFrameLoadAndLookup(t *testing.T) {
	out := &recorder{}
	f := newFrame("sess", out)
	doc := (&preview.Composer{}).Compose("<b>x</b>", "")

	if err := f.Load(doc, doc.Key(), preview.SandboxAllowScripts); err != nil {
		t.Fatalf("Load: %v", err)
	}
	msg := out.msgs[0]
	if msg.URL != "/preview/sess/"+doc.Key() || msg.Sandbox != "allow-scripts" {
		t.Errorf("preview message = %+v", msg)
	}

	if got, _, ok := f.document(doc.Key()); !ok || got.HTML() != doc.HTML() {
		t.Error("current key should resolve")
	}
	if _, _, ok := f.document("other"); ok {
		t.Error("unknown key should not resolve")
	}
}

func TestFrameRejectsWhenBrowserGone(t *testing.T) {
	f := newFrame("sess", &recorder{err: errConnClosed})
	doc := (&preview.Composer{}).Compose("", "")

	err := f.Load(doc, doc.Key(), preview.SandboxAllowScripts)
	if !errors.Is(err, preview.ErrFrameRejected) {
		t.Fatalf("Load = %v, want ErrFrameRejected", err)
	}
	if _, _, ok := f.document(doc.Key()); ok {
		t.Error("rejected load should not stay resolvable")
	}
}

func TestEditRefreshAndPreview(t *testing.T) {
	_, srv, _ := setupTest(t)
	conn := dial(t, srv, "client-a")

	sess := expect(t, conn, "session")
	if sess.Session == "" || sess.Client != "client-a" || sess.Theme != theme.Dark {
		t.Fatalf("session message = %+v", sess)
	}

	write(t, conn, clientMessage{Type: "mount", HasModel: true})
	if msg := expect(t, conn, "apply_scheme"); msg.Name != "canvas-dark" {
		t.Errorf("applied scheme = %q", msg.Name)
	}
	expect(t, conn, "layout")

	write(t, conn, clientMessage{Type: "edit", Text: "<h1>Hello</h1>"})
	write(t, conn, clientMessage{Type: "switch", Kind: "style"})
	if msg := expect(t, conn, "set_language"); msg.Language != editor.CSS {
		t.Errorf("language = %q", msg.Language)
	}
	write(t, conn, clientMessage{Type: "edit", Text: "h1 { color: red; }"})
	write(t, conn, clientMessage{Type: "refresh"})

	first := expect(t, conn, "preview")
	resp, err := http.Get(srv.URL + first.URL)
	if err != nil {
		t.Fatalf("fetching preview: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("preview status = %d", resp.StatusCode)
	}
	if csp := resp.Header.Get("Content-Security-Policy"); csp != "sandbox allow-scripts" {
		t.Errorf("CSP = %q", csp)
	}
	for _, want := range []string{"<h1>Hello</h1>", "h1 { color: red; }", "box-sizing: border-box"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("preview missing %q", want)
		}
	}

	write(t, conn, clientMessage{Type: "refresh"})
	second := expect(t, conn, "preview")
	if second.Key == first.Key {
		t.Error("every refresh should get a fresh key")
	}

	latest, err := http.Get(srv.URL + "/preview/" + sess.Session)
	if err != nil {
		t.Fatalf("fetching latest preview: %v", err)
	}
	latest.Body.Close()
	if latest.StatusCode != http.StatusOK || latest.Header.Get("Content-Security-Policy") != "sandbox allow-scripts" {
		t.Errorf("latest preview: status %d, CSP %q", latest.StatusCode, latest.Header.Get("Content-Security-Policy"))
	}

	stale, err := http.Get(srv.URL + first.URL)
	if err != nil {
		t.Fatalf("fetching stale preview: %v", err)
	}
	stale.Body.Close()
	if stale.StatusCode != http.StatusGone {
		t.Errorf("stale preview status = %d, want 410", stale.StatusCode)
	}
}

func TestEditBeforeMountIsRejected(t *testing.T) {
	_, srv, _ := setupTest(t)
	conn := dial(t, srv, "client-b")
	expect(t, conn, "session")

	write(t, conn, clientMessage{Type: "edit", Text: "x"})
	if msg := expect(t, conn, "error"); msg.Error != editor.ErrNoModel.Error() {
		t.Errorf("error = %q", msg.Error)
	}
}

func TestSaveShortcutSendsDownload(t *testing.T) {
	_, srv, _ := setupTest(t)
	conn := dial(t, srv, "client-c")
	expect(t, conn, "session")
	write(t, conn, clientMessage{Type: "mount", HasModel: true})
	write(t, conn, clientMessage{Type: "snippet", Name: "hello"})
	write(t, conn, clientMessage{Type: "key", Key: "s", Meta: true})

	msg := expect(t, conn, "download")
	if msg.Download.FileName != "index.html" {
		t.Errorf("file name = %q", msg.Download.FileName)
	}
	if !strings.Contains(msg.Download.Body, "<title>Test Page</title>") || !strings.Contains(msg.Download.Body, "Hello, canvas") {
		t.Errorf("download body:\n%s", msg.Download.Body)
	}
}

func TestCompactLayoutMessages(t *testing.T) {
	_, srv, _ := setupTest(t)
	conn := dial(t, srv, "client-d")
	expect(t, conn, "session")
	write(t, conn, clientMessage{Type: "mount", HasModel: true})
	expect(t, conn, "layout")

	write(t, conn, clientMessage{Type: "layout", Width: 600})
	if msg := expect(t, conn, "layout"); !msg.Layout.Compact {
		t.Errorf("layout = %+v", msg.Layout)
	}

	write(t, conn, clientMessage{Type: "pane", Pane: "preview"})
	if msg := expect(t, conn, "layout"); msg.Layout.Pane != "preview" {
		t.Errorf("layout = %+v", msg.Layout)
	}
	expect(t, conn, "preview")
}

func TestExportEndpoint(t *testing.T) {
	p, srv, _ := setupTest(t)
	conn := dial(t, srv, "client-e")
	sess := expect(t, conn, "session")

	s, err := p.manager.Get(sess.Session)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	s.LoadBuffers("<p>exported</p>", "p{}")

	resp, err := http.Get(srv.URL + "/api/sessions/" + sess.Session + "/export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if cd := resp.Header.Get("Content-Disposition"); cd != `attachment; filename="index.html"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.Contains(string(body), "<p>exported</p>") {
		t.Errorf("body:\n%s", body)
	}

	missing, _ := http.Get(srv.URL + "/api/sessions/nope/export")
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("unknown session status = %d", missing.StatusCode)
	}
}

func TestThemeEndpoints(t *testing.T) {
	_, srv, prefs := setupTest(t)

	resp, err := http.Get(srv.URL + "/api/theme?client=c1")
	if err != nil {
		t.Fatal(err)
	}
	var got themeResponse
	json.NewDecoder(resp.Body).Decode(&got)
	resp.Body.Close()
	if got.Mode != theme.Dark || got.Stored {
		t.Errorf("initial theme = %+v", got)
	}

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/theme?client=c1", strings.NewReader(`{"mode":"light"}`))
	put, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	put.Body.Close()
	if put.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d", put.StatusCode)
	}
	if m, ok, _ := prefs.Load(t.Context(), "c1"); !ok || m != theme.Light {
		t.Errorf("stored = %q, %v", m, ok)
	}

	req, _ = http.NewRequest(http.MethodPut, srv.URL+"/api/theme?client=c1", strings.NewReader(`{"mode":"sepia"}`))
	bad, _ := http.DefaultClient.Do(req)
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown mode status = %d", bad.StatusCode)
	}

	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/api/theme?client=c1", nil)
	del, _ := http.DefaultClient.Do(req)
	del.Body.Close()
	if _, ok, _ := prefs.Load(t.Context(), "c1"); ok {
		t.Error("DELETE should clear the stored theme")
	}
}

func TestClearThemeReleasesLiveSession(t *testing.T) {
	_, srv, _ := setupTest(t)

	conn := dial(t, srv, "client-g")
	expect(t, conn, "session")
	write(t, conn, clientMessage{Type: "mount", HasModel: true})
	expect(t, conn, "layout")

	write(t, conn, clientMessage{Type: "theme", Mode: "light"})
	if msg := expect(t, conn, "apply_scheme"); msg.Name != "canvas-light" {
		t.Fatalf("applied scheme = %q", msg.Name)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/theme?client=client-g", nil)
	del, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	del.Body.Close()
	if del.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d", del.StatusCode)
	}

	write(t, conn, clientMessage{Type: "system_theme", Mode: "dark"})
	if msg := expect(t, conn, "apply_scheme"); msg.Name != "canvas-dark" {
		t.Errorf("scheme after clearing = %q, want canvas-dark", msg.Name)
	}
}

func TestCloseConnectionsEndsSessions(t *testing.T) {
	p, srv, _ := setupTest(t)

	conn := dial(t, srv, "client-h")
	expect(t, conn, "session")

	p.CloseConnections()
	p.manager.CloseAll(t.Context())

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("socket still open after CloseConnections")
	}
	if p.manager.Len() != 0 {
		t.Errorf("live sessions = %d", p.manager.Len())
	}
	st, err := p.stats.Stats(t.Context())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.TotalSessions != 1 || st.OpenSessions != 0 {
		t.Errorf("stats = %+v, want one closed session", st)
	}
}

func TestStoredThemeAppliesToNewSession(t *testing.T) {
	_, srv, prefs := setupTest(t)
	prefs.Save(t.Context(), "client-f", theme.Light)

	conn := dial(t, srv, "client-f")
	if msg := expect(t, conn, "session"); msg.Theme != theme.Light {
		t.Errorf("session theme = %q", msg.Theme)
	}
	write(t, conn, clientMessage{Type: "mount", HasModel: true})
	if msg := expect(t, conn, "apply_scheme"); msg.Name != "canvas-light" {
		t.Errorf("applied scheme = %q", msg.Name)
	}
}

func TestThemeCSS(t *testing.T) {
	_, srv, _ := setupTest(t)

	resp, err := http.Get(srv.URL + "/api/themes/dark.css")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "#f87171") {
		t.Errorf("dark css missing tag color:\n%s", body)
	}

	missing, _ := http.Get(srv.URL + "/api/themes/sepia.css")
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("unknown mode status = %d", missing.StatusCode)
	}
}

func TestSnippetsAndStats(t *testing.T) {
	_, srv, _ := setupTest(t)

	resp, err := http.Get(srv.URL + "/api/snippets")
	if err != nil {
		t.Fatal(err)
	}
	var list []struct {
		Name string `json:"name"`
	}
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list) == 0 {
		t.Error("expected builtin snippets")
	}

	conn := dial(t, srv, "client-g")
	sess := expect(t, conn, "session")

	load, err := http.Post(srv.URL+"/api/sessions/"+sess.Session+"/snippets/hello", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	load.Body.Close()
	if load.StatusCode != http.StatusOK {
		t.Errorf("load snippet status = %d", load.StatusCode)
	}

	stats, err := http.Get(srv.URL + "/api/stats")
	if err != nil {
		t.Fatal(err)
	}
	var st statsResponse
	json.NewDecoder(stats.Body).Decode(&st)
	stats.Body.Close()
	if st.LiveSessions != 1 || st.TotalSessions != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestHelpPage(t *testing.T) {
	_, srv, _ := setupTest(t)

	for _, mode := range []string{"light", "dark"} {
		resp, err := http.Get(srv.URL + "/help?theme=" + mode)
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if !strings.Contains(string(body), `<h1 id="canvas-help">Canvas help</h1>`) {
			t.Errorf("%s help missing heading", mode)
		}
		bg := theme.SchemeFor(theme.Mode(mode)).Colors["editor.background"]
		if !strings.Contains(string(body), bg) {
			t.Errorf("%s help missing background %s", mode, bg)
		}
	}
}

func TestIndex(t *testing.T) {
	_, srv, _ := setupTest(t)
	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "/ws/editor") {
		t.Error("index should connect to the editor socket")
	}
}
