package playground

import (
	"fmt"
	"sync"

	"github.com/ziadkadry99/canvas/internal/preview"
)

// wsFrame is the browser's sandboxed iframe. Loading a document hands the
// browser a fresh URL; the preview handler serves the document behind it.
type wsFrame struct {
	sessionID string
	out       sender

	mu     sync.Mutex
	key    string
	doc    preview.Document
	policy preview.SandboxPolicy
}

func newFrame(sessionID string, out sender) *wsFrame {
	return &wsFrame{sessionID: sessionID, out: out}
}

func (f *wsFrame) Load(doc preview.Document, key string, policy preview.SandboxPolicy) error {
	f.mu.Lock()
	f.key, f.doc, f.policy = key, doc, policy
	f.mu.Unlock()

	err := f.out.send(serverMessage{
		Type:    "preview",
		Key:     key,
		URL:     previewURL(f.sessionID, key),
		Sandbox: string(policy),
	})
	if err != nil {
		f.clear()
		return fmt.Errorf("%w: %v", preview.ErrFrameRejected, err)
	}
	return nil
}

// document returns the loaded document when key is still current.
func (f *wsFrame) document(key string) (preview.Document, preview.SandboxPolicy, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.key == "" || f.key != key {
		return preview.Document{}, "", false
	}
	return f.doc, f.policy, true
}

// latest returns the loaded document, whatever its key.
func (f *wsFrame) latest() (preview.Document, preview.SandboxPolicy, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc, f.policy, f.key != ""
}

func (f *wsFrame) clear() {
	f.mu.Lock()
	f.key, f.doc, f.policy = "", preview.Document{}, ""
	f.mu.Unlock()
}

func previewURL(sessionID, key string) string {
	return fmt.Sprintf("/preview/%s/%s", sessionID, key)
}
