package preview

import "errors"

// ErrFrameRejected is returned by a Frame whose host refuses to create an
// isolated rendering surface.
var ErrFrameRejected = errors.New("isolated rendering surface rejected")

// SandboxPolicy is the sandbox attribute applied to the rendering surface.
type SandboxPolicy string

// SandboxAllowScripts lets the document run scripts while denying
// same-origin access, storage and top-level navigation.
const SandboxAllowScripts SandboxPolicy = "allow-scripts"

// CSP returns the Content-Security-Policy header value enforcing the policy
// on a document served over HTTP.
func (p SandboxPolicy) CSP() string {
	return "sandbox " + string(p)
}

// Frame is the isolated rendering surface. Load must discard any previous
// content and create a fresh instance identified by key.
type Frame interface {
	Load(doc Document, key string, policy SandboxPolicy) error
}
