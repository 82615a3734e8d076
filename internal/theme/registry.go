package theme

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// Registry records which schemes have been defined on an editing surface
// host. Definition happens at most once per scheme name for the lifetime of
// the registry; the zero value is ready to use.
type Registry struct {
	mu      sync.Mutex
	defined map[string]bool
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Ensure calls define with the scheme for m unless that scheme was already
// defined through this registry. It reports whether define ran.
func (r *Registry) Ensure(m Mode, define func(name string, s Scheme)) bool {
	name := SchemeName(m)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.defined[name] {
		return false
	}
	if r.defined == nil {
		r.defined = make(map[string]bool)
	}
	define(name, SchemeFor(m))
	r.defined[name] = true
	return true
}

// Defined reports whether the scheme for m has been defined.
func (r *Registry) Defined(m Mode) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.defined[SchemeName(m)]
}

// processStyles registers the chroma styles with the global chroma registry
// once per process.
var processStyles = &Registry{}

// Style returns the chroma style for m, registering it with chroma's global
// style registry on first use so other renderers can look it up by
// SchemeName.
func Style(m Mode) *chroma.Style {
	processStyles.Ensure(m, func(name string, _ Scheme) {
		styles.Register(chroma.MustNewStyle(name, styleEntries(m)))
	})
	return styles.Get(SchemeName(m))
}

// CSS renders the class-based stylesheet for highlighted code in mode m.
func CSS(m Mode) (string, error) {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, Style(m)); err != nil {
		return "", fmt.Errorf("writing %s css: %w", SchemeName(m), err)
	}
	return buf.String(), nil
}
