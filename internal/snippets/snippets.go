// Package snippets discovers starter snippets: pairs of <name>.html and
// <name>.css files that can be loaded into a playground's buffers.
package snippets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNotFound is returned for an unknown snippet name.
var ErrNotFound = errors.New("snippet not found")

// DefaultInclude matches every snippet file below the library root.
var DefaultInclude = []string{"**/*.html", "**/*.css"}

//go:embed starters
var starters embed.FS

// Snippet is one starter. Either half may be empty.
type Snippet struct {
	Name   string `json:"name"`
	Markup string `json:"markup,omitempty"`
	Style  string `json:"style,omitempty"`
}

// Library is an indexed set of snippets.
type Library struct {
	mu       sync.RWMutex
	fsys     fs.FS
	include  []string
	snippets map[string]Snippet
}

// Builtin returns the snippets shipped with the binary.
func Builtin() *Library {
	sub, err := fs.Sub(starters, "starters")
	if err != nil {
		panic(err)
	}
	lib, err := New(sub, nil)
	if err != nil {
		panic(err)
	}
	return lib
}

// Open scans dir for snippets matching include. An empty dir returns the
// builtin library.
func Open(dir string, include []string) (*Library, error) {
	if dir == "" {
		return Builtin(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening snippet dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("snippet dir %s is not a directory", dir)
	}
	return New(os.DirFS(dir), include)
}

// New indexes the snippets in fsys whose paths match include.
func New(fsys fs.FS, include []string) (*Library, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}
	l := &Library{fsys: fsys, include: include}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload rescans the library root.
func (l *Library) Reload() error {
	found := make(map[string]Snippet)
	seen := make(map[string]bool)

	for _, pattern := range l.include {
		matches, err := doublestar.Glob(l.fsys, pattern)
		if err != nil {
			return fmt.Errorf("matching %q: %w", pattern, err)
		}
		for _, p := range matches {
			if seen[p] {
				continue
			}
			seen[p] = true
			if err := l.add(found, p); err != nil {
				return err
			}
		}
	}

	l.mu.Lock()
	l.snippets = found
	l.mu.Unlock()
	return nil
}

func (l *Library) add(found map[string]Snippet, p string) error {
	ext := path.Ext(p)
	if ext != ".html" && ext != ".css" {
		return nil
	}
	name := strings.TrimSuffix(p, ext)

	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return fmt.Errorf("reading snippet %s: %w", p, err)
	}

	s := found[name]
	s.Name = name
	if ext == ".html" {
		s.Markup = string(data)
	} else {
		s.Style = string(data)
	}
	found[name] = s
	return nil
}

// Names returns the snippet names in sorted order.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.snippets))
	for name := range l.snippets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns every snippet sorted by name.
func (l *Library) List() []Snippet {
	names := l.Names()
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Snippet, 0, len(names))
	for _, name := range names {
		out = append(out, l.snippets[name])
	}
	return out
}

// Get returns the named snippet.
func (l *Library) Get(name string) (Snippet, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.snippets[name]
	if !ok {
		return Snippet{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return s, nil
}
