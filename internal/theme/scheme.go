package theme

import "github.com/alecthomas/chroma/v2"

// Rule colors one token class in the editor.
type Rule struct {
	Token      string `json:"token"`
	Foreground string `json:"foreground"`
	FontStyle  string `json:"fontStyle,omitempty"`
}

// Scheme is a named editor color scheme ready to hand to an editing surface.
type Scheme struct {
	Name    string            `json:"name"`
	Base    string            `json:"base"`
	Inherit bool              `json:"inherit"`
	Rules   []Rule            `json:"rules"`
	Colors  map[string]string `json:"colors"`
}

// pair holds the light and dark value for one entry.
type pair struct {
	light, dark string
}

func (p pair) pick(m Mode) string {
	if m == Dark {
		return p.dark
	}
	return p.light
}

type tokenColor struct {
	token     string
	chroma    chroma.TokenType
	color     pair
	fontStyle string
}

// tokenColors is the single source for both schemes.
var tokenColors = []tokenColor{
	{"comment", chroma.Comment, pair{"6b7280", "8b949e"}, "italic"},
	{"keyword", chroma.Keyword, pair{"2563eb", "60a5fa"}, ""},
	{"string", chroma.LiteralString, pair{"059669", "34d399"}, ""},
	{"number", chroma.LiteralNumber, pair{"d97706", "fbbf24"}, ""},
	{"type", chroma.KeywordType, pair{"7c3aed", "a78bfa"}, ""},
	{"class", chroma.NameClass, pair{"d97706", "fbbf24"}, ""},
	{"function", chroma.NameFunction, pair{"7c3aed", "a78bfa"}, ""},
	{"variable", chroma.NameVariable, pair{"374151", "d1d5db"}, ""},
	{"tag", chroma.NameTag, pair{"dc2626", "f87171"}, ""},
	{"attribute.name", chroma.NameAttribute, pair{"d97706", "fbbf24"}, ""},
	{"attribute.value", chroma.LiteralStringDouble, pair{"059669", "34d399"}, ""},
	{"delimiter", chroma.Punctuation, pair{"6b7280", "9ca3af"}, ""},
}

type chromeColor struct {
	key   string
	color pair
}

var chromeColors = []chromeColor{
	{"editor.background", pair{"#fafafa", "#0a0a0a"}},
	{"editor.foreground", pair{"#1f2937", "#e5e7eb"}},
	{"editor.lineHighlightBackground", pair{"#f5f5f5", "#171717"}},
	{"editorLineNumber.foreground", pair{"#9ca3af", "#4b5563"}},
	{"editorLineNumber.activeForeground", pair{"#6b7280", "#9ca3af"}},
	{"editor.selectionBackground", pair{"#3b82f640", "#3b82f640"}},
	{"editor.inactiveSelectionBackground", pair{"#3b82f620", "#3b82f620"}},
	{"editorCursor.foreground", pair{"#2563eb", "#60a5fa"}},
	{"editorWhitespace.foreground", pair{"#e5e7eb", "#262626"}},
	{"editorIndentGuide.background", pair{"#e5e7eb", "#262626"}},
	{"editorIndentGuide.activeBackground", pair{"#3b82f650", "#3b82f650"}},
	{"editorWidget.background", pair{"#ffffff", "#171717"}},
	{"editorWidget.foreground", pair{"#1f2937", "#e5e7eb"}},
	{"editorWidget.border", pair{"#e5e7eb", "#262626"}},
	{"editorSuggestWidget.background", pair{"#ffffff", "#171717"}},
	{"editorSuggestWidget.foreground", pair{"#1f2937", "#e5e7eb"}},
	{"editorSuggestWidget.border", pair{"#d1d5db", "#404040"}},
	{"editorSuggestWidget.selectedBackground", pair{"#dbeafe", "#1e3a8a"}},
	{"editorSuggestWidget.selectedForeground", pair{"#1e40af", "#dbeafe"}},
	{"editorSuggestWidget.highlightForeground", pair{"#2563eb", "#60a5fa"}},
	{"editorHoverWidget.background", pair{"#ffffff", "#171717"}},
	{"editorHoverWidget.foreground", pair{"#1f2937", "#e5e7eb"}},
	{"editorHoverWidget.border", pair{"#d1d5db", "#404040"}},
	{"list.activeSelectionBackground", pair{"#dbeafe", "#1e3a8a"}},
	{"list.activeSelectionForeground", pair{"#1e40af", "#dbeafe"}},
	{"list.hoverBackground", pair{"#f3f4f6", "#262626"}},
	{"list.hoverForeground", pair{"#374151", "#d1d5db"}},
}

// SchemeName returns the registered name of the scheme for a mode.
func SchemeName(m Mode) string {
	if m == Dark {
		return "canvas-dark"
	}
	return "canvas-light"
}

// SchemeFor builds the scheme descriptor for a mode.
func SchemeFor(m Mode) Scheme {
	base := "vs"
	if m == Dark {
		base = "vs-dark"
	}

	s := Scheme{
		Name:    SchemeName(m),
		Base:    base,
		Inherit: true,
		Rules:   make([]Rule, 0, len(tokenColors)),
		Colors:  make(map[string]string, len(chromeColors)),
	}
	for _, tc := range tokenColors {
		s.Rules = append(s.Rules, Rule{
			Token:      tc.token,
			Foreground: tc.color.pick(m),
			FontStyle:  tc.fontStyle,
		})
	}
	for _, cc := range chromeColors {
		s.Colors[cc.key] = cc.color.pick(m)
	}
	return s
}

// styleEntries converts the scheme into chroma style entries.
func styleEntries(m Mode) chroma.StyleEntries {
	entries := chroma.StyleEntries{}
	for _, tc := range tokenColors {
		entry := "#" + tc.color.pick(m)
		if tc.fontStyle != "" {
			entry = tc.fontStyle + " " + entry
		}
		entries[tc.chroma] = entry
	}

	colors := SchemeFor(m).Colors
	entries[chroma.Background] = "bg:" + colors["editor.background"] + " " + colors["editor.foreground"]
	entries[chroma.LineHighlight] = "bg:" + colors["editor.lineHighlightBackground"]
	entries[chroma.LineNumbers] = colors["editorLineNumber.foreground"]
	return entries
}
