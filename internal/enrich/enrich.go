// Package enrich turns shorthand emoji tokens such as :wave: into glyphs.
package enrich

import (
	"regexp"
	"slices"
)

var tokenRegexp = regexp.MustCompile(`:[A-Za-z0-9_+-]+:`)

var glyphs = map[string]string{
	"smile":    "😊",
	"wave":     "👋",
	"heart":    "❤️",
	"laugh":    "😂",
	"thumbsup": "👍",
	"fire":     "🔥",
	"cry":      "😢",
	"wink":     "😉",
	"tada":     "🎉",
}

// Enrich replaces every known :name: token with its glyph. Tokens are matched
// left to right without overlap; unknown tokens are kept verbatim.
func Enrich(text string) string {
	if len(text) < 3 {
		return text
	}
	return tokenRegexp.ReplaceAllStringFunc(text, func(tok string) string {
		if g, ok := glyphs[tok[1:len(tok)-1]]; ok {
			return g
		}
		return tok
	})
}

// Lookup returns the glyph for a token name without the surrounding colons.
func Lookup(name string) (string, bool) {
	g, ok := glyphs[name]
	return g, ok
}

// Names returns the known token names, sorted.
func Names() []string {
	names := make([]string, 0, len(glyphs))
	for n := range glyphs {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
