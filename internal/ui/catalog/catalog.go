// Package catalog holds the compiled-in engines, themes and link lists shown by the UI.
package catalog

import (
	"strings"

	"github.com/samber/lo"

	"github.com/Its-donkey/apex/internal/ui/model"
)

// Engine describes a search engine the search bar can query.
type Engine struct {
	Key   model.EngineKey
	Label string
	base  string
}

// QueryURL builds the engine's search URL for q.
func (e Engine) QueryURL(q string) string {
	return e.base + EscapeComponent(q)
}

var engines = []Engine{
	{Key: model.EngineGoogle, Label: "Google", base: "https://www.google.com/search?q="},
	{Key: model.EngineBing, Label: "Bing", base: "https://www.bing.com/search?q="},
	{Key: model.EngineDDG, Label: "DuckDuckGo", base: "https://duckduckgo.com/?q="},
}

var themes = []model.Option{
	{Value: string(model.ThemeApex), Label: "Apex (Red/Black)"},
	{Value: string(model.ThemeMidnight), Label: "Midnight"},
	{Value: string(model.ThemeForest), Label: "Forest"},
	{Value: string(model.ThemeViolet), Label: "Violet"},
}

var games = []model.Link{
	{Name: "Slope", Description: "Endless runner", URL: "https://your-slope.vercel.app"},
	{Name: "Retro Bowl", Description: "Football sim", URL: "https://your-retro-bowl.vercel.app"},
	{Name: "2048", Description: "Classic puzzle", URL: "https://your-2048.vercel.app"},
}

var apps = []model.Link{
	{Name: "YouTube", Description: "Video", URL: "https://youtube.com"},
	{Name: "Reddit", Description: "Communities", URL: "https://www.reddit.com"},
	{Name: "SoundCloud", Description: "Music", URL: "https://soundcloud.com"},
	{Name: "GeForce NOW", Description: "Cloud gaming", URL: "https://play.geforcenow.com"},
}

// Engines returns the engine catalog in display order.
func Engines() []Engine {
	return append([]Engine(nil), engines...)
}

// LookupEngine returns the engine registered under key.
func LookupEngine(key model.EngineKey) (Engine, bool) {
	return lo.Find(engines, func(e Engine) bool { return e.Key == key })
}

// EngineOrDefault returns the engine for key, falling back to Google.
func EngineOrDefault(key model.EngineKey) Engine {
	if e, ok := LookupEngine(key); ok {
		return e
	}
	return engines[0]
}

// EngineOptions lists the engines as select options.
func EngineOptions() []model.Option {
	return lo.Map(engines, func(e Engine, _ int) model.Option {
		return model.Option{Value: string(e.Key), Label: e.Label}
	})
}

// IsEngine reports whether key names a catalog engine.
func IsEngine(key model.EngineKey) bool {
	_, ok := LookupEngine(key)
	return ok
}

// ThemeOptions lists the themes as select options.
func ThemeOptions() []model.Option {
	return append([]model.Option(nil), themes...)
}

// IsTheme reports whether theme names a catalog theme.
func IsTheme(theme model.Theme) bool {
	return lo.ContainsBy(themes, func(o model.Option) bool { return o.Value == string(theme) })
}

// Games returns the game links in display order.
func Games() []model.Link {
	return append([]model.Link(nil), games...)
}

// Apps returns the app links in display order.
func Apps() []model.Link {
	return append([]model.Link(nil), apps...)
}

const upperhex = "0123456789ABCDEF"

// EscapeComponent percent-encodes s the way browsers encode a URI component:
// ASCII letters, digits and -_.!~*'() are kept, every other byte of the UTF-8
// encoding becomes %XX.
func EscapeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreservedComponentByte(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreservedComponentByte(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
