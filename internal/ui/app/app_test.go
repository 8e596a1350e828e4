package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Its-donkey/apex/internal/ui/model"
	"github.com/Its-donkey/apex/internal/ui/router"
	"github.com/Its-donkey/apex/internal/ui/settings"
	"github.com/Its-donkey/apex/internal/ui/view"
	"github.com/Its-donkey/apex/logging"
)

type fakeProxy struct{}

func (fakeProxy) Prefix() string { return "/service/" }
func (fakeProxy) EncodeURL(u string) string { return "enc:" + u }

type fakeHost struct {
	fragment     string
	theme        model.Theme
	mounted      view.Node
	mounts       int
	active       map[string]bool
	hasViewer    bool
	viewerSrc    string
	windows      []string
	blockWindows bool
	promptAnswer string
	promptOK     bool
	fragmentSets []string
}

func newFakeHost(fragment string) *fakeHost {
	return &fakeHost{fragment: fragment, active: make(map[string]bool)}
}

func (h *fakeHost) Fragment() string { return h.fragment }

func (h *fakeHost) SetFragment(fragment string) {
	h.fragment = fragment
	h.fragmentSets = append(h.fragmentSets, fragment)
}

func (h *fakeHost) SetTheme(theme model.Theme) { h.theme = theme }

func (h *fakeHost) Mount(tree view.Node) {
	h.mounted = tree
	h.mounts++
	_, h.hasViewer = tree.Find(func(n view.Node) bool { return n.Tag == "iframe" && n.HasClass(view.ViewerClass) })
}

func (h *fakeHost) SetNavActive(id string, active bool) { h.active[id] = active }

func (h *fakeHost) SetViewerSource(src string) bool {
	if !h.hasViewer {
		return false
	}
	h.viewerSrc = src
	return true
}

func (h *fakeHost) OpenWindow(document string) bool {
	if h.blockWindows {
		return false
	}
	h.windows = append(h.windows, document)
	return true
}

func (h *fakeHost) Prompt(string) (string, bool) { return h.promptAnswer, h.promptOK }

func (h *fakeHost) doc(t *testing.T) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(h.mounted.HTML()))
	require.NoError(t, err)
	return doc
}

func newApp(t *testing.T, fragment string, stored string) (*App, *fakeHost, *settings.MemoryStorage) {
	t.Helper()
	mem := settings.NewMemoryStorage()
	if stored != "" {
		require.NoError(t, mem.SetItem(settings.StorageKey, stored))
	}
	host := newFakeHost(fragment)
	a := New(host, settings.New(mem), fakeProxy{}, logging.Discard())
	a.Start()
	return a, host, mem
}

func TestStartAppliesStoredSettings(t *testing.T) {
	a, host, _ := newApp(t, "", `{"theme":"midnight","cloaker":false}`)
	assert.Equal(t, model.Settings{Theme: model.ThemeMidnight, Engine: model.EngineGoogle, Cloaker: false}, a.Settings())
	assert.Equal(t, model.ThemeMidnight, host.theme)
	assert.Equal(t, router.Home, a.Route())
	assert.True(t, host.active["nav-home"])
}

func TestRenderRoutes(t *testing.T) {
	a, host, _ := newApp(t, "#/games", "")
	assert.Equal(t, router.Games, a.Route())
	assert.Equal(t, "Games", host.doc(t).Find("h2").First().Text())
	assert.Equal(t, map[string]bool{"nav-home": false, "nav-games": true, "nav-apps": false, "nav-settings": false}, host.active)

	for _, fragment := range []string{"#/unknown", ""} {
		host.fragment = fragment
		a.Render()
		assert.Equal(t, router.Home, a.Route())
		assert.Equal(t, "Apex", host.doc(t).Find("h2").First().Text())
	}
	assert.False(t, host.active["nav-games"])
}

func TestRenderIsIdempotent(t *testing.T) {
	a, host, _ := newApp(t, "#/settings", "")
	first := host.mounted.HTML()
	a.Render()
	assert.Equal(t, first, host.mounted.HTML())
}

func TestOpenCloaked(t *testing.T) {
	a, host, _ := newApp(t, "#/", "")
	a.Open("  example.com ")

	require.Len(t, host.windows, 1)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(host.windows[0]))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("iframe").Length())
	assert.Equal(t, "/service/enc:https://example.com", doc.Find("iframe").AttrOr("src", ""))
	assert.Equal(t, "no-referrer", doc.Find(`meta[name="referrer"]`).AttrOr("content", ""))
	assert.Equal(t, "about:blank", doc.Find("title").Text())
	assert.Empty(t, host.viewerSrc)
}

func TestOpenCloakedBlockedIsSilent(t *testing.T) {
	var buf bytes.Buffer
	mem := settings.NewMemoryStorage()
	host := newFakeHost("#/")
	host.blockWindows = true
	a := New(host, settings.New(mem), fakeProxy{}, logging.New("test", logging.WARN, &buf))
	a.Start()

	a.Open("cats")
	assert.Empty(t, host.windows)
	assert.Empty(t, host.viewerSrc)
	assert.Empty(t, host.fragmentSets)
	assert.Contains(t, buf.String(), "window creation blocked")
}

func TestOpenEmbedded(t *testing.T) {
	a, host, _ := newApp(t, "#/", `{"cloaker":false,"engine":"ddg"}`)
	a.Open("cats")
	assert.Equal(t, "/service/enc:https://duckduckgo.com/?q=cats", host.viewerSrc)
	assert.Empty(t, host.windows)
}

func TestOpenIgnoresBlankInput(t *testing.T) {
	a, host, _ := newApp(t, "#/", `{"cloaker":false}`)
	mounts := host.mounts
	a.Open("   ")
	assert.Empty(t, host.viewerSrc)
	assert.Empty(t, host.windows)
	assert.Equal(t, mounts, host.mounts)
}

func TestOpenWithoutViewerNavigatesHome(t *testing.T) {
	a, host, _ := newApp(t, "#/apps", `{"cloaker":false}`)
	a.OpenLink("https://youtube.com")

	assert.Equal(t, []string{router.HomeFragment}, host.fragmentSets)
	assert.Empty(t, host.viewerSrc)

	// hashchange
	a.Render()
	assert.Equal(t, router.Home, a.Route())
	assert.Equal(t, "/service/enc:https://youtube.com", host.doc(t).Find("iframe.viewer").AttrOr("src", ""))

	// pending destination is consumed once
	a.Render()
	_, hasSrc := host.doc(t).Find("iframe.viewer").Attr("src")
	assert.False(t, hasSrc)
}

func TestOpenBlank(t *testing.T) {
	a, host, _ := newApp(t, "#/games", `{"cloaker":false,"engine":"bing"}`)

	host.promptOK = false
	a.OpenBlank()
	assert.Empty(t, host.viewerSrc)

	host.promptOK, host.promptAnswer = true, ""
	a.OpenBlank()
	assert.Empty(t, host.viewerSrc)

	host.promptAnswer = "weather"
	a.OpenBlank()
	assert.Equal(t, "/service/enc:https://www.bing.com/search?q=weather", host.viewerSrc)
}

func TestViewActionsThroughRenderedTree(t *testing.T) {
	a, host, mem := newApp(t, "#/", `{"cloaker":false}`)

	sel, ok := host.mounted.Find(func(n view.Node) bool { return n.Tag == "select" })
	require.True(t, ok)
	sel.Dispatch("change", view.Event{Value: "bing"})
	assert.Equal(t, model.EngineBing, a.Settings().Engine)

	input, ok := host.mounted.Find(func(n view.Node) bool { return n.Tag == "input" })
	require.True(t, ok)
	input.Dispatch("keydown", view.Event{Key: "Enter", Value: "news.example.org"})
	assert.Equal(t, "/service/enc:https://news.example.org", host.viewerSrc)

	raw, _ := mem.GetItem(settings.StorageKey)
	assert.Contains(t, raw, `"engine":"bing"`)
}

func TestSettingsMutationsPersist(t *testing.T) {
	a, host, mem := newApp(t, "#/settings", "")
	store := settings.New(mem)

	a.SetTheme(model.ThemeViolet)
	assert.Equal(t, model.ThemeViolet, host.theme)
	assert.Equal(t, model.ThemeViolet, store.Load().Theme)

	a.SetTheme("pink")
	assert.Equal(t, model.ThemeViolet, store.Load().Theme)

	a.SetEngine(model.EngineDDG)
	a.SetEngine("altavista")
	assert.Equal(t, model.EngineDDG, store.Load().Engine)

	a.ToggleCloaker()
	assert.False(t, store.Load().Cloaker)
	assert.False(t, host.doc(t).Find(".switch").HasClass("on"))
	a.ToggleCloaker()
	assert.True(t, host.doc(t).Find(".switch").HasClass("on"))
}

func TestReset(t *testing.T) {
	a, host, mem := newApp(t, "#/settings", `{"theme":"forest","engine":"ddg","cloaker":false}`)
	a.Reset()

	assert.Equal(t, model.DefaultSettings(), a.Settings())
	assert.Equal(t, model.DefaultSettings(), settings.New(mem).Load())
	assert.Equal(t, model.ThemeApex, host.theme)
	assert.Equal(t, "apex", host.doc(t).Find("select").First().Find("option[selected]").AttrOr("value", ""))
}

func TestCloakedDocumentEscapes(t *testing.T) {
	doc := CloakedDocument(`/service/a"b`)
	assert.Contains(t, doc, `src="/service/a&#34;b"`)
}
