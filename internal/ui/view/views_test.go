package view

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Its-donkey/apex/internal/ui/model"
)

type recordingActions struct {
	opened  []string
	links   []string
	engines []model.EngineKey
	themes  []model.Theme
	toggles int
	resets  int
}

func (r *recordingActions) Open(input string) { r.opened = append(r.opened, input) }
func (r *recordingActions) OpenLink(url string) { r.links = append(r.links, url) }
func (r *recordingActions) SetEngine(engine model.EngineKey) { r.engines = append(r.engines, engine) }
func (r *recordingActions) SetTheme(theme model.Theme) { r.themes = append(r.themes, theme) }
func (r *recordingActions) ToggleCloaker() { r.toggles++ }
func (r *recordingActions) Reset() { r.resets++ }

func newContext(s model.Settings) (Context, *recordingActions) {
	actions := &recordingActions{}
	return Context{Settings: s, Actions: actions}, actions
}

func parse(t *testing.T, n Node) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(n.HTML()))
	require.NoError(t, err)
	return doc
}

func byTag(tag string) func(Node) bool {
	return func(n Node) bool { return n.Tag == tag }
}

func buttonLabelled(label string) func(Node) bool {
	return func(n Node) bool { return n.Tag == "button" && n.TextContent() == label }
}

func TestHomeRendersSearchAndViewer(t *testing.T) {
	ctx, _ := newContext(model.Settings{Theme: model.ThemeApex, Engine: model.EngineBing, Cloaker: true})
	doc := parse(t, Home(ctx))

	assert.Equal(t, 1, doc.Find("iframe.viewer").Length())
	_, hasSrc := doc.Find("iframe.viewer").Attr("src")
	assert.False(t, hasSrc)
	assert.Equal(t, "bing", doc.Find(".search select option[selected]").AttrOr("value", ""))
	_, autofocus := doc.Find(".search input").Attr("autofocus")
	assert.True(t, autofocus)
	assert.Equal(t, 4, doc.Find(".grid.apps .item").Length())
	assert.Equal(t, "YouTube", doc.Find(".grid.apps .item h4").First().Text())
}

func TestHomeViewerSource(t *testing.T) {
	ctx, _ := newContext(model.DefaultSettings())
	ctx.ViewerSource = "/service/abc"
	doc := parse(t, Home(ctx))
	assert.Equal(t, "/service/abc", doc.Find("iframe.viewer").AttrOr("src", ""))
}

func TestSearchBarSubmits(t *testing.T) {
	ctx, actions := newContext(model.DefaultSettings())
	tree := Home(ctx)

	input, ok := tree.Find(byTag("input"))
	require.True(t, ok)
	goButton, ok := tree.Find(buttonLabelled("Go"))
	require.True(t, ok)

	input.Dispatch("input", Event{Value: "cats"})
	goButton.Dispatch("click", Event{})
	input.Dispatch("keydown", Event{Key: "a", Value: "dogs"})
	input.Dispatch("keydown", Event{Key: "Enter", Value: "example.com"})

	assert.Equal(t, []string{"cats", "example.com"}, actions.opened)
}

func TestSearchBarEngineChange(t *testing.T) {
	ctx, actions := newContext(model.DefaultSettings())
	sel, ok := Home(ctx).Find(byTag("select"))
	require.True(t, ok)
	sel.Dispatch("change", Event{Value: "ddg"})
	assert.Equal(t, []model.EngineKey{model.EngineDDG}, actions.engines)
}

func TestGamesPlayButtons(t *testing.T) {
	ctx, actions := newContext(model.DefaultSettings())
	tree := Games(ctx)
	doc := parse(t, tree)

	assert.Equal(t, 3, doc.Find(".item").Length())
	assert.Equal(t, 1, doc.Find("iframe.viewer").Length())

	buttons := tree.FindAll(buttonLabelled("Play"))
	require.Len(t, buttons, 3)
	buttons[1].Dispatch("click", Event{})
	assert.Equal(t, []string{"https://your-retro-bowl.vercel.app"}, actions.links)
}

func TestAppsHasNoViewer(t *testing.T) {
	ctx, actions := newContext(model.DefaultSettings())
	tree := Apps(ctx)
	doc := parse(t, tree)

	assert.Equal(t, 0, doc.Find("iframe").Length())
	buttons := tree.FindAll(buttonLabelled("Open"))
	require.Len(t, buttons, 4)
	buttons[3].Dispatch("click", Event{})
	assert.Equal(t, []string{"https://play.geforcenow.com"}, actions.links)
}

func TestSettingsReflectsRecord(t *testing.T) {
	ctx, _ := newContext(model.Settings{Theme: model.ThemeForest, Engine: model.EngineDDG, Cloaker: false})
	doc := parse(t, Settings(ctx))

	selects := doc.Find("select")
	require.Equal(t, 2, selects.Length())
	assert.Equal(t, "forest", selects.Eq(0).Find("option[selected]").AttrOr("value", ""))
	assert.Equal(t, "ddg", selects.Eq(1).Find("option[selected]").AttrOr("value", ""))
	assert.False(t, doc.Find(".switch").HasClass("on"))

	ctx.Settings.Cloaker = true
	assert.True(t, parse(t, Settings(ctx)).Find(".switch").HasClass("on"))
}

func TestSettingsHandlers(t *testing.T) {
	ctx, actions := newContext(model.DefaultSettings())
	tree := Settings(ctx)

	selects := tree.FindAll(byTag("select"))
	require.Len(t, selects, 2)
	selects[0].Dispatch("change", Event{Value: "violet"})
	selects[1].Dispatch("change", Event{Value: "bing"})

	sw, ok := tree.Find(func(n Node) bool { return n.HasClass("switch") })
	require.True(t, ok)
	sw.Dispatch("click", Event{})

	reset, ok := tree.Find(buttonLabelled("Reset"))
	require.True(t, ok)
	reset.Dispatch("click", Event{})

	assert.Equal(t, []model.Theme{model.ThemeViolet}, actions.themes)
	assert.Equal(t, []model.EngineKey{model.EngineBing}, actions.engines)
	assert.Equal(t, 1, actions.toggles)
	assert.Equal(t, 1, actions.resets)
}

func TestRenderIsDeterministic(t *testing.T) {
	ctx, _ := newContext(model.DefaultSettings())
	for _, build := range []Builder{Home, Games, Apps, Settings} {
		assert.Equal(t, build(ctx).HTML(), build(ctx).HTML())
	}
}

func TestHTMLEscapes(t *testing.T) {
	n := El("p", Attrs{"title": `a"b`}, Text("<script>"))
	assert.Equal(t, `<p title="a&#34;b">&lt;script&gt;</p>`, n.HTML())
	assert.Equal(t, `<input autofocus type="text">`, El("input", Attrs{"type": "text", "autofocus": ""}).HTML())
}
