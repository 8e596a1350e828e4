// Package app is the UI controller. It owns the settings record, renders the
// routed view into the host document and implements the actions views bind to.
package app

import (
	"html"

	"github.com/Its-donkey/apex/internal/ui/catalog"
	"github.com/Its-donkey/apex/internal/ui/destination"
	"github.com/Its-donkey/apex/internal/ui/model"
	"github.com/Its-donkey/apex/internal/ui/router"
	"github.com/Its-donkey/apex/internal/ui/settings"
	"github.com/Its-donkey/apex/internal/ui/view"
	"github.com/Its-donkey/apex/logging"
)

// OpenBlankPrompt is shown by the open-blank trigger.
const OpenBlankPrompt = "Enter URL or search"

// Host is the document the app drives.
type Host interface {
	// Fragment returns the current location fragment including '#'.
	Fragment() string
	// SetFragment navigates to fragment. The host calls Render once the
	// navigation is observed.
	SetFragment(fragment string)
	SetTheme(theme model.Theme)
	// Mount replaces the content region with tree.
	Mount(tree view.Node)
	SetNavActive(id string, active bool)
	// SetViewerSource points the visible viewer iframe at src, reporting
	// false when the current view has none.
	SetViewerSource(src string) bool
	// OpenWindow opens a blank window and writes document into it,
	// reporting false when the window could not be created.
	OpenWindow(document string) bool
	Prompt(message string) (string, bool)
}

// App is the explicit UI context shared by the router and the handlers.
type App struct {
	host     Host
	store    *settings.Store
	proxy    destination.Proxy
	logger   *logging.Logger
	settings model.Settings
	route    router.Route
	pending  string
}

// New wires an App. Call Start to load settings and render.
func New(host Host, store *settings.Store, proxy destination.Proxy, logger *logging.Logger) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	return &App{
		host:     host,
		store:    store,
		proxy:    proxy,
		logger:   logger,
		settings: model.DefaultSettings(),
		route:    router.Home,
	}
}

// Start loads the stored settings, applies the theme and renders the current route.
func (a *App) Start() {
	a.settings = a.store.Load()
	a.host.SetTheme(a.settings.Theme)
	a.logger.Info("settings", "loaded settings", map[string]any{
		"theme":   a.settings.Theme,
		"engine":  a.settings.Engine,
		"cloaker": a.settings.Cloaker,
	})
	a.Render()
}

// Settings returns the current record.
func (a *App) Settings() model.Settings {
	return a.settings
}

// Route returns the route rendered last.
func (a *App) Route() router.Route {
	return a.route
}

// Render rebuilds the content region for the current fragment and updates
// the navigation highlight.
func (a *App) Render() {
	fragment := router.Normalize(a.host.Fragment())
	a.route = router.Match(fragment)

	ctx := view.Context{Settings: a.settings, Actions: a}
	if a.route == router.Home && a.pending != "" {
		ctx.ViewerSource = a.pending
		a.pending = ""
	}

	active := router.ActiveLinks(fragment)
	for _, link := range router.NavLinks() {
		a.host.SetNavActive(link.ID, active[link.ID])
	}
	a.host.Mount(router.Builder(a.route)(ctx))
	a.logger.Debug("router", "rendered view", map[string]any{"fragment": fragment, "route": a.route})
}

// Open resolves raw input and opens it. Blank input is ignored.
func (a *App) Open(input string) {
	input = destination.Normalize(input)
	if input == "" {
		return
	}
	a.open(destination.Resolve(input, a.settings.Engine))
}

// OpenLink opens a catalog destination.
func (a *App) OpenLink(url string) {
	a.Open(url)
}

// OpenBlank prompts for a destination and opens it.
func (a *App) OpenBlank() {
	input, ok := a.host.Prompt(OpenBlankPrompt)
	if !ok {
		return
	}
	a.Open(input)
}

func (a *App) open(dest string) {
	proxied := destination.Proxied(a.proxy, dest)
	fields := map[string]any{"destination": dest, "cloaked": a.settings.Cloaker}

	if a.settings.Cloaker {
		if !a.host.OpenWindow(CloakedDocument(proxied)) {
			a.logger.Warn("open", "window creation blocked", fields)
			return
		}
		a.logger.Info("open", "opened cloaked window", fields)
		return
	}

	if a.host.SetViewerSource(proxied) {
		a.logger.Info("open", "loaded destination in viewer", fields)
		return
	}

	// No viewer on this view: load it into the home viewer instead.
	a.pending = proxied
	a.logger.Info("open", "no viewer, deferring to home", fields)
	if router.Normalize(a.host.Fragment()) == router.HomeFragment {
		a.Render()
		return
	}
	a.host.SetFragment(router.HomeFragment)
}

// SetEngine selects the search engine used for queries.
func (a *App) SetEngine(engine model.EngineKey) {
	if !catalog.IsEngine(engine) {
		a.logger.Warn("settings", "ignored unknown engine", map[string]any{"engine": engine})
		return
	}
	a.settings.Engine = engine
	a.persist()
}

// SetTheme switches and applies the colour theme.
func (a *App) SetTheme(theme model.Theme) {
	if !catalog.IsTheme(theme) {
		a.logger.Warn("settings", "ignored unknown theme", map[string]any{"theme": theme})
		return
	}
	a.settings.Theme = theme
	a.persist()
	a.host.SetTheme(theme)
}

// ToggleCloaker flips the cloaker setting and re-renders the view.
func (a *App) ToggleCloaker() {
	a.settings.Cloaker = !a.settings.Cloaker
	a.persist()
	a.Render()
}

// Reset restores and persists the defaults, then re-applies them.
func (a *App) Reset() {
	s, err := a.store.Reset()
	if err != nil {
		a.logger.Error("settings", "failed to persist defaults", err, nil)
	}
	a.settings = s
	a.logger.Info("settings", "settings reset", nil)
	a.host.SetTheme(a.settings.Theme)
	a.Render()
}

func (a *App) persist() {
	if err := a.store.Save(a.settings); err != nil {
		a.logger.Error("settings", "failed to save settings", err, nil)
	}
}

// CloakedDocument is the page written into a cloaked window: a full-size
// iframe on src with the referrer suppressed.
func CloakedDocument(src string) string {
	return `<!doctype html><html><head><title>about:blank</title>` +
		`<meta name="referrer" content="no-referrer">` +
		`<style>html,body,iframe{height:100%;width:100%;margin:0;border:0;background:#000}</style>` +
		`</head><body><iframe src="` + html.EscapeString(src) + `" frameborder="0" allow="fullscreen" referrerpolicy="no-referrer"></iframe></body></html>`
}
