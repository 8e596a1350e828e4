package view

import (
	"github.com/Its-donkey/apex/internal/ui/catalog"
	"github.com/Its-donkey/apex/internal/ui/model"
)

// Actions are the operations views bind to their controls.
type Actions interface {
	// Open resolves user input and opens it through the proxy.
	Open(input string)
	// OpenLink opens a catalog destination through the proxy.
	OpenLink(url string)
	SetEngine(engine model.EngineKey)
	SetTheme(theme model.Theme)
	ToggleCloaker()
	Reset()
}

// Context is everything a view builder reads.
type Context struct {
	Settings model.Settings
	Actions  Actions
	// ViewerSource preloads the home viewer iframe.
	ViewerSource string
}

// Builder produces the node tree for one route.
type Builder func(Context) Node

// ViewerClass marks the iframe embedded destinations load into.
const ViewerClass = "viewer"

// Home builds the landing view: search bar, viewer and quick launch list.
func Home(ctx Context) Node {
	viewer := Attrs{"class": ViewerClass}
	if ctx.ViewerSource != "" {
		viewer["src"] = ctx.ViewerSource
	}
	return El("div", Attrs{"class": "grid", "style": "gap:1rem"},
		El("div", Attrs{"class": "card"},
			El("h2", nil, Text("Apex")),
			El("p", Attrs{"class": "muted"}, Text("Red and black by default. Ultraviolet under the hood.")),
			searchBar(ctx, true),
			El("div", Attrs{"style": "height:.75rem"}),
			El("iframe", viewer),
		),
		El("div", Attrs{"class": "card"},
			El("div", Attrs{"class": "row"},
				El("span", Attrs{"class": "pill"}, Text("Quick launch")),
				El("span", Attrs{"class": "muted"}, Text("opens via proxy")),
			),
			linkGrid(ctx, catalog.Apps(), "Open"),
		),
	)
}

// Games builds the game catalog with its own viewer.
func Games(ctx Context) Node {
	return El("div", Attrs{"class": "grid"},
		El("div", Attrs{"class": "card"},
			El("h2", nil, Text("Games")),
			El("p", Attrs{"class": "muted"}, Text("These load through the proxy.")),
			linkGrid(ctx, catalog.Games(), "Play"),
		),
		El("div", Attrs{"class": "card"},
			El("h3", nil, Text("Viewer")),
			El("iframe", Attrs{"class": ViewerClass}),
		),
	)
}

// Apps builds the app catalog.
func Apps(ctx Context) Node {
	return El("div", Attrs{"class": "grid"},
		El("div", Attrs{"class": "card"},
			El("h2", nil, Text("Apps")),
			linkGrid(ctx, catalog.Apps(), "Open"),
		),
	)
}

// Settings builds the preferences form.
func Settings(ctx Context) Node {
	s := ctx.Settings

	themeSelect := selectNode(catalog.ThemeOptions(), string(s.Theme)).On("change", func(e Event) {
		ctx.Actions.SetTheme(model.Theme(e.Value))
	})
	engines := engineSelect(ctx)

	switchClass := "switch"
	if s.Cloaker {
		switchClass += " on"
	}
	cloakerSwitch := El("div", Attrs{"class": switchClass, "role": "switch", "aria-checked": boolString(s.Cloaker)},
		El("div", Attrs{"class": "knob"}),
	).On("click", func(Event) {
		ctx.Actions.ToggleCloaker()
	})

	resetButton := El("button", Attrs{"class": "btn neutral", "type": "button"}, Text("Reset")).On("click", func(Event) {
		ctx.Actions.Reset()
	})

	return El("div", Attrs{"class": "grid"},
		El("div", Attrs{"class": "card"},
			El("h2", nil, Text("Settings")),
			El("div", Attrs{"class": "row"}, El("div", Attrs{"class": "pill"}, Text("Theme")), themeSelect),
			El("div", Attrs{"class": "row"},
				El("div", Attrs{"class": "pill"}, Text("Cloaker")),
				cloakerSwitch,
				El("span", Attrs{"class": "muted"}, Text("Open in about:blank")),
			),
			El("div", Attrs{"class": "row"}, El("div", Attrs{"class": "pill"}, Text("Search")), engines),
			El("div", Attrs{"style": "margin-top:1rem"}, resetButton),
			El("p", Attrs{"class": "muted", "style": "margin-top:.5rem"}, Text("Settings persist per device in localStorage.")),
		),
	)
}

func searchBar(ctx Context, autofocus bool) Node {
	var query string
	submit := func() { ctx.Actions.Open(query) }

	inputAttrs := Attrs{"placeholder": "Search or enter URL", "type": "text"}
	if autofocus {
		inputAttrs["autofocus"] = ""
	}
	input := El("input", inputAttrs).
		On("input", func(e Event) { query = e.Value }).
		On("keydown", func(e Event) {
			if e.Key != "Enter" {
				return
			}
			query = e.Value
			submit()
		})
	button := El("button", Attrs{"class": "btn primary", "type": "button"}, Text("Go")).On("click", func(Event) {
		submit()
	})
	return El("div", Attrs{"class": "search"}, engineSelect(ctx), input, button)
}

func engineSelect(ctx Context) Node {
	return selectNode(catalog.EngineOptions(), string(ctx.Settings.Engine)).On("change", func(e Event) {
		ctx.Actions.SetEngine(model.EngineKey(e.Value))
	})
}

func linkGrid(ctx Context, links []model.Link, verb string) Node {
	items := make([]Node, 0, len(links))
	for _, link := range links {
		url := link.URL
		items = append(items, El("div", Attrs{"class": "item"},
			El("h4", nil, Text(link.Name)),
			El("p", Attrs{"class": "muted"}, Text(link.Description)),
			El("div", Attrs{"class": "actions"},
				El("button", Attrs{"class": "btn primary", "type": "button", "data-url": url}, Text(verb)).On("click", func(Event) {
					ctx.Actions.OpenLink(url)
				}),
			),
		))
	}
	return El("div", Attrs{"class": "grid apps", "style": "margin-top:.75rem"}, items...)
}

func selectNode(options []model.Option, selected string) Node {
	children := make([]Node, 0, len(options))
	for _, o := range options {
		attrs := Attrs{"value": o.Value}
		if o.Value == selected {
			attrs["selected"] = ""
		}
		children = append(children, El("option", attrs, Text(o.Label)))
	}
	return El("select", nil, children...)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
