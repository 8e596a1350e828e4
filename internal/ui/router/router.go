// Package router maps location fragments to views.
package router

import (
	"strings"

	"github.com/samber/lo"

	"github.com/Its-donkey/apex/internal/ui/view"
)

// Route names a top-level view.
type Route string

// Routes in navigation order.
const (
	Home     Route = "home"
	Games    Route = "games"
	Apps     Route = "apps"
	Settings Route = "settings"
)

// HomeFragment is the fragment of the default view.
const HomeFragment = "#/"

// NavLink is a fixed navigation anchor in the document shell.
type NavLink struct {
	ID    string
	Href  string
	Route Route
}

var navLinks = []NavLink{
	{ID: "nav-home", Href: HomeFragment, Route: Home},
	{ID: "nav-games", Href: "#/games", Route: Games},
	{ID: "nav-apps", Href: "#/apps", Route: Apps},
	{ID: "nav-settings", Href: "#/settings", Route: Settings},
}

var builders = map[Route]view.Builder{
	Home:     view.Home,
	Games:    view.Games,
	Apps:     view.Apps,
	Settings: view.Settings,
}

// NavLinks returns the navigation anchors in order.
func NavLinks() []NavLink {
	return append([]NavLink(nil), navLinks...)
}

// Normalize returns fragment, or the home fragment when it is empty.
func Normalize(fragment string) string {
	if fragment == "" {
		return HomeFragment
	}
	return fragment
}

// Match returns the route whose fragment prefixes fragment; anything
// unrecognised is home.
func Match(fragment string) Route {
	fragment = Normalize(fragment)
	link, ok := lo.Find(navLinks[1:], func(l NavLink) bool {
		return strings.HasPrefix(fragment, l.Href)
	})
	if !ok {
		return Home
	}
	return link.Route
}

// Builder returns the view builder for route.
func Builder(route Route) view.Builder {
	if b, ok := builders[route]; ok {
		return b
	}
	return view.Home
}

// ActiveLinks reports, per link ID, whether the link's href equals fragment.
func ActiveLinks(fragment string) map[string]bool {
	fragment = Normalize(fragment)
	return lo.SliceToMap(navLinks, func(l NavLink) (string, bool) {
		return l.ID, l.Href == fragment
	})
}
