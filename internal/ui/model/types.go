package model

// Theme names a colour scheme applied through the body data-theme attribute.
type Theme string

// Supported themes.
const (
	ThemeApex     Theme = "apex"
	ThemeMidnight Theme = "midnight"
	ThemeForest   Theme = "forest"
	ThemeViolet   Theme = "violet"
)

// EngineKey identifies a search engine in the engine catalog.
type EngineKey string

// Supported search engines.
const (
	EngineGoogle EngineKey = "google"
	EngineBing   EngineKey = "bing"
	EngineDDG    EngineKey = "ddg"
)

// Settings is the per-device preference record persisted by the UI.
type Settings struct {
	Theme   Theme     `json:"theme"`
	Engine  EngineKey `json:"engine"`
	Cloaker bool      `json:"cloaker"`
}

// DefaultSettings returns the record used on first load and after a reset.
func DefaultSettings() Settings {
	return Settings{
		Theme:   ThemeApex,
		Engine:  EngineGoogle,
		Cloaker: true,
	}
}

// Link is a catalog entry that opens a destination through the proxy.
type Link struct {
	Name        string
	Description string
	URL         string
}

// Option is a value/label pair rendered into a select element.
type Option struct {
	Value string
	Label string
}
