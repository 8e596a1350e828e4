// Package destination turns user input into proxied destination URLs.
package destination

import (
	"strings"

	"github.com/Its-donkey/apex/internal/ui/catalog"
	"github.com/Its-donkey/apex/internal/ui/model"
)

// Proxy is the contract of the external proxy library: requests for a
// destination are served at Prefix() + EncodeURL(destination).
type Proxy interface {
	Prefix() string
	EncodeURL(destination string) string
}

// Normalize trims surrounding whitespace from raw input. An empty result
// means the input must be ignored.
func Normalize(raw string) string {
	return strings.TrimSpace(raw)
}

// Resolve maps input to a fully qualified URL. Input that already carries an
// http or https scheme is used as is, input containing a dot is treated as a
// host and gets https, anything else becomes a query for engine.
func Resolve(input string, engine model.EngineKey) string {
	if hasHTTPScheme(input) {
		return input
	}
	if strings.Contains(input, ".") {
		return "https://" + input
	}
	return catalog.EngineOrDefault(engine).QueryURL(input)
}

// Proxied returns the path the proxy serves destination under.
func Proxied(p Proxy, destination string) string {
	return p.Prefix() + p.EncodeURL(destination)
}

func hasHTTPScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
