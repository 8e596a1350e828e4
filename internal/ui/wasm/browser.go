//go:build js && wasm

package wasm

import (
	"bytes"
	"errors"
	"strings"
	"syscall/js"

	"github.com/Its-donkey/apex/logging"
)

// localStorage adapts window.localStorage to settings.Storage.
type localStorage struct {
	storage js.Value
}

func newLocalStorage() (*localStorage, bool) {
	storage := js.Global().Get("localStorage")
	if !storage.Truthy() {
		return nil, false
	}
	return &localStorage{storage: storage}, true
}

func (s *localStorage) GetItem(key string) (string, bool) {
	value := s.storage.Call("getItem", key)
	if value.Type() != js.TypeString {
		return "", false
	}
	return value.String(), true
}

func (s *localStorage) SetItem(key, value string) (err error) {
	// setItem throws when storage is full or disabled
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = jsErr
				return
			}
			err = errors.New("localStorage.setItem failed")
		}
	}()
	s.storage.Call("setItem", key, value)
	return nil
}

// uvConfigGlobal is the global the proxy library publishes its config under.
const uvConfigGlobal = "__uv$config"

// uvProxy forwards to the proxy library's prefix and encodeUrl. The config
// is looked up on every call because the library script may load after us.
type uvProxy struct {
	logger *logging.Logger
	warned bool
}

func newUVProxy(logger *logging.Logger) *uvProxy {
	return &uvProxy{logger: logger}
}

func (p *uvProxy) config() (js.Value, bool) {
	cfg := js.Global().Get(uvConfigGlobal)
	if cfg.Truthy() {
		return cfg, true
	}
	if !p.warned {
		p.warned = true
		p.logger.Warn("open", "proxy config missing, opening destinations directly", map[string]any{"global": uvConfigGlobal})
	}
	return js.Value{}, false
}

func (p *uvProxy) Prefix() string {
	cfg, ok := p.config()
	if !ok {
		return ""
	}
	return cfg.Get("prefix").String()
}

func (p *uvProxy) EncodeURL(destination string) string {
	cfg, ok := p.config()
	if !ok {
		return destination
	}
	return cfg.Call("encodeUrl", destination).String()
}

// consoleWriter routes JSON log lines to the matching console method.
type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	console := js.Global().Get("console")
	if !console.Truthy() {
		return len(p), nil
	}
	method := "log"
	switch {
	case bytes.Contains(p, []byte(`"level":"ERROR"`)):
		method = "error"
	case bytes.Contains(p, []byte(`"level":"WARN"`)):
		method = "warn"
	case bytes.Contains(p, []byte(`"level":"DEBUG"`)):
		method = "debug"
	}
	console.Call(method, strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
