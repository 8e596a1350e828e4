//go:build js && wasm

// Package wasm binds the UI controller to the browser through syscall/js.
package wasm

import (
	"syscall/js"

	"github.com/Its-donkey/apex/internal/ui/app"
	"github.com/Its-donkey/apex/internal/ui/settings"
	"github.com/Its-donkey/apex/logging"
)

var globalHandlers []js.Func

// RunApp bootstraps the Apex UI and blocks forever.
func RunApp() {
	done := make(chan struct{})
	window := js.Global()
	document := window.Get("document")

	logger := logging.New("apex-ui", logging.INFO, consoleWriter{})

	var storage settings.Storage = settings.NewMemoryStorage()
	if ls, ok := newLocalStorage(); ok {
		storage = ls
	} else {
		logger.Warn("settings", "localStorage unavailable, settings will not persist", nil)
	}

	host := newDOMHost(document, logger)
	controller := app.New(host, settings.New(storage), newUVProxy(logger), logger)

	onHashChange := js.FuncOf(func(js.Value, []js.Value) any {
		controller.Render()
		return nil
	})
	globalHandlers = append(globalHandlers, onHashChange)
	window.Call("addEventListener", "hashchange", onHashChange)

	if trigger := document.Call("getElementById", "open-blank"); trigger.Truthy() {
		onOpenBlank := js.FuncOf(func(js.Value, []js.Value) any {
			controller.OpenBlank()
			return nil
		})
		globalHandlers = append(globalHandlers, onOpenBlank)
		trigger.Call("addEventListener", "click", onOpenBlank)
	}

	controller.Start()
	<-done
}
