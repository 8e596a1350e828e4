//go:build js && wasm

package wasm

import (
	"syscall/js"

	"github.com/Its-donkey/apex/internal/ui/model"
	"github.com/Its-donkey/apex/internal/ui/view"
	"github.com/Its-donkey/apex/logging"
)

// ContentRootID is the element the active view is mounted into.
const ContentRootID = "app"

// domHost implements app.Host on the live document.
type domHost struct {
	window   js.Value
	document js.Value
	logger   *logging.Logger
	// handlers bound by the mounted view, released when it is replaced
	handlers []js.Func
}

func newDOMHost(document js.Value, logger *logging.Logger) *domHost {
	return &domHost{window: js.Global(), document: document, logger: logger}
}

func (h *domHost) Fragment() string {
	return h.window.Get("location").Get("hash").String()
}

func (h *domHost) SetFragment(fragment string) {
	h.window.Get("location").Set("hash", fragment)
}

func (h *domHost) SetTheme(theme model.Theme) {
	body := h.document.Get("body")
	if body.Truthy() {
		body.Call("setAttribute", "data-theme", string(theme))
	}
}

func (h *domHost) Mount(tree view.Node) {
	root := h.document.Call("getElementById", ContentRootID)
	if !root.Truthy() {
		h.logger.Error("router", "content root missing", nil, map[string]any{"id": ContentRootID})
		return
	}
	h.releaseHandlers()
	root.Set("innerHTML", "")
	root.Call("appendChild", h.build(tree))

	// autofocus is only honoured on page load
	if focus := root.Call("querySelector", "[autofocus]"); focus.Truthy() {
		focus.Call("focus")
	}
}

func (h *domHost) SetNavActive(id string, active bool) {
	link := h.document.Call("getElementById", id)
	if !link.Truthy() {
		return
	}
	link.Get("classList").Call("toggle", "active", active)
}

func (h *domHost) SetViewerSource(src string) bool {
	viewer := h.document.Call("querySelector", "iframe."+view.ViewerClass)
	if !viewer.Truthy() {
		return false
	}
	viewer.Set("src", src)
	return true
}

func (h *domHost) OpenWindow(document string) bool {
	w := h.window.Call("open", "about:blank", "_blank")
	if !w.Truthy() {
		return false
	}
	doc := w.Get("document")
	doc.Call("write", document)
	doc.Call("close")
	return true
}

func (h *domHost) Prompt(message string) (string, bool) {
	answer := h.window.Call("prompt", message)
	if answer.Type() != js.TypeString {
		return "", false
	}
	return answer.String(), true
}

func (h *domHost) build(n view.Node) js.Value {
	if n.IsText() {
		return h.document.Call("createTextNode", n.Text)
	}
	el := h.document.Call("createElement", n.Tag)
	for _, name := range n.AttrNames() {
		el.Call("setAttribute", name, n.Attrs[name])
	}
	for event, handler := range n.Handlers {
		handler := handler
		fn := js.FuncOf(func(this js.Value, args []js.Value) any {
			handler(eventFromJS(args))
			return nil
		})
		h.handlers = append(h.handlers, fn)
		el.Call("addEventListener", event, fn)
	}
	for _, child := range n.Children {
		el.Call("appendChild", h.build(child))
	}
	return el
}

func (h *domHost) releaseHandlers() {
	for _, fn := range h.handlers {
		fn.Release()
	}
	h.handlers = nil
}

func eventFromJS(args []js.Value) view.Event {
	var e view.Event
	if len(args) == 0 {
		return e
	}
	ev := args[0]
	if key := ev.Get("key"); key.Type() == js.TypeString {
		e.Key = key.String()
	}
	if target := ev.Get("target"); target.Truthy() {
		if value := target.Get("value"); value.Type() == js.TypeString {
			e.Value = value.String()
		}
	}
	return e
}
