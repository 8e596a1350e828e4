// Package view describes the UI as plain data: a tree of nodes carrying
// attributes and event handlers, built from the current settings.
package view

import (
	"html"
	"sort"
	"strings"
)

// Event carries the parts of a DOM event the handlers use.
type Event struct {
	// Value is the event target's value for form controls.
	Value string
	// Key is the keyboard key for key events.
	Key string
}

// Handler reacts to a DOM event.
type Handler func(Event)

// Attrs are element attributes. An empty value renders as a bare boolean attribute.
type Attrs map[string]string

// Node is an element, or a text node when Tag is empty.
type Node struct {
	Tag      string
	Text     string
	Attrs    Attrs
	Handlers map[string]Handler
	Children []Node
}

// El builds an element node.
func El(tag string, attrs Attrs, children ...Node) Node {
	return Node{Tag: tag, Attrs: attrs, Children: children}
}

// Text builds a text node.
func Text(s string) Node {
	return Node{Text: s}
}

// On returns a copy of n with h bound to event.
func (n Node) On(event string, h Handler) Node {
	handlers := make(map[string]Handler, len(n.Handlers)+1)
	for k, v := range n.Handlers {
		handlers[k] = v
	}
	handlers[event] = h
	n.Handlers = handlers
	return n
}

// IsText reports whether n is a text node.
func (n Node) IsText() bool {
	return n.Tag == ""
}

// Attr returns the value of the named attribute.
func (n Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// HasClass reports whether the class attribute lists class.
func (n Node) HasClass(class string) bool {
	for _, c := range strings.Fields(n.Attrs["class"]) {
		if c == class {
			return true
		}
	}
	return false
}

// TextContent concatenates the text of n and its descendants.
func (n Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Walk visits n and its descendants depth first until visit returns false.
func (n Node) Walk(visit func(Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(visit) {
			return false
		}
	}
	return true
}

// Find returns the first node in document order that matches.
func (n Node) Find(match func(Node) bool) (Node, bool) {
	var found Node
	var ok bool
	n.Walk(func(c Node) bool {
		if match(c) {
			found, ok = c, true
			return false
		}
		return true
	})
	return found, ok
}

// FindAll returns every matching node in document order.
func (n Node) FindAll(match func(Node) bool) []Node {
	var out []Node
	n.Walk(func(c Node) bool {
		if match(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Dispatch invokes the handler bound to event, reporting whether one existed.
func (n Node) Dispatch(event string, e Event) bool {
	h, ok := n.Handlers[event]
	if !ok || h == nil {
		return false
	}
	h(e)
	return true
}

var voidElements = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true, "link": true, "meta": true,
}

// HTML renders n as markup. Handlers are not rendered.
func (n Node) HTML() string {
	var b strings.Builder
	n.render(&b)
	return b.String()
}

func (n Node) render(b *strings.Builder) {
	if n.IsText() {
		b.WriteString(html.EscapeString(n.Text))
		return
	}
	b.WriteByte('<')
	b.WriteString(n.Tag)
	for _, name := range n.AttrNames() {
		b.WriteByte(' ')
		b.WriteString(name)
		if v := n.Attrs[name]; v != "" {
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(v))
			b.WriteByte('"')
		}
	}
	b.WriteByte('>')
	if voidElements[n.Tag] {
		return
	}
	for _, c := range n.Children {
		c.render(b)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

// AttrNames returns the attribute names of n in sorted order.
func (n Node) AttrNames() []string {
	names := make([]string, 0, len(n.Attrs))
	for name := range n.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
