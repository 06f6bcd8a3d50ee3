package locatetest

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/adyen/storefront-e2e/internal/locate"
)

// Element is a node of a Site's current document
type Element struct {
	site *Site
	node *html.Node
}

// Click runs the site's handlers registered for this element
func (e *Element) Click() error {
	e.site.mu.Lock()
	if err := e.usable(); err != nil {
		e.site.mu.Unlock()
		return err
	}
	if !visible(e.node) {
		e.site.mu.Unlock()
		return ErrHidden
	}
	if hasAttr(e.node, "disabled") {
		e.site.mu.Unlock()
		return ErrDisabled
	}
	handlers := e.site.handlersFor(e.node)
	e.site.mu.Unlock()

	for _, h := range handlers {
		h.fn(e.site, e)
	}
	return nil
}

// Fill sets the value attribute
func (e *Element) Fill(value string) error {
	e.site.mu.Lock()
	defer e.site.mu.Unlock()
	if err := e.usable(); err != nil {
		return err
	}
	setAttr(e.node, "value", value)
	return nil
}

// Clear empties the value attribute
func (e *Element) Clear() error {
	return e.Fill("")
}

// Text returns the node's text content
func (e *Element) Text() (string, error) {
	e.site.mu.Lock()
	defer e.site.mu.Unlock()
	if err := e.usable(); err != nil {
		return "", err
	}
	return htmlquery.InnerText(e.node), nil
}

// Visible is false when the node or an ancestor is hidden
func (e *Element) Visible() (bool, error) {
	e.site.mu.Lock()
	defer e.site.mu.Unlock()
	if err := e.usable(); err != nil {
		return false, err
	}
	return visible(e.node), nil
}

// Enabled is false when the node carries a disabled attribute
func (e *Element) Enabled() (bool, error) {
	e.site.mu.Lock()
	defer e.site.mu.Unlock()
	if err := e.usable(); err != nil {
		return false, err
	}
	return !hasAttr(e.node, "disabled"), nil
}

// QueryAll resolves loc below this element
func (e *Element) QueryAll(loc locate.Locator) ([]locate.Element, error) {
	e.site.mu.Lock()
	defer e.site.mu.Unlock()
	if err := e.usable(); err != nil {
		return nil, err
	}
	return e.site.query(e.node, loc.Relative().XPath())
}

// Attr returns an attribute of the node
func (e *Element) Attr(name string) string {
	e.site.mu.Lock()
	defer e.site.mu.Unlock()
	return htmlquery.SelectAttr(e.node, name)
}

func (e *Element) usable() error {
	if e.site.closed {
		return locate.ErrPageClosed
	}
	if !e.site.attached(e.node) {
		return ErrDetached
	}
	return nil
}

func visible(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if hasAttr(p, "hidden") {
			return false
		}
		style := strings.ReplaceAll(htmlquery.SelectAttr(p, "style"), " ", "")
		if strings.Contains(style, "display:none") {
			return false
		}
	}
	return true
}

func hasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, name, value string) {
	for i, a := range n.Attr {
		if a.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}
