// Package locatetest provides an in-memory locate.Page for tests.
//
// A Site serves HTML per path and evaluates locators as real XPath over the
// parsed document, so tests exercise the exact expressions a browser would
// receive. Click handlers let a test script how the page reacts.
package locatetest

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/adyen/storefront-e2e/internal/locate"
)

var (
	ErrDetached = errors.New("element is not attached to the document")
	ErrDisabled = errors.New("element is disabled")
	ErrHidden   = errors.New("element is not visible")
)

type clickHandler struct {
	loc locate.Locator
	fn  func(s *Site, el *Element)
}

// Site is a scripted single-tab browser
type Site struct {
	mu      sync.Mutex
	baseURL string
	url     string
	path    string
	doc     *html.Node
	routes  map[string]func() string
	clicks  []clickHandler
	pending []*Dialog
	closed  bool

	visits   []string
	accepted []string
}

// NewSite creates a site rooted at baseURL showing about:blank
func NewSite(baseURL string) *Site {
	s := &Site{
		baseURL: strings.TrimRight(baseURL, "/"),
		url:     "about:blank",
		routes:  make(map[string]func() string),
	}
	s.doc = mustParse("<html><body></body></html>")
	return s
}

// Route serves render's output at path; render is called on every visit and Render
func (s *Site) Route(path string, render func() string) *Site {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[path] = render
	return s
}

// Static serves fixed markup at path
func (s *Site) Static(path, markup string) *Site {
	return s.Route(path, func() string { return markup })
}

// OnClick runs fn whenever an element matching loc is clicked
func (s *Site) OnClick(loc locate.Locator, fn func(s *Site, el *Element)) *Site {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clicks = append(s.clicks, clickHandler{loc: loc, fn: fn})
	return s
}

// Goto moves the tab to path as a client-side router would
func (s *Site) Goto(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.show(path)
}

// Render re-renders the current path
func (s *Site) Render() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.show(s.path)
}

// After runs fn once d has elapsed, for asynchronous re-renders
func (s *Site) After(d time.Duration, fn func(*Site)) {
	time.AfterFunc(d, func() { fn(s) })
}

// Raise opens a native dialog
func (s *Site) Raise(kind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, &Dialog{site: s, kind: kind, message: message})
}

// Close makes every later call fail with locate.ErrPageClosed
func (s *Site) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Visits lists every URL passed to Navigate
func (s *Site) Visits() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.visits...)
}

// Accepted lists the messages of dialogs accepted so far
func (s *Site) Accepted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.accepted...)
}

// Value returns the value attribute of the first element matching loc
func (s *Site) Value(loc locate.Locator) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := htmlquery.Query(s.doc, loc.XPath())
	if err != nil || n == nil {
		return ""
	}
	return htmlquery.SelectAttr(n, "value")
}

// Values returns the value attributes of every element matching loc
func (s *Site) Values(loc locate.Locator) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	nodes, err := htmlquery.QueryAll(s.doc, loc.XPath())
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, htmlquery.SelectAttr(n, "value"))
	}
	return out
}

// Navigate implements locate.Page
func (s *Site) Navigate(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return locate.ErrPageClosed
	}
	s.visits = append(s.visits, url)

	path, ok := strings.CutPrefix(url, s.baseURL)
	if !ok {
		return fmt.Errorf("navigate %s: outside of %s", url, s.baseURL)
	}
	if path == "" {
		path = "/"
	}
	s.show(path)
	return nil
}

// URL implements locate.Page
func (s *Site) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// QueryAll implements locate.Page
func (s *Site) QueryAll(loc locate.Locator) ([]locate.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, locate.ErrPageClosed
	}
	return s.query(s.doc, loc.XPath())
}

// PendingDialog implements locate.Page
func (s *Site) PendingDialog() (locate.Dialog, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil, false
	}
	return s.pending[0], true
}

func (s *Site) show(path string) {
	s.path = path
	s.url = s.baseURL + path
	render, ok := s.routes[path]
	if !ok {
		s.doc = mustParse("<html><body><h1>404 Not Found</h1></body></html>")
		return
	}
	s.doc = mustParse(render())
}

func (s *Site) query(top *html.Node, expr string) ([]locate.Element, error) {
	nodes, err := htmlquery.QueryAll(top, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath %q: %w", expr, err)
	}
	els := make([]locate.Element, 0, len(nodes))
	for _, n := range nodes {
		els = append(els, &Element{site: s, node: n})
	}
	return els, nil
}

// attached reports whether n still belongs to the current document
func (s *Site) attached(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == s.doc {
			return true
		}
	}
	return false
}

func (s *Site) handlersFor(n *html.Node) []clickHandler {
	var out []clickHandler
	for _, h := range s.clicks {
		nodes, err := htmlquery.QueryAll(s.doc, h.loc.XPath())
		if err != nil {
			continue
		}
		for _, m := range nodes {
			if m == n {
				out = append(out, h)
				break
			}
		}
	}
	return out
}

func mustParse(markup string) *html.Node {
	doc, err := htmlquery.Parse(strings.NewReader(markup))
	if err != nil {
		panic(fmt.Sprintf("locatetest: parse html: %v", err))
	}
	return doc
}
