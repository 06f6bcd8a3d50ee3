package locate

import (
	"fmt"
	"strings"
)

// TextMatch selects how a Locator's text predicate is evaluated
type TextMatch int

const (
	// MatchOwnText matches against the element's own text nodes, contains(text(), ...)
	MatchOwnText TextMatch = iota
	// MatchExact requires the whitespace-normalised descendant text to equal the value
	MatchExact
)

// Locator describes rendered elements by structural XPath plus an optional text predicate.
// Locators are values; they are re-resolved on every lookup because the page re-renders.
type Locator struct {
	Path  string
	Text  string
	Match TextMatch
}

// XPath locates elements by an XPath expression
func XPath(path string) Locator {
	return Locator{Path: path}
}

// Tag locates elements by tag name anywhere in the document
func Tag(name string) Locator {
	return Locator{Path: "//" + name}
}

// Name locates form controls by their name attribute
func Name(name string) Locator {
	return Locator{Path: fmt.Sprintf("//*[@name=%s]", Literal(name))}
}

// Containing narrows the locator to elements whose own text contains s
func (l Locator) Containing(s string) Locator {
	l.Text = s
	l.Match = MatchOwnText
	return l
}

// Exactly narrows the locator to elements whose normalised text equals s
func (l Locator) Exactly(s string) Locator {
	l.Text = s
	l.Match = MatchExact
	return l
}

// Relative rewrites an absolute path so it resolves below a parent element.
// A grouped path such as (//tr)[1] is rewritten inside its parentheses.
// Only the first branch of a union is rewritten.
func (l Locator) Relative() Locator {
	group := len(l.Path) - len(strings.TrimLeft(l.Path, "("))
	if strings.HasPrefix(l.Path[group:], "/") {
		l.Path = l.Path[:group] + "." + l.Path[group:]
	}
	return l
}

// XPath renders the full expression including the text predicate
func (l Locator) XPath() string {
	if l.Text == "" {
		return l.Path
	}

	lit := Literal(l.Text)
	switch l.Match {
	case MatchExact:
		return fmt.Sprintf("%s[normalize-space(.)=%s]", l.Path, lit)
	default:
		return fmt.Sprintf("%s[contains(text(), %s)]", l.Path, lit)
	}
}

func (l Locator) String() string {
	return l.XPath()
}

// Literal quotes s as an XPath 1.0 string literal.
// XPath has no escape syntax, so values holding both quote kinds are built with concat().
func Literal(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
