package locate

import (
	"fmt"
	"strings"
)

// Present holds once at least one element matches loc
func Present(loc Locator) Condition[Element] {
	return Condition[Element]{
		Description: "presence of " + loc.String(),
		Check: func(p Page) (Element, bool, error) {
			els, err := p.QueryAll(loc)
			if err != nil || len(els) == 0 {
				return nil, false, err
			}
			return els[0], true, nil
		},
	}
}

// Clickable holds once a matching element is visible and enabled
func Clickable(loc Locator) Condition[Element] {
	return Condition[Element]{
		Description: "clickable " + loc.String(),
		Check: func(p Page) (Element, bool, error) {
			els, err := p.QueryAll(loc)
			if err != nil {
				return nil, false, err
			}
			for _, el := range els {
				if ok, err := clickable(el); err != nil {
					return nil, false, err
				} else if ok {
					return el, true, nil
				}
			}
			return nil, false, nil
		},
	}
}

func clickable(el Element) (bool, error) {
	visible, err := el.Visible()
	if err != nil || !visible {
		return false, err
	}
	return el.Enabled()
}

// Absent holds once nothing matches loc
func Absent(loc Locator) Condition[struct{}] {
	return Condition[struct{}]{
		Description: "absence of " + loc.String(),
		Check: func(p Page) (struct{}, bool, error) {
			els, err := p.QueryAll(loc)
			if err != nil {
				return struct{}{}, false, err
			}
			return struct{}{}, len(els) == 0, nil
		},
	}
}

// URLEquals holds once the page URL is exactly url
func URLEquals(url string) Condition[string] {
	return Condition[string]{
		Description: fmt.Sprintf("url to be %q", url),
		Check: func(p Page) (string, bool, error) {
			current := p.URL()
			return current, current == url, nil
		},
	}
}

// URLContains holds once the page URL contains fragment
func URLContains(fragment string) Condition[string] {
	return Condition[string]{
		Description: fmt.Sprintf("url to contain %q", fragment),
		Check: func(p Page) (string, bool, error) {
			current := p.URL()
			return current, strings.Contains(current, fragment), nil
		},
	}
}

// AlertPresent holds once a native dialog is pending
func AlertPresent() Condition[Dialog] {
	return Condition[Dialog]{
		Description: "alert to be present",
		Check: func(p Page) (Dialog, bool, error) {
			d, ok := p.PendingDialog()
			return d, ok, nil
		},
	}
}
