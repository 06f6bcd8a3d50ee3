package scenario

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownScenario is returned by Select for a name that matches nothing
var ErrUnknownScenario = errors.New("unknown scenario")

// All returns the catalogue in numeric order
func All() []Scenario {
	return []Scenario{
		registration(),
		loginLogout(),
		shoppingCart(),
		checkout(),
		userProfile(),
		adminDashboard(),
		adminProductCRUD(),
		adminOrders(),
	}
}

// Select resolves names to scenarios. A name is a full name (03-shopping-cart),
// a number (03 or 3) or a slug (shopping-cart). No names selects everything.
func Select(names []string) ([]Scenario, error) {
	all := All()
	if len(names) == 0 {
		return all, nil
	}

	picked := make(map[int]Scenario)
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		s, ok := lookup(all, name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, raw)
		}
		picked[s.Number] = s
	}

	out := make([]Scenario, 0, len(picked))
	for _, s := range picked {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func lookup(all []Scenario, name string) (Scenario, bool) {
	n, numErr := strconv.Atoi(name)
	for _, s := range all {
		switch {
		case s.Name() == name, s.Slug == name:
			return s, true
		case numErr == nil && s.Number == n:
			return s, true
		}
	}
	return Scenario{}, false
}
