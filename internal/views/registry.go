package views

import (
	"fmt"
	"strings"
)

// All returns every entity view in navigation order.
func All() []View {
	return []View{
		Orders(),
		Trips(),
		Incidents(),
		Customers(),
		Trailers(),
		Contracts(),
	}
}

// Names returns the names of all views.
func Names() []string {
	all := All()
	names := make([]string, 0, len(all))
	for _, v := range all {
		names = append(names, v.Name())
	}

	return names
}

// Lookup finds a view by name, ignoring case.
func Lookup(name string) (View, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, v := range All() {
		if v.Name() == name {
			return v, nil
		}
	}

	return nil, fmt.Errorf("unknown view %q (available: %s)", name, strings.Join(Names(), ", "))
}
