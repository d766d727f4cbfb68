// Package browse holds the client-side listing filter and view state.
package browse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sudo-init-do/propnest/internal/listing"
)

// Any is the UI value meaning "no constraint" for type and bedrooms.
const Any = "all"

// Filter narrows the fetched listings. Nil bounds and an empty Type match everything.
type Filter struct {
	Type     listing.Type
	MinPrice *float64
	MaxPrice *float64
	Bedrooms *int
}

// ParseFilter builds a Filter from raw form values. "" and "all" leave a
// field unconstrained.
func ParseFilter(typ, minPrice, maxPrice, bedrooms string) (Filter, error) {
	var f Filter

	typ = strings.TrimSpace(typ)
	if typ != "" && typ != Any {
		t := listing.Type(typ)
		if !t.Valid() {
			return Filter{}, fmt.Errorf("unknown property type %q", typ)
		}
		f.Type = t
	}

	var err error
	if f.MinPrice, err = parseBound("minPrice", minPrice); err != nil {
		return Filter{}, err
	}
	if f.MaxPrice, err = parseBound("maxPrice", maxPrice); err != nil {
		return Filter{}, err
	}

	bedrooms = strings.TrimSpace(bedrooms)
	if bedrooms != "" && bedrooms != Any {
		n, err := strconv.Atoi(bedrooms)
		if err != nil || n < 0 {
			return Filter{}, fmt.Errorf("bedrooms must be a whole number or %q", Any)
		}
		f.Bedrooms = &n
	}
	return f, nil
}

func parseBound(name, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &v, nil
}

// Matches reports whether v passes every constraint of f.
func (f Filter) Matches(v listing.View) bool {
	if f.Type != "" && v.Type != f.Type {
		return false
	}
	if f.MinPrice != nil && v.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && v.Price > *f.MaxPrice {
		return false
	}
	if f.Bedrooms != nil && v.Bedrooms != *f.Bedrooms {
		return false
	}
	return true
}

// Derive returns the listings that pass f, in their original order.
// It never modifies views.
func Derive(f Filter, views []listing.View) []listing.View {
	out := make([]listing.View, 0, len(views))
	for _, v := range views {
		if f.Matches(v) {
			out = append(out, v)
		}
	}
	return out
}
