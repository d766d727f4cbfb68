package browse

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sudo-init-do/propnest/internal/listing"
	"github.com/sudo-init-do/propnest/internal/logging"
	"github.com/sudo-init-do/propnest/internal/mapview"
	"github.com/sudo-init-do/propnest/internal/upload"
)

// ViewMode picks which renderer consumes the filtered listings.
type ViewMode string

const (
	ModeGrid ViewMode = "grid"
	ModeMap  ViewMode = "map"
)

// ErrSuperseded is returned by a Refresh whose response arrived after a newer
// Refresh was issued. Its result is dropped.
var ErrSuperseded = errors.New("refresh superseded by a newer one")

// Fetcher loads the listing views.
type Fetcher interface {
	FetchProperties(ctx context.Context) ([]listing.View, error)
}

// Card is one grid tile.
type Card struct {
	ID         string
	Title      string
	PriceLabel string
	TypeLabel  string
	Address    string
	Rooms      string
	ImageURL   string
	Owner      string
}

// Rendering is what the active view mode produced.
type Rendering struct {
	Mode     ViewMode
	Cards    []Card
	Markers  []mapview.Marker
	Viewport mapview.Viewport
}

// Controller owns the fetched listings, the filter and the view mode.
type Controller struct {
	fetch Fetcher
	maps  mapview.Renderer

	mu       sync.Mutex
	gen      uint64
	listings []listing.View
	filter   Filter
	mode     ViewMode
}

func NewController(fetch Fetcher, maps mapview.Renderer) *Controller {
	return &Controller{fetch: fetch, maps: maps, mode: ModeGrid}
}

// Refresh reloads the listings. When refreshes overlap, only the most recently
// issued one may update state; earlier ones return ErrSuperseded.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	views, err := c.fetch.FetchProperties(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		logging.FromContext(ctx).Debug("dropping stale listings response", "generation", gen, "current", c.gen)
		return ErrSuperseded
	}
	if err != nil {
		return err
	}
	c.listings = views
	return nil
}

func (c *Controller) SetFilter(f Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
}

func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// SetViewMode switches renderers without refetching.
func (c *Controller) SetViewMode(m ViewMode) error {
	if m != ModeGrid && m != ModeMap {
		return fmt.Errorf("unknown view mode %q", m)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = m
	return nil
}

func (c *Controller) ViewMode() ViewMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Visible is the filtered listing set in fetch order.
func (c *Controller) Visible() []listing.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Derive(c.filter, c.listings)
}

// Render feeds the visible listings to the renderer of the current mode.
func (c *Controller) Render(authenticated bool) Rendering {
	visible := c.Visible()
	mode := c.ViewMode()

	out := Rendering{Mode: mode}
	switch mode {
	case ModeMap:
		out.Markers = c.maps.Render(visible, authenticated)
		out.Viewport = mapview.Fit(out.Markers)
	default:
		out.Cards = make([]Card, 0, len(visible))
		for _, v := range visible {
			out.Cards = append(out.Cards, c.card(v))
		}
	}
	return out
}

func (c *Controller) card(v listing.View) Card {
	return Card{
		ID:         v.ID,
		Title:      v.Title,
		PriceLabel: listing.PriceLabel(v.Price),
		TypeLabel:  listing.TypeLabel(v.Type),
		Address:    listing.AddressLine(v.Location),
		Rooms:      fmt.Sprintf("%d bd · %d ba · %.0f sqft", v.Bedrooms, v.Bathrooms, v.Sqft),
		ImageURL:   upload.FirstImageURL(c.maps.Origin, v.Images, c.maps.Placeholder),
		Owner:      v.OwnerName,
	}
}
