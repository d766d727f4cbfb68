// Package mapview turns listing views into map markers.
package mapview

import (
	"github.com/mmcloughlin/geohash"

	"github.com/sudo-init-do/propnest/internal/listing"
	"github.com/sudo-init-do/propnest/internal/upload"
)

// Marker action labels.
const (
	ActionViewDetails    = "View Details"
	ActionLoginToContact = "Login to Contact"
)

// DefaultPrecision is the geohash length stored on each marker.
const DefaultPrecision = 9

// Marker is one plotted listing.
type Marker struct {
	ID          string  `json:"id"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Geohash     string  `json:"geohash"`
	Title       string  `json:"title"`
	PriceLabel  string  `json:"priceLabel"`
	TypeLabel   string  `json:"typeLabel"`
	Address     string  `json:"address"`
	ImageURL    string  `json:"imageUrl"`
	ActionLabel string  `json:"actionLabel"`
}

// Renderer builds markers. Origin is the API origin server-relative image paths
// are resolved against.
type Renderer struct {
	Origin      string
	Placeholder string
}

// Render emits a marker per listing that has coordinates, in input order.
// Listings at the 0,0 unset sentinel are never plotted.
func (r Renderer) Render(views []listing.View, authenticated bool) []Marker {
	action := ActionLoginToContact
	if authenticated {
		action = ActionViewDetails
	}

	markers := make([]Marker, 0, len(views))
	for _, v := range views {
		if !v.Location.HasCoordinates() {
			continue
		}
		markers = append(markers, Marker{
			ID:          v.ID,
			Lat:         v.Location.Lat,
			Lng:         v.Location.Lng,
			Geohash:     geohash.EncodeWithPrecision(v.Location.Lat, v.Location.Lng, DefaultPrecision),
			Title:       v.Title,
			PriceLabel:  listing.PriceLabel(v.Price),
			TypeLabel:   listing.TypeLabel(v.Type),
			Address:     listing.AddressLine(v.Location),
			ImageURL:    upload.FirstImageURL(r.Origin, v.Images, r.Placeholder),
			ActionLabel: action,
		})
	}
	return markers
}

// Activate handles a click on m. Unauthenticated viewers get onAuthRequired and
// never reach the listing detail.
func (r Renderer) Activate(m Marker, authenticated bool, onSelect func(id string), onAuthRequired func()) {
	if !authenticated {
		if onAuthRequired != nil {
			onAuthRequired()
		}
		return
	}
	if onSelect != nil {
		onSelect(m.ID)
	}
}
