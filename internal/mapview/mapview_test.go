package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/propnest/internal/listing"
)

func view(id string, lat, lng float64, images ...string) listing.View {
	loc := listing.DefaultLocation()
	loc.City = "Mumbai"
	loc.Lat, loc.Lng = lat, lng
	return listing.View{
		ID: id, Title: "Listing " + id, Price: 9500000, Type: listing.TypeRentalHouse,
		Images: images, Location: loc, HasCoordinates: loc.HasCoordinates(),
	}
}

func TestRenderSkipsUnsetCoordinates(t *testing.T) {
	r := Renderer{Origin: "http://localhost:5000", Placeholder: "/placeholder.png"}
	views := []listing.View{
		view("a", 19.076, 72.8777, "/uploads/a.png"),
		view("unset", 0, 0),
		view("equator", 0, 72.5),
		view("b", 18.52, 73.85, "https://cdn.example.com/b.jpg"),
	}

	markers := r.Render(views, true)
	require.Len(t, markers, 3)
	for _, m := range markers {
		assert.NotEqual(t, "unset", m.ID)
	}
	assert.Equal(t, "a", markers[0].ID)
	assert.Equal(t, "equator", markers[1].ID)
	assert.Equal(t, "b", markers[2].ID)

	assert.Equal(t, "http://localhost:5000/uploads/a.png", markers[0].ImageURL)
	assert.Equal(t, "/placeholder.png", markers[1].ImageURL)
	assert.Equal(t, "https://cdn.example.com/b.jpg", markers[2].ImageURL)

	assert.Equal(t, "₹9,500,000", markers[0].PriceLabel)
	assert.Equal(t, "Rental House", markers[0].TypeLabel)
	assert.Equal(t, "Mumbai", markers[0].Address)
	assert.Equal(t, ActionViewDetails, markers[0].ActionLabel)
	assert.Len(t, markers[0].Geohash, DefaultPrecision)
}

func TestRenderNeverPlotsSentinel(t *testing.T) {
	r := Renderer{}
	views := make([]listing.View, 0, 10)
	for i := 0; i < 10; i++ {
		views = append(views, view(string(rune('a'+i)), 0, 0))
	}
	assert.Empty(t, r.Render(views, true))
	assert.Empty(t, r.Render(views, false))
}

func TestRenderActionForGuests(t *testing.T) {
	markers := Renderer{}.Render([]listing.View{view("a", 19.0, 72.8)}, false)
	require.Len(t, markers, 1)
	assert.Equal(t, ActionLoginToContact, markers[0].ActionLabel)
}

func TestActivateGatesOnAuth(t *testing.T) {
	r := Renderer{}
	m := Marker{ID: "a"}

	var selected string
	var prompted int
	onSelect := func(id string) { selected = id }
	onAuth := func() { prompted++ }

	r.Activate(m, false, onSelect, onAuth)
	assert.Empty(t, selected)
	assert.Equal(t, 1, prompted)

	r.Activate(m, true, onSelect, onAuth)
	assert.Equal(t, "a", selected)
	assert.Equal(t, 1, prompted)
}

func TestClusterMarkers(t *testing.T) {
	r := Renderer{}
	markers := r.Render([]listing.View{
		view("bandra", 19.0596, 72.8295),
		view("pune", 18.5204, 73.8567),
		view("juhu", 19.1075, 72.8263),
	}, true)

	clusters := ClusterMarkers(markers, 3)
	require.Len(t, clusters, 2)
	assert.Equal(t, []string{"bandra", "juhu"}, []string{clusters[0].Markers[0].ID, clusters[0].Markers[1].ID})
	assert.Equal(t, "pune", clusters[1].Markers[0].ID)
	assert.Len(t, clusters[0].Geohash, 3)

	assert.Len(t, ClusterMarkers(markers, 0), 3)
	assert.Empty(t, ClusterMarkers(nil, 4))
}

func TestFit(t *testing.T) {
	empty := Fit(nil)
	assert.Equal(t, DefaultCenterLat, empty.CenterLat)
	assert.Equal(t, DefaultCenterLng, empty.CenterLng)
	assert.Equal(t, DefaultZoom, empty.Zoom)

	single := Fit([]Marker{{Lat: 19.076, Lng: 72.8777}})
	assert.InDelta(t, 19.076, single.CenterLat, 1e-9)
	assert.InDelta(t, 0, single.RadiusKm, 1e-6)
	assert.Equal(t, 15, single.Zoom)

	// Mumbai to Pune is ~120 km, so each is ~60 km from the midpoint
	pair := Fit([]Marker{{Lat: 19.076, Lng: 72.8777}, {Lat: 18.5204, Lng: 73.8567}})
	assert.InDelta(t, 60, pair.RadiusKm, 5)
	assert.Equal(t, 9, pair.Zoom)
}
