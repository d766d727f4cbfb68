package mapview

import (
	"math"

	"github.com/mmcloughlin/geohash"
	"github.com/umahmood/haversine"
)

// Default map centre (India) used when nothing is plotted.
const (
	DefaultCenterLat = 20.5937
	DefaultCenterLng = 78.9629
	DefaultZoom      = 5
)

// Cluster groups markers that share a geohash prefix.
type Cluster struct {
	Geohash string   `json:"geohash"`
	Lat     float64  `json:"lat"`
	Lng     float64  `json:"lng"`
	Markers []Marker `json:"markers"`
}

// ClusterMarkers buckets markers by the first precision characters of their
// geohash. Clusters appear in the order their first marker does.
func ClusterMarkers(markers []Marker, precision uint) []Cluster {
	if precision == 0 || precision > DefaultPrecision {
		precision = DefaultPrecision
	}
	index := make(map[string]int)
	clusters := make([]Cluster, 0)
	for _, m := range markers {
		key := m.Geohash
		if uint(len(key)) > precision {
			key = key[:precision]
		}
		i, ok := index[key]
		if !ok {
			lat, lng := geohash.DecodeCenter(key)
			i = len(clusters)
			index[key] = i
			clusters = append(clusters, Cluster{Geohash: key, Lat: lat, Lng: lng})
		}
		clusters[i].Markers = append(clusters[i].Markers, m)
	}
	return clusters
}

// Viewport is the area a map should show.
type Viewport struct {
	CenterLat float64 `json:"centerLat"`
	CenterLng float64 `json:"centerLng"`
	// RadiusKm is the distance from the centre to the farthest marker.
	RadiusKm float64 `json:"radiusKm"`
	Zoom     int     `json:"zoom"`
}

// Fit centres the viewport on the markers' mean position.
func Fit(markers []Marker) Viewport {
	if len(markers) == 0 {
		return Viewport{CenterLat: DefaultCenterLat, CenterLng: DefaultCenterLng, Zoom: DefaultZoom}
	}

	var sumLat, sumLng float64
	for _, m := range markers {
		sumLat += m.Lat
		sumLng += m.Lng
	}
	n := float64(len(markers))
	centre := haversine.Coord{Lat: sumLat / n, Lon: sumLng / n}

	var radius float64
	for _, m := range markers {
		_, km := haversine.Distance(centre, haversine.Coord{Lat: m.Lat, Lon: m.Lng})
		radius = math.Max(radius, km)
	}
	return Viewport{
		CenterLat: centre.Lat,
		CenterLng: centre.Lon,
		RadiusKm:  radius,
		Zoom:      zoomFor(radius),
	}
}

// zoomFor picks a web-map zoom level whose view roughly spans radiusKm.
func zoomFor(radiusKm float64) int {
	switch {
	case radiusKm < 1:
		return 15
	case radiusKm < 5:
		return 13
	case radiusKm < 25:
		return 11
	case radiusKm < 100:
		return 9
	case radiusKm < 500:
		return 7
	default:
		return DefaultZoom
	}
}
