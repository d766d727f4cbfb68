package listing

import (
	"context"
	"errors"
	"time"
)

// Type is the kind of property on offer.
type Type string

const (
	TypeApartment   Type = "apartment"
	TypeHouse       Type = "house"
	TypeRentalHouse Type = "rental-house"
	TypeVilla       Type = "villa"
)

// Types lists every Type in display order.
var Types = []Type{TypeApartment, TypeHouse, TypeRentalHouse, TypeVilla}

func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Status is the availability of a listing.
type Status string

const (
	StatusAvailable Status = "available"
	StatusSold      Status = "sold"
	StatusRented    Status = "rented"
)

// Unset sentinels written when the owner leaves location fields blank.
const (
	NotAvailable = "N/A"
	Unavailable  = "Unavailable"
)

// Location is where a listing is. Lat/Lng of 0,0 mean "no coordinates".
type Location struct {
	Address string  `json:"address"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// HasCoordinates is false only for the 0,0 unset sentinel.
func (l Location) HasCoordinates() bool {
	return l.Lat != 0 || l.Lng != 0
}

// DefaultLocation is substituted when a stored listing has no location at all.
func DefaultLocation() Location {
	return Location{Address: NotAvailable, City: NotAvailable, State: NotAvailable}
}

// Listing is a stored property record.
type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Type        Type      `json:"type"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	SquareFeet  float64   `json:"squareFeet"`
	Location    *Location `json:"location,omitempty"`
	Images      []string  `json:"images"`
	OwnerID     string    `json:"owner,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

var ErrNotFound = errors.New("listing not found")

// Repository persists listings.
type Repository interface {
	// Insert stores l and sets l.ID.
	Insert(ctx context.Context, l *Listing) error
	// List returns every listing in insertion order.
	List(ctx context.Context) ([]Listing, error)
	FindByID(ctx context.Context, id string) (*Listing, error)
}
