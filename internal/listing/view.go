package listing

import "github.com/sudo-init-do/propnest/internal/user"

// View is the client-facing projection of a Listing. The JSON names are the
// contract the browser and CLI clients render from.
type View struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	Sqft           float64  `json:"sqft"`
	Bedrooms       int      `json:"bedrooms"`
	Bathrooms      int      `json:"bathrooms"`
	Type           Type     `json:"type"`
	Status         Status   `json:"status"`
	Images         []string `json:"images"`
	Location       Location `json:"location"`
	HasCoordinates bool     `json:"hasCoordinates"`
	OwnerID        *string  `json:"ownerId"`
	OwnerName      string   `json:"ownerName"`
	OwnerEmail     string   `json:"ownerEmail"`
}

// Normalize reshapes a stored listing and its (possibly missing) owner into a View.
// It is the only place fallbacks are applied.
func Normalize(l Listing, owner *user.User) View {
	v := View{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Sqft:        l.SquareFeet,
		Bedrooms:    l.Bedrooms,
		Bathrooms:   l.Bathrooms,
		Type:        l.Type,
		Status:      l.Status,
		Images:      l.Images,
		OwnerName:   Unavailable,
		OwnerEmail:  Unavailable,
	}
	if v.Images == nil {
		v.Images = []string{}
	}
	if l.Location != nil {
		v.Location = *l.Location
	} else {
		v.Location = DefaultLocation()
	}
	v.HasCoordinates = v.Location.HasCoordinates()

	if owner != nil {
		id := owner.ID
		v.OwnerID = &id
		if owner.Name != "" {
			v.OwnerName = owner.Name
		}
		if owner.Email != "" {
			v.OwnerEmail = owner.Email
		}
	}
	return v
}
