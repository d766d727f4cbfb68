package listing

import (
	"context"
	"errors"
	"math"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sudo-init-do/propnest/internal/apperr"
	"github.com/sudo-init-do/propnest/internal/logging"
	"github.com/sudo-init-do/propnest/internal/user"
)

// MaxImages is the most image parts accepted per listing.
const MaxImages = 5

// MaxAmount caps price and squareFeet so they stay exact in JSON and in int64 labels.
const MaxAmount = 1e15

// ImageStore keeps uploaded images and hands back their public path.
type ImageStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(path string) error
}

// CreateInput carries the raw form fields of an add-listing request.
type CreateInput struct {
	Title       string `form:"title" validate:"required"`
	Type        string `form:"type" validate:"required,oneof=apartment house rental-house villa"`
	Description string `form:"description" validate:"required"`
	Price       string `form:"price" validate:"required,numeric"`
	SquareFeet  string `form:"squareFeet" validate:"required,numeric"`
	Bedrooms    string `form:"bedrooms" validate:"required,number"`
	Bathrooms   string `form:"bathrooms" validate:"required,number"`
	Lat         string `form:"lat" validate:"omitempty,latitude"`
	Lng         string `form:"lng" validate:"omitempty,longitude"`
	Address     string `form:"address"`
	City        string `form:"city"`
	State       string `form:"state"`
}

func (in *CreateInput) trim() {
	for _, f := range []*string{
		&in.Title, &in.Type, &in.Description, &in.Price, &in.SquareFeet,
		&in.Bedrooms, &in.Bathrooms, &in.Lat, &in.Lng, &in.Address, &in.City, &in.State,
	} {
		*f = strings.TrimSpace(*f)
	}
}

// Service implements creating and reading listings.
type Service struct {
	repo     Repository
	users    user.Repository
	images   ImageStore
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repository, users user.Repository, images ImageStore) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		images:   images,
		validate: apperr.NewValidator(),
		now:      time.Now,
	}
}

// Create validates in, stores the images and persists the listing owned by ownerID.
// Nothing is left behind when any step fails.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput, files []*multipart.FileHeader) (*Listing, error) {
	log := logging.FromContext(ctx)

	l, err := s.build(in, len(files))
	if err != nil {
		return nil, err
	}
	l.OwnerID = ownerID

	saved := make([]string, 0, len(files))
	rollback := func() {
		for _, p := range saved {
			if rmErr := s.images.Remove(p); rmErr != nil {
				log.Warn("remove orphaned upload", "path", p, "error", rmErr)
			}
		}
	}
	for _, fh := range files {
		p, err := s.images.Save(fh)
		if err != nil {
			rollback()
			if apperr.IsValidation(err) {
				return nil, err
			}
			return nil, apperr.Storage("Server error", err)
		}
		saved = append(saved, p)
	}
	l.Images = saved

	if err := s.repo.Insert(ctx, l); err != nil {
		rollback()
		return nil, apperr.Storage("Server error", err)
	}
	log.Info("listing created", "listing_id", l.ID, "owner_id", ownerID, "images", len(saved))
	return l, nil
}

func (s *Service) build(in CreateInput, imageCount int) (*Listing, error) {
	in.trim()
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.FromValidator(err)
	}
	if imageCount > MaxImages {
		return nil, apperr.Validation("at most %d images are allowed", MaxImages)
	}

	price, err := parseAmount("price", in.Price)
	if err != nil {
		return nil, err
	}
	sqft, err := parseAmount("squareFeet", in.SquareFeet)
	if err != nil {
		return nil, err
	}
	bedrooms, err := strconv.Atoi(in.Bedrooms)
	if err != nil {
		return nil, apperr.Validation("bedrooms must be a number")
	}
	bathrooms, err := strconv.Atoi(in.Bathrooms)
	if err != nil {
		return nil, apperr.Validation("bathrooms must be a number")
	}
	if price < 0 || sqft < 0 {
		return nil, apperr.Validation("price and squareFeet must not be negative")
	}

	loc := &Location{
		Address: orNA(in.Address),
		City:    orNA(in.City),
		State:   orNA(in.State),
	}
	// blank coordinates fall back to the 0 sentinel
	loc.Lat, _ = strconv.ParseFloat(in.Lat, 64)
	loc.Lng, _ = strconv.ParseFloat(in.Lng, 64)

	return &Listing{
		Title:       in.Title,
		Description: in.Description,
		Price:       price,
		Type:        Type(in.Type),
		Bedrooms:    bedrooms,
		Bathrooms:   bathrooms,
		SquareFeet:  sqft,
		Location:    loc,
		Status:      StatusAvailable,
		CreatedAt:   s.now().UTC(),
	}, nil
}

// parseAmount parses a finite number no larger than MaxAmount.
func parseAmount(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v > MaxAmount {
		return 0, apperr.Validation("%s must be a number no larger than %.0f", field, MaxAmount)
	}
	return v, nil
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

// ListAll returns every listing with its owner populated, normalized for clients.
func (s *Service) ListAll(ctx context.Context) ([]View, error) {
	listings, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Storage("Failed to fetch properties", err)
	}

	seen := make(map[string]struct{})
	ownerIDs := make([]string, 0)
	for _, l := range listings {
		if l.OwnerID == "" {
			continue
		}
		if _, ok := seen[l.OwnerID]; !ok {
			seen[l.OwnerID] = struct{}{}
			ownerIDs = append(ownerIDs, l.OwnerID)
		}
	}

	owners := map[string]*user.User{}
	if len(ownerIDs) > 0 {
		owners, err = s.users.FindByIDs(ctx, ownerIDs)
		if err != nil {
			return nil, apperr.Storage("Failed to fetch properties", err)
		}
	}

	views := make([]View, 0, len(listings))
	for _, l := range listings {
		views = append(views, Normalize(l, owners[l.OwnerID]))
	}
	return views, nil
}

// Get returns one listing view by id.
func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("property")
		}
		return nil, apperr.Storage("Failed to fetch property", err)
	}

	var owner *user.User
	if l.OwnerID != "" {
		owner, err = s.users.FindByID(ctx, l.OwnerID)
		if err != nil && !errors.Is(err, user.ErrNotFound) {
			return nil, apperr.Storage("Failed to fetch property", err)
		}
	}
	v := Normalize(*l, owner)
	return &v, nil
}

// Lookup returns the stored listing, or ErrNotFound. Other packages use it to
// denormalize listing fields.
func (s *Service) Lookup(ctx context.Context, id string) (*Listing, error) {
	return s.repo.FindByID(ctx, id)
}
