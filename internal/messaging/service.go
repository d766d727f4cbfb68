package messaging

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sudo-init-do/propnest/internal/apperr"
	"github.com/sudo-init-do/propnest/internal/listing"
	"github.com/sudo-init-do/propnest/internal/logging"
)

// PropertyLookup resolves the listing an enquiry refers to.
type PropertyLookup interface {
	Lookup(ctx context.Context, id string) (*listing.Listing, error)
}

// Notifier pushes enquiry events to a listing owner.
type Notifier interface {
	Publish(ownerID string, evt Event)
}

// SendInput is the body of a contact request.
type SendInput struct {
	SenderName    string `json:"senderName" validate:"required"`
	SenderEmail   string `json:"senderEmail" validate:"required,email"`
	SenderPhone   string `json:"senderPhone"`
	Message       string `json:"message" validate:"required"`
	PropertyID    string `json:"propertyId"`
	PropertyTitle string `json:"propertyTitle"`
	OwnerID       string `json:"ownerId"`
	UserID        string `json:"userId"`
}

func (in *SendInput) trim() {
	for _, f := range []*string{
		&in.SenderName, &in.SenderEmail, &in.SenderPhone, &in.Message,
		&in.PropertyID, &in.PropertyTitle, &in.OwnerID, &in.UserID,
	} {
		*f = strings.TrimSpace(*f)
	}
}

type Service struct {
	repo       Repository
	properties PropertyLookup
	notify     Notifier
	validate   *validator.Validate
	now        func() time.Time
}

// NewService wires the messaging service. properties and notify may be nil.
func NewService(repo Repository, properties PropertyLookup, notify Notifier) *Service {
	return &Service{
		repo:       repo,
		properties: properties,
		notify:     notify,
		validate:   apperr.NewValidator(),
		now:        time.Now,
	}
}

// Send stores a new unread enquiry. callerID becomes UserID when the body has none.
func (s *Service) Send(ctx context.Context, callerID string, in SendInput) (*Enquiry, error) {
	log := logging.FromContext(ctx)

	in.trim()
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.FromValidator(err)
	}

	e := &Enquiry{
		SenderName:    in.SenderName,
		SenderEmail:   in.SenderEmail,
		SenderPhone:   in.SenderPhone,
		Message:       in.Message,
		PropertyID:    in.PropertyID,
		PropertyTitle: in.PropertyTitle,
		OwnerID:       in.OwnerID,
		UserID:        in.UserID,
		Status:        StatusUnread,
		Date:          s.now().UTC(),
	}
	if e.UserID == "" {
		e.UserID = callerID
	}
	s.fillFromListing(ctx, e)

	if err := s.repo.Insert(ctx, e); err != nil {
		return nil, apperr.Storage("Failed to send message", err)
	}
	log.Info("enquiry stored", "enquiry_id", e.ID, "property_id", e.PropertyID, "owner_id", e.OwnerID)

	if s.notify != nil && e.OwnerID != "" {
		s.notify.Publish(e.OwnerID, Event{Type: EventNew, Data: e})
	}
	return e, nil
}

// fillFromListing copies the title and owner of the referenced listing into e
// when the sender left them out. Lookup failures only cost the denormalized copy.
func (s *Service) fillFromListing(ctx context.Context, e *Enquiry) {
	if s.properties == nil || e.PropertyID == "" || (e.PropertyTitle != "" && e.OwnerID != "") {
		return
	}
	l, err := s.properties.Lookup(ctx, e.PropertyID)
	if err != nil {
		if !errors.Is(err, listing.ErrNotFound) {
			logging.FromContext(ctx).Warn("enquiry listing lookup", "property_id", e.PropertyID, "error", err)
		}
		return
	}
	if e.PropertyTitle == "" {
		e.PropertyTitle = l.Title
	}
	if e.OwnerID == "" {
		e.OwnerID = l.OwnerID
	}
}

// Inbox returns the enquiries addressed to ownerID, newest first.
func (s *Service) Inbox(ctx context.Context, ownerID string) ([]Enquiry, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Storage("Failed to fetch messages", err)
	}
	if items == nil {
		items = []Enquiry{}
	}
	return items, nil
}

// MarkRead flips an enquiry to read. Only its owner may do so; repeating it is a no-op.
func (s *Service) MarkRead(ctx context.Context, ownerID, id string) (*Enquiry, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("message")
		}
		return nil, apperr.Storage("Failed to fetch message", err)
	}
	if e.OwnerID != ownerID {
		return nil, apperr.Forbidden("not the recipient")
	}
	if e.Status == StatusRead {
		return e, nil
	}

	if err := s.repo.SetStatus(ctx, id, StatusRead); err != nil {
		return nil, apperr.Storage("Failed to mark message read", err)
	}
	e.Status = StatusRead

	if s.notify != nil {
		s.notify.Publish(ownerID, Event{Type: EventRead, Data: map[string]string{"id": e.ID}})
	}
	return e, nil
}
