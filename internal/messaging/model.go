package messaging

import (
	"context"
	"errors"
	"time"
)

// Status tracks whether the listing owner has seen an enquiry.
type Status string

const (
	StatusUnread Status = "unread"
	StatusRead   Status = "read"
)

// Enquiry is a buyer-to-owner contact request about a listing.
// PropertyTitle and OwnerID are copied from the listing at send time.
type Enquiry struct {
	ID            string    `json:"id"`
	SenderName    string    `json:"senderName"`
	SenderEmail   string    `json:"senderEmail"`
	SenderPhone   string    `json:"senderPhone,omitempty"`
	Message       string    `json:"message"`
	PropertyID    string    `json:"propertyId,omitempty"`
	PropertyTitle string    `json:"propertyTitle,omitempty"`
	OwnerID       string    `json:"ownerId,omitempty"`
	UserID        string    `json:"userId,omitempty"`
	Status        Status    `json:"status"`
	Date          time.Time `json:"date"`
}

var ErrNotFound = errors.New("enquiry not found")

// Repository persists enquiries.
type Repository interface {
	// Insert stores e and sets e.ID.
	Insert(ctx context.Context, e *Enquiry) error
	// ListByOwner returns the enquiries addressed to ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]Enquiry, error)
	FindByID(ctx context.Context, id string) (*Enquiry, error)
	SetStatus(ctx context.Context, id string, status Status) error
}
