package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sudo-init-do/propnest/internal/listing"
)

type locationDoc struct {
	Address string  `bson:"address"`
	City    string  `bson:"city"`
	State   string  `bson:"state"`
	Lat     float64 `bson:"lat"`
	Lng     float64 `bson:"lng"`
}

type listingDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Type        string             `bson:"type"`
	Bedrooms    int                `bson:"bedrooms"`
	Bathrooms   int                `bson:"bathrooms"`
	SquareFeet  float64            `bson:"squareFeet"`
	Location    *locationDoc       `bson:"location,omitempty"`
	Images      []string           `bson:"images"`
	Owner       string             `bson:"owner,omitempty"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func toListingDoc(l *listing.Listing) listingDoc {
	d := listingDoc{
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Type:        string(l.Type),
		Bedrooms:    l.Bedrooms,
		Bathrooms:   l.Bathrooms,
		SquareFeet:  l.SquareFeet,
		Images:      l.Images,
		Owner:       l.OwnerID,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt,
	}
	if l.Location != nil {
		loc := locationDoc(*l.Location)
		d.Location = &loc
	}
	return d
}

func (d listingDoc) toListing() listing.Listing {
	l := listing.Listing{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Type:        listing.Type(d.Type),
		Bedrooms:    d.Bedrooms,
		Bathrooms:   d.Bathrooms,
		SquareFeet:  d.SquareFeet,
		Images:      d.Images,
		OwnerID:     d.Owner,
		Status:      listing.Status(d.Status),
		CreatedAt:   d.CreatedAt,
	}
	if d.Location != nil {
		loc := listing.Location(*d.Location)
		l.Location = &loc
	}
	return l
}

// MongoListings stores listings in the properties collection.
type MongoListings struct {
	coll *mongo.Collection
}

func NewMongoListings(db *mongo.Database) *MongoListings {
	return &MongoListings{coll: db.Collection(propertiesCollection)}
}

func (r *MongoListings) Insert(ctx context.Context, l *listing.Listing) error {
	d := toListingDoc(l)
	d.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	l.ID = d.ID.Hex()
	return nil
}

func (r *MongoListings) List(ctx context.Context) ([]listing.Listing, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]listing.Listing, 0)
	for cur.Next(ctx) {
		var d listingDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode listing: %w", err)
		}
		out = append(out, d.toListing())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return out, nil
}

func (r *MongoListings) FindByID(ctx context.Context, id string) (*listing.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, listing.ErrNotFound
	}
	var d listingDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, listing.ErrNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	l := d.toListing()
	return &l, nil
}
