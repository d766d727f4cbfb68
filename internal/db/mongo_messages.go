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

	"github.com/sudo-init-do/propnest/internal/messaging"
)

type enquiryDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	SenderName    string             `bson:"senderName"`
	SenderEmail   string             `bson:"senderEmail"`
	SenderPhone   string             `bson:"senderPhone,omitempty"`
	Message       string             `bson:"message"`
	PropertyID    string             `bson:"propertyId,omitempty"`
	PropertyTitle string             `bson:"propertyTitle,omitempty"`
	OwnerID       string             `bson:"ownerId,omitempty"`
	UserID        string             `bson:"userId,omitempty"`
	Status        string             `bson:"status"`
	Date          time.Time          `bson:"date"`
}

func (d enquiryDoc) toEnquiry() messaging.Enquiry {
	return messaging.Enquiry{
		ID:            d.ID.Hex(),
		SenderName:    d.SenderName,
		SenderEmail:   d.SenderEmail,
		SenderPhone:   d.SenderPhone,
		Message:       d.Message,
		PropertyID:    d.PropertyID,
		PropertyTitle: d.PropertyTitle,
		OwnerID:       d.OwnerID,
		UserID:        d.UserID,
		Status:        messaging.Status(d.Status),
		Date:          d.Date,
	}
}

// MongoMessages stores enquiries in the messages collection.
type MongoMessages struct {
	coll *mongo.Collection
}

func NewMongoMessages(db *mongo.Database) *MongoMessages {
	return &MongoMessages{coll: db.Collection(messagesCollection)}
}

func (r *MongoMessages) Insert(ctx context.Context, e *messaging.Enquiry) error {
	d := enquiryDoc{
		ID:            primitive.NewObjectID(),
		SenderName:    e.SenderName,
		SenderEmail:   e.SenderEmail,
		SenderPhone:   e.SenderPhone,
		Message:       e.Message,
		PropertyID:    e.PropertyID,
		PropertyTitle: e.PropertyTitle,
		OwnerID:       e.OwnerID,
		UserID:        e.UserID,
		Status:        string(e.Status),
		Date:          e.Date,
	}
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	e.ID = d.ID.Hex()
	return nil
}

func (r *MongoMessages) ListByOwner(ctx context.Context, ownerID string) ([]messaging.Enquiry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	defer cur.Close(ctx)

	var docs []enquiryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	out := make([]messaging.Enquiry, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEnquiry())
	}
	return out, nil
}

func (r *MongoMessages) FindByID(ctx context.Context, id string) (*messaging.Enquiry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, messaging.ErrNotFound
	}
	var d enquiryDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, messaging.ErrNotFound
		}
		return nil, fmt.Errorf("find message: %w", err)
	}
	e := d.toEnquiry()
	return &e, nil
}

func (r *MongoMessages) SetStatus(ctx context.Context, id string, status messaging.Status) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return messaging.ErrNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return fmt.Errorf("update message: %w", err)
	}
	if res.MatchedCount == 0 {
		return messaging.ErrNotFound
	}
	return nil
}
