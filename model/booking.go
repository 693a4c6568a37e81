package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking is one embedded, append-only booking entry. The quantity and the
// optional date are stored under field names chosen by the resource kind.
type Booking struct {
	Id        primitive.ObjectID
	UserId    primitive.ObjectID
	Quantity  int64
	Date      *time.Time
	CreatedAt time.Time
}

func (b *Booking) Document(quantityField, dateField string) bson.D {
	doc := bson.D{
		{Key: "_id", Value: b.Id},
		{Key: "userId", Value: b.UserId},
		{Key: quantityField, Value: b.Quantity},
	}
	if dateField != "" && b.Date != nil {
		doc = append(doc, bson.E{Key: dateField, Value: *b.Date})
	}
	return append(doc, bson.E{Key: "createdAt", Value: b.CreatedAt})
}
