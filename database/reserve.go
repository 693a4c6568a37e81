package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"travel-booking/catalog"
	"travel-booking/model"
)

var withoutBookings = bson.D{{Key: "bookings", Value: 0}}

// ReserveFilter matches the document only while its gate admits quantity units.
func ReserveFilter(k *catalog.Kind, id primitive.ObjectID, quantity int64) bson.D {
	filter := bson.D{{Key: "_id", Value: id}}
	switch k.Gate {
	case catalog.Counter:
		filter = append(filter, bson.E{Key: k.CounterField, Value: bson.D{{Key: "$gte", Value: quantity}}})
	case catalog.Status:
		filter = append(filter, bson.E{Key: k.StatusField, Value: k.OpenStatus})
	}
	return filter
}

func ReserveUpdate(k *catalog.Kind, booking *model.Booking) bson.D {
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "bookings", Value: booking.Document(k.QuantityField, k.DateField)}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: booking.CreatedAt}}},
	}
	if k.Gate == catalog.Counter {
		update = append(update, bson.E{Key: "$inc", Value: bson.D{{Key: k.CounterField, Value: -booking.Quantity}}})
	}
	return update
}

func (s *Store) Reserve(ctx context.Context, k *catalog.Kind, id primitive.ObjectID, booking *model.Booking) (bson.M, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutBookings)

	var doc bson.M
	err := s.collection(k).
		FindOneAndUpdate(ctx, ReserveFilter(k, id, booking.Quantity), ReserveUpdate(k, booking), opts).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Store) Get(ctx context.Context, k *catalog.Kind, id primitive.ObjectID) (bson.M, error) {
	var doc bson.M
	err := s.collection(k).
		FindOne(ctx, bson.D{{Key: "_id", Value: id}}, options.FindOne().SetProjection(withoutBookings)).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}
