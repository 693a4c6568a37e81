package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"travel-booking/catalog"
	"travel-booking/model"
)

// VendorStages joins the owning vendor's public fields under "vendor".
func VendorStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: VendorsCollection},
			{Key: "localField", Value: "vendorId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "vendor"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$vendor"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$set", Value: bson.D{{Key: "vendor", Value: bson.D{
			{Key: "_id", Value: "$vendor._id"},
			{Key: "name", Value: "$vendor.name"},
			{Key: "orgName", Value: "$vendor.orgName"},
		}}}}},
	}
}

func ListingPipeline(filter, sort bson.D) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: sort}},
		{{Key: "$project", Value: withoutBookings}},
	}
	return append(pipeline, VendorStages()...)
}

func UserBookingsPipeline(userID primitive.ObjectID) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "bookings.userId", Value: userID}}}},
	}
	return append(pipeline, VendorStages()...)
}

func (s *Store) Find(ctx context.Context, k *catalog.Kind, filter, sort bson.D) ([]bson.M, error) {
	cur, err := s.collection(k).Aggregate(ctx, ListingPipeline(filter, sort))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", k.Collection, err)
	}
	return decodeAll(ctx, cur)
}

func (s *Store) UserBookings(ctx context.Context, k *catalog.Kind, userID primitive.ObjectID) ([]bson.M, error) {
	cur, err := s.collection(k).Aggregate(ctx, UserBookingsPipeline(userID))
	if err != nil {
		return nil, fmt.Errorf("scan %s bookings: %w", k.Collection, err)
	}
	return decodeAll(ctx, cur)
}

func (s *Store) Insert(ctx context.Context, k *catalog.Kind, resource model.Resource) error {
	if _, err := s.collection(k).InsertOne(ctx, resource); err != nil {
		return fmt.Errorf("insert into %s: %w", k.Collection, err)
	}
	return nil
}

func (s *Store) FindByVendor(ctx context.Context, k *catalog.Kind, vendorID primitive.ObjectID) ([]bson.M, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.collection(k).Find(ctx, bson.D{{Key: "vendorId", Value: vendorID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s for vendor: %w", k.Collection, err)
	}
	return decodeAll(ctx, cur)
}

func (s *Store) GetVendor(ctx context.Context, id primitive.ObjectID) (*model.Vendor, error) {
	var vendor model.Vendor
	err := s.db.Collection(VendorsCollection).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&vendor)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("server side problem occured while reading vendor data from database: %w", err)
	}
	return &vendor, nil
}
