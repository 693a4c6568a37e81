package handlers

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-booking/catalog"
	"travel-booking/model"
)

// memStore stands in for MongoDB behind every route. Listing filters are not
// evaluated; Find returns the whole collection in insertion order.
type memStore struct {
	mu      sync.Mutex
	docs    map[string][]bson.M
	vendors map[primitive.ObjectID]*model.Vendor
}

func newMemStore() *memStore {
	return &memStore{docs: map[string][]bson.M{}, vendors: map[primitive.ObjectID]*model.Vendor{}}
}

func (s *memStore) add(k *catalog.Kind, doc bson.M) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	doc["_id"] = id
	doc["bookings"] = bson.A{}
	s.docs[k.Name] = append(s.docs[k.Name], doc)
	return id
}

func (s *memStore) find(k *catalog.Kind, id primitive.ObjectID) bson.M {
	for _, doc := range s.docs[k.Name] {
		if doc["_id"] == id {
			return doc
		}
	}
	return nil
}

func (s *memStore) withVendor(doc bson.M) bson.M {
	out := bson.M{}
	for key, v := range doc {
		out[key] = v
	}
	vendor := bson.M{}
	if id, ok := doc["vendorId"].(primitive.ObjectID); ok {
		if v := s.vendors[id]; v != nil {
			vendor = bson.M{"_id": v.Id, "name": v.Name, "orgName": v.OrgName}
		}
	}
	out["vendor"] = vendor
	return out
}

func (s *memStore) Reserve(_ context.Context, k *catalog.Kind, id primitive.ObjectID, booking *model.Booking) (bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.find(k, id)
	if doc == nil {
		return nil, nil
	}
	switch k.Gate {
	case catalog.Counter:
		available, _ := model.Int(doc[k.CounterField])
		if available < booking.Quantity {
			return nil, nil
		}
		doc[k.CounterField] = available - booking.Quantity
	case catalog.Status:
		if doc[k.StatusField] != k.OpenStatus {
			return nil, nil
		}
	}
	doc["bookings"] = append(doc["bookings"].(bson.A), booking.Document(k.QuantityField, k.DateField))
	return s.withVendor(doc), nil
}

func (s *memStore) Get(_ context.Context, k *catalog.Kind, id primitive.ObjectID) (bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.find(k, id)
	if doc == nil {
		return nil, nil
	}
	return s.withVendor(doc), nil
}

func (s *memStore) Find(_ context.Context, k *catalog.Kind, _, _ bson.D) ([]bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []bson.M{}
	for _, doc := range s.docs[k.Name] {
		out = append(out, s.withVendor(doc))
	}
	return out, nil
}

func (s *memStore) UserBookings(_ context.Context, k *catalog.Kind, userID primitive.ObjectID) ([]bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []bson.M{}
	for _, doc := range s.docs[k.Name] {
		for _, b := range doc["bookings"].(bson.A) {
			if hasUser(b.(bson.D), userID) {
				out = append(out, s.withVendor(doc))
				break
			}
		}
	}
	return out, nil
}

func hasUser(d bson.D, userID primitive.ObjectID) bool {
	for _, e := range d {
		if e.Key == "userId" && e.Value == userID {
			return true
		}
	}
	return false
}

func (s *memStore) GetVendor(_ context.Context, id primitive.ObjectID) (*model.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vendors[id], nil
}

func (s *memStore) Insert(_ context.Context, k *catalog.Kind, resource model.Resource) error {
	raw, err := bson.Marshal(resource)
	if err != nil {
		return err
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc["bookings"] = bson.A{}
	s.docs[k.Name] = append(s.docs[k.Name], doc)
	return nil
}

func (s *memStore) FindByVendor(_ context.Context, k *catalog.Kind, vendorID primitive.ObjectID) ([]bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []bson.M{}
	for _, doc := range s.docs[k.Name] {
		if doc["vendorId"] == vendorID {
			out = append(out, doc)
		}
	}
	return out, nil
}
