package reservation_test

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-booking/catalog"
	"travel-booking/model"
	"travel-booking/reservation"
)

// memStore applies the conditional update under a mutex, mirroring what
// findOneAndUpdate guarantees for a single document.
type memStore struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]bson.M
	// afterMiss runs once after the first unmatched update, before the re-read.
	afterMiss func(doc bson.M)
	reserves  int
}

func newMemStore() *memStore {
	return &memStore{docs: map[primitive.ObjectID]bson.M{}}
}

func (s *memStore) put(doc bson.M) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	doc["_id"] = id
	if _, ok := doc["bookings"]; !ok {
		doc["bookings"] = bson.A{}
	}
	s.docs[id] = doc
	return id
}

func (s *memStore) doc(id primitive.ObjectID) bson.M {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.docs[id])
}

func (s *memStore) Reserve(_ context.Context, k *catalog.Kind, id primitive.ObjectID, booking *model.Booking) (bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reserves++

	doc, ok := s.docs[id]
	matched := ok
	if ok {
		switch k.Gate {
		case catalog.Counter:
			available, _ := model.Int(doc[k.CounterField])
			matched = available >= booking.Quantity
		case catalog.Status:
			matched = doc[k.StatusField] == k.OpenStatus
		}
	}
	if !matched {
		if ok && s.afterMiss != nil {
			s.afterMiss(doc)
			s.afterMiss = nil
		}
		return nil, nil
	}

	if k.Gate == catalog.Counter {
		available, _ := model.Int(doc[k.CounterField])
		doc[k.CounterField] = available - booking.Quantity
	}
	doc["bookings"] = append(doc["bookings"].(bson.A), booking.Document(k.QuantityField, k.DateField))
	return clone(doc), nil
}

func (s *memStore) Get(_ context.Context, _ *catalog.Kind, id primitive.ObjectID) (bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, nil
	}
	return clone(doc), nil
}

func clone(doc bson.M) bson.M {
	if doc == nil {
		return nil
	}
	out := make(bson.M, len(doc))
	for k, v := range doc {
		if a, ok := v.(bson.A); ok {
			v = append(bson.A{}, a...)
		}
		out[k] = v
	}
	return out
}

type recordingNotifier struct {
	mu    sync.Mutex
	confs []*reservation.Confirmation
	err   error
}

func (n *recordingNotifier) Reserved(_ context.Context, c *reservation.Confirmation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confs = append(n.confs, c)
	return n.err
}
