package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-booking/catalog"
	apperrors "travel-booking/errors"
	"travel-booking/model"
)

type fakeStore struct {
	vendors  map[primitive.ObjectID]*model.Vendor
	inserted []model.Resource
}

func (f *fakeStore) GetVendor(_ context.Context, id primitive.ObjectID) (*model.Vendor, error) {
	return f.vendors[id], nil
}

func (f *fakeStore) Insert(_ context.Context, _ *catalog.Kind, resource model.Resource) error {
	f.inserted = append(f.inserted, resource)
	return nil
}

func (f *fakeStore) FindByVendor(_ context.Context, _ *catalog.Kind, vendorID primitive.ObjectID) ([]bson.M, error) {
	return []bson.M{{"vendorId": vendorID}}, nil
}

type fakeCache struct {
	invalidated []string
}

func (f *fakeCache) Invalidate(_ context.Context, k *catalog.Kind) error {
	f.invalidated = append(f.invalidated, k.Name)
	return nil
}

func setup(vendorType string, active bool) (*Service, *fakeStore, *fakeCache, primitive.ObjectID) {
	id := primitive.NewObjectID()
	store := &fakeStore{vendors: map[primitive.ObjectID]*model.Vendor{
		id: {Id: id, Name: "Kiran", Type: vendorType, Role: model.RoleVendor, IsActive: active},
	}}
	cache := &fakeCache{}
	return NewService(store, cache), store, cache, id
}

func decode(t *testing.T, k *catalog.Kind, body string) model.Resource {
	t.Helper()
	res := k.NewResource()
	require.NoError(t, json.Unmarshal([]byte(body), res))
	return res
}

func TestCreateFlightDefaultsAvailability(t *testing.T) {
	svc, store, cache, vendor := setup("flight", true)

	res, err := svc.Create(context.Background(), vendor, catalog.Flight,
		decode(t, catalog.Flight, `{"flightName":"SkyLine 101","from":"Delhi","to":"Goa","price":200,"totalSeats":100,"runDays":["Mon","Fri"]}`))
	require.NoError(t, err)

	flight := res.(*model.Flight)
	require.NotNil(t, flight.AvailableSeats)
	assert.Equal(t, int64(100), *flight.AvailableSeats)
	assert.Equal(t, vendor, flight.VendorId)
	assert.False(t, flight.Id.IsZero())
	assert.NotNil(t, flight.Bookings)
	assert.False(t, flight.CreatedAt.IsZero())
	assert.Len(t, store.inserted, 1)
	assert.Equal(t, []string{"flight"}, cache.invalidated)
}

func TestCreateStatusKindsDefaultOpen(t *testing.T) {
	tests := []struct {
		kind   *catalog.Kind
		body   string
		status func(model.Resource) string
	}{
		{catalog.Guide, `{"name":"Asha","location":"Jaipur","pricePerHour":50}`, func(r model.Resource) string { return r.(*model.Guide).Status }},
		{catalog.Holiday, `{"packageName":"Kerala","location":"Kochi","totalDays":5,"cost":900}`, func(r model.Resource) string { return r.(*model.Holiday).Status }},
		{catalog.Currency, `{"location":"Mumbai","currencyType":"USD","rate":83.2}`, func(r model.Resource) string { return r.(*model.Currency).Status }},
	}
	for _, test := range tests {
		svc, _, _, vendor := setup(test.kind.Name, true)
		res, err := svc.Create(context.Background(), vendor, test.kind, decode(t, test.kind, test.body))
		require.NoErrorf(t, err, test.kind.Name)
		assert.Equal(t, test.kind.OpenStatus, test.status(res))
	}
}

func TestCreateRejectsInvalidInventory(t *testing.T) {
	tests := []struct {
		description string
		kind        *catalog.Kind
		body        string
		message     string
	}{
		{"available above total", catalog.Hotel, `{"hotelName":"Sea View","location":"Goa","costPerNight":80,"totalRooms":5,"availableRooms":9}`, "available rooms cannot exceed total rooms"},
		{"negative availability", catalog.Event, `{"eventName":"Expo","location":"Pune","eventDate":"2026-05-01T00:00:00Z","totalTickets":5,"availableTickets":-1,"price":10}`, "availableTickets must be at least 0"},
		{"unknown status", catalog.Guide, `{"name":"Asha","location":"Jaipur","pricePerHour":50,"status":"asleep"}`, "status must be one of free occupied"},
		{"missing name", catalog.Flight, `{"from":"Delhi","to":"Goa","price":200,"totalSeats":10}`, "flightName is required"},
		{"zero seats", catalog.Flight, `{"flightName":"X","from":"Delhi","to":"Goa","price":200,"totalSeats":0}`, "totalSeats must be greater than 0"},
	}
	for _, test := range tests {
		svc, store, _, vendor := setup(test.kind.Name, true)
		_, err := svc.Create(context.Background(), vendor, test.kind, decode(t, test.kind, test.body))
		require.Errorf(t, err, test.description)
		assert.Truef(t, errors.Is(err, apperrors.ErrInvalidRequest), test.description)
		assert.Equalf(t, test.message, err.Error(), test.description)
		assert.Emptyf(t, store.inserted, test.description)
	}
}

func TestVendorAuthorization(t *testing.T) {
	svc, store, _, vendor := setup("hotel", true)

	_, err := svc.Create(context.Background(), vendor, catalog.Flight,
		decode(t, catalog.Flight, `{"flightName":"X","from":"A","to":"B","price":1,"totalSeats":1}`))
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	assert.Empty(t, store.inserted)

	_, err = svc.List(context.Background(), primitive.NewObjectID(), catalog.Hotel)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))

	inactive, _, _, id := setup("hotel", false)
	_, err = inactive.List(context.Background(), id, catalog.Hotel)
	assert.EqualError(t, err, "vendor account is inactive")

	docs, err := svc.List(context.Background(), vendor, catalog.Hotel)
	require.NoError(t, err)
	assert.Equal(t, vendor, docs[0]["vendorId"])
}

func TestCreateAcceptsPlainDates(t *testing.T) {
	svc, store, _, vendor := setup("event", true)
	event := decode(t, catalog.Event, `{"eventName":"Expo","location":"Pune","eventDate":"2026-03-01","totalTickets":50,"price":10}`)

	_, err := svc.Create(context.Background(), vendor, catalog.Event, event)
	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), store.inserted[0].(*model.Event).EventDate.Time)

	svc, store, _, vendor = setup("flight", true)
	flight := decode(t, catalog.Flight, `{"flightName":"Coastal 7","from":"Goa","to":"Pune","price":120,"totalSeats":60,"specificDates":["2026-03-02","2026-03-09T00:00:00Z"]}`)
	_, err = svc.Create(context.Background(), vendor, catalog.Flight, flight)
	require.NoError(t, err)
	dates := store.inserted[0].(*model.Flight).SpecificDates
	require.Len(t, dates, 2)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), dates[0].Time)
}

func TestCreateRequiresEventDate(t *testing.T) {
	svc, store, _, vendor := setup("event", true)
	event := decode(t, catalog.Event, `{"eventName":"Expo","location":"Pune","totalTickets":50,"price":10}`)

	_, err := svc.Create(context.Background(), vendor, catalog.Event, event)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidRequest))
	assert.EqualError(t, err, "eventDate is required")
	assert.Empty(t, store.inserted)
}
