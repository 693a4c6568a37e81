package model

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resource is a vendor-supplied inventory document.
type Resource interface {
	Prepare(vendorId primitive.ObjectID, now time.Time) error
}

type Base struct {
	Id        primitive.ObjectID `json:"_id" bson:"_id"`
	VendorId  primitive.ObjectID `json:"vendorId" bson:"vendorId"`
	Bookings  bson.A             `json:"-" bson:"bookings"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (b *Base) stamp(vendorId primitive.ObjectID, now time.Time) {
	b.Id = primitive.NewObjectID()
	b.VendorId = vendorId
	b.Bookings = bson.A{}
	b.CreatedAt = now
	b.UpdatedAt = now
}

func fillCounter(noun string, total int64, available **int64) error {
	if *available == nil {
		v := total
		*available = &v
		return nil
	}
	if **available > total {
		return fmt.Errorf("available %s cannot exceed total %s", noun, noun)
	}
	return nil
}

func fillStatus(status *string, open string) {
	if *status == "" {
		*status = open
	}
}

type Flight struct {
	Base           `bson:",inline"`
	FlightName     string   `json:"flightName" bson:"flightName" validate:"required"`
	From           string   `json:"from" bson:"from" validate:"required"`
	To             string   `json:"to" bson:"to" validate:"required"`
	PilotName      string   `json:"pilotName" bson:"pilotName"`
	Price          float64  `json:"price" bson:"price" validate:"gte=0"`
	TotalSeats     int64    `json:"totalSeats" bson:"totalSeats" validate:"gt=0"`
	AvailableSeats *int64   `json:"availableSeats" bson:"availableSeats" validate:"required,gte=0"`
	RunDays        []string `json:"runDays" bson:"runDays" validate:"dive,oneof=Mon Tue Wed Thu Fri Sat Sun"`
	SpecificDates  []Date   `json:"specificDates" bson:"specificDates"`
}

func (f *Flight) Prepare(vendorId primitive.ObjectID, now time.Time) error {
	f.stamp(vendorId, now)
	if f.RunDays == nil {
		f.RunDays = []string{}
	}
	if f.SpecificDates == nil {
		f.SpecificDates = []Date{}
	}
	return fillCounter("seats", f.TotalSeats, &f.AvailableSeats)
}

type Hotel struct {
	Base           `bson:",inline"`
	HotelName      string  `json:"hotelName" bson:"hotelName" validate:"required"`
	Location       string  `json:"location" bson:"location" validate:"required"`
	CostPerNight   float64 `json:"costPerNight" bson:"costPerNight" validate:"gte=0"`
	TotalRooms     int64   `json:"totalRooms" bson:"totalRooms" validate:"gt=0"`
	AvailableRooms *int64  `json:"availableRooms" bson:"availableRooms" validate:"required,gte=0"`
}

func (h *Hotel) Prepare(vendorId primitive.ObjectID, now time.Time) error {
	h.stamp(vendorId, now)
	return fillCounter("rooms", h.TotalRooms, &h.AvailableRooms)
}

type Holiday struct {
	Base        `bson:",inline"`
	PackageName string  `json:"packageName" bson:"packageName" validate:"required"`
	Location    string  `json:"location" bson:"location" validate:"required"`
	TotalDays   int64   `json:"totalDays" bson:"totalDays" validate:"gt=0"`
	Cost        float64 `json:"cost" bson:"cost" validate:"gte=0"`
	Status      string  `json:"status" bson:"status" validate:"oneof=available expired"`
}

func (h *Holiday) Prepare(vendorId primitive.ObjectID, now time.Time) error {
	h.stamp(vendorId, now)
	fillStatus(&h.Status, "available")
	return nil
}

type Guide struct {
	Base              `bson:",inline"`
	Name              string  `json:"name" bson:"name" validate:"required"`
	Location          string  `json:"location" bson:"location" validate:"required"`
	ExpertiseLocation string  `json:"expertiseLocation" bson:"expertiseLocation"`
	HoursAvailable    int64   `json:"hoursAvailable" bson:"hoursAvailable" validate:"gte=0"`
	PricePerHour      float64 `json:"pricePerHour" bson:"pricePerHour" validate:"gte=0"`
	Status            string  `json:"status" bson:"status" validate:"oneof=free occupied"`
}

func (g *Guide) Prepare(vendorId primitive.ObjectID, now time.Time) error {
	g.stamp(vendorId, now)
	fillStatus(&g.Status, "free")
	return nil
}

type Currency struct {
	Base         `bson:",inline"`
	Location     string  `json:"location" bson:"location" validate:"required"`
	CurrencyType string  `json:"currencyType" bson:"currencyType" validate:"required"`
	Rate         float64 `json:"rate" bson:"rate" validate:"gt=0"`
	Status       string  `json:"status" bson:"status" validate:"oneof='in stock' 'out of stock'"`
}

func (c *Currency) Prepare(vendorId primitive.ObjectID, now time.Time) error {
	c.stamp(vendorId, now)
	fillStatus(&c.Status, "in stock")
	return nil
}

type Event struct {
	Base             `bson:",inline"`
	EventName        string  `json:"eventName" bson:"eventName" validate:"required"`
	Location         string  `json:"location" bson:"location" validate:"required"`
	EventDate        Date    `json:"eventDate" bson:"eventDate" validate:"required"`
	EventTime        string  `json:"eventTime" bson:"eventTime"`
	TotalTickets     int64   `json:"totalTickets" bson:"totalTickets" validate:"gt=0"`
	AvailableTickets *int64  `json:"availableTickets" bson:"availableTickets" validate:"required,gte=0"`
	Price            float64 `json:"price" bson:"price" validate:"gte=0"`
	Description      string  `json:"description" bson:"description"`
}

func (e *Event) Prepare(vendorId primitive.ObjectID, now time.Time) error {
	e.stamp(vendorId, now)
	return fillCounter("tickets", e.TotalTickets, &e.AvailableTickets)
}

type ShopItem struct {
	Name   string  `json:"name" bson:"name" validate:"required"`
	Image  string  `json:"image" bson:"image"`
	Price  float64 `json:"price" bson:"price" validate:"gte=0"`
	Status string  `json:"status" bson:"status" validate:"oneof=available 'out of stock'"`
}

type Shop struct {
	Base     `bson:",inline"`
	ShopName string     `json:"shopName" bson:"shopName" validate:"required"`
	Location string     `json:"location" bson:"location" validate:"required"`
	Items    []ShopItem `json:"items" bson:"items" validate:"dive"`
}

func (s *Shop) Prepare(vendorId primitive.ObjectID, now time.Time) error {
	s.stamp(vendorId, now)
	if s.Items == nil {
		s.Items = []ShopItem{}
	}
	for i := range s.Items {
		fillStatus(&s.Items[i].Status, "available")
	}
	return nil
}
