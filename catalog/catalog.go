package catalog

import (
	"fmt"

	"travel-booking/model"
)

type Gate int

const (
	// None marks kinds that are listed but never booked.
	None Gate = iota
	Counter
	Status
)

// Field maps a key of an outgoing record to the document field it is read from.
type Field struct {
	Key    string
	Source string
}

// Kind describes one resource type. The booking engine, the listing query
// builder and the aggregated view are all driven by these records.
type Kind struct {
	Name       string
	Path       string
	Collection string

	IDParam       string
	QuantityField string
	DateField     string

	Gate         Gate
	CounterField string
	TotalField   string
	Noun         string
	StatusField  string
	OpenStatus   string
	Statuses     []string

	PriceField string
	TotalKey   string

	ConfirmFields []Field
	HistoryFields []Field

	SuccessMessage  string
	ClosedMessage   string
	NotFoundMessage string

	TextFilters    []string
	DayFilter      string
	ScheduleFilter bool
	Sorts          map[string]string
	DefaultSort    string
	DefaultDesc    bool

	NewResource func() model.Resource
}

func (k *Kind) Bookable() bool {
	return k.Gate != None
}

func (k *Kind) InsufficientMessage(available int64) string {
	return fmt.Sprintf("Only %d %s available", available, k.Noun)
}

func (k *Kind) AllowsStatus(status string) bool {
	for _, s := range k.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

var Flight = &Kind{
	Name:          "flight",
	Path:          "flights",
	Collection:    "flights",
	IDParam:       "flightId",
	QuantityField: "seatsBooked",
	Gate:          Counter,
	CounterField:  "availableSeats",
	TotalField:    "totalSeats",
	Noun:          "seats",
	PriceField:    "price",
	TotalKey:      "totalPrice",
	ConfirmFields: []Field{
		{"flightName", "flightName"},
		{"from", "from"},
		{"to", "to"},
	},
	HistoryFields: []Field{
		{"flightName", "flightName"},
		{"from", "from"},
		{"to", "to"},
		{"pilotName", "pilotName"},
		{"price", "price"},
	},
	SuccessMessage:  "Flight booked successfully",
	NotFoundMessage: "Flight not found",
	TextFilters:     []string{"from", "to"},
	ScheduleFilter:  true,
	Sorts: map[string]string{
		"price": "price",
		"date":  "createdAt",
		"seats": "availableSeats",
	},
	DefaultSort: "price",
	NewResource: func() model.Resource { return new(model.Flight) },
}

var Hotel = &Kind{
	Name:          "hotel",
	Path:          "hotels",
	Collection:    "hotels",
	IDParam:       "hotelId",
	QuantityField: "roomsBooked",
	Gate:          Counter,
	CounterField:  "availableRooms",
	TotalField:    "totalRooms",
	Noun:          "rooms",
	PriceField:    "costPerNight",
	TotalKey:      "totalPrice",
	ConfirmFields: []Field{
		{"hotelName", "hotelName"},
		{"location", "location"},
	},
	HistoryFields: []Field{
		{"hotelName", "hotelName"},
		{"location", "location"},
		{"costPerNight", "costPerNight"},
	},
	SuccessMessage:  "Hotel booked successfully",
	NotFoundMessage: "Hotel not found",
	TextFilters:     []string{"location", "hotelName"},
	Sorts:           map[string]string{"costPerNight": "costPerNight"},
	DefaultSort:     "costPerNight",
	NewResource:     func() model.Resource { return new(model.Hotel) },
}

var Holiday = &Kind{
	Name:          "holiday",
	Path:          "holidays",
	Collection:    "holidays",
	IDParam:       "holidayId",
	QuantityField: "travelers",
	DateField:     "date",
	Gate:          Status,
	StatusField:   "status",
	OpenStatus:    "available",
	Statuses:      []string{"available", "expired"},
	PriceField:    "cost",
	TotalKey:      "totalPrice",
	ConfirmFields: []Field{
		{"packageName", "packageName"},
		{"location", "location"},
	},
	HistoryFields: []Field{
		{"packageName", "packageName"},
		{"location", "location"},
	},
	SuccessMessage:  "Holiday package booked successfully",
	ClosedMessage:   "This package is not available",
	NotFoundMessage: "Holiday package not found",
	TextFilters:     []string{"location", "packageName"},
	Sorts:           map[string]string{"cost": "cost", "totalDays": "totalDays"},
	DefaultSort:     "cost",
	NewResource:     func() model.Resource { return new(model.Holiday) },
}

var Guide = &Kind{
	Name:          "guide",
	Path:          "guides",
	Collection:    "guides",
	IDParam:       "guideId",
	QuantityField: "hours",
	DateField:     "date",
	Gate:          Status,
	StatusField:   "status",
	OpenStatus:    "free",
	Statuses:      []string{"free", "occupied"},
	PriceField:    "pricePerHour",
	TotalKey:      "totalPrice",
	ConfirmFields: []Field{
		{"guideName", "name"},
		{"location", "location"},
	},
	HistoryFields: []Field{
		{"guideName", "name"},
		{"location", "location"},
	},
	SuccessMessage:  "Guide booked successfully",
	ClosedMessage:   "Guide is currently occupied",
	NotFoundMessage: "Guide not found",
	TextFilters:     []string{"location", "expertiseLocation"},
	Sorts:           map[string]string{"pricePerHour": "pricePerHour"},
	DefaultSort:     "pricePerHour",
	NewResource:     func() model.Resource { return new(model.Guide) },
}

var Currency = &Kind{
	Name:          "currency",
	Path:          "currency",
	Collection:    "currencies",
	IDParam:       "currencyId",
	QuantityField: "amount",
	Gate:          Status,
	StatusField:   "status",
	OpenStatus:    "in stock",
	Statuses:      []string{"in stock", "out of stock"},
	PriceField:    "rate",
	TotalKey:      "totalCost",
	ConfirmFields: []Field{
		{"currencyType", "currencyType"},
		{"location", "location"},
		{"rate", "rate"},
	},
	HistoryFields: []Field{
		{"currencyType", "currencyType"},
		{"location", "location"},
		{"rate", "rate"},
	},
	SuccessMessage:  "Currency reserved successfully",
	ClosedMessage:   "Currency is currently out of stock",
	NotFoundMessage: "Currency exchange not found",
	TextFilters:     []string{"location", "currencyType"},
	Sorts:           map[string]string{"rate": "rate"},
	DefaultSort:     "rate",
	NewResource:     func() model.Resource { return new(model.Currency) },
}

var Event = &Kind{
	Name:          "event",
	Path:          "events",
	Collection:    "events",
	IDParam:       "eventId",
	QuantityField: "ticketsBooked",
	Gate:          Counter,
	CounterField:  "availableTickets",
	TotalField:    "totalTickets",
	Noun:          "tickets",
	PriceField:    "price",
	TotalKey:      "totalPrice",
	ConfirmFields: []Field{
		{"eventName", "eventName"},
		{"location", "location"},
		{"eventDate", "eventDate"},
	},
	HistoryFields: []Field{
		{"eventName", "eventName"},
		{"location", "location"},
		{"eventDate", "eventDate"},
	},
	SuccessMessage:  "Event booked successfully",
	NotFoundMessage: "Event not found",
	TextFilters:     []string{"location", "eventName"},
	DayFilter:       "eventDate",
	Sorts:           map[string]string{"eventDate": "eventDate", "price": "price"},
	DefaultSort:     "eventDate",
	NewResource:     func() model.Resource { return new(model.Event) },
}

var Shop = &Kind{
	Name:        "shop",
	Path:        "shops",
	Collection:  "shops",
	TextFilters: []string{"location", "shopName"},
	Sorts: map[string]string{
		"createdAt": "createdAt",
		"shopName":  "shopName",
	},
	DefaultSort: "createdAt",
	DefaultDesc: true,
	NewResource: func() model.Resource { return new(model.Shop) },
}

var All = []*Kind{Flight, Hotel, Holiday, Shop, Guide, Currency, Event}

func Bookable() []*Kind {
	kinds := make([]*Kind, 0, len(All))
	for _, k := range All {
		if k.Bookable() {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func ByName(name string) (*Kind, bool) {
	for _, k := range All {
		if k.Name == name {
			return k, true
		}
	}
	return nil, false
}
