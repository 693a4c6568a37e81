package reservation

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-booking/catalog"
	"travel-booking/model"
)

type Confirmation struct {
	Kind       *catalog.Kind
	BookingID  primitive.ObjectID
	UserID     primitive.ObjectID
	ResourceID primitive.ObjectID
	Quantity   int64
	Date       *time.Time
	UnitPrice  float64
	Total      float64
	// Available is the counter after the decrement, nil for status gated kinds.
	Available *int64
	Details   map[string]any
	BookedAt  time.Time
}

func newConfirmation(k *catalog.Kind, req *Request, booking *model.Booking, doc bson.M) *Confirmation {
	unit, _ := model.Number(doc[k.PriceField])
	conf := &Confirmation{
		Kind:       k,
		BookingID:  booking.Id,
		UserID:     booking.UserId,
		ResourceID: req.ResourceID,
		Quantity:   booking.Quantity,
		Date:       booking.Date,
		UnitPrice:  unit,
		Total:      unit * float64(booking.Quantity),
		Details:    make(map[string]any, len(k.ConfirmFields)),
		BookedAt:   booking.CreatedAt,
	}
	for _, f := range k.ConfirmFields {
		conf.Details[f.Key] = doc[f.Source]
	}
	if k.Gate == catalog.Counter {
		if available, ok := model.Int(doc[k.CounterField]); ok {
			conf.Available = &available
		}
	}
	return conf
}

// Payload is the booking record returned to the caller.
func (c *Confirmation) Payload() map[string]any {
	k := c.Kind
	out := map[string]any{
		"bookingId":     c.BookingID,
		k.IDParam:       c.ResourceID,
		k.QuantityField: c.Quantity,
		k.TotalKey:      c.Total,
	}
	for key, v := range c.Details {
		out[key] = v
	}
	if k.DateField != "" && c.Date != nil {
		out[k.DateField] = *c.Date
	}
	if c.Available != nil {
		out[k.CounterField] = *c.Available
	}
	return out
}
