package bookings

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"travel-booking/catalog"
	"travel-booking/model"
)

// Source returns the documents of one kind that hold at least one booking of
// the user, each with its vendor joined under "vendor".
type Source interface {
	UserBookings(ctx context.Context, k *catalog.Kind, userID primitive.ObjectID) ([]bson.M, error)
}

// Entry is one normalized row of a user's booking history.
type Entry struct {
	Type       string
	BookingID  any
	VendorName string
	BookedAt   time.Time
	Fields     map[string]any
}

func (e Entry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Fields)+4)
	for k, v := range e.Fields {
		out[k] = v
	}
	out["type"] = e.Type
	out["bookingId"] = e.BookingID
	out["vendorName"] = e.VendorName
	out["bookedAt"] = e.BookedAt
	return json.Marshal(out)
}

type View struct {
	source Source
	kinds  []*catalog.Kind
}

func NewView(source Source, kinds []*catalog.Kind) *View {
	return &View{source: source, kinds: kinds}
}

// ForUser scans every kind concurrently and returns the merged history,
// most recent booking first.
func (v *View) ForUser(ctx context.Context, userID primitive.ObjectID) ([]Entry, error) {
	perKind := make([][]Entry, len(v.kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, k := range v.kinds {
		i, k := i, k
		g.Go(func() error {
			docs, err := v.source.UserBookings(gctx, k, userID)
			if err != nil {
				return err
			}
			perKind[i] = lo.FlatMap(docs, func(doc bson.M, _ int) []Entry {
				return entries(k, doc, userID)
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := lo.Flatten(perKind)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].BookedAt.After(all[j].BookedAt)
	})
	return all, nil
}

func entries(k *catalog.Kind, doc bson.M, userID primitive.ObjectID) []Entry {
	subs, _ := doc["bookings"].(bson.A)
	unit, _ := model.Number(doc[k.PriceField])
	vendorName := model.VendorName(doc["vendor"])
	created, _ := model.Time(doc["createdAt"])

	out := []Entry{}
	for _, raw := range subs {
		sub := model.AsMap(raw)
		if sub == nil || sub["userId"] != userID {
			continue
		}
		quantity, _ := model.Number(sub[k.QuantityField])

		fields := map[string]any{
			k.IDParam:       doc["_id"],
			k.QuantityField: sub[k.QuantityField],
			k.TotalKey:      unit * quantity,
		}
		for _, f := range k.HistoryFields {
			fields[f.Key] = doc[f.Source]
		}
		if k.DateField != "" {
			fields[k.DateField] = sub[k.DateField]
		}

		bookedAt, ok := model.Time(sub["createdAt"])
		if !ok {
			bookedAt = created
		}
		out = append(out, Entry{
			Type:       k.Name,
			BookingID:  sub["_id"],
			VendorName: vendorName,
			BookedAt:   bookedAt,
			Fields:     fields,
		})
	}
	return out
}
