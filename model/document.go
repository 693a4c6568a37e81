package model

import (
	"math"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AsMap reads an embedded document whichever way it was decoded.
func AsMap(v any) bson.M {
	switch m := v.(type) {
	case bson.M:
		return m
	case bson.D:
		out := make(bson.M, len(m))
		for _, e := range m {
			out[e.Key] = e.Value
		}
		return out
	}
	return nil
}

// Number reads a numeric value decoded from BSON or JSON.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case primitive.Decimal128:
		f, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Int reads a whole number, rejecting fractional values.
func Int(v any) (int64, bool) {
	f, ok := Number(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

func Time(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case primitive.DateTime:
		return t.Time().UTC(), true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	}
	return time.Time{}, false
}
