package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// DateLayouts are the accepted spellings of a calendar date in requests.
var DateLayouts = []string{"2006-01-02", time.RFC3339}

func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var err error
	for _, layout := range DateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

// Date is a time decoded from JSON with any of DateLayouts and stored in
// MongoDB as a BSON datetime.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		return fmt.Errorf("date must look like 2006-01-02: %w", err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time)
}

func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.Time)
}

func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	return bson.RawValue{Type: t, Value: data}.Unmarshal(&d.Time)
}
