package reservation

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-booking/catalog"
	apperrors "travel-booking/errors"
	"travel-booking/model"
)

var validate = validator.New()

type Request struct {
	UserID     primitive.ObjectID
	ResourceID primitive.ObjectID
	Quantity   int64
	Date       *time.Time
}

// ParseRequest reads a booking body keyed by the field names of k.
func ParseRequest(k *catalog.Kind, userID primitive.ObjectID, body map[string]any) (*Request, error) {
	rawID, _ := body[k.IDParam].(string)
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return nil, apperrors.Invalid("%s is required", k.IDParam)
	}
	if err := validate.Var(rawID, "mongodb"); err != nil {
		return nil, apperrors.Invalid("%s is not a valid id", k.IDParam)
	}
	resourceID, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, apperrors.Invalid("%s is not a valid id", k.IDParam)
	}

	rawQuantity, present := body[k.QuantityField]
	if !present || rawQuantity == nil {
		return nil, apperrors.Invalid("%s is required", k.QuantityField)
	}
	quantity, ok := model.Int(rawQuantity)
	if !ok || validate.Var(quantity, "gt=0") != nil {
		return nil, apperrors.Invalid("%s must be a positive integer", k.QuantityField)
	}

	req := &Request{UserID: userID, ResourceID: resourceID, Quantity: quantity}

	if k.DateField != "" {
		rawDate, _ := body[k.DateField].(string)
		if strings.TrimSpace(rawDate) == "" {
			return nil, apperrors.Invalid("%s is required", k.DateField)
		}
		date, err := model.ParseDate(rawDate)
		if err != nil {
			return nil, apperrors.Invalid("%s must be a date like 2006-01-02", k.DateField)
		}
		req.Date = &date
	}
	return req, nil
}

func (r *Request) validate(k *catalog.Kind) error {
	switch {
	case r.UserID.IsZero():
		return apperrors.Invalid("userId is required")
	case r.ResourceID.IsZero():
		return apperrors.Invalid("%s is required", k.IDParam)
	case r.Quantity <= 0:
		return apperrors.Invalid("%s must be a positive integer", k.QuantityField)
	case k.DateField != "" && r.Date == nil:
		return apperrors.Invalid("%s is required", k.DateField)
	}
	return nil
}
