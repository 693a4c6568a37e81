package inventory

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-booking/catalog"
	apperrors "travel-booking/errors"
	"travel-booking/logging"
	"travel-booking/model"
)

type Store interface {
	GetVendor(ctx context.Context, id primitive.ObjectID) (*model.Vendor, error)
	Insert(ctx context.Context, k *catalog.Kind, resource model.Resource) error
	FindByVendor(ctx context.Context, k *catalog.Kind, vendorID primitive.ObjectID) ([]bson.M, error)
}

// Invalidator drops cached listings of a kind.
type Invalidator interface {
	Invalidate(ctx context.Context, k *catalog.Kind) error
}

type Service struct {
	store    Store
	cache    Invalidator
	validate *validator.Validate
	now      func() time.Time
}

func NewService(store Store, cache Invalidator) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		return field.Interface().(model.Date).Time
	}, model.Date{})
	return &Service{
		store:    store,
		cache:    cache,
		validate: v,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Create(ctx context.Context, vendorID primitive.ObjectID, k *catalog.Kind, resource model.Resource) (model.Resource, error) {
	if _, err := s.authorize(ctx, vendorID, k); err != nil {
		return nil, err
	}
	if err := resource.Prepare(vendorID, s.now()); err != nil {
		return nil, apperrors.Invalid("%s", err.Error())
	}
	if err := s.validate.Struct(resource); err != nil {
		return nil, apperrors.Invalid("%s", describe(err))
	}
	if err := s.store.Insert(ctx, k, resource); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).WithField("kind", k.Name).WithField("vendor_id", vendorID.Hex()).Info("inventory created")
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, k); err != nil {
			logging.FromContext(ctx).WithError(err).Warn("listing cache invalidation failed")
		}
	}
	return resource, nil
}

func (s *Service) List(ctx context.Context, vendorID primitive.ObjectID, k *catalog.Kind) ([]bson.M, error) {
	if _, err := s.authorize(ctx, vendorID, k); err != nil {
		return nil, err
	}
	return s.store.FindByVendor(ctx, k, vendorID)
}

func (s *Service) authorize(ctx context.Context, vendorID primitive.ObjectID, k *catalog.Kind) (*model.Vendor, error) {
	vendor, err := s.store.GetVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	switch {
	case vendor == nil:
		return nil, apperrors.Forbidden("vendor account not found")
	case !vendor.IsActive:
		return nil, apperrors.Forbidden("vendor account is inactive")
	case vendor.Type != k.Name:
		return nil, apperrors.Forbidden(fmt.Sprintf("a %s vendor cannot manage %s", vendor.Type, k.Path))
	}
	return vendor, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("%s must be %s %s", fe.Field(), map[string]string{"gt": "greater than", "gte": "at least"}[fe.Tag()], fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
