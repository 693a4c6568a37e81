package listing

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"

	"travel-booking/catalog"
	"travel-booking/logging"
	"travel-booking/metrics"
	"travel-booking/model"
	"travel-booking/reservation"
)

const keyPrefix = "listing"

type Source interface {
	Find(ctx context.Context, k *catalog.Kind, filter, sort bson.D) ([]bson.M, error)
}

// Service serves listings, optionally through a Redis response cache. Cache
// keys embed a per-kind generation that is bumped whenever inventory changes.
type Service struct {
	source Source
	rdb    *redis.Client
	ttl    time.Duration
}

func NewService(source Source, rdb *redis.Client, ttl time.Duration) *Service {
	return &Service{source: source, rdb: rdb, ttl: ttl}
}

func (s *Service) List(ctx context.Context, k *catalog.Kind, params Params) ([]byte, error) {
	filter, order, err := Build(k, params)
	if err != nil {
		return nil, err
	}
	log := logging.FromContext(ctx).WithField("kind", k.Name)

	key := ""
	if s.rdb != nil {
		key, err = s.cacheKey(ctx, k, params)
		if err != nil {
			log.WithError(err).Warn("listing cache unavailable")
			key = ""
		}
	}
	if key != "" {
		cached, err := s.rdb.Get(ctx, key).Bytes()
		if err == nil {
			metrics.ListingCache.WithLabelValues(k.Name, "hit").Inc()
			return cached, nil
		}
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).Warn("listing cache read failed")
		}
		metrics.ListingCache.WithLabelValues(k.Name, "miss").Inc()
	}

	docs, err := s.source.Find(ctx, k, filter, order)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(Present(docs))
	if err != nil {
		return nil, fmt.Errorf("encode %s listing: %w", k.Name, err)
	}

	if key != "" {
		if err := s.rdb.Set(ctx, key, body, s.ttl).Err(); err != nil {
			log.WithError(err).Warn("listing cache write failed")
		}
	}
	return body, nil
}

// Present attaches the vendor display name and hides embedded bookings.
func Present(docs []bson.M) []bson.M {
	return lo.Map(docs, func(doc bson.M, _ int) bson.M {
		vendor := doc["vendor"]
		doc["vendorName"] = model.VendorName(vendor)
		// an unmatched lookup still leaves an empty vendor document
		if joined := model.AsMap(vendor); joined != nil && joined["_id"] != nil {
			doc["vendorId"] = joined
		}
		delete(doc, "vendor")
		delete(doc, "bookings")
		return doc
	})
}

func (s *Service) Invalidate(ctx context.Context, k *catalog.Kind) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Incr(ctx, GenerationKey(k)).Err()
}

func (s *Service) Reserved(ctx context.Context, c *reservation.Confirmation) error {
	return s.Invalidate(ctx, c.Kind)
}

func (s *Service) cacheKey(ctx context.Context, k *catalog.Kind, params Params) (string, error) {
	gen, err := s.rdb.Get(ctx, GenerationKey(k)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return CacheKey(k, gen, params), nil
}

func GenerationKey(k *catalog.Kind) string {
	return fmt.Sprintf("%s:%s:gen", keyPrefix, k.Name)
}

// CacheKey is independent of parameter order and ignores empty parameters.
func CacheKey(k *catalog.Kind, generation int64, params Params) string {
	set := lo.PickBy(map[string]string(params), func(_ string, v string) bool { return strings.TrimSpace(v) != "" })
	keys := lo.Keys(set)
	sort.Strings(keys)
	parts := lo.Map(keys, func(key string, _ int) string { return key + "=" + set[key] })
	sum := sha1.Sum([]byte(strings.Join(parts, "&")))
	return fmt.Sprintf("%s:%s:%d:%x", keyPrefix, k.Name, generation, sum[:])
}
