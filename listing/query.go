package listing

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-booking/catalog"
	apperrors "travel-booking/errors"
	"travel-booking/model"
)

const (
	statusAll   = "all"
	fallbackKey = "createdAt"
	day         = 24 * time.Hour
)

type Params map[string]string

// Build translates listing parameters into a filter restricted to bookable
// documents and a sort specification.
func Build(k *catalog.Kind, params Params) (bson.D, bson.D, error) {
	filter := bson.D{}

	for _, field := range k.TextFilters {
		if v := strings.TrimSpace(params[field]); v != "" {
			filter = append(filter, bson.E{Key: field, Value: contains(v)})
		}
	}

	if k.ScheduleFilter {
		if raw := strings.TrimSpace(params["date"]); raw != "" {
			date, err := parseDay(raw)
			if err != nil {
				return nil, nil, apperrors.Invalid("date must be a date like 2006-01-02")
			}
			filter = append(filter, scheduleClause(date))
		}
	}

	if k.DayFilter != "" {
		if raw := strings.TrimSpace(params[k.DayFilter]); raw != "" {
			date, err := parseDay(raw)
			if err != nil {
				return nil, nil, apperrors.Invalid("%s must be a date like 2006-01-02", k.DayFilter)
			}
			filter = append(filter, bson.E{Key: k.DayFilter, Value: dayRange(date)})
		}
	}

	switch k.Gate {
	case catalog.Counter:
		filter = append(filter, bson.E{Key: k.CounterField, Value: bson.D{{Key: "$gt", Value: 0}}})
	case catalog.Status:
		status := strings.TrimSpace(params["status"])
		switch {
		case status == "":
			filter = append(filter, bson.E{Key: k.StatusField, Value: k.OpenStatus})
		case status == statusAll:
		case k.AllowsStatus(status):
			filter = append(filter, bson.E{Key: k.StatusField, Value: status})
		default:
			return nil, nil, apperrors.Invalid("status must be one of %s or %s", strings.Join(k.Statuses, ", "), statusAll)
		}
	}

	return filter, buildSort(k, params["sortBy"], params["sortOrder"]), nil
}

func buildSort(k *catalog.Kind, sortBy, sortOrder string) bson.D {
	if sortBy == "" {
		sortBy = k.DefaultSort
	}
	field, ok := k.Sorts[sortBy]
	if !ok {
		return bson.D{{Key: fallbackKey, Value: -1}, {Key: "_id", Value: -1}}
	}

	direction := 1
	switch {
	case sortOrder == "desc":
		direction = -1
	case sortOrder == "" && k.DefaultDesc:
		direction = -1
	}
	return bson.D{{Key: field, Value: direction}, {Key: "_id", Value: direction}}
}

func contains(v string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(v), Options: "i"}
}

func scheduleClause(date time.Time) bson.E {
	return bson.E{Key: "$or", Value: bson.A{
		bson.D{{Key: "runDays", Value: date.Weekday().String()[:3]}},
		bson.D{{Key: "specificDates", Value: bson.D{{Key: "$elemMatch", Value: dayRange(date)}}}},
	}}
}

func dayRange(date time.Time) bson.D {
	return bson.D{
		{Key: "$gte", Value: date},
		{Key: "$lt", Value: date.Add(day)},
	}
}

func parseDay(raw string) (time.Time, error) {
	t, err := model.ParseDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
