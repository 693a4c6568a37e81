package logging

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const CorrelationHeader = "X-Correlation-ID"

type ctxKey int

const (
	loggerKey ctxKey = iota
	correlationKey
)

func Init(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

func FromContext(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(loggerKey).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func ToContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey, entry)
}

func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey).(string)
	return id
}

func WithCorrelationID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, correlationKey, id)
	return ToContext(ctx, FromContext(ctx).WithField("correlation_id", id))
}

// Middleware attaches a correlation id and a request scoped logger to the
// user context of every request.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(CorrelationHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(CorrelationHeader, id)

		ctx := WithCorrelationID(c.UserContext(), id)
		ctx = ToContext(ctx, FromContext(ctx).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}))
		c.SetUserContext(ctx)
		return c.Next()
	}
}
