package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "travel-booking/errors"
)

const identityKey = "identity"

func Authorize(signingKey string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(signingKey),
		ErrorHandler: jwtError,
		ContextKey:   identityKey,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

func claims(c *fiber.Ctx) jwt.MapClaims {
	token, ok := c.Locals(identityKey).(*jwt.Token)
	if !ok {
		return nil
	}
	mapClaims, _ := token.Claims.(jwt.MapClaims)
	return mapClaims
}

// UserID returns the caller id carried in the "id" claim.
func UserID(c *fiber.Ctx) (primitive.ObjectID, bool) {
	raw, _ := claims(c)["id"].(string)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil || id.IsZero() {
		return primitive.NilObjectID, false
	}
	return id, true
}

func Role(c *fiber.Ctx) string {
	role, _ := claims(c)["role"].(string)
	return role
}

// RequireIdentity rejects tokens that do not name a caller.
func RequireIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := UserID(c); !ok {
			return apperrors.RaisePermissionsError(c, "token carries no user id")
		}
		return c.Next()
	}
}

func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := Role(c)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return apperrors.RaiseForbiddenError(c, "lack of permissions")
	}
}
