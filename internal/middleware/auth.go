package middleware

import (
	"strings"

	"athlos/internal/config"
	"athlos/internal/models"
	"athlos/internal/policy"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// parseRequester validates a bearer token and extracts the requester
// identity from the subject claim. The token is issued by the external
// identity provider; the subject is the profile UUID and is treated as an
// opaque identity, never interpreted beyond equality checks.
func parseRequester(tokenString string) (policy.Requester, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return policy.Anonymous, models.NewPolicyDeniedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return policy.Anonymous, models.NewPolicyDeniedError("Invalid token claims")
	}

	if cfg.JWTIssuer != "" {
		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != cfg.JWTIssuer {
			return policy.Anonymous, models.NewPolicyDeniedError("Invalid token issuer")
		}
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return policy.Anonymous, models.NewPolicyDeniedError("Invalid subject claim")
	}

	profileID, err := uuid.Parse(sub)
	if err != nil {
		return policy.Anonymous, models.NewPolicyDeniedError("Invalid profile ID in token")
	}

	return policy.ForProfile(profileID), nil
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return ""
}

// AuthRequired is a middleware that enforces authentication for protected routes.
// It stores the requester identity in c.Locals("requester").
func AuthRequired(c *fiber.Ctx) error {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization required",
		})
	}

	requester, err := parseRequester(tokenString)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Locals("requester", requester)
	c.Locals("profileID", requester.ProfileID.String())

	return c.Next()
}

// OptionalAuth extracts the requester identity when a valid bearer token is
// present but does not enforce it. Public read endpoints use this so that
// visibility predicates see the authenticated identity when available.
func OptionalAuth(c *fiber.Ctx) error {
	tokenString := bearerToken(c)
	if tokenString != "" {
		if requester, err := parseRequester(tokenString); err == nil {
			c.Locals("requester", requester)
			c.Locals("profileID", requester.ProfileID.String())
		}
	}
	return c.Next()
}

// RequesterFromCtx returns the requester stored by AuthRequired/OptionalAuth,
// or the anonymous requester when none is set.
func RequesterFromCtx(c *fiber.Ctx) policy.Requester {
	if r, ok := c.Locals("requester").(policy.Requester); ok {
		return r
	}
	return policy.Anonymous
}
