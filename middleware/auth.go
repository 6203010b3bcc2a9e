package middleware

import (
	"fmt"
	"os"
	"strings"

	"chefmarket-booking/constants"
	"chefmarket-booking/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// verifyToken parses and validates an HMAC-signed bearer token against
// JWT_SECRET.
func verifyToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			return nil, fmt.Errorf("JWT_SECRET is not set")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid JWT token")
	}
	return claims, nil
}

func hasRole(claims jwt.MapClaims, requiredRoles []string) bool {
	for _, required := range requiredRoles {
		if required == constants.RoleAny {
			return true
		}
	}

	role, ok := claims["role"].(string)
	if !ok {
		return false
	}

	for _, required := range requiredRoles {
		if role == required {
			return true
		}
	}
	return false
}

// IsAuthenticated is a middleware that checks for a valid JWT token and one
// of the required roles, attaching the claims to the request context.
func IsAuthenticated(requiredRoles []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Authorization token missing",
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Invalid authorization header format",
			})
		}

		claims, err := verifyToken(tokenParts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Invalid or expired token",
			})
		}

		if !hasRole(claims, requiredRoles) {
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Status:  fiber.StatusForbidden,
				Message: "Insufficient permissions",
			})
		}

		c.Locals("user", map[string]interface{}(claims))

		return c.Next()
	}
}

// RequireRoles creates a middleware allowing only the given roles.
func RequireRoles(roles ...string) fiber.Handler {
	return IsAuthenticated(roles)
}

// RequireAuthentication only requires a valid token without a specific role.
func RequireAuthentication() fiber.Handler {
	return IsAuthenticated([]string{constants.RoleAny})
}
