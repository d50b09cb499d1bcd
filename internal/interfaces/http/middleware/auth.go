package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// SupabaseClaims são as claims emitidas pelo Supabase Auth
type SupabaseClaims struct {
	Email       string                 `json:"email"`
	Role        string                 `json:"role"`
	AppMetadata map[string]interface{} `json:"app_metadata"`
	jwt.RegisteredClaims
}

// IsAdmin indica se o token tem permissão administrativa
func (c *SupabaseClaims) IsAdmin() bool {
	if c.Role == "service_role" {
		return true
	}
	role, _ := c.AppMetadata["role"].(string)
	return role == "admin"
}

// ClaimsKey é a chave em Locals onde as claims validadas ficam disponíveis
const ClaimsKey = "claims"

var errMissingToken = errors.New("missing bearer token")

// RequireAdmin valida o JWT do Supabase (HS256) e exige papel de administrador
func RequireAdmin(secret string) fiber.Handler {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *fiber.Ctx) error {
		if len(key) == 0 {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Admin authentication is not configured",
			})
		}

		raw, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authorization header required"})
		}

		claims := &SupabaseClaims{}
		_, err = parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		if !claims.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin role required"})
		}

		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

func bearerToken(header string) (string, error) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", errMissingToken
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", errMissingToken
	}
	return token, nil
}
