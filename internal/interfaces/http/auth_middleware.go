package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/access"
	"github.com/jhoicas/estoque-api/internal/application/dto"
	authz "github.com/jhoicas/estoque-api/internal/domain/access"
	"github.com/jhoicas/estoque-api/pkg/jwt"
)

// Locals keys para UserID y Actor en Fiber.
const (
	LocalUserID = "user_id"
	LocalActor  = "actor"
)

// actorResolver lo implementa *access.Resolver.
type actorResolver interface {
	Resolve(ctx context.Context, userID string) authz.Actor
}

// AuthMiddleware valida el Bearer Token JWT y deja el UserID en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "header Authorization obrigatório"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vazio"})
		}
		userID, _, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil || userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido ou expirado"})
		}
		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}

// ActorMiddleware resuelve roles y sector del usuario autenticado en cada petición.
// Debe ir después de AuthMiddleware.
func ActorMiddleware(resolver actorResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalActor, resolver.Resolve(c.Context(), GetUserID(c)))
		return c.Next()
	}
}

// RequireAnyRole exige que el actor tenga algún rol conocido.
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetActor(c).HasRole {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "NO_ROLE", Message: "usuário sem papel atribuído"})
		}
		return c.Next()
	}
}

// Require corta con 403 si el actor no tiene la capacidad indicada (claves de access.Capabilities).
func Require(capability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if !actor.HasRole {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "NO_ROLE", Message: "usuário sem papel atribuído"})
		}
		if !access.Capabilities(actor)[capability] {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "permissão insuficiente: " + capability})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetActor devuelve el actor resuelto; sin ActorMiddleware es anónimo.
func GetActor(c *fiber.Ctx) authz.Actor {
	a, ok := c.Locals(LocalActor).(authz.Actor)
	if !ok {
		return authz.Anonymous()
	}
	return a
}
