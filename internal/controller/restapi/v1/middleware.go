package v1

import (
	"strings"

	"github.com/enrollhq/enroll/internal/entity"
	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// principalMiddleware lifts the already-verified caller identity out of the
// trusted headers set by the upstream auth proxy. Token verification itself
// is an external collaborator, not part of this service.
func principalMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		p := entity.Principal{
			Username: ctx.Get("X-Auth-User"),
			Role:     strings.ToLower(ctx.Get("X-Auth-Role")),
		}

		if governments := ctx.Get("X-Auth-Governments"); governments != "" {
			for _, g := range strings.Split(governments, ",") {
				if g = strings.TrimSpace(g); g != "" {
					p.Governments = append(p.Governments, g)
				}
			}
		}

		ctx.Locals(principalKey, p)

		return ctx.Next()
	}
}

func principalFrom(ctx *fiber.Ctx) entity.Principal {
	if p, ok := ctx.Locals(principalKey).(entity.Principal); ok {
		return p
	}

	return entity.Principal{}
}
