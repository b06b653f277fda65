package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/noah-isme/examgate-go-api/internal/utils"
)

// RateLimit throttles an endpoint per authenticated user, falling back to
// the client IP for anonymous traffic. Bulk fan-out is the main consumer.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			principal := fmt.Sprintf("%v", c.Locals("user_id"))
			if principal == "" || principal == "0" || principal == "<nil>" {
				principal = c.IP()
			}
			return fmt.Sprintf("%s:%s", identifier, principal)
		},
		LimitReached: func(c *fiber.Ctx) error {
			return utils.Fail(c, fiber.StatusTooManyRequests, "rate limit exceeded", fiber.Map{
				"retry_after": window.String(),
			})
		},
	})
}
