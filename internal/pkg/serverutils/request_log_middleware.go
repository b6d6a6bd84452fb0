package serverutils

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type requestCounter interface {
	Increment(ctx context.Context, method string, path string) error
}

// RequestLogMiddleware counts hits per method+path. Counting failures are
// logged and never fail the request.
func RequestLogMiddleware(counter requestCounter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := counter.Increment(c.Context(), c.Method(), c.Path()); err != nil {
			log.Errorf("[RequestLog] failed to count %s %s: %v", c.Method(), c.Path(), err)
		}
		return c.Next()
	}
}
