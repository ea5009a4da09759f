package httpapi

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/i474232898/arpav-bridge/internal/bulletin"
)

// Options carries the immutable settings the dispatcher needs.
type Options struct {
	// Location is the zone used to derive the current bulletin hour.
	Location *time.Location
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// RegisterRoutes wires the dispatcher into the Fiber app. Every GET (and the
// HEAD fiber pairs with it) is served the latest readings regardless of path;
// any other method gets an empty 404.
func RegisterRoutes(app *fiber.App, service *bulletin.Service, opts Options) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	app.Get("/*", func(c *fiber.Ctx) error {
		hour := opts.Now().In(opts.Location).Hour()

		readings, err := service.LatestReadings(c.UserContext(), hour)
		if err != nil {
			opts.Logger.Error("failed to serve readings",
				"request_id", c.Locals(requestid.ConfigDefault.ContextKey),
				"hour", hour,
				"error", err,
			)
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
		}

		return c.JSON(readings)
	})

	app.Use(func(c *fiber.Ctx) error {
		c.Status(fiber.StatusNotFound)
		return nil
	})
}
