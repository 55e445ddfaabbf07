// Command relay-receiver is a sample relay target. It checks the shared
// secret, counts visits in a session cookie, and echoes what it received.
package main

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/DIMO-Network/server-garage/pkg/logging"
	"github.com/gofiber/fiber/v2"
)

const visitsCookie = "relay_visits"

func main() {
	logger := logging.GetAndSetDefaultLogger("relay-receiver")
	addr := flag.String("addr", ":8081", "listen address")
	secret := flag.String("secret", "", "expected relay secret, any secret is accepted when empty")
	flag.Parse()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Post("/relay", relayHandler(*secret))

	logger.Info().Str("addr", *addr).Msg("Relay receiver listening")
	if err := app.Listen(*addr); err != nil {
		logger.Fatal().Err(err).Msg("Relay receiver failed")
	}
}

func relayHandler(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret != "" && c.FormValue("secret") != secret {
			return c.Status(fiber.StatusForbidden).SendString("Wrong secret.")
		}

		visits, _ := strconv.Atoi(c.Cookies(visitsCookie))
		visits++
		c.Cookie(&fiber.Cookie{Name: visitsCookie, Value: strconv.Itoa(visits), Path: "/", HTTPOnly: true})

		name := c.FormValue("user_name", "there")
		switch c.FormValue("type") {
		case "text":
			return c.SendString(fmt.Sprintf("Hi %s (visit #%d), you said: %s", name, visits, c.FormValue("text")))
		case "sticker":
			return c.JSON([]fiber.Map{
				{"type": "text", "text": fmt.Sprintf("Nice sticker %s (visit #%d)", c.FormValue("sticker"), visits)},
				{"type": "sticker", "packageId": "446", "stickerId": "1988"},
			})
		default:
			return c.JSON(fiber.Map{"received": c.FormValue("type"), "visits": visits})
		}
	}
}
