package handlers

import "github.com/gofiber/fiber/v2"

// HelloMessage is the body served on the root route.
const HelloMessage = "Hello World! HOLY MOLY"

// HandleHello serves the root route.
func HandleHello(c *fiber.Ctx) error {
	return c.SendString(HelloMessage)
}
