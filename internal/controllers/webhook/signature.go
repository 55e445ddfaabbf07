package webhook

import (
	"github.com/DIMO-Network/line-webhook-relay/internal/clients/line"
	"github.com/DIMO-Network/server-garage/pkg/richerrors"
	"github.com/gofiber/fiber/v2"
)

// SignatureMiddleware rejects requests whose body is not signed with the channel secret.
func SignatureMiddleware(channelSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		signature := c.Get(line.SignatureHeader)
		if signature == "" {
			return richerrors.Error{
				ExternalMsg: "Signature header missing",
				Code:        fiber.StatusBadRequest,
			}
		}
		if !line.VerifySignature(channelSecret, c.Body(), signature) {
			return richerrors.Error{
				ExternalMsg: "Invalid signature",
				Code:        fiber.StatusBadRequest,
			}
		}
		return c.Next()
	}
}
