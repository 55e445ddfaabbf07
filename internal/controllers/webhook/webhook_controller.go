package webhook

import (
	"context"
	"encoding/json"

	"github.com/DIMO-Network/line-webhook-relay/internal/clients/line"
	"github.com/DIMO-Network/server-garage/pkg/richerrors"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type EventHandler interface {
	HandleEvent(ctx context.Context, ev *line.Event)
}

// WebhookController receives webhook deliveries from the messaging platform.
type WebhookController struct {
	handler EventHandler
}

// NewWebhookController creates a new WebhookController.
func NewWebhookController(handler EventHandler) *WebhookController {
	return &WebhookController{handler: handler}
}

// ReceiveEvents handles a webhook delivery. Every event of the batch is
// handled concurrently and the delivery is acknowledged once all of them
// are done, since reply tokens expire shortly after delivery.
func (w *WebhookController) ReceiveEvents(c *fiber.Ctx) error {
	var payload line.WebhookRequest
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return richerrors.Error{
			ExternalMsg: "Invalid webhook payload",
			Err:         err,
			Code:        fiber.StatusBadRequest,
		}
	}

	ctx := c.UserContext()
	zerolog.Ctx(ctx).Debug().
		Str("destination", payload.Destination).
		Int("events", len(payload.Events)).
		Msg("Received webhook delivery")

	var group errgroup.Group
	for _, ev := range payload.Events {
		if ev == nil {
			continue
		}
		group.Go(func() error {
			w.handler.HandleEvent(ctx, ev)
			return nil
		})
	}
	_ = group.Wait()

	return c.JSON(fiber.Map{})
}
