package handlers

import (
	"encoding/json"

	applog "cryptobazaar/internal/log"
	"cryptobazaar/internal/payments"
	"cryptobazaar/internal/repos"

	"github.com/gofiber/fiber/v2"
)

// WebhookHandler receives IPN notifications from the payment provider.
type WebhookHandler struct {
	Orders    *repos.OrderRepo
	IPNSecret string
}

// Receive verifies the full-body HMAC-SHA512 signature, then transitions
// the order pending -> paid on a "finished" notification. Every verified
// delivery is acknowledged, even when the status update fails: the
// provider's retry semantics are its own.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	body := c.Body()
	sig := c.Get("x-nowpayments-sig")

	if err := payments.VerifySignature(h.IPNSecret, body, sig); err != nil {
		applog.Security(c, "webhook.signature.fail", nil)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid signature"})
	}

	var evt payments.IPNEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		// Signed but unparseable: log and ack, a retry would not help.
		applog.Error(c, "webhook.decode", err, nil)
		return c.JSON(fiber.Map{"received": true})
	}

	if evt.PaymentStatus == payments.StatusFinished {
		if err := h.Orders.MarkPaid(evt.OrderID); err != nil {
			// Logged, not surfaced: the delivery is still acknowledged.
			applog.Error(c, "webhook.mark_paid", err, map[string]any{"order_id": evt.OrderID})
		} else {
			applog.Audit(c, "webhook.paid", map[string]any{"order_id": evt.OrderID, "payment_id": evt.PaymentID.String()})
		}
	}

	return c.JSON(fiber.Map{"received": true})
}
