package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexcrm/lead-ingestion-service/internal/models"
	"github.com/nexcrm/lead-ingestion-service/internal/webhook"
)

// AutoReplier sends the canned acknowledgement back to a message sender.
// Satisfied by vendors.MetaClient; swapped for a double in tests.
type AutoReplier interface {
	SendWhatsAppText(ctx context.Context, to, body string) error
}

// EventRecorder persists observed webhook traffic.
// Satisfied by store.PostgresStore.
type EventRecorder interface {
	RecordMessage(ctx context.Context, ev webhook.MessageEvent) error
	RecordStatus(ctx context.Context, ev webhook.StatusEvent) error
}

// RegisterWebhookRoutes registers the vendor-facing webhook endpoints.
//
// GET  /webhook/whatsapp — subscription verification handshake
// POST /webhook/whatsapp — event delivery
//
// These routes are public: the vendor authenticates through the handshake
// token, not through the dashboard API keys.
func RegisterWebhookRoutes(r gin.IRoutes, verifyToken string, replier AutoReplier, recorder EventRecorder) {
	r.GET("/webhook/whatsapp", func(c *gin.Context) {
		mode := c.Query("hub.mode")
		token := c.Query("hub.verify_token")

		challenge, err := webhook.VerifySubscription(mode, token, c.Query("hub.challenge"), verifyToken)
		if err != nil {
			log.Printf("webhook verification failed: mode=%q", mode)
			c.String(http.StatusForbidden, "Verification Failed")
			return
		}

		log.Println("webhook verified successfully")
		c.Data(http.StatusOK, "text/plain", []byte(challenge))
	})

	r.POST("/webhook/whatsapp", func(c *gin.Context) {
		// The vendor retries and eventually suspends the subscription on
		// non-200 responses, so nothing past envelope validation may fail
		// the acknowledgement. A fault anywhere below still answers with
		// the fixed 500 body instead of leaking a stack trace.
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("webhook handler panic: %v", rec)
				c.String(http.StatusInternalServerError, "Error processing webhook")
			}
		}()

		var payload models.WebhookPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			log.Printf("webhook payload decode failed: %v", err)
			c.String(http.StatusInternalServerError, "Error processing webhook")
			return
		}

		events, err := webhook.Parse(payload)
		switch err {
		case nil:
		case webhook.ErrUnsupportedObject:
			c.String(http.StatusBadRequest, "Not a WhatsApp message")
			return
		case webhook.ErrNoChanges, webhook.ErrUnrecognizedEvent:
			// Envelope was ours but carried nothing actionable. Log and
			// ack; dropping it silently would hide vendor shape changes.
			log.Printf("webhook delivery ignored: %v", err)
			c.String(http.StatusOK, "EVENT_RECEIVED")
			return
		default:
			log.Printf("webhook parse failed: %v", err)
			c.String(http.StatusInternalServerError, "Error processing webhook")
			return
		}

		ctx := c.Request.Context()

		for _, msg := range events.Messages {
			log.Printf("message from %s: %s", msg.SenderID, msg.Body)

			// Fire-and-log: auto-reply and persistence are best-effort
			// and independent of the acknowledgement.
			if replier != nil {
				if err := replier.SendWhatsAppText(ctx, msg.SenderID, webhook.AutoReplyBody(msg.Body)); err != nil {
					log.Printf("auto-reply to %s failed: %v", msg.SenderID, err)
				}
			}
			if recorder != nil {
				if err := recorder.RecordMessage(ctx, msg); err != nil {
					log.Printf("recording message %s failed: %v", msg.MessageID, err)
				}
			}
		}

		for _, st := range events.Statuses {
			log.Printf("message status update: id %s is now %s", st.MessageID, st.Status)

			if recorder != nil {
				if err := recorder.RecordStatus(ctx, st); err != nil {
					log.Printf("recording status for %s failed: %v", st.MessageID, err)
				}
			}
		}

		c.String(http.StatusOK, "EVENT_RECEIVED")
	})
}
