package webhook

import (
	"github.com/nexcrm/lead-ingestion-service/internal/models"
)

// ObjectWhatsApp is the envelope discriminator for WhatsApp business
// account deliveries.
const ObjectWhatsApp = "whatsapp_business_account"

// Parse validates the envelope and classifies the first entry's first
// change into normalized events.
//
// Only entry[0].changes[0] is examined. The vendor has so far delivered one
// change per call; if it ever batches, later entries are unprocessed. Kept
// as-is pending confirmation of the vendor's batching guarantees.
//
// Returns ErrUnsupportedObject for a foreign envelope, ErrNoChanges when
// the envelope matched but there is nothing to examine, and
// ErrUnrecognizedEvent when the change matched neither the message nor the
// status shape. ErrNoChanges and ErrUnrecognizedEvent are advisory: the
// delivery is still acknowledged, the caller just logs them.
func Parse(payload models.WebhookPayload) (Events, error) {
	if payload.Object != ObjectWhatsApp {
		return Events{}, ErrUnsupportedObject
	}

	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return Events{}, ErrNoChanges
	}

	events := Classify(payload.Entry[0].Changes[0].Value)
	if events.Empty() {
		return events, ErrUnrecognizedEvent
	}
	return events, nil
}

// Classify turns one change value into normalized events. Messages and
// statuses are independent branches, not mutually exclusive: a change
// carrying both produces both.
func Classify(value models.WebhookValue) Events {
	var events Events

	for _, msg := range value.Messages {
		var textBody string
		if msg.Text != nil {
			textBody = msg.Text.Body
		}
		kind, body := deriveBody(msg.Type, textBody)
		events.Messages = append(events.Messages, MessageEvent{
			SenderID:  msg.From,
			MessageID: msg.ID,
			Kind:      kind,
			Body:      body,
		})
	}

	for _, st := range value.Statuses {
		events.Statuses = append(events.Statuses, StatusEvent{
			MessageID: st.ID,
			Status:    st.Status,
		})
	}

	return events
}

// AutoReplyBody is the canned acknowledgement sent back to a sender for
// each inbound message.
func AutoReplyBody(derived string) string {
	return `Thank you for your message: "` + derived + `". Our team will get back to you shortly.`
}
