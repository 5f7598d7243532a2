package webhook

import (
	"errors"
	"testing"

	"github.com/nexcrm/lead-ingestion-service/internal/models"
)

func textMessage(from, id, body string) models.InboundMessage {
	return models.InboundMessage{
		From: from,
		ID:   id,
		Type: "text",
		Text: &models.TextContent{Body: body},
	}
}

func payloadWith(value models.WebhookValue) models.WebhookPayload {
	return models.WebhookPayload{
		Object: ObjectWhatsApp,
		Entry: []models.WebhookEntry{{
			ID:      "entry-1",
			Changes: []models.WebhookChange{{Value: value, Field: "messages"}},
		}},
	}
}

func TestVerifySubscription_EchoesChallenge(t *testing.T) {
	for _, challenge := range []string{"12345", "", "abc def"} {
		got, err := VerifySubscription("subscribe", "secret", challenge, "secret")
		if err != nil {
			t.Fatalf("challenge %q: unexpected error %v", challenge, err)
		}
		if got != challenge {
			t.Fatalf("challenge %q: got %q", challenge, got)
		}
	}
}

func TestVerifySubscription_Denied(t *testing.T) {
	cases := []struct {
		name        string
		mode, token string
	}{
		{"wrong token", "subscribe", "nope"},
		{"wrong mode", "unsubscribe", "secret"},
		{"both empty", "", ""},
	}
	for _, tc := range cases {
		if _, err := VerifySubscription(tc.mode, tc.token, "c", "secret"); !errors.Is(err, ErrVerificationDenied) {
			t.Fatalf("%s: expected ErrVerificationDenied, got %v", tc.name, err)
		}
	}
}

func TestDeriveBody_DispatchTable(t *testing.T) {
	cases := []struct {
		msgType  string
		textBody string
		wantKind MessageKind
		wantBody string
	}{
		{"text", "hello there", KindText, "hello there"},
		{"image", "", KindMedia, "[Image received]"},
		{"audio", "", KindMedia, "[Audio received]"},
		{"document", "", KindMedia, "[Document received]"},
		{"sticker", "", KindOther, "[sticker received]"},
		{"location", "", KindOther, "[location received]"},
	}

	for _, tc := range cases {
		kind, body := deriveBody(tc.msgType, tc.textBody)
		if kind != tc.wantKind || body != tc.wantBody {
			t.Fatalf("type %q: got (%s, %q), want (%s, %q)",
				tc.msgType, kind, body, tc.wantKind, tc.wantBody)
		}
	}
}

func TestParse_RejectsForeignObject(t *testing.T) {
	payload := models.WebhookPayload{
		Object: "page",
		Entry: []models.WebhookEntry{{
			Changes: []models.WebhookChange{{
				Value: models.WebhookValue{
					Messages: []models.InboundMessage{textMessage("15550001", "m1", "hi")},
				},
			}},
		}},
	}

	// Object mismatch wins even when the entry itself is well-formed.
	if _, err := Parse(payload); !errors.Is(err, ErrUnsupportedObject) {
		t.Fatalf("expected ErrUnsupportedObject, got %v", err)
	}
}

func TestParse_NoChanges(t *testing.T) {
	if _, err := Parse(models.WebhookPayload{Object: ObjectWhatsApp}); !errors.Is(err, ErrNoChanges) {
		t.Fatalf("expected ErrNoChanges, got %v", err)
	}

	empty := models.WebhookPayload{
		Object: ObjectWhatsApp,
		Entry:  []models.WebhookEntry{{ID: "e"}},
	}
	if _, err := Parse(empty); !errors.Is(err, ErrNoChanges) {
		t.Fatalf("expected ErrNoChanges for entry without changes, got %v", err)
	}
}

func TestParse_UnrecognizedShape(t *testing.T) {
	payload := payloadWith(models.WebhookValue{MessagingProduct: "whatsapp"})

	events, err := Parse(payload)
	if !errors.Is(err, ErrUnrecognizedEvent) {
		t.Fatalf("expected ErrUnrecognizedEvent, got %v", err)
	}
	if !events.Empty() {
		t.Fatalf("expected no events, got %+v", events)
	}
}

func TestParse_MessagesAndStatusesTogether(t *testing.T) {
	payload := payloadWith(models.WebhookValue{
		Messages: []models.InboundMessage{
			textMessage("15550001", "m1", "hello"),
			{From: "15550002", ID: "m2", Type: "image"},
		},
		Statuses: []models.DeliveryStatus{
			{ID: "m0", Status: "delivered"},
			{ID: "m0", Status: "read"},
		},
	})

	events, err := Parse(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(events.Messages))
	}
	if events.Messages[0] != (MessageEvent{SenderID: "15550001", MessageID: "m1", Kind: KindText, Body: "hello"}) {
		t.Fatalf("unexpected first message: %+v", events.Messages[0])
	}
	if events.Messages[1].Body != "[Image received]" || events.Messages[1].Kind != KindMedia {
		t.Fatalf("unexpected second message: %+v", events.Messages[1])
	}

	if len(events.Statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(events.Statuses))
	}
	if events.Statuses[1] != (StatusEvent{MessageID: "m0", Status: "read"}) {
		t.Fatalf("unexpected status: %+v", events.Statuses[1])
	}
}

func TestParse_OnlyFirstEntryFirstChange(t *testing.T) {
	payload := models.WebhookPayload{
		Object: ObjectWhatsApp,
		Entry: []models.WebhookEntry{
			{
				Changes: []models.WebhookChange{
					{Value: models.WebhookValue{Messages: []models.InboundMessage{textMessage("1", "m1", "first")}}},
					{Value: models.WebhookValue{Messages: []models.InboundMessage{textMessage("2", "m2", "second change")}}},
				},
			},
			{
				Changes: []models.WebhookChange{
					{Value: models.WebhookValue{Messages: []models.InboundMessage{textMessage("3", "m3", "second entry")}}},
				},
			},
		},
	}

	events, err := Parse(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events.Messages) != 1 || events.Messages[0].MessageID != "m1" {
		t.Fatalf("expected only entry[0].changes[0] processed, got %+v", events.Messages)
	}
}

func TestAutoReplyBody(t *testing.T) {
	got := AutoReplyBody("hello")
	want := `Thank you for your message: "hello". Our team will get back to you shortly.`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
