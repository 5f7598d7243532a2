package webhook

import (
	"errors"
	"fmt"
)

// MessageKind classifies how a message body was derived.
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindMedia MessageKind = "media"
	KindOther MessageKind = "other"
)

// MessageEvent is a normalized inbound user message.
type MessageEvent struct {
	SenderID  string
	MessageID string
	Kind      MessageKind
	Body      string
}

// StatusEvent is a normalized delivery receipt for an outbound message.
// Observational only: it is recorded, nothing transitions on it.
type StatusEvent struct {
	MessageID string
	Status    string
}

// Events is the result of classifying one webhook change. Messages and
// statuses can both be present in the same change.
type Events struct {
	Messages []MessageEvent
	Statuses []StatusEvent
}

// Empty reports whether classification found nothing to act on.
func (e Events) Empty() bool {
	return len(e.Messages) == 0 && len(e.Statuses) == 0
}

var (
	// ErrUnsupportedObject means the envelope discriminator is not the
	// WhatsApp business account object.
	ErrUnsupportedObject = errors.New("unsupported webhook object type")

	// ErrNoChanges means the envelope matched but carried no entry/change
	// to examine.
	ErrNoChanges = errors.New("webhook payload has no changes")

	// ErrUnrecognizedEvent means a change matched none of the recognized
	// event shapes. Callers log it; it is never silently dropped.
	ErrUnrecognizedEvent = errors.New("unrecognized webhook event shape")
)

// ErrVerificationDenied rejects a subscription handshake whose mode or
// token does not match.
var ErrVerificationDenied = errors.New("webhook verification denied")

// VerifySubscription performs the challenge/response handshake. It returns
// the challenge to echo back verbatim (the empty string is a valid
// challenge) or ErrVerificationDenied on any mode/token mismatch.
func VerifySubscription(mode, token, challenge, secret string) (string, error) {
	if mode == "subscribe" && token == secret {
		return challenge, nil
	}
	return "", ErrVerificationDenied
}

// deriveBody maps a message type to the body the rest of the system sees.
// Text is forwarded verbatim; everything else collapses to a placeholder
// label.
func deriveBody(msgType, textBody string) (MessageKind, string) {
	switch msgType {
	case "text":
		return KindText, textBody
	case "image":
		return KindMedia, "[Image received]"
	case "audio":
		return KindMedia, "[Audio received]"
	case "document":
		return KindMedia, "[Document received]"
	default:
		return KindOther, fmt.Sprintf("[%s received]", msgType)
	}
}
