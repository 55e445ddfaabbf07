package line

import (
	"encoding/json"
	"fmt"
)

// Event types delivered by the platform.
const (
	EventTypeMessage  = "message"
	EventTypeFollow   = "follow"
	EventTypeUnfollow = "unfollow"
	EventTypePostback = "postback"
)

// Message types found in message events.
const (
	MessageTypeText    = "text"
	MessageTypeSticker = "sticker"
)

// WebhookRequest is the body of a webhook delivery: a batch of events.
type WebhookRequest struct {
	Destination string   `json:"destination"`
	Events      []*Event `json:"events"`
}

// Event is a single webhook event. Raw keeps the event exactly as it was delivered.
type Event struct {
	Type            string           `json:"type"`
	Mode            string           `json:"mode,omitempty"`
	Timestamp       int64            `json:"timestamp"`
	Source          Source           `json:"source"`
	WebhookEventID  string           `json:"webhookEventId,omitempty"`
	DeliveryContext *DeliveryContext `json:"deliveryContext,omitempty"`
	ReplyToken      string           `json:"replyToken,omitempty"`
	Message         *EventMessage    `json:"message,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the event and keeps a copy of the original bytes in Raw.
func (e *Event) UnmarshalJSON(data []byte) error {
	type plainEvent Event
	var decoded plainEvent
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("failed to decode event: %w", err)
	}
	*e = Event(decoded)
	e.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// Source identifies where an event came from.
type Source struct {
	Type    string `json:"type"`
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

type DeliveryContext struct {
	IsRedelivery bool `json:"isRedelivery"`
}

// EventMessage is the message carried by a message event. Only the fields
// the relay forwards are decoded; everything else stays available in Event.Raw.
type EventMessage struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	PackageID string `json:"packageId,omitempty"`
	StickerID string `json:"stickerId,omitempty"`
}

// Profile is a user profile returned by the profile API.
type Profile struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl,omitempty"`
	StatusMessage string `json:"statusMessage,omitempty"`
}

// Message is one reply message object. Messages built elsewhere (rich
// messages returned by a relay target) are sent without being re-encoded.
type Message = json.RawMessage

// TextMessage builds a plain text reply message.
func TextMessage(text string) Message {
	msg, _ := json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{Type: MessageTypeText, Text: text})
	return msg
}

// ReplyMessageRequest is the body of the reply API.
type ReplyMessageRequest struct {
	ReplyToken string    `json:"replyToken"`
	Messages   []Message `json:"messages"`
}
