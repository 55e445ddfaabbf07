// Package relaylog publishes an audit record for every message relayed to
// a user's target URL.
package relaylog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DIMO-Network/cloudevent"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const (
	// EventType is the CloudEvent type of relay records.
	EventType   = "line.relay.exchange"
	dataVersion = "relay.exchange/v1.0"
)

// RelayRecord describes one completed relay call.
type RelayRecord struct {
	UserID      string `json:"userId"`
	MessageID   string `json:"messageId"`
	MessageType string `json:"messageType"`
	TargetURL   string `json:"targetUrl"`
	StatusCode  int    `json:"statusCode"`
	DurationMS  int64  `json:"durationMs"`
}

// Publisher sends relay records to a topic as CloudEvents.
type Publisher struct {
	publisher message.Publisher
	topic     string
	source    string
}

// NewPublisher creates a new Publisher.
func NewPublisher(publisher message.Publisher, topic, source string) *Publisher {
	return &Publisher{
		publisher: publisher,
		topic:     topic,
		source:    source,
	}
}

// Publish sends one record.
func (p *Publisher) Publish(ctx context.Context, record RelayRecord) error {
	event := cloudevent.CloudEvent[RelayRecord]{
		CloudEventHeader: cloudevent.CloudEventHeader{
			ID:              uuid.New().String(),
			Source:          p.source,
			Subject:         record.UserID,
			Time:            time.Now().UTC(),
			DataContentType: "application/json",
			DataVersion:     dataVersion,
			Type:            EventType,
			SpecVersion:     "1.0",
		},
		Data: record,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal relay record: %w", err)
	}
	msg := message.NewMessage(event.ID, payload)
	msg.SetContext(ctx)
	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish relay record: %w", err)
	}
	return nil
}

// Close closes the underlying publisher.
func (p *Publisher) Close() error {
	return p.publisher.Close()
}
