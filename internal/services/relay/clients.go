package relay

import (
	"context"

	"github.com/DIMO-Network/line-webhook-relay/internal/clients/line"
	"github.com/DIMO-Network/line-webhook-relay/internal/services/relaylog"
)

// LineClient is the part of the messaging API the pipeline uses.
type LineClient interface {
	ReplyMessage(ctx context.Context, replyToken string, messages []line.Message) error
	GetProfile(ctx context.Context, userID string) (*line.Profile, error)
}

// RelayLogPublisher records completed relay calls.
type RelayLogPublisher interface {
	Publish(ctx context.Context, record relaylog.RelayRecord) error
}
