// Package relay handles one chat event at a time: it runs commands, or
// relays the message to the user's target URL and replies with the answer.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/DIMO-Network/line-webhook-relay/internal/clients/line"
	"github.com/DIMO-Network/line-webhook-relay/internal/services/commands"
	"github.com/DIMO-Network/line-webhook-relay/internal/services/cookiejar"
	"github.com/DIMO-Network/line-webhook-relay/internal/services/relaylog"
	"github.com/DIMO-Network/line-webhook-relay/internal/services/relaysender"
	"github.com/DIMO-Network/line-webhook-relay/internal/services/userprofile"
	"github.com/rs/zerolog"
)

// URLNotSetMessage is the reply to users that have no target URL yet.
const URLNotSetMessage = "No relay URL is set yet. Send \"" + commands.Prefix + " set-url https://...\" to set one, or \"" + commands.Prefix + "\" to list the commands."

// ProfileStore loads and saves per-user relay configs.
type ProfileStore interface {
	Load(ctx context.Context, userID string) (userprofile.Config, error)
	Save(ctx context.Context, userID string, cfg userprofile.Config) error
}

// JarRegistry hands out and persists per-user cookie jars.
type JarRegistry interface {
	GetJar(ctx context.Context, userID string) (*cookiejar.Jar, error)
	Save(ctx context.Context, userID string, jar *cookiejar.Jar) error
}

// Sender posts a relay form to a target URL.
type Sender interface {
	Send(ctx context.Context, targetURL string, form url.Values, jar relaysender.CookieJar) (*relaysender.Response, error)
}

// Pipeline processes webhook events.
type Pipeline struct {
	lineClient LineClient
	profiles   ProfileStore
	jars       JarRegistry
	sender     Sender
	commands   *commands.Registry
	relayLog   RelayLogPublisher
}

// NewPipeline creates a new Pipeline. relayLog may be nil.
func NewPipeline(lineClient LineClient,
	profiles ProfileStore,
	jars JarRegistry,
	sender Sender,
	registry *commands.Registry,
	relayLog RelayLogPublisher,
) *Pipeline {
	return &Pipeline{
		lineClient: lineClient,
		profiles:   profiles,
		jars:       jars,
		sender:     sender,
		commands:   registry,
		relayLog:   relayLog,
	}
}

// HandleEvent processes one event and replies to it. Failures are reported
// to the user when possible and logged; they never escape the event.
func (p *Pipeline) HandleEvent(ctx context.Context, ev *line.Event) {
	logger := zerolog.Ctx(ctx).With().
		Str("event_id", ev.WebhookEventID).
		Str("user_id", ev.Source.UserID).
		Logger()
	ctx = logger.WithContext(ctx)

	if ev.Type != line.EventTypeMessage || ev.Message == nil || ev.ReplyToken == "" {
		logger.Debug().Str("event_type", ev.Type).Msg("Skipping event that cannot be relayed")
		return
	}
	if !userprofile.ValidUserID(ev.Source.UserID) {
		logger.Warn().Msg("Rejecting event with invalid user id")
		return
	}

	messages, err := p.process(ctx, ev)
	if err == nil {
		err = p.lineClient.ReplyMessage(ctx, ev.ReplyToken, messages)
		if err == nil {
			return
		}
	}
	logger.Error().Err(err).Msg("Failed to handle event")
	p.reportFailure(ctx, ev.ReplyToken, err)
}

func (p *Pipeline) process(ctx context.Context, ev *line.Event) ([]line.Message, error) {
	userID := ev.Source.UserID
	cfg, err := p.profiles.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	if ev.Message.Type == line.MessageTypeText {
		if name, arg, ok := commands.Parse(ev.Message.Text); ok {
			return p.runCommand(ctx, userID, cfg, name, arg)
		}
	}

	if cfg.URL == "" {
		return []line.Message{line.TextMessage(URLNotSetMessage)}, nil
	}

	form := p.buildParams(ctx, ev, cfg)
	resp, err := p.relay(ctx, ev, cfg.URL, form)
	if err != nil {
		return nil, err
	}
	return TranslateResponse(resp), nil
}

func (p *Pipeline) runCommand(ctx context.Context, userID string, cfg userprofile.Config, name, arg string) ([]line.Message, error) {
	result, err := p.commands.Dispatch(ctx, commands.Context{UserID: userID, Config: cfg}, name, arg)
	if err != nil {
		return nil, fmt.Errorf("command %q failed: %w", name, err)
	}
	if result.Config != nil {
		if err := p.profiles.Save(ctx, userID, *result.Config); err != nil {
			return nil, fmt.Errorf("failed to save user config: %w", err)
		}
	}
	zerolog.Ctx(ctx).Info().Str("command", name).Bool("config_changed", result.Config != nil).Msg("Ran command")
	return result.Messages, nil
}

// buildParams assembles the form posted to the target URL.
func (p *Pipeline) buildParams(ctx context.Context, ev *line.Event, cfg userprofile.Config) url.Values {
	form := url.Values{}
	form.Set("secret", cfg.Secret)
	form.Set("user_id", ev.Source.UserID)
	form.Set("id", ev.Message.ID)
	form.Set("type", ev.Message.Type)
	switch ev.Message.Type {
	case line.MessageTypeText:
		form.Set("text", ev.Message.Text)
	case line.MessageTypeSticker:
		form.Set("sticker", ev.Message.PackageID+"/"+ev.Message.StickerID)
	}

	profile, err := p.lineClient.GetProfile(ctx, ev.Source.UserID)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to get user profile, relaying without it")
	} else {
		if profile.DisplayName != "" {
			form.Set("user_name", profile.DisplayName)
		}
		if profile.PictureURL != "" {
			form.Set("user_picture_url", profile.PictureURL)
		}
	}

	raw := ev.Raw
	if len(raw) == 0 {
		raw, _ = json.Marshal(ev)
	}
	form.Set("raw", string(raw))
	return form
}

func (p *Pipeline) relay(ctx context.Context, ev *line.Event, targetURL string, form url.Values) (*relaysender.Response, error) {
	logger := zerolog.Ctx(ctx)
	userID := ev.Source.UserID

	jar, err := p.jars.GetJar(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cookie jar: %w", err)
	}

	start := time.Now()
	resp, err := p.sender.Send(ctx, targetURL, form, jar)
	if err != nil {
		return nil, err
	}
	duration := time.Since(start)

	if err := p.jars.Save(ctx, userID, jar); err != nil {
		logger.Warn().Err(err).Msg("Failed to save cookie jar")
	}
	logger.Info().
		Int("status", resp.StatusCode).
		Dur("duration", duration).
		Msg("Relayed message")

	if p.relayLog != nil {
		record := relaylog.RelayRecord{
			UserID:      userID,
			MessageID:   ev.Message.ID,
			MessageType: ev.Message.Type,
			TargetURL:   targetURL,
			StatusCode:  resp.StatusCode,
			DurationMS:  duration.Milliseconds(),
		}
		if err := p.relayLog.Publish(ctx, record); err != nil {
			logger.Warn().Err(err).Msg("Failed to publish relay record")
		}
	}
	return resp, nil
}

// reportFailure makes one attempt to tell the user that handling failed.
func (p *Pipeline) reportFailure(ctx context.Context, replyToken string, cause error) {
	var text string
	var apiErr *line.APIError
	if errors.As(cause, &apiErr) {
		text = apiErr.Format()
	} else {
		text = "Failed to relay the message: " + cause.Error()
	}
	if err := p.lineClient.ReplyMessage(ctx, replyToken, []line.Message{line.TextMessage(text)}); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to report error to user")
	}
}
