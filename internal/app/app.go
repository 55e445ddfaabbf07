package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/DIMO-Network/line-webhook-relay/internal/clients/line"
	"github.com/DIMO-Network/line-webhook-relay/internal/config"
	"github.com/DIMO-Network/line-webhook-relay/internal/controllers/webhook"
	"github.com/DIMO-Network/line-webhook-relay/internal/kafka"
	"github.com/DIMO-Network/line-webhook-relay/internal/services/commands"
	"github.com/DIMO-Network/line-webhook-relay/internal/services/cookiejar"
	"github.com/DIMO-Network/line-webhook-relay/internal/services/kvstore"
	"github.com/DIMO-Network/line-webhook-relay/internal/services/relay"
	"github.com/DIMO-Network/line-webhook-relay/internal/services/relaylog"
	"github.com/DIMO-Network/line-webhook-relay/internal/services/relaysender"
	"github.com/DIMO-Network/line-webhook-relay/internal/services/userprofile"
	"github.com/DIMO-Network/server-garage/pkg/fibercommon"
	"github.com/DIMO-Network/shared/pkg/db"
	"github.com/IBM/sarama"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

func CreateServers(ctx context.Context, settings *config.Settings, logger zerolog.Logger) (*fiber.App, error) {
	store, err := createStore(ctx, settings, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create key/value store: %w", err)
	}

	lineClient, err := line.New(settings.LineAPIURL, settings.LineChannelAccessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE client: %w", err)
	}

	var relayLog relay.RelayLogPublisher
	if settings.KafkaBrokers != "" {
		publisher, err := startRelayLogPublisher(ctx, logger, settings)
		if err != nil {
			return nil, fmt.Errorf("failed to start relay log publisher: %w", err)
		}
		relayLog = publisher
	}

	pipeline := relay.NewPipeline(lineClient,
		userprofile.NewService(store),
		cookiejar.NewRegistry(store, settings.CookieJarTTL),
		relaysender.NewRelaySender(nil),
		commands.Default(),
		relayLog,
	)

	return CreateFiberApp(logger, pipeline, settings), nil
}

// CreateFiberApp sets up the routes of the relay.
func CreateFiberApp(logger zerolog.Logger, handler webhook.EventHandler, settings *config.Settings) *fiber.App {
	logger.Info().Msg("Starting LINE Webhook Relay...")

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return fibercommon.ErrorHandler(c, err)
		},
		DisableStartupMessage: true,
	})
	app.Use(fibercommon.ContextLoggerMiddleware)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Welcome to the LINE Webhook Relay!")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"data": "Server is up and running",
		})
	})

	webhookController := webhook.NewWebhookController(handler)
	app.Post("/webhook", webhook.SignatureMiddleware(settings.LineChannelSecret), webhookController.ReceiveEvents)

	return app
}

func createStore(ctx context.Context, settings *config.Settings, logger zerolog.Logger) (kvstore.Store, error) {
	switch settings.StoreBackend {
	case config.StoreBackendPostgres:
		dbs := db.NewDbConnectionFromSettings(ctx, &settings.DB, true)
		dbs.WaitForDB(logger)
		logger.Info().Str("host", settings.DB.Host).Msg("Using postgres key/value store")
		return kvstore.NewPostgresStore(dbs.DBS().Writer.DB), nil
	case config.StoreBackendFile:
		logger.Info().Str("dir", settings.DataDir).Msg("Using file key/value store")
		return kvstore.NewFileStore(settings.DataDir)
	default:
		return nil, fmt.Errorf("unknown store backend %q", settings.StoreBackend)
	}
}

// startRelayLogPublisher connects to Kafka and closes the connection when ctx is done.
func startRelayLogPublisher(ctx context.Context, logger zerolog.Logger, settings *config.Settings) (*relaylog.Publisher, error) {
	clusterConfig := sarama.NewConfig()
	clusterConfig.Version = sarama.V2_8_1_0

	kafkaPublisher, err := kafka.NewPublisher(&kafka.Config{
		ClusterConfig:   clusterConfig,
		BrokerAddresses: strings.Split(settings.KafkaBrokers, ","),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	publisher := relaylog.NewPublisher(kafkaPublisher, settings.RelayLogTopic, settings.ServiceName)
	go func() {
		<-ctx.Done()
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close relay log publisher")
		}
	}()

	logger.Info().Msgf("Relay log publisher started on topic: %s", settings.RelayLogTopic)
	return publisher, nil
}
