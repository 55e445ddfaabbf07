package config

import (
	"errors"
	"time"

	"github.com/DIMO-Network/shared/pkg/db"
)

const (
	// StoreBackendFile keeps every key in its own file under DataDir.
	StoreBackendFile = "file"
	// StoreBackendPostgres keeps keys in the kv_entries table.
	StoreBackendPostgres = "postgres"
)

// Settings contains the application config
type Settings struct {
	Port                   int           `env:"PORT"`
	MonPort                int           `env:"MON_PORT"`
	EnablePprof            bool          `env:"ENABLE_PPROF"`
	LogLevel               string        `env:"LOG_LEVEL"`
	ServiceName            string        `env:"SERVICE_NAME"`
	LineChannelAccessToken string        `env:"LINE_CHANNEL_ACCESS_TOKEN"`
	LineChannelSecret      string        `env:"LINE_CHANNEL_SECRET"`
	LineAPIURL             string        `env:"LINE_API_URL"`
	StoreBackend           string        `env:"STORE_BACKEND"`
	DataDir                string        `env:"DATA_DIR"`
	CookieJarTTL           time.Duration `env:"COOKIE_JAR_TTL"`
	KafkaBrokers           string        `env:"KAFKA_BROKERS"`
	RelayLogTopic          string        `env:"RELAY_LOG_TOPIC"`

	DB db.Settings `envPrefix:"DB_"`
}

// ApplyDefaults fills in optional settings that were left empty.
func (s *Settings) ApplyDefaults() {
	if s.ServiceName == "" {
		s.ServiceName = "line-webhook-relay"
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.LineAPIURL == "" {
		s.LineAPIURL = "https://api.line.me"
	}
	if s.StoreBackend == "" {
		s.StoreBackend = StoreBackendFile
	}
	if s.DataDir == "" {
		s.DataDir = "data"
	}
	if s.CookieJarTTL <= 0 {
		s.CookieJarTTL = 30 * time.Minute
	}
	if s.RelayLogTopic == "" {
		s.RelayLogTopic = "topic.line.relay.log"
	}
}

// Validate reports settings the service cannot start without.
func (s *Settings) Validate() error {
	var errs []error
	if s.LineChannelAccessToken == "" {
		errs = append(errs, errors.New("LINE_CHANNEL_ACCESS_TOKEN is required"))
	}
	if s.LineChannelSecret == "" {
		errs = append(errs, errors.New("LINE_CHANNEL_SECRET is required"))
	}
	switch s.StoreBackend {
	case StoreBackendFile, StoreBackendPostgres:
	default:
		errs = append(errs, errors.New("STORE_BACKEND must be 'file' or 'postgres'"))
	}
	return errors.Join(errs...)
}
