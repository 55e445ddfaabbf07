package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/DIMO-Network/line-webhook-relay/internal/clients/line"
	"github.com/DIMO-Network/line-webhook-relay/internal/services/userprofile"
)

const secureScheme = "https://"

// Default returns the built-in command table.
func Default() *Registry {
	return NewRegistry(
		Command{
			Name:        "set-url",
			Usage:       "<URL>",
			Description: "Set the HTTPS URL that your messages are relayed to.",
			Handler:     setURL,
		},
		Command{
			Name:        "reset-secret",
			Description: "Generate a new secret. The old one stops being sent.",
			Handler:     resetSecret,
		},
		Command{
			Name:        "get-secret",
			Description: "Show the secret sent along with every relayed message.",
			Handler:     getSecret,
		},
	)
}

func setURL(_ context.Context, cmdCtx Context, arg string) (Result, error) {
	target := strings.TrimSpace(arg)
	if target == "" || !strings.HasPrefix(strings.ToLower(target), secureScheme) {
		return textResult(nil, fmt.Sprintf("Invalid URL %q. The URL must start with %s, e.g. %s set-url https://example.com/webhook", target, secureScheme, Prefix)), nil
	}
	cfg := cmdCtx.Config
	cfg.URL = target
	return textResult(&cfg, fmt.Sprintf("URL set to %s\nSecret: %s", target, cfg.Secret)), nil
}

func resetSecret(_ context.Context, cmdCtx Context, _ string) (Result, error) {
	cfg := cmdCtx.Config
	cfg.Secret = userprofile.NewSecret()
	return textResult(&cfg, fmt.Sprintf("Secret reset.\nNew secret: %s", cfg.Secret)), nil
}

func getSecret(_ context.Context, cmdCtx Context, _ string) (Result, error) {
	return textResult(nil, fmt.Sprintf("Secret: %s", cmdCtx.Config.Secret)), nil
}

func textResult(cfg *userprofile.Config, text string) Result {
	return Result{Config: cfg, Messages: []line.Message{line.TextMessage(text)}}
}
