package designer

import (
	"context"
	"log/slog"

	"architectai/internal/config"
	"architectai/internal/foundry"
	"architectai/internal/identity"
)

// NewService wires a Generator from configuration: credential
// resolver, lazy platform client, guarded provisioner. The platform
// client is built per call so that credential resolution happens
// inside the generator's failure-to-string boundary rather than at
// startup.
func NewService(cfg config.Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	resolver := identity.NewResolver(identity.Settings{
		APIKey:   cfg.Platform.APIKey,
		ClientID: cfg.Platform.ClientID,
	}, logger)

	newClient := func(ctx context.Context) (*foundry.Client, error) {
		credential, err := resolver.Resolve(identity.PurposeTokenPlatform)
		if err != nil {
			return nil, err
		}
		return foundry.NewClient(cfg.Platform.Endpoint, credential.Token, &foundry.ClientOptions{
			PollInterval: cfg.Server.RunPollInterval(),
		})
	}

	provisioner := NewProvisioner(func(ctx context.Context) (AgentAPI, error) {
		return newClient(ctx)
	}, cfg.Platform.AgentName, cfg.Platform.Model, logger)

	source := func(ctx context.Context) (ConversationAPI, error) {
		return newClient(ctx)
	}
	return NewGenerator(cfg.Platform.Endpoint, source, provisioner, logger)
}
