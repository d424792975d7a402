package spotadmin

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-spotadmin/components/permissions"
	"github.com/goliatone/go-spotadmin/components/refunds"
	"github.com/goliatone/go-spotadmin/components/wizard"
	"github.com/goliatone/go-spotadmin/pkg/activity"
	"github.com/goliatone/go-spotadmin/pkg/config"
	"github.com/goliatone/go-spotadmin/pkg/logging"
)

// OptionsFromConfig translates process configuration into Options, seeding
// roles from the configured manifest and logging through logger.
func OptionsFromConfig(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (Options, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	opts := Options{
		Notifier:      logging.Notifier{Logger: logger},
		Telemetry:     logging.Telemetry{Logger: logger},
		ActivityHooks: activity.Hooks{logging.ActivityHook(logger)},
		ActivityConfig: activity.Config{
			Enabled: cfg.Activity.Enabled,
			Channel: cfg.Activity.Channel,
		},
		JumpPolicy:    wizard.JumpCompleteOnly,
		AdvancePolicy: wizard.AdvanceFree,
		SubmitPath:    cfg.Wizard.SubmitPath,
		CancelPath:    cfg.Wizard.CancelPath,
	}
	if !cfg.Wizard.StrictJumps {
		opts.JumpPolicy = wizard.JumpAnywhere
	}
	if cfg.Wizard.GuardedAdvance {
		opts.AdvancePolicy = wizard.AdvanceRequireComplete
	}

	if cfg.Refunds.Endpoint != "" {
		gateway, err := refunds.NewHTTPGateway(refunds.HTTPConfig{
			BaseURL:    cfg.Refunds.Endpoint,
			APIKey:     cfg.Refunds.Token,
			HTTPClient: &http.Client{Timeout: cfg.Refunds.Timeout},
		})
		if err != nil {
			return Options{}, err
		}
		opts.Gateway = gateway
	} else {
		opts.Gateway = &refunds.MockGateway{Delay: cfg.Refunds.MockDelay}
	}

	roles := permissions.NewInMemoryRoleRepository()
	if cfg.RolesManifest != "" {
		doc, err := permissions.ReadManifest(cfg.RolesManifest)
		if err != nil {
			return Options{}, err
		}
		if err := doc.Seed(ctx, roles); err != nil {
			return Options{}, err
		}
		logger.Info().Int("roles", len(doc.Roles)).Str("manifest", cfg.RolesManifest).Msg("roles seeded")
	}
	opts.Roles = roles
	return opts, nil
}
