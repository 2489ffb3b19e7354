package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/panoptes/pkg/cli/config"
	"github.com/secmon-lab/panoptes/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var graphCfg config.Graph
	var appCfg config.AppConfig

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, graphCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate configuration",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			pinned, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "app config validation failed")
			}
			logger.Info("App config validation passed", "pinned_users", len(pinned))
			for _, upn := range pinned {
				logger.Info("Pinned user", "user_principal_name", upn)
			}

			// Graph flags are only checked when a token is supplied, so a
			// config file can be validated without credentials at hand.
			if !graphCfg.HasToken() {
				logger.Info("No graph access token specified, skipping graph configuration check")
				return nil
			}

			if err := graphCfg.Validate(); err != nil {
				return goerr.Wrap(err, "graph configuration validation failed")
			}
			logger.Info("Graph configuration validation passed", "graph", graphCfg)

			return nil
		},
	}
}
