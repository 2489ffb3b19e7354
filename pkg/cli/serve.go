package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/panoptes/pkg/cli/config"
	httpctrl "github.com/secmon-lab/panoptes/pkg/controller/http"
	"github.com/secmon-lab/panoptes/pkg/repository/memory"
	"github.com/secmon-lab/panoptes/pkg/usecase"
	"github.com/secmon-lab/panoptes/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var externalBaseURL string
	var graphCfg config.Graph
	var appCfg config.AppConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("PANOPTES_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "external-base-url",
			Usage:       "Externally reachable base URL Graph calls back on (e.g. https://your-domain.com)",
			Sources:     cli.EnvVars("PANOPTES_EXTERNAL_BASE_URL"),
			Destination: &externalBaseURL,
		},
	}
	flags = append(flags, graphCfg.Flags()...)
	flags = append(flags, appCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			if externalBaseURL == "" {
				return goerr.New("external-base-url is required")
			}
			externalBaseURL = strings.TrimSuffix(externalBaseURL, "/")

			pinned, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load app config")
			}
			if len(pinned) > 0 {
				logger.Info("Pinned users configured", "count", len(pinned))
			}

			graphClient, err := graphCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure graph client")
			}
			logger.Info("Graph client configured", "graph", graphCfg)

			// The identity table starts empty; it is populated on the
			// first successful subscribe cycle.
			identity := memory.NewIdentity()

			uc := usecase.New(graphClient, identity,
				usecase.WithExternalBaseURL(externalBaseURL),
				usecase.WithClientState(graphCfg.ClientState()),
				usecase.WithSubscriptionBound(graphCfg.SubscriptionBound()),
				usecase.WithPinnedUsers(pinned),
			)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "addr", addr, "external_base_url", externalBaseURL)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logger.Info("Server shutdown completed")
				return nil
			}
		},
	}
}
