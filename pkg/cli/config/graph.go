package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/panoptes/pkg/domain/interfaces"
	"github.com/secmon-lab/panoptes/pkg/service/graph"
	"github.com/urfave/cli/v3"
)

// Graph holds CLI flags for Microsoft Graph API access. Token refresh is
// out of scope: a valid bearer credential is supplied via flag or env.
type Graph struct {
	accessToken string
	baseURL     string
	clientState string
	bound       int
}

func (x *Graph) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "graph-access-token",
			Usage:       "Microsoft Graph bearer access token",
			Category:    "Graph",
			Sources:     cli.EnvVars("PANOPTES_GRAPH_ACCESS_TOKEN"),
			Destination: &x.accessToken,
		},
		&cli.StringFlag{
			Name:        "graph-base-url",
			Usage:       "Microsoft Graph API base URL",
			Category:    "Graph",
			Value:       graph.DefaultBaseURL,
			Sources:     cli.EnvVars("PANOPTES_GRAPH_BASE_URL"),
			Destination: &x.baseURL,
		},
		&cli.StringFlag{
			Name:        "client-state",
			Usage:       "Shared secret sent as clientState on subscription creation",
			Category:    "Graph",
			Sources:     cli.EnvVars("PANOPTES_CLIENT_STATE"),
			Destination: &x.clientState,
		},
		&cli.IntFlag{
			Name:        "subscription-bound",
			Usage:       "Maximum number of user ids embedded in one subscription filter",
			Category:    "Graph",
			Value:       graph.MaxFilterIDs,
			Sources:     cli.EnvVars("PANOPTES_SUBSCRIPTION_BOUND"),
			Destination: &x.bound,
		},
	}
}

func (x Graph) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("access-token.len", len(x.accessToken)),
		slog.Int("client-state.len", len(x.clientState)),
		slog.String("base-url", x.baseURL),
		slog.Int("bound", x.bound),
	)
}

// ClientState returns the shared secret for subscription creation
func (x *Graph) ClientState() string {
	return x.clientState
}

// SubscriptionBound returns the configured filter bound
func (x *Graph) SubscriptionBound() int {
	return x.bound
}

// HasToken reports whether an access token was supplied
func (x *Graph) HasToken() bool {
	return x.accessToken != ""
}

// Validate checks the flag combination required to run the relay
func (x *Graph) Validate() error {
	if x.accessToken == "" {
		return goerr.New("graph access token is required")
	}
	if x.clientState == "" {
		return goerr.New("client state secret is required")
	}
	if x.bound <= 0 {
		return goerr.New("subscription bound must be positive", goerr.V("bound", x.bound))
	}
	return nil
}

// Configure creates a Graph client from the flags
func (x *Graph) Configure() (interfaces.GraphClient, error) {
	if err := x.Validate(); err != nil {
		return nil, err
	}

	return graph.New(x.accessToken, graph.WithBaseURL(x.baseURL))
}
