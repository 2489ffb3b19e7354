package usecase

import (
	"github.com/secmon-lab/panoptes/pkg/domain/interfaces"
	"github.com/secmon-lab/panoptes/pkg/service/graph"
)

// UseCases bundles the application use cases
type UseCases struct {
	graphClient     interfaces.GraphClient
	identity        interfaces.IdentityRepository
	externalBaseURL string
	clientState     string
	bound           int
	pinned          []string

	Subscription *SubscriptionUseCase
	Notification *NotificationUseCase
}

// Option is a functional option for UseCases
type Option func(*UseCases)

// WithExternalBaseURL sets the externally reachable base URL used to derive
// the notification callback address
func WithExternalBaseURL(baseURL string) Option {
	return func(uc *UseCases) {
		uc.externalBaseURL = baseURL
	}
}

// WithClientState sets the shared secret sent as clientState on
// subscription creation
func WithClientState(secret string) Option {
	return func(uc *UseCases) {
		uc.clientState = secret
	}
}

// WithSubscriptionBound overrides the maximum number of ids embedded in one
// subscription filter. Non-positive values keep the Graph default.
func WithSubscriptionBound(bound int) Option {
	return func(uc *UseCases) {
		if bound > 0 {
			uc.bound = bound
		}
	}
}

// WithPinnedUsers sets principal names that are always resolved ahead of
// the directory sweep so they survive truncation at the filter bound
func WithPinnedUsers(principalNames []string) Option {
	return func(uc *UseCases) {
		uc.pinned = principalNames
	}
}

// New creates the use cases wired to the Graph client and identity table
func New(graphClient interfaces.GraphClient, identity interfaces.IdentityRepository, opts ...Option) *UseCases {
	uc := &UseCases{
		graphClient: graphClient,
		identity:    identity,
		bound:       graph.MaxFilterIDs,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Subscription = &SubscriptionUseCase{
		graph:           uc.graphClient,
		identity:        uc.identity,
		externalBaseURL: uc.externalBaseURL,
		clientState:     uc.clientState,
		bound:           uc.bound,
		pinned:          uc.pinned,
	}
	uc.Notification = &NotificationUseCase{
		identity: uc.identity,
	}

	return uc
}
