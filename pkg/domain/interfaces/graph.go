package interfaces

import (
	"context"

	"github.com/secmon-lab/panoptes/pkg/domain/model"
)

// GraphClient defines the outbound operations against the Microsoft Graph
// API. Every call is a single attempt; retry decisions belong to the caller
// or to Graph's own redelivery behavior.
type GraphClient interface {
	// ListUsers enumerates every account-enabled directory user, following
	// the @odata.nextLink cursor until no page remains. A failure on any
	// page aborts the whole enumeration; partial results are unusable for
	// subscription scoping.
	ListUsers(ctx context.Context) ([]model.User, error)

	// GetUserByPrincipalName resolves a principal name to a directory user.
	// Returns (nil, nil) when the user does not exist or the account is
	// disabled.
	GetUserByPrincipalName(ctx context.Context, principalName string) (*model.User, error)

	ListSubscriptions(ctx context.Context) ([]model.Subscription, error)
	DeleteSubscription(ctx context.Context, id string) error
	CreateSubscription(ctx context.Context, req *model.SubscriptionRequest) (*model.Subscription, error)
}
