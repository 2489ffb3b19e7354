package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/panoptes/pkg/domain/interfaces"
	"github.com/secmon-lab/panoptes/pkg/domain/model"
	"github.com/secmon-lab/panoptes/pkg/service/graph"
	"github.com/secmon-lab/panoptes/pkg/utils/logging"
)

// notificationPath is appended to the external base URL to form the webhook
// callback address
const notificationPath = "/subscription"

// subscriptionTTL is how far in the future the subscription expires. Graph
// drops it silently afterwards; renewal is a separate operator action, not
// part of this cycle.
const subscriptionTTL = 24 * time.Hour

// SubscriptionUseCase orchestrates the (re)subscribe cycle: remove stale
// subscriptions, resolve the target user set, create a fresh subscription,
// publish the identity table.
type SubscriptionUseCase struct {
	graph           interfaces.GraphClient
	identity        interfaces.IdentityRepository
	externalBaseURL string
	clientState     string
	bound           int
	pinned          []string
}

// SubscribeResult reports the outcome of a successful subscribe cycle.
// Truncated counts the users excluded because the directory exceeded the
// filter bound.
type SubscribeResult struct {
	SubscriptionID     string    `json:"subscriptionId"`
	ExpirationDateTime time.Time `json:"expirationDateTime"`
	TotalUsers         int       `json:"totalUsers"`
	Subscribed         int       `json:"subscribed"`
	Truncated          int       `json:"truncated"`
}

// Subscribe replaces any stale presence subscription with a fresh one and
// publishes the identity table used to resolve its notifications. On
// failure the previous table is left untouched, but the previous
// subscription may already be gone; the caller must treat any error as
// "presence relay inactive".
func (x *SubscriptionUseCase) Subscribe(ctx context.Context, principalName string) (*SubscribeResult, error) {
	logger := logging.From(ctx)

	if err := x.removeStaleSubscriptions(ctx); err != nil {
		return nil, goerr.Wrap(err, "failed to remove stale subscriptions")
	}

	// Target set in encounter order. Priority users are resolved before
	// the directory sweep so they survive truncation at the filter bound,
	// and an existing entry is never overwritten.
	order := make([]model.UserID, 0)
	names := make(map[model.UserID]string)
	add := func(id model.UserID, upn string) {
		if _, ok := names[id]; ok {
			return
		}
		names[id] = upn
		order = append(order, id)
	}

	var priority []string
	if principalName != "" {
		priority = append(priority, principalName)
	}
	priority = append(priority, x.pinned...)

	for _, upn := range priority {
		user, err := x.graph.GetUserByPrincipalName(ctx, upn)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to resolve priority user", goerr.V("userPrincipalName", upn))
		}
		if user == nil {
			logger.Warn("priority user not found or account disabled, skipping",
				"userPrincipalName", upn)
			continue
		}
		add(user.ID, user.UserPrincipalName)
	}

	users, err := x.graph.ListUsers(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to enumerate directory users")
	}
	for _, u := range users {
		add(u.ID, u.UserPrincipalName)
	}

	targets := graph.TruncateIDs(order, x.bound)
	truncated := len(order) - len(targets)
	if truncated > 0 {
		logger.Warn("directory exceeds subscription filter bound, truncating",
			"total", len(order),
			"bound", x.bound,
			"truncated", truncated,
		)
	}

	req := &model.SubscriptionRequest{
		ChangeType:         "updated",
		NotificationURL:    x.externalBaseURL + notificationPath,
		Resource:           graph.BuildPresenceResource(targets),
		ExpirationDateTime: time.Now().UTC().Add(subscriptionTTL),
		ClientState:        x.clientState,
	}

	sub, err := x.graph.CreateSubscription(ctx, req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create subscription")
	}

	// Publish only after the subscription exists. The whole merged map is
	// published; entries beyond the bound never receive notifications but
	// resolve harmlessly.
	x.identity.Replace(names)

	logger.Info("presence subscription created",
		"subscription_id", sub.ID,
		"expires_at", sub.ExpirationDateTime,
		"total", len(order),
		"subscribed", len(targets),
		"truncated", truncated,
	)

	return &SubscribeResult{
		SubscriptionID:     sub.ID,
		ExpirationDateTime: sub.ExpirationDateTime,
		TotalUsers:         len(order),
		Subscribed:         len(targets),
		Truncated:          truncated,
	}, nil
}

// removeStaleSubscriptions deletes every existing subscription whose
// resource filter carries the presence-query prefix. Duplicate
// subscriptions would double-deliver notifications, so any deletion
// failure aborts the cycle.
func (x *SubscriptionUseCase) removeStaleSubscriptions(ctx context.Context) error {
	logger := logging.From(ctx)

	subs, err := x.graph.ListSubscriptions(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list subscriptions")
	}

	for _, sub := range subs {
		if !sub.IsPresenceSubscription() {
			continue
		}

		logger.Debug("removing stale subscription", "subscription_id", sub.ID)
		if err := x.graph.DeleteSubscription(ctx, sub.ID); err != nil {
			return goerr.Wrap(err, "failed to delete stale subscription", goerr.V("id", sub.ID))
		}
		logger.Debug("removed stale subscription", "subscription_id", sub.ID)
	}

	return nil
}
