package model

import (
	"time"

	"github.com/secmon-lab/panoptes/pkg/domain/types"
)

// NotificationBatch is the change-notification payload delivered by
// Microsoft Graph to the webhook endpoint.
type NotificationBatch struct {
	Value []ResourceUpdate `json:"value"`
}

// ResourceUpdate is a single change-notification item within a batch
type ResourceUpdate struct {
	SubscriptionID                 string         `json:"subscriptionId"`
	SubscriptionExpirationDateTime time.Time      `json:"subscriptionExpirationDateTime"`
	TenantID                       string         `json:"tenantId"`
	ResourceData                   PresenceUpdate `json:"resourceData"`
}

// PresenceUpdate carries the changed presence state of one user
type PresenceUpdate struct {
	ID           UserID             `json:"id"`
	Availability types.Availability `json:"availability"`
	Activity     string             `json:"activity"`
}

// PresenceEvent is the structured event emitted downstream for each
// processed update. UserPrincipalName is empty when the id is not in the
// identity resolution table; that is not an error.
type PresenceEvent struct {
	EventID           string
	UserID            UserID
	UserPrincipalName string
	Availability      types.Availability
	Activity          string
}
