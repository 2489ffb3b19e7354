package model

import (
	"strings"
	"time"
)

// PresenceResourcePrefix identifies subscriptions created by this service.
// Removal of stale subscriptions matches on this prefix and nothing else.
const PresenceResourcePrefix = "/communications/presences?$filter="

// Subscription mirrors the Microsoft Graph subscription resource. Graph
// owns the resource once created; this process holds it only transiently
// during removal and creation.
type Subscription struct {
	ID                 string    `json:"id"`
	Resource           string    `json:"resource"`
	ChangeType         string    `json:"changeType"`
	NotificationURL    string    `json:"notificationUrl"`
	ExpirationDateTime time.Time `json:"expirationDateTime"`
	ClientState        string    `json:"clientState,omitempty"`
}

// IsPresenceSubscription reports whether the subscription was created by
// this service, based on its resource filter prefix.
func (x *Subscription) IsPresenceSubscription() bool {
	return strings.HasPrefix(x.Resource, PresenceResourcePrefix)
}

// SubscriptionRequest is the creation payload for POST /v1.0/subscriptions
type SubscriptionRequest struct {
	ChangeType         string    `json:"changeType"`
	NotificationURL    string    `json:"notificationUrl"`
	Resource           string    `json:"resource"`
	ExpirationDateTime time.Time `json:"expirationDateTime"`
	ClientState        string    `json:"clientState"`
}
