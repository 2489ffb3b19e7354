package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/panoptes/pkg/domain/interfaces"
	"github.com/secmon-lab/panoptes/pkg/domain/model"
	"github.com/secmon-lab/panoptes/pkg/utils/logging"
)

// NotificationUseCase resolves inbound presence notifications against the
// identity resolution table and emits one structured event per update.
type NotificationUseCase struct {
	identity interfaces.IdentityRepository
}

// ProcessNotifications parses a raw notification batch, resolves each
// update's id and emits one event per item. The payload is parsed in full
// before any event is emitted, so a malformed body yields zero events. A
// resolution miss is not an error; the event carries an empty principal
// name.
func (x *NotificationUseCase) ProcessNotifications(ctx context.Context, payload []byte) (*model.NotificationBatch, []model.PresenceEvent, error) {
	var batch model.NotificationBatch
	if err := json.Unmarshal(payload, &batch); err != nil {
		return nil, nil, goerr.Wrap(err, "failed to parse notification batch",
			goerr.V("payload.len", len(payload)))
	}

	logger := logging.From(ctx)

	events := make([]model.PresenceEvent, 0, len(batch.Value))
	for _, update := range batch.Value {
		upn, _ := x.identity.Lookup(update.ResourceData.ID)

		event := model.PresenceEvent{
			EventID:           uuid.NewString(),
			UserID:            update.ResourceData.ID,
			UserPrincipalName: upn,
			Availability:      update.ResourceData.Availability,
			Activity:          update.ResourceData.Activity,
		}
		events = append(events, event)

		logger.Info("presence update",
			"event_id", event.EventID,
			"user_id", event.UserID,
			"user_principal_name", event.UserPrincipalName,
			"availability", event.Availability,
			"activity", event.Activity,
			"subscription_id", update.SubscriptionID,
			"tenant_id", update.TenantID,
		)
	}

	return &batch, events, nil
}
