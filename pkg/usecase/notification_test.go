package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/panoptes/pkg/domain/model"
	"github.com/secmon-lab/panoptes/pkg/domain/types"
	"github.com/secmon-lab/panoptes/pkg/repository/memory"
	"github.com/secmon-lab/panoptes/pkg/usecase"
)

func TestProcessNotifications(t *testing.T) {
	t.Run("resolves known and unknown ids", func(t *testing.T) {
		identity := memory.NewIdentity()
		identity.Replace(map[model.UserID]string{"u1": "alice@example.com"})

		uc := usecase.New(&mockGraphClient{}, identity)

		payload := []byte(`{
			"value": [
				{
					"subscriptionId": "sub-1",
					"tenantId": "tenant-1",
					"resourceData": {"id": "u1", "availability": "Available", "activity": "Available"}
				},
				{
					"subscriptionId": "sub-1",
					"tenantId": "tenant-1",
					"resourceData": {"id": "u2", "availability": "Busy", "activity": "InACall"}
				}
			]
		}`)

		batch, events, err := uc.Notification.ProcessNotifications(context.Background(), payload)
		gt.NoError(t, err).Required()

		gt.Array(t, batch.Value).Length(2)
		gt.Array(t, events).Length(2)

		gt.Value(t, events[0].UserID).Equal(model.UserID("u1"))
		gt.Value(t, events[0].UserPrincipalName).Equal("alice@example.com")
		gt.Value(t, events[0].Availability).Equal(types.AvailabilityAvailable)

		// Unknown id resolves to an empty name, not an error
		gt.Value(t, events[1].UserID).Equal(model.UserID("u2"))
		gt.Value(t, events[1].UserPrincipalName).Equal("")
		gt.Value(t, events[1].Availability).Equal(types.AvailabilityBusy)
		gt.Value(t, events[1].Activity).Equal("InACall")

		gt.Value(t, events[0].EventID).NotEqual("")
		gt.Value(t, events[0].EventID).NotEqual(events[1].EventID)
	})

	t.Run("empty batch yields no events", func(t *testing.T) {
		uc := usecase.New(&mockGraphClient{}, memory.NewIdentity())

		batch, events, err := uc.Notification.ProcessNotifications(context.Background(), []byte(`{"value": []}`))
		gt.NoError(t, err).Required()
		gt.Array(t, batch.Value).Length(0)
		gt.Array(t, events).Length(0)
	})

	t.Run("malformed payload emits nothing", func(t *testing.T) {
		uc := usecase.New(&mockGraphClient{}, memory.NewIdentity())

		batch, events, err := uc.Notification.ProcessNotifications(context.Background(), []byte(`{"value": [{"resour`))
		gt.Error(t, err)
		gt.Value(t, batch).Nil()
		gt.Array(t, events).Length(0)
	})
}
