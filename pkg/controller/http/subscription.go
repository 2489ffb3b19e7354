package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/panoptes/pkg/service/graph"
	"github.com/secmon-lab/panoptes/pkg/usecase"
	"github.com/secmon-lab/panoptes/pkg/utils/errutil"
	"github.com/secmon-lab/panoptes/pkg/utils/logging"
	"github.com/secmon-lab/panoptes/pkg/utils/safe"
)

// errorResponse mirrors the failing downstream Graph response so the
// operator sees the platform's status and body verbatim
type errorResponse struct {
	ResponseCode int    `json:"responseCode"`
	ResponseBody string `json:"responseBody"`
}

type subscribeResponse struct {
	Message            string    `json:"message"`
	SubscriptionID     string    `json:"subscriptionId"`
	ExpirationDateTime time.Time `json:"expirationDateTime"`
	TotalUsers         int       `json:"totalUsers"`
	Subscribed         int       `json:"subscribed"`
	Truncated          int       `json:"truncated"`
}

// subscribeHandler triggers a subscribe cycle. A downstream Graph failure
// surfaces as 400 carrying the downstream status and body; anything else
// is a plain 500.
func subscribeHandler(uc *usecase.SubscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		result, err := uc.Subscribe(ctx, r.URL.Query().Get("userPrincipalName"))
		if err != nil {
			var statusErr *graph.StatusError
			if errors.As(err, &statusErr) {
				_ = errutil.Handle(ctx, err, "subscribe cycle failed on downstream call")
				writeJSON(ctx, w, http.StatusBadRequest, &errorResponse{
					ResponseCode: statusErr.StatusCode,
					ResponseBody: statusErr.Body,
				})
				return
			}

			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}

		writeJSON(ctx, w, http.StatusOK, &subscribeResponse{
			Message:            "subscription successful",
			SubscriptionID:     result.SubscriptionID,
			ExpirationDateTime: result.ExpirationDateTime,
			TotalUsers:         result.TotalUsers,
			Subscribed:         result.Subscribed,
			Truncated:          result.Truncated,
		})
	}
}

// notificationHandler serves the webhook endpoint. A request carrying a
// validationToken is the synchronous subscription handshake and must echo
// the token byte-for-byte with no other side effects; everything else is a
// change-notification batch.
func notificationHandler(uc *usecase.NotificationUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if token := r.URL.Query().Get("validationToken"); token != "" {
			logging.From(ctx).Info("subscription confirmed")
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusOK)
			safe.Write(ctx, w, []byte(token))
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read notification body"), http.StatusInternalServerError)
			return
		}

		batch, _, err := uc.ProcessNotifications(ctx, body)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to process notification body"), http.StatusInternalServerError)
			return
		}

		writeJSON(ctx, w, http.StatusOK, batch)
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, data)
}
