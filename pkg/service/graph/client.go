package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/panoptes/pkg/domain/interfaces"
	"github.com/secmon-lab/panoptes/pkg/domain/model"
	"github.com/secmon-lab/panoptes/pkg/utils/safe"
)

// DefaultBaseURL is the Microsoft Graph API endpoint
const DefaultBaseURL = "https://graph.microsoft.com"

// StatusError is returned when Graph responds with a non-success status.
// The response body is preserved verbatim for diagnostic surfacing.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("graph API returned status %d: %s", e.StatusCode, e.Body)
}

// client implements interfaces.GraphClient
type client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option is a functional option for client configuration
type Option func(*client)

// WithBaseURL overrides the Graph API endpoint (mainly for tests)
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) {
		c.httpClient = httpClient
	}
}

// New creates a Graph client authenticated with the provided bearer token
func New(token string, opts ...Option) (interfaces.GraphClient, error) {
	if token == "" {
		return nil, goerr.New("graph access token is required")
	}

	c := &client{
		baseURL: DefaultBaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}
	c.baseURL = strings.TrimSuffix(c.baseURL, "/")

	return c, nil
}

// do performs a single request and returns the response body. A non-2xx
// response becomes a StatusError carrying the status and body verbatim.
// No retries: every outbound call is a single attempt.
func (c *client) do(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to marshal request body")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build request", goerr.V("url", endpoint))
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "graph request failed",
			goerr.V("method", method), goerr.V("url", endpoint))
	}
	defer safe.Close(ctx, resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response body",
			goerr.V("method", method), goerr.V("url", endpoint))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
		return nil, goerr.Wrap(statusErr, "graph API error",
			goerr.V("method", method), goerr.V("url", endpoint))
	}

	return raw, nil
}

// ListUsers enumerates every account-enabled user in the directory. Graph
// returns pages with an @odata.nextLink cursor; the loop follows it until
// no cursor remains, so call stack depth stays flat for large directories.
func (c *client) ListUsers(ctx context.Context) ([]model.User, error) {
	type userPage struct {
		NextLink string `json:"@odata.nextLink"`
		Value    []struct {
			ID                string `json:"id"`
			UserPrincipalName string `json:"userPrincipalName"`
		} `json:"value"`
	}

	next := c.baseURL + "/v1.0/users?$filter=" + url.QueryEscape("accountEnabled eq true") + "&$select=id,userPrincipalName"

	var users []model.User
	for next != "" {
		raw, err := c.do(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list users", goerr.V("url", next))
		}

		var page userPage
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, goerr.Wrap(err, "failed to parse user page", goerr.V("url", next))
		}

		for _, u := range page.Value {
			users = append(users, model.User{
				ID:                model.UserID(u.ID),
				UserPrincipalName: u.UserPrincipalName,
			})
		}

		next = page.NextLink
	}

	return users, nil
}

// GetUserByPrincipalName resolves a principal name to a directory user.
// A 404 or a disabled account yields (nil, nil), not an error.
func (c *client) GetUserByPrincipalName(ctx context.Context, principalName string) (*model.User, error) {
	endpoint := c.baseURL + "/v1.0/users/" + url.PathEscape(principalName) + "?$select=id,accountEnabled,userPrincipalName"

	raw, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("userPrincipalName", principalName))
	}

	var body struct {
		ID                string `json:"id"`
		AccountEnabled    bool   `json:"accountEnabled"`
		UserPrincipalName string `json:"userPrincipalName"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, goerr.Wrap(err, "failed to parse user", goerr.V("userPrincipalName", principalName))
	}

	if !body.AccountEnabled {
		return nil, nil
	}

	upn := body.UserPrincipalName
	if upn == "" {
		upn = principalName
	}

	return &model.User{
		ID:                model.UserID(body.ID),
		UserPrincipalName: upn,
	}, nil
}

// ListSubscriptions retrieves all subscriptions of this application
func (c *client) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	raw, err := c.do(ctx, http.MethodGet, c.baseURL+"/v1.0/subscriptions", nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list subscriptions")
	}

	var page struct {
		Value []model.Subscription `json:"value"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, goerr.Wrap(err, "failed to parse subscription list")
	}

	return page.Value, nil
}

// DeleteSubscription removes a subscription by id
func (c *client) DeleteSubscription(ctx context.Context, id string) error {
	endpoint := c.baseURL + "/v1.0/subscriptions/" + url.PathEscape(id)
	if _, err := c.do(ctx, http.MethodDelete, endpoint, nil); err != nil {
		return goerr.Wrap(err, "failed to delete subscription", goerr.V("id", id))
	}
	return nil
}

// CreateSubscription registers a new change-notification subscription
func (c *client) CreateSubscription(ctx context.Context, req *model.SubscriptionRequest) (*model.Subscription, error) {
	raw, err := c.do(ctx, http.MethodPost, c.baseURL+"/v1.0/subscriptions", req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create subscription",
			goerr.V("resource.len", len(req.Resource)))
	}

	var sub model.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, goerr.Wrap(err, "failed to parse created subscription")
	}

	return &sub, nil
}
