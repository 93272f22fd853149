// Package jira is a minimal Jira Cloud client: it resolves ticket keys to
// summaries and builds browse URLs.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/stevendejongnl/harv/internal/model"
)

// Client is an authenticated Jira REST API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *zap.Logger
}

// NewClient creates a Jira client for the given base URL, authenticating
// every request with the bearer token.
func NewClient(ctx context.Context, baseURL, accessToken string, log *zap.Logger) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	return &Client{
		httpClient: oauth2.NewClient(ctx, src),
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
	}
}

type issueResponse struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
		Status  struct {
			Name string `json:"name"`
		} `json:"status"`
	} `json:"fields"`
}

// Issue fetches a single ticket by key.
func (c *Client) Issue(ctx context.Context, key string) (model.Ticket, error) {
	url := fmt.Sprintf("%s/rest/api/3/issue/%s", c.baseURL, key)
	c.log.Debug("GET " + url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.Ticket{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Ticket{}, fmt.Errorf("jira request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return model.Ticket{}, fmt.Errorf("reading jira response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return model.Ticket{}, fmt.Errorf("ticket %s not found; verify the ticket key is correct", key)
	case http.StatusUnauthorized:
		return model.Ticket{}, fmt.Errorf("authentication failed; check your Jira access token")
	case http.StatusForbidden:
		return model.Ticket{}, fmt.Errorf("access denied to ticket %s; check your permissions", key)
	default:
		return model.Ticket{}, fmt.Errorf("jira API error %d: %s", resp.StatusCode, string(body))
	}

	var issue issueResponse
	if err := json.Unmarshal(body, &issue); err != nil {
		return model.Ticket{}, fmt.Errorf("decoding jira issue: %w", err)
	}

	status := issue.Fields.Status.Name
	return model.Ticket{
		Key:     issue.Key,
		Summary: issue.Fields.Summary,
		Status:  &status,
	}, nil
}

// Issues fetches a batch of tickets. A key that fails to resolve yields a
// placeholder ticket carrying the failure reason; the batch never aborts.
func (c *Client) Issues(ctx context.Context, keys []string) []model.Ticket {
	tickets := make([]model.Ticket, 0, len(keys))
	for _, key := range keys {
		ticket, err := c.Issue(ctx, key)
		if err != nil {
			c.log.Warn("Failed to fetch Jira ticket", zap.String("key", key), zap.Error(err))
			tickets = append(tickets, model.Ticket{
				Key:     key,
				Summary: fmt.Sprintf("(Failed to fetch: %v)", err),
			})
			continue
		}
		tickets = append(tickets, ticket)
	}
	return tickets
}

// TicketURL returns the browse URL for a ticket key.
func (c *Client) TicketURL(key string) string {
	return c.baseURL + "/browse/" + key
}
