package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gojira "github.com/andygrunwald/go-jira"

	"github.com/i2y/jira-requester/internal/domain"
)

// Config holds the connection settings for a Jira instance.
// It is built once at startup and never modified.
type Config struct {
	BaseURL  string
	Email    string
	APIToken string
	Timeout  time.Duration
}

// Client implements usecase.TicketFetcher against the Jira REST API (version 2).
type Client struct {
	client *gojira.Client
	logger *slog.Logger
}

// NewClient creates a Jira client authenticating with the user's email and API token.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	transport := &gojira.BasicAuthTransport{
		Username: cfg.Email,
		Password: cfg.APIToken,
	}
	httpClient := &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}

	client, err := gojira.NewClient(httpClient, cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create Jira client for %s: %w", cfg.BaseURL, err)
	}
	return &Client{
		client: client,
		logger: logger.With("component", "jira_client"),
	}, nil
}

// FetchTicket retrieves an issue by key and returns the response body untouched as
// json.RawMessage. Empty fields select domain.DefaultTicketFields; expand values are
// sent comma-separated.
func (c *Client) FetchTicket(ctx context.Context, ticketID string, expand, fields []string) (interface{}, error) {
	if !domain.ValidTicketID(ticketID) {
		return nil, fmt.Errorf("invalid ticket ID format: %s", ticketID)
	}
	if len(fields) == 0 {
		fields = domain.DefaultTicketFields
	}

	query := url.Values{}
	query.Set("fields", strings.Join(fields, ","))
	if len(expand) > 0 {
		query.Set("expand", strings.Join(expand, ","))
	}
	log := c.logger.With(slog.String("ticket_id", ticketID))
	log.Debug("Requesting issue", slog.String("fields", query.Get("fields")), slog.String("expand", query.Get("expand")))

	// The typed gojira.Issue drops fields it does not model, so the body is kept raw.
	req, err := c.client.NewRequestWithContext(ctx, http.MethodGet, "rest/api/2/issue/"+ticketID+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for Jira ticket %s: %w", ticketID, err)
	}
	var raw json.RawMessage
	resp, err := c.client.Do(req, &raw)
	if err != nil {
		if resp != nil && gojira.CheckResponse(resp.Response) != nil {
			log = log.With(slog.Int("status_code", resp.StatusCode))
			err = gojira.NewJiraError(resp, err)
		}
		log.Warn("Issue request failed", slog.Any("error", err))
		return nil, fmt.Errorf("failed to fetch Jira ticket %s: %w", ticketID, err)
	}
	log.Debug("Issue retrieved", slog.Int("bytes", len(raw)))
	return raw, nil
}
