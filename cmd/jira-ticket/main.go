// Command jira-ticket fetches one Jira ticket and prints its summary, description and comments.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/i2y/jira-requester/configs"
	"github.com/i2y/jira-requester/internal/adapter/outbound/jira"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: jira-ticket <JIRA_TICKET_ID>")
		os.Exit(1)
	}
	ticketID := os.Args[1]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := configs.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.ParsedLogLevel()}))

	client, err := jira.NewClient(cfg.Jira(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create Jira client: %v\n", err)
		os.Exit(1)
	}

	ticket, err := client.FetchTicket(ctx, ticketID, nil, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching ticket %s: %v\n", ticketID, err)
		os.Exit(1)
	}
	raw, ok := ticket.(json.RawMessage)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error fetching ticket %s: unexpected response type %T\n", ticketID, ticket)
		os.Exit(1)
	}
	if err := printTicket(os.Stdout, raw); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing ticket %s: %v\n", ticketID, err)
		os.Exit(1)
	}
}

// issueView picks the parts of an issue body that are printed.
type issueView struct {
	Fields struct {
		Summary     string          `json:"summary"`
		Description string          `json:"description"`
		Comment     json.RawMessage `json:"comment"`
	} `json:"fields"`
}

func printTicket(w io.Writer, raw json.RawMessage) error {
	var issue issueView
	if err := json.Unmarshal(raw, &issue); err != nil {
		return fmt.Errorf("failed to decode ticket: %w", err)
	}
	comments := []byte("null")
	if len(issue.Fields.Comment) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, issue.Fields.Comment, "", "  "); err != nil {
			return fmt.Errorf("failed to encode comments: %w", err)
		}
		comments = buf.Bytes()
	}
	_, err := fmt.Fprintf(w, "Summary: %s\nDescription: %s\nComments: %s\n", issue.Fields.Summary, issue.Fields.Description, comments)
	return err
}
