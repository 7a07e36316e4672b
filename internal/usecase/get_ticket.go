package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/i2y/jira-requester/internal/domain"
)

// GetTicketToolName is the name under which the ticket-fetch tool is exposed.
const GetTicketToolName = "get_jira_ticket"

// newGetTicketDefinition builds a fresh definition, so no two handlers share its
// schema maps or slices.
func newGetTicketDefinition() domain.Tool {
	return domain.Tool{
		Name:        GetTicketToolName,
		Description: "Fetch a Jira ticket by ID",
		InputSchema: domain.JSONSchemaProps{
			Type: "object",
			Properties: map[string]domain.JSONSchemaProps{
				"ticket_id": {
					Type:        "string",
					Description: "Jira ticket ID (e.g. PROJ-123)",
				},
				"expand": domain.StringArraySchema("Optional fields to expand"),
				"fields": domain.StringArraySchema("Optional fields to include in response"),
			},
			Required: []string{"ticket_id"},
		},
	}
}

// getTicketSchema is the compiled form of the tool's own input schema.
var getTicketSchema = mustCompileSchema(newGetTicketDefinition().InputSchema)

func mustCompileSchema(props domain.JSONSchemaProps) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(props))
	if err != nil {
		panic(fmt.Sprintf("invalid tool input schema: %v", err))
	}
	return schema
}

// GetTicketHandler implements ToolHandler for fetching a single Jira ticket.
type GetTicketHandler struct {
	definition domain.Tool
	fetcher    TicketFetcher
	logger     *slog.Logger
}

// NewGetTicketHandler creates a new GetTicketHandler backed by fetcher.
func NewGetTicketHandler(fetcher TicketFetcher, logger *slog.Logger) *GetTicketHandler {
	return &GetTicketHandler{
		definition: newGetTicketDefinition(),
		fetcher:    fetcher,
		logger:     logger.With("handler", GetTicketToolName),
	}
}

// Definition returns the tool definition built for this handler.
func (h *GetTicketHandler) Definition() domain.Tool {
	return h.definition
}

// Upstream names the system whose failures surface through Execute.
func (h *GetTicketHandler) Upstream() string {
	return "Jira API"
}

// Validate reports whether args can be decoded into well-formed ticket arguments.
func (h *GetTicketHandler) Validate(args interface{}) bool {
	_, ok := parseTicketArguments(args)
	return ok
}

// Execute fetches the ticket and returns it as pretty-printed JSON text.
// Invalid arguments produce an error result; fetch failures are returned unchanged.
func (h *GetTicketHandler) Execute(ctx context.Context, args interface{}) (*domain.ToolResult, error) {
	ticketArgs, ok := parseTicketArguments(args)
	if !ok {
		h.logger.Warn("Execute called with invalid arguments")
		return domain.NewErrorResult(fmt.Sprintf("Invalid arguments for %s", GetTicketToolName)), nil
	}

	log := h.logger.With(slog.String("ticket_id", ticketArgs.TicketID))
	log.Debug("Fetching ticket", slog.Any("expand", ticketArgs.Expand), slog.Any("fields", ticketArgs.Fields))
	ticket, err := h.fetcher.FetchTicket(ctx, ticketArgs.TicketID, ticketArgs.Expand, ticketArgs.Fields)
	if err != nil {
		return nil, err
	}

	text, err := encodeTicket(ticket)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ticket %s: %w", ticketArgs.TicketID, err)
	}
	return domain.NewTextResult(text), nil
}

// encodeTicket renders ticket as two-space indented JSON. HTML characters are left
// as they are, since rendered Jira fields carry markup.
func encodeTicket(ticket interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ticket); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// parseTicketArguments checks args against the tool's input schema and the ticket id
// pattern. The boolean is false whenever args cannot be trusted; the returned value
// is only meaningful when it is true.
func parseTicketArguments(args interface{}) (domain.TicketArguments, bool) {
	result, err := getTicketSchema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil || !result.Valid() {
		return domain.TicketArguments{}, false
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return domain.TicketArguments{}, false
	}
	var parsed domain.TicketArguments
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return domain.TicketArguments{}, false
	}
	if !domain.ValidTicketID(parsed.TicketID) {
		return domain.TicketArguments{}, false
	}
	return parsed, true
}
