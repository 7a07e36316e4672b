package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/i2y/jira-requester/internal/domain"
)

// Standard errors returned by use cases and adapters.
var (
	ErrToolNotFound  = errors.New("tool not found")
	ErrEmptyToolName = errors.New("tool name must not be empty")
)

// DuplicateNameError is returned when a handler is registered under a name that is already taken.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("tool '%s' is already registered", e.Name)
}

// --- Tool Handling ---

// ToolHandler is the implementation backing one tool.
// Validate must be pure; Execute re-validates its input and reports invalid
// arguments in-band (ToolResult.IsError) rather than through the error return.
type ToolHandler interface {
	Definition() domain.Tool
	Validate(args interface{}) bool
	Execute(ctx context.Context, args interface{}) (*domain.ToolResult, error)
}

// ToolRegistry defines the contract for storing and retrieving tool handlers by name.
type ToolRegistry interface {
	// Register adds a handler keyed by its definition name.
	// It fails with *DuplicateNameError when the name is taken, leaving the registry unchanged.
	Register(handler ToolHandler) error

	// GetHandler retrieves a handler by name. The boolean is false when no handler exists.
	GetHandler(name string) (ToolHandler, bool)

	// GetAllTools returns the definitions of all registered handlers.
	// The returned slice and the schemas inside it are shared and must not be modified
	// by the caller.
	GetAllTools() []domain.Tool
}

// --- Upstream Collaborators ---

// TicketFetcher retrieves a single ticket from the ticket-tracking system.
// When fields is empty the implementation applies domain.DefaultTicketFields.
type TicketFetcher interface {
	FetchTicket(ctx context.Context, ticketID string, expand, fields []string) (interface{}, error)
}

// --- Observability ---

// CallRecorder receives one sample per dispatched tool call.
type CallRecorder interface {
	RecordToolCall(ctx context.Context, tool, status string, duration time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) RecordToolCall(context.Context, string, string, time.Duration) {}
