package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/i2y/jira-requester/internal/domain"
	"github.com/i2y/jira-requester/pkg/shared/mcpjsonrpc"
)

const tracerName = "github.com/i2y/jira-requester/internal/usecase"

// ErrorKind classifies a failed dispatch. Transports map it to a protocol error code.
type ErrorKind int

const (
	MethodNotFound ErrorKind = iota + 1
	InvalidParams
	InternalError
)

func (k ErrorKind) String() string {
	switch k {
	case MethodNotFound:
		return "method_not_found"
	case InvalidParams:
		return "invalid_params"
	case InternalError:
		return "internal_error"
	default:
		return "unknown"
	}
}

// Code returns the JSON-RPC error code for the kind.
func (k ErrorKind) Code() int {
	switch k {
	case MethodNotFound:
		return mcpjsonrpc.CodeMethodNotFound
	case InvalidParams:
		return mcpjsonrpc.CodeInvalidParams
	default:
		return mcpjsonrpc.CodeInternalError
	}
}

// DispatchError is the protocol-level outcome of a tool call that did not produce a result.
type DispatchError struct {
	Kind    ErrorKind
	Tool    string
	Message string
	Err     error
}

func (e *DispatchError) Error() string {
	return e.Message
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Upstream may be implemented by a ToolHandler to name the system its failures come from.
type Upstream interface {
	Upstream() string
}

const defaultUpstream = "Upstream"

// Dispatcher looks up, validates and executes tool calls.
type Dispatcher struct {
	registry ToolRegistry
	recorder CallRecorder
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewDispatcher creates a new Dispatcher. recorder may be nil.
func NewDispatcher(registry ToolRegistry, recorder CallRecorder, logger *slog.Logger) *Dispatcher {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Dispatcher{
		registry: registry,
		recorder: recorder,
		tracer:   otel.Tracer(tracerName),
		logger:   logger.With("usecase", "Dispatch"),
	}
}

// ListTools returns the registry's cached tool definitions.
// The slice is shared and must not be modified.
func (d *Dispatcher) ListTools() []domain.Tool {
	tools := d.registry.GetAllTools()
	d.logger.Debug("Listing tools", slog.Int("count", len(tools)))
	return tools
}

// Dispatch runs the named tool with raw, undecoded arguments.
// Failures are returned as *DispatchError.
func (d *Dispatcher) Dispatch(ctx context.Context, toolName string, args interface{}) (result *domain.ToolResult, err error) {
	callID := uuid.NewString()
	log := d.logger.With(slog.String("tool_name", toolName), slog.String("call_id", callID))
	ctx, span := d.tracer.Start(ctx, "tools/call "+toolName,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("mcp.tool.name", toolName),
			attribute.String("mcp.call.id", callID),
		),
	)
	start := time.Now()
	defer func() {
		status := "ok"
		var dErr *DispatchError
		switch {
		case errors.As(err, &dErr):
			status = dErr.Kind.String()
			span.RecordError(err)
			span.SetStatus(codes.Error, dErr.Message)
		case result != nil && result.IsError:
			status = "tool_error"
		}
		d.recorder.RecordToolCall(ctx, toolName, status, time.Since(start))
		span.End()
	}()

	// 1. Lookup
	handler, ok := d.registry.GetHandler(toolName)
	if !ok {
		log.Warn("Unknown tool requested")
		return nil, &DispatchError{
			Kind:    MethodNotFound,
			Tool:    toolName,
			Message: fmt.Sprintf("Unknown tool: %s", toolName),
			Err:     ErrToolNotFound,
		}
	}

	// 2. Validate
	if !handler.Validate(args) {
		log.Warn("Rejected invalid arguments")
		return nil, &DispatchError{
			Kind:    InvalidParams,
			Tool:    toolName,
			Message: fmt.Sprintf("Invalid arguments for %s", toolName),
		}
	}

	// 3. Execute
	log.Info("Executing tool")
	result, err = d.execute(ctx, handler, args)
	if err != nil {
		upstream := defaultUpstream
		if u, ok := handler.(Upstream); ok {
			upstream = u.Upstream()
		}
		log.Error("Tool execution failed", slog.Any("error", err))
		return nil, &DispatchError{
			Kind:    InternalError,
			Tool:    toolName,
			Message: fmt.Sprintf("%s error: %s", upstream, failureMessage(err)),
			Err:     err,
		}
	}

	log.Info("Tool execution finished", slog.Bool("is_error", result.IsError))
	return result, nil
}

// execute runs the handler, turning a panic into an error so it is reported like any
// other execution failure.
func (d *Dispatcher) execute(ctx context.Context, handler ToolHandler, args interface{}) (result *domain.ToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rErr, ok := r.(error); ok {
				err = rErr
				return
			}
			err = fmt.Errorf("%w: %v", errNonErrorPanic, r)
		}
	}()
	result, err = handler.Execute(ctx, args)
	if err == nil && result == nil {
		err = errors.New("tool returned no result")
	}
	return result, err
}

var errNonErrorPanic = errors.New("execution panicked with a non-error value")

// failureMessage returns the text reported to callers for an execution failure.
func failureMessage(err error) string {
	if errors.Is(err, errNonErrorPanic) {
		return "Unknown error"
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Unknown error"
}
