package mcphttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/i2y/jira-requester/internal/domain"
	"github.com/i2y/jira-requester/internal/usecase"
	"github.com/i2y/jira-requester/pkg/shared/mcpjsonrpc"
)

// maxBodyBytes caps request bodies on the admin endpoints.
const maxBodyBytes = 1 << 20

// ToolDispatcher lists and runs tools.
type ToolDispatcher interface {
	ListTools() []domain.Tool
	Dispatch(ctx context.Context, toolName string, args interface{}) (*domain.ToolResult, error)
}

// Handlers struct holds dependencies for the HTTP handlers.
type Handlers struct {
	dispatcher ToolDispatcher
	version    string
	logger     *slog.Logger
}

// NewHandlers creates a new Handlers struct.
func NewHandlers(dispatcher ToolDispatcher, version string, logger *slog.Logger) *Handlers {
	return &Handlers{
		dispatcher: dispatcher,
		version:    version,
		logger:     logger.With("component", "mcphttp_handler"),
	}
}

// RegisterAdminRoutes sets up the HTTP routes for admin endpoints.
func (h *Handlers) RegisterAdminRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /rpc", h.handleRPC)
	mux.HandleFunc("POST /tools/{name}", h.handleCallTool)
	mux.HandleFunc("GET /openapi.json", h.handleOpenAPI)
	mux.HandleFunc("GET /healthz", h.handleHealthz)
}

// ErrorBody is the JSON body of a failed POST /tools/{name}.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// handleRPC implements POST /rpc, a JSON-RPC 2.0 endpoint for tools/list and tools/call.
func (h *Handlers) handleRPC(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req mcpjsonrpc.Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode JSON-RPC request", slog.Any("error", err))
		h.writeJSON(w, http.StatusOK, mcpjsonrpc.NewError(nil, mcpjsonrpc.CodeParseError, "Parse error"))
		return
	}
	if req.Version != mcpjsonrpc.Version || req.Method == "" {
		h.writeJSON(w, http.StatusOK, mcpjsonrpc.NewError(req.ID, mcpjsonrpc.CodeInvalidRequest, "Invalid Request"))
		return
	}

	log := h.logger.With(slog.String("method", req.Method))
	switch req.Method {
	case mcpjsonrpc.MethodToolsList:
		h.writeJSON(w, http.StatusOK, mcpjsonrpc.NewResult(req.ID, mcpjsonrpc.ListToolsResult{Tools: h.dispatcher.ListTools()}))

	case mcpjsonrpc.MethodToolsCall:
		var params mcpjsonrpc.CallToolParams
		if len(req.Params) == 0 {
			h.writeJSON(w, http.StatusOK, mcpjsonrpc.NewError(req.ID, mcpjsonrpc.CodeInvalidParams, "Missing params"))
			return
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			log.Warn("Failed to decode tools/call params", slog.Any("error", err))
			h.writeJSON(w, http.StatusOK, mcpjsonrpc.NewError(req.ID, mcpjsonrpc.CodeInvalidParams, fmt.Sprintf("Invalid params: %v", err)))
			return
		}
		result, err := h.dispatcher.Dispatch(r.Context(), params.Name, params.Arguments)
		if err != nil {
			code, message := dispatchFailure(err)
			h.writeJSON(w, http.StatusOK, mcpjsonrpc.NewError(req.ID, code, message))
			return
		}
		h.writeJSON(w, http.StatusOK, mcpjsonrpc.NewResult(req.ID, result))

	default:
		log.Warn("Unsupported JSON-RPC method")
		h.writeJSON(w, http.StatusOK, mcpjsonrpc.NewError(req.ID, mcpjsonrpc.CodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method)))
	}
}

// handleCallTool implements POST /tools/{name}. The body is the argument object.
func (h *Handlers) handleCallTool(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	name := r.PathValue("name")

	var args interface{}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("Failed to decode tool arguments", slog.String("tool_name", name), slog.Any("error", err))
		h.writeJSON(w, http.StatusBadRequest, ErrorBody{
			Code:    mcpjsonrpc.CodeParseError,
			Message: fmt.Sprintf("Invalid request body: %v", err),
		})
		return
	}

	result, err := h.dispatcher.Dispatch(r.Context(), name, args)
	if err != nil {
		code, message := dispatchFailure(err)
		h.writeJSON(w, statusForCode(code), ErrorBody{Code: code, Message: message})
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// handleHealthz implements GET /healthz
func (h *Handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func dispatchFailure(err error) (int, string) {
	var dErr *usecase.DispatchError
	if errors.As(err, &dErr) {
		return dErr.Kind.Code(), dErr.Message
	}
	return mcpjsonrpc.CodeInternalError, err.Error()
}

func statusForCode(code int) int {
	switch code {
	case mcpjsonrpc.CodeMethodNotFound:
		return http.StatusNotFound
	case mcpjsonrpc.CodeInvalidParams:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to write response", slog.Any("error", err))
	}
}
