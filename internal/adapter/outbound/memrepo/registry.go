package memrepo

import (
	"log/slog"
	"sync"

	"github.com/i2y/jira-requester/internal/domain"
	"github.com/i2y/jira-requester/internal/usecase"
)

// InMemoryToolRegistry provides an in-memory implementation of usecase.ToolRegistry.
// Handlers are kept for the lifetime of the process; there is no removal.
type InMemoryToolRegistry struct {
	mu       sync.RWMutex
	handlers map[string]usecase.ToolHandler // Map tool name to handler
	order    []string                       // Tool names in registration order
	cached   []domain.Tool                  // Definitions listing, nil until first built
	logger   *slog.Logger
}

// NewInMemoryToolRegistry creates a new in-memory registry.
func NewInMemoryToolRegistry(logger *slog.Logger) *InMemoryToolRegistry {
	return &InMemoryToolRegistry{
		handlers: make(map[string]usecase.ToolHandler),
		logger:   logger.With("component", "mem_registry"),
	}
}

// Register stores handler under its definition name.
// On failure the registry is left exactly as it was.
func (r *InMemoryToolRegistry) Register(handler usecase.ToolHandler) error {
	name := handler.Definition().Name
	if name == "" {
		r.logger.Warn("Rejected tool with empty name")
		return usecase.ErrEmptyToolName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		r.logger.Error("Tool already registered", slog.String("tool_name", name))
		return &usecase.DuplicateNameError{Name: name}
	}
	r.handlers[name] = handler
	r.order = append(r.order, name)
	r.cached = nil
	r.logger.Info("Registered tool", slog.String("tool_name", name), slog.Int("total_tools", len(r.order)))
	return nil
}

// GetHandler retrieves a handler by its name.
func (r *InMemoryToolRegistry) GetHandler(name string) (usecase.ToolHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, ok := r.handlers[name]
	return handler, ok
}

// GetAllTools returns all tool definitions in registration order.
// The same slice is returned until the next successful Register.
func (r *InMemoryToolRegistry) GetAllTools() []domain.Tool {
	r.mu.RLock()
	tools := r.cached
	r.mu.RUnlock()
	if tools != nil {
		return tools
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cached == nil {
		list := make([]domain.Tool, 0, len(r.order))
		for _, name := range r.order {
			list = append(list, r.handlers[name].Definition())
		}
		r.cached = list
		r.logger.Debug("Rebuilt tool listing", slog.Int("count", len(list)))
	}
	return r.cached
}
