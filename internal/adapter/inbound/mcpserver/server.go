// Package mcpserver exposes the dispatcher's tools through a mark3labs/mcp-go server.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpGoServer "github.com/mark3labs/mcp-go/server"

	"github.com/i2y/jira-requester/internal/domain"
)

const (
	ServerName    = "jira-requester"
	ServerVersion = "1.0.0"
)

// ToolServer is the part of the mcp-go server the adapter needs.
type ToolServer interface {
	AddTool(tool mcp.Tool, handlerFunc mcpGoServer.ToolHandlerFunc)
}

// ToolDispatcher lists and runs tools.
type ToolDispatcher interface {
	ListTools() []domain.Tool
	Dispatch(ctx context.Context, toolName string, args interface{}) (*domain.ToolResult, error)
}

// NewServer creates an mcp-go server carrying this server's identity.
func NewServer() *mcpGoServer.MCPServer {
	return mcpGoServer.NewMCPServer(
		ServerName,
		ServerVersion,
		mcpGoServer.WithToolCapabilities(false),
		mcpGoServer.WithRecovery(),
	)
}

// RegisterTools adds every tool the dispatcher knows to srv.
func RegisterTools(srv ToolServer, dispatcher ToolDispatcher, logger *slog.Logger) error {
	logger = logger.With("component", "mcpserver")
	for _, tool := range dispatcher.ListTools() {
		schema, err := json.Marshal(tool.InputSchema)
		if err != nil {
			return fmt.Errorf("failed to encode input schema for tool %s: %w", tool.Name, err)
		}
		srv.AddTool(
			mcp.NewToolWithRawSchema(tool.Name, tool.Description, schema),
			newToolHandler(tool.Name, dispatcher, logger),
		)
		logger.Info("Registered MCP tool", slog.String("tool_name", tool.Name))
	}
	return nil
}

// newToolHandler adapts the dispatcher to mcp-go. mcp-go reports every handler error
// as -32603 (internal error) and answers unknown tools itself with -32602, so the
// dispatcher's error kinds are lost on this transport. The admin /rpc endpoint keeps
// the exact codes.
func newToolHandler(name string, dispatcher ToolDispatcher, logger *slog.Logger) mcpGoServer.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args interface{} = request.Params.Arguments
		result, err := dispatcher.Dispatch(ctx, name, args)
		if err != nil {
			logger.Debug("Returning dispatch failure to MCP client", slog.String("tool_name", name), slog.Any("error", err))
			return nil, err
		}
		return ToCallToolResult(result), nil
	}
}

// ToCallToolResult converts a ToolResult into its mcp-go representation.
// Content items of unknown type are sent as text.
func ToCallToolResult(result *domain.ToolResult) *mcp.CallToolResult {
	out := &mcp.CallToolResult{
		Content: make([]mcp.Content, 0, len(result.Content)),
		IsError: result.IsError,
	}
	for _, c := range result.Content {
		out.Content = append(out.Content, toContent(c))
	}
	return out
}

func toContent(c domain.Content) mcp.Content {
	switch c.Type {
	case domain.ContentTypeImage:
		return mcp.NewImageContent(c.Data, c.MimeType)
	case domain.ContentTypeResource:
		if c.Data != "" {
			return mcp.NewEmbeddedResource(mcp.BlobResourceContents{
				URI:      c.URI,
				MIMEType: c.MimeType,
				Blob:     c.Data,
			})
		}
		return mcp.NewEmbeddedResource(mcp.TextResourceContents{
			URI:      c.URI,
			MIMEType: c.MimeType,
			Text:     c.Text,
		})
	default:
		return mcp.NewTextContent(c.Text)
	}
}
