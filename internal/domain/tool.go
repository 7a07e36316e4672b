package domain

// Tool describes a callable operation exposed over the Model Context Protocol (MCP).
// Based on MCP Spec 2025-03-26: https://modelcontextprotocol.io/specification/2025-03-26
// A Tool is created once per handler and never mutated afterwards.
type Tool struct {
	// Name MUST be unique within the MCP server (e.g. "get_jira_ticket").
	Name string `json:"name"`

	// Description provides a natural language explanation of what the tool does.
	// This is crucial for the LLM to understand when to use the tool.
	Description string `json:"description"`

	// InputSchema defines the structure of the arguments the tool accepts.
	InputSchema JSONSchemaProps `json:"inputSchema"`
}

// ContentType tags a single item of a ToolResult.
type ContentType string

const (
	ContentTypeText     ContentType = "text"
	ContentTypeImage    ContentType = "image"
	ContentTypeResource ContentType = "resource"
)

// Content is one item of a tool result.
// Text items carry Text; image items carry base64 Data and MimeType;
// resource items carry URI plus either Text or base64 Data.
type Content struct {
	Type     ContentType `json:"type"`
	Text     string      `json:"text,omitempty"`
	Data     string      `json:"data,omitempty"`
	MimeType string      `json:"mimeType,omitempty"`
	URI      string      `json:"uri,omitempty"`
}

// ToolResult is the normalized outcome of executing a tool.
// When IsError is set the result still carries a human-readable text item.
type ToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// NewTextResult wraps text into a single-item successful result.
func NewTextResult(text string) *ToolResult {
	return &ToolResult{
		Content: []Content{{Type: ContentTypeText, Text: text}},
	}
}

// NewErrorResult builds an in-band error result describing the failure.
func NewErrorResult(message string) *ToolResult {
	return &ToolResult{
		Content: []Content{{Type: ContentTypeText, Text: message}},
		IsError: true,
	}
}
