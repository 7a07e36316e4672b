package mcphttp

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/i2y/jira-requester/internal/domain"
)

// BuildOpenAPI describes one POST /tools/{name} operation per tool.
func BuildOpenAPI(tools []domain.Tool, version string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "jira-requester tools",
			Description: "Direct HTTP access to the registered MCP tools.",
			Version:     version,
		},
		Paths: openapi3.NewPaths(),
	}

	for _, tool := range tools {
		op := openapi3.NewOperation()
		op.OperationID = tool.Name
		op.Summary = tool.Description
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithRequired(true).
				WithJSONSchema(convertSchema(tool.InputSchema)),
		}
		op.AddResponse(http.StatusOK, openapi3.NewResponse().
			WithDescription("Tool result").
			WithJSONSchema(toolResultSchema()))
		op.AddResponse(http.StatusBadRequest, errorResponse("Invalid arguments"))
		op.AddResponse(http.StatusNotFound, errorResponse("Unknown tool"))
		op.AddResponse(http.StatusBadGateway, errorResponse("Upstream failure"))

		doc.Paths.Set(fmt.Sprintf("/tools/%s", tool.Name), &openapi3.PathItem{Post: op})
	}
	return doc
}

// convertSchema converts a domain.JSONSchemaProps into an openapi3.Schema.
// This is recursive and handles basic types, objects, arrays, and enums.
func convertSchema(props domain.JSONSchemaProps) *openapi3.Schema {
	schema := &openapi3.Schema{
		Description: props.Description,
		Format:      props.Format,
		Enum:        props.Enum,
	}
	if props.Type != "" {
		schema.Type = &openapi3.Types{props.Type}
	}

	switch props.Type {
	case "object":
		schema.Required = props.Required
		if len(props.Properties) > 0 {
			schema.Properties = make(openapi3.Schemas, len(props.Properties))
			for name, prop := range props.Properties {
				schema.Properties[name] = openapi3.NewSchemaRef("", convertSchema(prop))
			}
		}
	case "array":
		if props.Items != nil {
			schema.Items = openapi3.NewSchemaRef("", convertSchema(*props.Items))
		}
	}
	return schema
}

func toolResultSchema() *openapi3.Schema {
	content := openapi3.NewObjectSchema().
		WithProperty("type", openapi3.NewStringSchema().WithEnum("text", "image", "resource")).
		WithProperty("text", openapi3.NewStringSchema()).
		WithProperty("data", openapi3.NewStringSchema()).
		WithProperty("mimeType", openapi3.NewStringSchema()).
		WithProperty("uri", openapi3.NewStringSchema())
	return openapi3.NewObjectSchema().
		WithProperty("content", openapi3.NewArraySchema().WithItems(content)).
		WithProperty("isError", openapi3.NewBoolSchema())
}

func errorResponse(description string) *openapi3.Response {
	body := openapi3.NewObjectSchema().
		WithProperty("code", openapi3.NewIntegerSchema()).
		WithProperty("message", openapi3.NewStringSchema())
	return openapi3.NewResponse().WithDescription(description).WithJSONSchema(body)
}

// handleOpenAPI implements GET /openapi.json
func (h *Handlers) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	doc := BuildOpenAPI(h.dispatcher.ListTools(), h.version)
	raw, err := doc.MarshalJSON()
	if err != nil {
		h.logger.Error("Failed to encode OpenAPI document", slog.Any("error", err))
		http.Error(w, "Failed to encode OpenAPI document", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}
