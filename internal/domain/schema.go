package domain

// JSONSchemaProps represents the properties of a JSON schema,
// used for the input definition of MCP tools.
// This is a simplified version covering what tool definitions need.
type JSONSchemaProps struct {
	Type        string                     `json:"type"`                  // e.g., "object", "string", "array"
	Description string                     `json:"description,omitempty"` // Human-readable hint for the caller
	Properties  map[string]JSONSchemaProps `json:"properties,omitempty"`  // For type "object"
	Required    []string                   `json:"required,omitempty"`    // For type "object"
	Items       *JSONSchemaProps           `json:"items,omitempty"`       // For type "array"
	Format      string                     `json:"format,omitempty"`      // e.g., "date-time", "email"
	Enum        []interface{}              `json:"enum,omitempty"`        // Possible values
}

// StringArraySchema returns an array-of-strings property with the given description.
func StringArraySchema(description string) JSONSchemaProps {
	return JSONSchemaProps{
		Type:        "array",
		Items:       &JSONSchemaProps{Type: "string"},
		Description: description,
	}
}
