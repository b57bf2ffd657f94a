package schema

import (
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// FromOpenAPI converts an OpenAPI schema into an editor schema node.
// Read-only properties and ambiguous objects (no declared properties and no
// additionalProperties) are dropped; enum values are honored for strings
// only. Property order is required-first then alphabetical.
func FromOpenAPI(s *openapi3.Schema) *Node {
	if s == nil {
		return nil
	}

	n := &Node{
		Title:       s.Title,
		Description: s.Description,
		Format:      s.Format,
		Default:     s.Default,
		Pattern:     s.Pattern,
	}

	if s.Min != nil {
		min := *s.Min
		n.Minimum = &min
	}
	if s.Max != nil {
		max := *s.Max
		n.Maximum = &max
	}
	if s.MinLength > 0 {
		minLen := int(s.MinLength)
		n.MinLength = &minLen
	}
	if s.MaxLength != nil {
		maxLen := int(*s.MaxLength)
		n.MaxLength = &maxLen
	}

	n.Type = openAPIType(s)

	if n.Type == TypeString {
		for _, enumVal := range s.Enum {
			if strVal, ok := enumVal.(string); ok {
				n.Enum = append(n.Enum, strVal)
			}
		}
	}

	if n.Type == TypeObject && s.Properties != nil {
		requiredFields := make(map[string]bool)
		for _, req := range s.Required {
			requiredFields[req] = true
		}

		n.Properties = make(map[string]*Node)
		var kept []string
		for propName, propRef := range s.Properties {
			if propRef == nil || propRef.Value == nil {
				continue
			}
			propSchema := propRef.Value
			if propSchema.ReadOnly {
				continue
			}
			if isAmbiguousObject(propSchema) {
				continue
			}
			n.Properties[propName] = FromOpenAPI(propSchema)
			kept = append(kept, propName)
			if requiredFields[propName] {
				n.Required.Names = append(n.Required.Names, propName)
			}
		}

		// Required fields first, then alphabetical
		sort.Slice(kept, func(i, j int) bool {
			reqI := requiredFields[kept[i]]
			reqJ := requiredFields[kept[j]]
			if reqI != reqJ {
				return reqI
			}
			return kept[i] < kept[j]
		})
		n.Order = kept
		sort.Strings(n.Required.Names)
	}

	return n
}

// LoadComponent loads an OpenAPI document and converts the named component
// schema into an editor schema node.
func LoadComponent(path, name string) (*Node, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document %q: %w", path, err)
	}
	if doc.Components == nil || doc.Components.Schemas == nil {
		return nil, fmt.Errorf("OpenAPI document %q has no component schemas", path)
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok {
		return nil, fmt.Errorf("component schema %q not found in %q", name, path)
	}
	if ref.Value == nil {
		return nil, fmt.Errorf("component schema %q is unresolved", name)
	}
	n := FromOpenAPI(ref.Value)
	if n.Title == "" {
		n.Title = name
	}
	return n, nil
}

// openAPIType maps the first declared OpenAPI type onto an editor type,
// defaulting to string the way form generation usually does.
func openAPIType(s *openapi3.Schema) string {
	if s.Type == nil || len(*s.Type) == 0 {
		return TypeString
	}
	switch (*s.Type)[0] {
	case openapi3.TypeString:
		return TypeString
	case openapi3.TypeInteger:
		return TypeInteger
	case openapi3.TypeNumber:
		return TypeNumber
	case openapi3.TypeBoolean:
		return TypeBoolean
	case openapi3.TypeNull:
		return TypeNull
	case openapi3.TypeArray:
		return TypeArray
	case openapi3.TypeObject:
		return TypeObject
	}
	return TypeString
}

// isAmbiguousObject checks if an object has no properties defined (should be skipped)
func isAmbiguousObject(s *openapi3.Schema) bool {
	if s == nil || s.Type == nil || len(*s.Type) == 0 {
		return false
	}
	return (*s.Type)[0] == openapi3.TypeObject && len(s.Properties) == 0 && s.AdditionalProperties.Schema == nil
}
