package schema

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/goccy/go-json"
)

// Supported schema types
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeNull    = "null"
	TypeObject  = "object"
	TypeArray   = "array"
)

// Node is a single node of a JSON Schema-like document. Only the keywords
// the editor interprets are modeled; everything else is ignored on parse.
type Node struct {
	Type        string           `json:"type"`
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	Properties  map[string]*Node `json:"properties,omitempty"`
	Required    Requirement      `json:"required,omitempty"`
	Enum        []string         `json:"enum,omitempty"`
	EnumNames   []string         `json:"enumNames,omitempty"`
	Format      string           `json:"format,omitempty"`
	Pattern     string           `json:"pattern,omitempty"`
	MinLength   *int             `json:"minLength,omitempty"`
	MaxLength   *int             `json:"maxLength,omitempty"`
	Minimum     *float64         `json:"minimum,omitempty"`
	Maximum     *float64         `json:"maximum,omitempty"`
	Default     any              `json:"default,omitempty"`

	// Order preserves the declaration order of Properties. Fields are
	// rendered in this order. Empty for nodes built by hand; PropertyNames
	// falls back to alphabetical order then.
	Order []string `json:"-"`
}

// Requirement models the JSON Schema `required` keyword, which is either a
// boolean (applies to everything) or a list of property names.
type Requirement struct {
	All   bool
	Names []string
}

// Has reports whether the named property is required
func (r Requirement) Has(name string) bool {
	if r.All {
		return true
	}
	for _, n := range r.Names {
		if n == name {
			return true
		}
	}
	return false
}

// Empty reports whether no requirement is declared at all
func (r Requirement) Empty() bool {
	return !r.All && len(r.Names) == 0
}

func (r *Requirement) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Requirement{}
		return nil
	}
	if data[0] == '[' {
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return fmt.Errorf("required: %w", err)
		}
		*r = Requirement{Names: names}
		return nil
	}
	var all bool
	if err := json.Unmarshal(data, &all); err != nil {
		return fmt.Errorf("required must be a bool or a list of names: %w", err)
	}
	*r = Requirement{All: all}
	return nil
}

func (r Requirement) MarshalJSON() ([]byte, error) {
	if r.All {
		return []byte("true"), nil
	}
	if len(r.Names) > 0 {
		return json.Marshal(r.Names)
	}
	return []byte("false"), nil
}

// Parse decodes a JSON Schema-like document, preserving the declaration
// order of object properties.
func Parse(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	return &n, nil
}

func (n *Node) UnmarshalJSON(data []byte) error {
	// Shadow type with raw properties so the key order can be recovered
	type rawNode struct {
		Type        string          `json:"type"`
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Properties  json.RawMessage `json:"properties"`
		Required    Requirement     `json:"required"`
		Enum        []string        `json:"enum"`
		EnumNames   []string        `json:"enumNames"`
		Format      string          `json:"format"`
		Pattern     string          `json:"pattern"`
		MinLength   *int            `json:"minLength"`
		MaxLength   *int            `json:"maxLength"`
		Minimum     *float64        `json:"minimum"`
		Maximum     *float64        `json:"maximum"`
		Default     any             `json:"default"`
	}

	var rn rawNode
	if err := json.Unmarshal(data, &rn); err != nil {
		return err
	}

	*n = Node{
		Type:        rn.Type,
		Title:       rn.Title,
		Description: rn.Description,
		Required:    rn.Required,
		Enum:        rn.Enum,
		EnumNames:   rn.EnumNames,
		Format:      rn.Format,
		Pattern:     rn.Pattern,
		MinLength:   rn.MinLength,
		MaxLength:   rn.MaxLength,
		Minimum:     rn.Minimum,
		Maximum:     rn.Maximum,
		Default:     rn.Default,
	}

	props := bytes.TrimSpace(rn.Properties)
	if len(props) == 0 || bytes.Equal(props, []byte("null")) {
		return nil
	}

	properties := make(map[string]*Node)
	if err := json.Unmarshal(props, &properties); err != nil {
		return fmt.Errorf("properties: %w", err)
	}
	order, err := objectKeys(props)
	if err != nil {
		return fmt.Errorf("properties: %w", err)
	}

	n.Properties = properties
	n.Order = order
	return nil
}

// PropertyNames returns the declared property names in declaration order
// when known, alphabetical otherwise.
func (n *Node) PropertyNames() []string {
	if len(n.Order) > 0 {
		names := make([]string, 0, len(n.Order))
		for _, name := range n.Order {
			if _, ok := n.Properties[name]; ok {
				names = append(names, name)
			}
		}
		return names
	}
	names := make([]string, 0, len(n.Properties))
	for name := range n.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsScalar reports whether the type is one of the supported scalar types
func IsScalar(typ string) bool {
	switch typ {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeNull:
		return true
	}
	return false
}

// StructuredCapable reports whether a schema can be edited field-by-field:
// the type is a supported scalar, or the type is object and every declared
// property is a supported scalar. Nested objects or arrays anywhere in the
// properties make the schema raw-text only.
func StructuredCapable(n *Node) bool {
	if n == nil {
		return false
	}
	if IsScalar(n.Type) {
		return true
	}
	if n.Type != TypeObject {
		return false
	}
	for _, prop := range n.Properties {
		if prop == nil || !IsScalar(prop.Type) {
			return false
		}
	}
	return true
}

// DefaultValue produces a schema-conformant placeholder value: the declared
// default when present, otherwise a zero-ish value per type, recursing
// through object properties.
func DefaultValue(n *Node) any {
	if n == nil {
		return nil
	}
	if n.Default != nil {
		return n.Default
	}
	switch n.Type {
	case TypeString:
		return ""
	case TypeNumber, TypeInteger:
		return float64(0)
	case TypeBoolean:
		return false
	case TypeNull:
		return nil
	case TypeArray:
		return []any{}
	case TypeObject:
		out := make(map[string]any, len(n.Properties))
		for _, name := range n.PropertyNames() {
			out[name] = DefaultValue(n.Properties[name])
		}
		return out
	}
	return nil
}

// objectKeys returns the top-level keys of a raw JSON object in their
// declaration order.
func objectKeys(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected an object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected an object key, got %v", keyTok)
		}
		keys = append(keys, key)

		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// skipValue consumes one complete JSON value from the decoder
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || (d != '{' && d != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
