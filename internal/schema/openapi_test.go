package schema

import (
	"reflect"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

func strSchema() *openapi3.Schema {
	return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}}
}

func TestFromOpenAPITypes(t *testing.T) {
	tests := []struct {
		name    string
		oasType string
		want    string
	}{
		{"string", openapi3.TypeString, TypeString},
		{"integer", openapi3.TypeInteger, TypeInteger},
		{"number", openapi3.TypeNumber, TypeNumber},
		{"boolean", openapi3.TypeBoolean, TypeBoolean},
		{"array", openapi3.TypeArray, TypeArray},
		{"object", openapi3.TypeObject, TypeObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &openapi3.Schema{Type: &openapi3.Types{tt.oasType}}
			node := FromOpenAPI(s)
			if node.Type != tt.want {
				t.Errorf("Expected type %s, got %s", tt.want, node.Type)
			}
		})
	}

	t.Run("untyped defaults to string", func(t *testing.T) {
		if node := FromOpenAPI(&openapi3.Schema{}); node.Type != TypeString {
			t.Errorf("Expected string fallback, got %s", node.Type)
		}
	})
}

func TestFromOpenAPISkipsReadOnlyAndAmbiguous(t *testing.T) {
	s := &openapi3.Schema{
		Type: &openapi3.Types{openapi3.TypeObject},
		Properties: openapi3.Schemas{
			"name": openapi3.NewSchemaRef("", strSchema()),
			"id": openapi3.NewSchemaRef("", &openapi3.Schema{
				Type:     &openapi3.Types{openapi3.TypeInteger},
				ReadOnly: true,
			}),
			"blob": openapi3.NewSchemaRef("", &openapi3.Schema{
				Type: &openapi3.Types{openapi3.TypeObject},
			}),
		},
	}

	node := FromOpenAPI(s)

	if _, ok := node.Properties["name"]; !ok {
		t.Error("Expected name property to survive conversion")
	}
	if _, ok := node.Properties["id"]; ok {
		t.Error("Read-only property should be dropped")
	}
	if _, ok := node.Properties["blob"]; ok {
		t.Error("Property-less object should be dropped")
	}
}

func TestFromOpenAPIRequiredFirstOrder(t *testing.T) {
	s := &openapi3.Schema{
		Type: &openapi3.Types{openapi3.TypeObject},
		Properties: openapi3.Schemas{
			"zeta":  openapi3.NewSchemaRef("", strSchema()),
			"alpha": openapi3.NewSchemaRef("", strSchema()),
			"beta":  openapi3.NewSchemaRef("", strSchema()),
		},
		Required: []string{"zeta"},
	}

	node := FromOpenAPI(s)

	want := []string{"zeta", "alpha", "beta"}
	if !reflect.DeepEqual(node.Order, want) {
		t.Errorf("Expected order %v, got %v", want, node.Order)
	}
	if !node.Required.Has("zeta") {
		t.Error("Expected zeta to be required")
	}
	if node.Required.Has("alpha") {
		t.Error("alpha should not be required")
	}
}

func TestFromOpenAPIConstraints(t *testing.T) {
	min := 1.0
	max := 100.0
	maxLen := uint64(32)
	s := &openapi3.Schema{
		Type:      &openapi3.Types{openapi3.TypeString},
		Format:    "email",
		Min:       &min,
		Max:       &max,
		MinLength: 2,
		MaxLength: &maxLen,
		Enum:      []any{"a", "b", 3},
	}

	node := FromOpenAPI(s)

	if node.Format != "email" {
		t.Errorf("Expected format email, got %q", node.Format)
	}
	if node.Minimum == nil || *node.Minimum != 1.0 {
		t.Errorf("Expected minimum 1, got %v", node.Minimum)
	}
	if node.Maximum == nil || *node.Maximum != 100.0 {
		t.Errorf("Expected maximum 100, got %v", node.Maximum)
	}
	if node.MinLength == nil || *node.MinLength != 2 {
		t.Errorf("Expected minLength 2, got %v", node.MinLength)
	}
	if node.MaxLength == nil || *node.MaxLength != 32 {
		t.Errorf("Expected maxLength 32, got %v", node.MaxLength)
	}
	// Non-string enum entries are silently dropped
	if !reflect.DeepEqual(node.Enum, []string{"a", "b"}) {
		t.Errorf("Expected enum [a b], got %v", node.Enum)
	}
}

func TestFromOpenAPINil(t *testing.T) {
	if node := FromOpenAPI(nil); node != nil {
		t.Errorf("Expected nil node for nil schema, got %+v", node)
	}
}
