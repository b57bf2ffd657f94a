package editor

import (
	"fmt"
	"strconv"
	"strings"

	log "formix/internal/logging"

	"formix/internal/jsonval"
	"formix/internal/schema"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Field is one editable control bound to a location in the value tree.
// Every edit funnels through apply, which reads the control state and
// decides whether and what to commit.
type Field struct {
	Label       string
	Description string
	Required    bool
	Path        []string
	Nested      bool // depth-limited subtree edited as raw JSON

	control  InputField
	lastSeen string
	apply    func(e *Editor, f *Field)
}

// Control exposes the underlying input control
func (f *Field) Control() InputField { return f.control }

// buildFields walks the schema tree in lockstep with the value tree and
// produces one field per editable leaf. It is a pure function of its
// arguments; commit behavior is bound into each field's apply closure.
func buildFields(node *schema.Node, value any, path []string, depth, maxDepth int, rootReq schema.Requirement) []*Field {
	if node == nil {
		return nil
	}

	// Depth-limited subtrees degrade to a nested raw JSON editor
	if depth >= maxDepth && (node.Type == schema.TypeObject || node.Type == schema.TypeArray) {
		return []*Field{newNestedField(node, value, path)}
	}

	if node.Type == schema.TypeObject && len(node.Properties) > 0 {
		var fields []*Field
		for _, name := range node.PropertyNames() {
			prop := node.Properties[name]
			if prop == nil {
				continue
			}
			childPath := appendPath(path, name)
			childValue, _ := jsonval.GetAtPath(value, []string{name})
			fields = append(fields, buildFields(prop, childValue, childPath, depth+1, maxDepth, rootReq)...)
		}
		return fields
	}

	if f := newLeafField(node, value, path, rootReq); f != nil {
		return []*Field{f}
	}
	return nil
}

// newLeafField creates a type-specific control for a scalar schema node.
// Unknown leaf types produce nothing.
func newLeafField(node *schema.Node, value any, path []string, rootReq schema.Requirement) *Field {
	required := isRequired(path, rootReq)
	f := &Field{
		Label:       fieldLabel(node, path),
		Description: node.Description,
		Required:    required,
		Path:        path,
	}

	switch {
	case node.Type == schema.TypeString && len(node.Enum) > 0:
		f.control = newEnumInput(node, stringOrEmpty(value))
		f.apply = applyEnum

	case node.Type == schema.TypeString:
		f.control = newTextInput(node, stringOrEmpty(value))
		f.apply = applyString

	case node.Type == schema.TypeNumber:
		f.control = newFloat64Input(node, numberText(value))
		f.apply = applyNumber

	case node.Type == schema.TypeInteger:
		f.control = newInt64Input(node, numberText(value))
		f.apply = applyInteger

	case node.Type == schema.TypeBoolean:
		b, _ := value.(bool)
		f.control = newBoolInput(b)
		f.apply = applyBool

	default:
		// Unsupported leaf type: render nothing
		return nil
	}

	f.lastSeen = f.control.Value()
	return f
}

// newNestedField creates a raw JSON sub-editor scoped to the sub-value at
// path. Edits parse as JSON; successful parses commit through the path
// update funnel, failures set the shared parse error and commit nothing.
func newNestedField(node *schema.Node, value any, path []string) *Field {
	seed := value
	if seed == nil {
		seed = schema.DefaultValue(node)
	}
	text, err := jsonval.MarshalIndented(seed)
	if err != nil {
		log.Error("Failed to serialize nested value", zap.Strings("path", path), zap.Error(err))
		text = ""
	}

	f := &Field{
		Label:       fieldLabel(node, path),
		Description: node.Description,
		Path:        path,
		Nested:      true,
		control:     newRawInput(text),
	}
	f.lastSeen = f.control.Value()
	f.apply = applyNested
	return f
}

func applyString(e *Editor, f *Field) {
	e.commit(f.Path, f.control.Value())
}

func applyEnum(e *Editor, f *Field) {
	enum := f.control.(*EnumInput)
	if enum.Blank() {
		if f.Required {
			e.commit(f.Path, "")
		} else {
			e.commit(f.Path, jsonval.Absent)
		}
		return
	}
	e.commit(f.Path, enum.Value())
}

func applyNumber(e *Editor, f *Field) {
	text := strings.TrimSpace(f.control.Value())
	if text == "" {
		if !f.Required {
			e.commit(f.Path, jsonval.Absent)
		}
		return
	}
	val, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// Non-numeric input is discarded; the last committed value stands
		return
	}
	e.commit(f.Path, val)
}

func applyInteger(e *Editor, f *Field) {
	text := strings.TrimSpace(f.control.Value())
	if text == "" {
		if !f.Required {
			e.commit(f.Path, jsonval.Absent)
		}
		return
	}
	val, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// Non-integral input is discarded the same way
		return
	}
	e.commit(f.Path, float64(val))
}

func applyBool(e *Editor, f *Field) {
	e.commit(f.Path, f.control.(*BoolInput).Bool())
}

func applyNested(e *Editor, f *Field) {
	var parsed any
	if err := json.Unmarshal([]byte(f.control.Value()), &parsed); err != nil {
		e.parseErr = err.Error()
		return
	}
	e.parseErr = ""
	e.commit(f.Path, parsed)
}

// isRequired resolves requiredness from the ROOT schema's required keyword
// only: a boolean true covers everything, a name list is matched against the
// last path segment. Nested objects' own required lists are not consulted.
func isRequired(path []string, rootReq schema.Requirement) bool {
	if rootReq.All {
		return true
	}
	if len(path) == 0 {
		return false
	}
	return rootReq.Has(path[len(path)-1])
}

func fieldLabel(node *schema.Node, path []string) string {
	if node.Title != "" {
		return node.Title
	}
	if len(path) > 0 {
		return path[len(path)-1]
	}
	return node.Type
}

func appendPath(path []string, name string) []string {
	out := make([]string, 0, len(path)+1)
	out = append(out, path...)
	return append(out, name)
}

func stringOrEmpty(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func numberText(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case json.Number:
		return t.String()
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
