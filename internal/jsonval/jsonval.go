// Package jsonval provides structural updates over decoded JSON values.
// Updates are copy-on-write: containers along the updated path are cloned,
// untouched siblings are shared with the input value.
package jsonval

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

type absentValue struct{}

// Absent, passed as the new value, deletes the key at the target path
// instead of assigning to it. At the root it yields a nil value.
var Absent any = absentValue{}

// SetAtPath returns a new value equal to root except the location at path
// replaced by v. Missing intermediate keys materialize as empty objects;
// descending into a non-object fails rather than silently corrupting the
// tree. An empty path replaces the root itself.
func SetAtPath(root any, path []string, v any) (any, error) {
	if len(path) == 0 {
		if v == Absent {
			return nil, nil
		}
		return v, nil
	}

	var obj map[string]any
	switch t := root.(type) {
	case nil:
		obj = map[string]any{}
	case map[string]any:
		obj = t
	default:
		return nil, fmt.Errorf("cannot descend into %T at %q", root, strings.Join(path, "."))
	}

	clone := make(map[string]any, len(obj)+1)
	for k, val := range obj {
		clone[k] = val
	}

	if len(path) == 1 {
		if v == Absent {
			delete(clone, path[0])
		} else {
			clone[path[0]] = v
		}
		return clone, nil
	}

	child, err := SetAtPath(obj[path[0]], path[1:], v)
	if err != nil {
		return nil, err
	}
	clone[path[0]] = child
	return clone, nil
}

// GetAtPath reads the value at path, reporting whether every segment was
// present. Reads are defensive: a non-object along the way is simply absent.
func GetAtPath(root any, path []string) (any, bool) {
	cur := root
	for _, seg := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// MarshalIndented serializes a value with canonical two-space indentation.
func MarshalIndented(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize value: %w", err)
	}
	return string(data), nil
}
