package jsonval

import (
	"reflect"
	"testing"
)

func TestSetAtPath(t *testing.T) {
	tests := []struct {
		name string
		root any
		path []string
		v    any
		want any
	}{
		{
			name: "set top level key",
			root: map[string]any{"a": float64(1)},
			path: []string{"b"},
			v:    "x",
			want: map[string]any{"a": float64(1), "b": "x"},
		},
		{
			name: "overwrite existing key",
			root: map[string]any{"a": float64(1)},
			path: []string{"a"},
			v:    float64(2),
			want: map[string]any{"a": float64(2)},
		},
		{
			name: "set nested key",
			root: map[string]any{"a": map[string]any{"b": "old"}, "c": true},
			path: []string{"a", "b"},
			v:    "new",
			want: map[string]any{"a": map[string]any{"b": "new"}, "c": true},
		},
		{
			name: "missing intermediates materialize",
			root: map[string]any{},
			path: []string{"a", "b", "c"},
			v:    float64(7),
			want: map[string]any{"a": map[string]any{"b": map[string]any{"c": float64(7)}}},
		},
		{
			name: "nil root becomes object",
			root: nil,
			path: []string{"a"},
			v:    "x",
			want: map[string]any{"a": "x"},
		},
		{
			name: "absent deletes key",
			root: map[string]any{"a": float64(1), "b": float64(2)},
			path: []string{"b"},
			v:    Absent,
			want: map[string]any{"a": float64(1)},
		},
		{
			name: "absent on missing key is harmless",
			root: map[string]any{"a": float64(1)},
			path: []string{"zz"},
			v:    Absent,
			want: map[string]any{"a": float64(1)},
		},
		{
			name: "empty path replaces root",
			root: map[string]any{"a": float64(1)},
			path: nil,
			v:    "whole",
			want: "whole",
		},
		{
			name: "empty path with absent yields nil",
			root: map[string]any{"a": float64(1)},
			path: nil,
			v:    Absent,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SetAtPath(tt.root, tt.path, tt.v)
			if err != nil {
				t.Fatalf("SetAtPath failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSetAtPathRejectsNonObject(t *testing.T) {
	root := map[string]any{"a": "scalar"}

	_, err := SetAtPath(root, []string{"a", "b"}, float64(1))
	if err == nil {
		t.Fatal("Expected error when descending into a scalar")
	}

	// The input must be untouched after a failed update
	if root["a"] != "scalar" {
		t.Errorf("Input mutated on failure: %v", root)
	}
}

func TestSetAtPathCopyOnWrite(t *testing.T) {
	shared := map[string]any{"deep": "untouched"}
	root := map[string]any{"keep": shared, "edit": map[string]any{"x": float64(1)}}

	got, err := SetAtPath(root, []string{"edit", "x"}, float64(2))
	if err != nil {
		t.Fatalf("SetAtPath failed: %v", err)
	}

	// Original tree unchanged
	if root["edit"].(map[string]any)["x"] != float64(1) {
		t.Error("Original tree was mutated")
	}

	// Untouched sibling subtree is shared, not cloned
	newRoot := got.(map[string]any)
	if !sameMap(newRoot["keep"].(map[string]any), shared) {
		t.Error("Untouched sibling should be shared with the input")
	}
}

// sameMap checks map identity through a marker write
func sameMap(a, b map[string]any) bool {
	a["__probe__"] = true
	_, ok := b["__probe__"]
	delete(a, "__probe__")
	return ok
}

func TestGetAtPath(t *testing.T) {
	root := map[string]any{
		"a": map[string]any{"b": float64(42)},
		"s": "leaf",
	}

	if v, ok := GetAtPath(root, []string{"a", "b"}); !ok || v != float64(42) {
		t.Errorf("Expected 42, got %v (ok=%v)", v, ok)
	}
	if v, ok := GetAtPath(root, nil); !ok || !reflect.DeepEqual(v, root) {
		t.Errorf("Empty path should return the root, got %v", v)
	}
	if _, ok := GetAtPath(root, []string{"missing"}); ok {
		t.Error("Missing key should report absent")
	}
	if _, ok := GetAtPath(root, []string{"s", "deeper"}); ok {
		t.Error("Descending through a scalar should report absent")
	}
	if _, ok := GetAtPath(nil, []string{"a"}); ok {
		t.Error("Nil root should report absent")
	}
}

func TestMarshalIndented(t *testing.T) {
	got, err := MarshalIndented(map[string]any{"a": float64(1)})
	if err != nil {
		t.Fatalf("MarshalIndented failed: %v", err)
	}
	want := "{\n  \"a\": 1\n}"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
