package editor

import (
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeRunes(e *Editor, text string) tea.Cmd {
	var last tea.Cmd
	for _, r := range text {
		last = e.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return last
}

func TestInitialModeSelection(t *testing.T) {
	tests := []struct {
		name      string
		schema    string
		wantMode  Mode
		canToggle bool
	}{
		{
			name:      "flat object starts structured",
			schema:    `{"type": "object", "properties": {"a": {"type": "string"}}}`,
			wantMode:  ModeStructured,
			canToggle: true,
		},
		{
			name:      "scalar starts structured",
			schema:    `{"type": "string"}`,
			wantMode:  ModeStructured,
			canToggle: true,
		},
		{
			name:      "nested object forces raw and hides toggle",
			schema:    `{"type": "object", "properties": {"a": {"type": "object", "properties": {"b": {"type": "string"}}}}}`,
			wantMode:  ModeRaw,
			canToggle: false,
		},
		{
			name:      "array forces raw and hides toggle",
			schema:    `{"type": "array", "items": {"type": "string"}}`,
			wantMode:  ModeRaw,
			canToggle: false,
		},
		{
			name:      "property-less object self-forces raw",
			schema:    `{"type": "object"}`,
			wantMode:  ModeRaw,
			canToggle: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := testEditor(t, tt.schema, nil)
			if e.Mode() != tt.wantMode {
				t.Errorf("Expected mode %v, got %v", tt.wantMode, e.Mode())
			}
			if e.CanToggle() != tt.canToggle {
				t.Errorf("Expected CanToggle=%v, got %v", tt.canToggle, e.CanToggle())
			}
		})
	}
}

func TestDebounceLastEditWins(t *testing.T) {
	e, seen := testEditor(t, `{"type": "array"}`, nil)
	if e.Mode() != ModeRaw {
		t.Fatal("Expected raw mode")
	}

	e.textarea.SetValue("")
	firstTag := e.parseTag
	cmd := typeRunes(e, `[1]`)
	if cmd == nil {
		t.Fatal("Expected a scheduled parse after an edit")
	}
	staleTag := firstTag + 1

	// A later edit supersedes the pending parse; its stale timer firing
	// must be ignored.
	e.textarea.SetValue(`[1, 2]`)
	typeRunes(e, ` `)
	e.Update(parseTickMsg{Tag: staleTag})
	if len(*seen) != 0 {
		t.Fatalf("Stale tick must not forward a value, got %v", *seen)
	}

	// Only the latest tag parses and forwards
	e.Update(parseTickMsg{Tag: e.parseTag})
	if len(*seen) != 1 {
		t.Fatalf("Expected exactly one forwarded value, got %d", len(*seen))
	}
	want := []any{float64(1), float64(2)}
	if !reflect.DeepEqual((*seen)[0], want) {
		t.Errorf("Expected %v, got %v", want, (*seen)[0])
	}
}

func TestDebouncedParseFailureIsSilent(t *testing.T) {
	e, seen := testEditor(t, `{"type": "array"}`, nil)

	e.textarea.SetValue("[1, ")
	typeRunes(e, " ")
	e.Update(parseTickMsg{Tag: e.parseTag})

	if e.Err() != "" {
		t.Errorf("Mid-typing parse failure must not surface an error, got %q", e.Err())
	}
	if len(*seen) != 0 {
		t.Errorf("Failed parse must not forward, got %v", *seen)
	}
}

func TestToggleRefusedOnInvalidBuffer(t *testing.T) {
	e, seen := testEditor(t, `{"type": "object", "properties": {"a": {"type": "string"}}}`, map[string]any{"a": "x"})

	e.ToggleMode()
	if e.Mode() != ModeRaw {
		t.Fatal("Expected raw mode after toggle")
	}

	e.textarea.SetValue("{not json")
	e.ToggleMode()

	if e.Mode() != ModeRaw {
		t.Error("Transition must be refused on invalid JSON")
	}
	if e.Err() == "" {
		t.Error("Expected a visible parse error")
	}
	if len(*seen) != 0 {
		t.Errorf("Refused toggle must not forward, got %v", *seen)
	}
}

func TestToggleRoundTrip(t *testing.T) {
	e, seen := testEditor(t, `{"type": "object", "properties": {"a": {"type": "string"}}}`, map[string]any{"a": "x"})

	e.ToggleMode()
	if e.Mode() != ModeRaw {
		t.Fatal("Expected raw mode")
	}
	if !strings.Contains(e.Buffer(), `"a": "x"`) {
		t.Errorf("Buffer should reflect the current value, got %q", e.Buffer())
	}

	e.textarea.SetValue(`{"a": "edited"}`)
	e.ToggleMode()

	if e.Mode() != ModeStructured {
		t.Error("Expected structured mode after a clean toggle")
	}
	if e.Err() != "" {
		t.Errorf("Expected cleared error, got %q", e.Err())
	}
	want := map[string]any{"a": "edited"}
	if len(*seen) != 1 || !reflect.DeepEqual((*seen)[0], want) {
		t.Errorf("Expected forwarded %v, got %v", want, *seen)
	}
	// Fields rebuilt from the new value
	if got := e.Fields()[0].control.Value(); got != "edited" {
		t.Errorf("Expected rebuilt field to show edited, got %q", got)
	}
}

func TestPropertyLessObjectStaysRaw(t *testing.T) {
	e, seen := testEditor(t, `{"type": "object"}`, nil)

	e.textarea.SetValue(`{"k": 1}`)
	e.ToggleMode()

	if e.Mode() != ModeRaw {
		t.Error("Property-less object must stay in raw mode")
	}
	// The parsed value is still forwarded
	want := map[string]any{"k": float64(1)}
	if len(*seen) != 1 || !reflect.DeepEqual((*seen)[0], want) {
		t.Errorf("Expected forwarded %v, got %v", want, *seen)
	}
}

func TestToggleUnavailableWhenNotCapable(t *testing.T) {
	e, _ := testEditor(t, `{"type": "array"}`, nil)

	e.ToggleMode()
	if e.Mode() != ModeRaw {
		t.Error("Non-capable schema must stay raw on toggle attempts")
	}
}

func TestFormat(t *testing.T) {
	e, _ := testEditor(t, `{"type": "array"}`, nil)

	t.Run("blank buffer is a no-op", func(t *testing.T) {
		e.textarea.SetValue("   ")
		if cmd := e.Format(); cmd != nil {
			t.Error("Expected no scheduled parse for a blank buffer")
		}
		if e.Err() != "" {
			t.Errorf("Blank buffer must not error, got %q", e.Err())
		}
	})

	t.Run("invalid buffer surfaces parser message", func(t *testing.T) {
		e.textarea.SetValue("[1, ")
		if cmd := e.Format(); cmd != nil {
			t.Error("Expected no scheduled parse on failure")
		}
		if e.Err() == "" {
			t.Error("Expected the parser's error message")
		}
		if e.Buffer() != "[1, " {
			t.Errorf("Failed format must leave the buffer untouched, got %q", e.Buffer())
		}
	})

	t.Run("valid buffer reformats and reschedules", func(t *testing.T) {
		e.textarea.SetValue(`[1,2]`)
		cmd := e.Format()
		if cmd == nil {
			t.Fatal("Expected the reformatted value to flow through the debounced path")
		}
		want := "[\n  1,\n  2\n]"
		if e.Buffer() != want {
			t.Errorf("Expected %q, got %q", want, e.Buffer())
		}
		if e.Err() != "" {
			t.Errorf("Expected cleared error, got %q", e.Err())
		}
	})
}

func TestSetValueResyncsBuffer(t *testing.T) {
	e, seen := testEditor(t, `{"type": "array"}`, []any{float64(1)})

	// An in-flight edit with a pending parse
	e.textarea.SetValue("[1, 2")
	typeRunes(e, ",")
	pendingTag := e.parseTag

	// External reset overwrites unconditionally and drops the pending parse
	e.SetValue([]any{float64(9)})
	if !strings.Contains(e.Buffer(), "9") {
		t.Errorf("Buffer should resync from the new value, got %q", e.Buffer())
	}

	e.Update(parseTickMsg{Tag: pendingTag})
	if len(*seen) != 0 {
		t.Errorf("Pending parse of the old buffer must be dropped, got %v", *seen)
	}
}

func TestCloseDropsPendingWork(t *testing.T) {
	e, seen := testEditor(t, `{"type": "array"}`, nil)

	e.textarea.SetValue("[1]")
	typeRunes(e, " ")
	tag := e.parseTag

	e.Close()
	e.Update(parseTickMsg{Tag: tag})

	if len(*seen) != 0 {
		t.Errorf("A closed editor must ignore pending ticks, got %v", *seen)
	}
	e.ToggleMode()
	if e.Mode() != ModeRaw {
		t.Error("A closed editor must not change modes")
	}
}

func TestCommitBadPathKeepsPreviousValue(t *testing.T) {
	e, seen := testEditor(t, `{"type": "object", "properties": {"a": {"type": "string"}}}`, map[string]any{"a": "x"})

	before := e.Value()
	e.commit([]string{"a", "deeper"}, "v")

	if !reflect.DeepEqual(e.Value(), before) {
		t.Error("Failed structural update must keep the previous value")
	}
	// The previous value is re-forwarded unchanged
	if len(*seen) != 1 || !reflect.DeepEqual((*seen)[0], before) {
		t.Errorf("Expected re-forwarded previous value, got %v", *seen)
	}
}

func TestFieldNavigation(t *testing.T) {
	e, _ := testEditor(t, `{
		"type": "object",
		"properties": {
			"a": {"type": "string"},
			"b": {"type": "string"},
			"c": {"type": "string"}
		}
	}`, nil)

	if e.focused != 0 {
		t.Fatalf("Expected initial focus on first field, got %d", e.focused)
	}

	e.Update(tea.KeyMsg{Type: tea.KeyTab})
	if e.focused != 1 {
		t.Errorf("Expected focus 1 after tab, got %d", e.focused)
	}

	e.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	e.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if e.focused != 2 {
		t.Errorf("Expected wrap-around to last field, got %d", e.focused)
	}
}

func TestFallbackSummary(t *testing.T) {
	e, _ := testEditor(t, `{"type": "object", "properties": {"a": {"type": "string"}}}`, "not an object")

	view := e.View(80, 24)
	if !strings.Contains(view, "JSON view") {
		t.Errorf("Expected fallback guidance in the view, got %q", view)
	}
}

func TestViewHidesToggleWhenNotCapable(t *testing.T) {
	e, _ := testEditor(t, `{"type": "array"}`, []any{float64(1)})

	view := e.View(80, 24)
	if strings.Contains(view, "form") {
		t.Error("Toggle must be hidden for non-capable schemas")
	}
}
