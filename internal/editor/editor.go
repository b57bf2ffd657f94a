// Package editor implements a schema-driven JSON value editor component.
// Given a schema node and a current value owned by the caller, it renders
// either a structured field-by-field form or a raw JSON text view, keeps the
// two in sync, and reports every change through a single callback. The
// caller stays the sole owner of the authoritative value.
package editor

import (
	"strings"
	"time"

	"formix/internal/colors"
	"formix/internal/jsonval"
	log "formix/internal/logging"
	"formix/internal/schema"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Mode selects between the structured form view and the raw JSON text view
type Mode int

const (
	ModeStructured Mode = iota
	ModeRaw
)

func (m Mode) String() string {
	if m == ModeRaw {
		return "raw"
	}
	return "form"
}

// parseDebounce is the quiescence window between the last raw-text edit and
// the parse attempt that forwards the value to the owner.
const parseDebounce = 300 * time.Millisecond

// defaultMaxDepth bounds structured recursion; deeper object/array subtrees
// degrade to nested raw JSON editors.
const defaultMaxDepth = 3

// ChangeFunc receives every new value. The editor never mutates the
// caller's value in place.
type ChangeFunc func(value any)

// parseTickMsg fires when a scheduled debounce window elapses. Only the
// message carrying the latest tag is acted upon; stale tags are the
// cancelled timers of superseded edits.
type parseTickMsg struct {
	Tag int
}

// Editor is the schema-driven value editor component. It is driven like any
// other bubbletea component: route messages through Update, render with
// View. It is not safe for concurrent use; everything runs on the program's
// event loop.
type Editor struct {
	schema   *schema.Node
	value    any
	onChange ChangeFunc
	maxDepth int

	mode      Mode
	capable   bool // structured editing possible at all
	forcedRaw bool // object with no declared properties

	fields  []*Field
	focused int

	textarea textarea.Model
	parseErr string
	parseTag int
	closed   bool

	width  int
	height int
}

// Option configures an Editor
type Option func(*Editor)

// WithMaxDepth overrides the structured recursion depth limit
func WithMaxDepth(depth int) Option {
	return func(e *Editor) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// New creates an editor for the given schema and current value. The value
// is owned by the caller; every update flows through onChange.
func New(node *schema.Node, value any, onChange ChangeFunc, opts ...Option) *Editor {
	e := &Editor{
		schema:   node,
		value:    value,
		onChange: onChange,
		maxDepth: defaultMaxDepth,
		width:    80,
		height:   24,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.textarea = newBufferArea()
	e.deriveState()
	return e
}

func newBufferArea() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Enter JSON here..."
	ta.ShowLineNumbers = true
	ta.CharLimit = 0 // No limit

	lineNumberStyle := lipgloss.NewStyle().Foreground(colors.LightGrey)
	ta.FocusedStyle.LineNumber = lineNumberStyle
	ta.BlurredStyle.LineNumber = lineNumberStyle
	return ta
}

// deriveState recomputes capability, mode, buffer and fields from the
// current (schema, value) pair. Called on construction and whenever the
// caller swaps either of them.
func (e *Editor) deriveState() {
	e.capable = schema.StructuredCapable(e.schema)
	e.forcedRaw = e.schema != nil && e.schema.Type == schema.TypeObject && len(e.schema.Properties) == 0

	if !e.capable || e.forcedRaw {
		e.mode = ModeRaw
	} else {
		e.mode = ModeStructured
	}

	e.resyncBuffer()
	e.rebuildFields()
	if e.mode == ModeRaw {
		e.textarea.Focus()
	}
}

// resyncBuffer regenerates the raw text buffer from the owner's value, or
// from a schema-derived default when the value is absent. The overwrite is
// unconditional; an in-flight unsynced edit loses (accepted race).
func (e *Editor) resyncBuffer() {
	v := e.value
	if v == nil {
		v = schema.DefaultValue(e.schema)
	}
	text, err := jsonval.MarshalIndented(v)
	if err != nil {
		log.Error("Failed to serialize value for raw buffer", zap.Error(err))
		text = ""
	}
	e.textarea.SetValue(text)
	e.parseTag++ // drop any pending parse of the old buffer
}

func (e *Editor) rebuildFields() {
	e.fields = buildFields(e.schema, e.value, nil, 0, e.maxDepth, rootRequirement(e.schema))
	if e.focused >= len(e.fields) {
		e.focused = 0
	}
	e.focusField(e.focused)
}

func rootRequirement(n *schema.Node) schema.Requirement {
	if n == nil {
		return schema.Requirement{}
	}
	return n.Required
}

// SetValue resynchronizes the editor after the owner's value changed
// externally (e.g. the caller reset it).
func (e *Editor) SetValue(v any) {
	e.value = v
	e.resyncBuffer()
	e.rebuildFields()
}

// SetSchema re-derives everything for a new (schema, value) pair
func (e *Editor) SetSchema(node *schema.Node, v any) {
	e.schema = node
	e.value = v
	e.focused = 0
	e.deriveState()
}

// Mode returns the current editing mode
func (e *Editor) Mode() Mode { return e.mode }

// CanToggle reports whether the structured/raw toggle is available at all.
// When the schema is not structured-capable the toggle is hidden and the
// editor stays in raw mode permanently.
func (e *Editor) CanToggle() bool { return e.capable }

// Err returns the current parse error message, empty when none
func (e *Editor) Err() string { return e.parseErr }

// Value returns the editor's mirror of the owner's value
func (e *Editor) Value() any { return e.value }

// Buffer returns the current raw text buffer
func (e *Editor) Buffer() string { return e.textarea.Value() }

// Fields returns the structured form fields
func (e *Editor) Fields() []*Field { return e.fields }

// Close releases the pending debounce timer slot; a closed editor ignores
// every further message.
func (e *Editor) Close() {
	e.closed = true
	e.parseTag++
}

// ToggleMode switches between structured and raw editing. Switching into
// raw always succeeds and regenerates the buffer. Switching back parses the
// buffer first: on failure the transition is refused and the parse error is
// surfaced; on success the parsed value is forwarded to the owner.
func (e *Editor) ToggleMode() {
	if e.closed || !e.capable {
		return
	}

	if e.mode == ModeStructured {
		e.resyncBuffer()
		e.mode = ModeRaw
		e.textarea.Focus()
		log.Debug("Switched to raw mode")
		return
	}

	var parsed any
	if err := json.Unmarshal([]byte(e.textarea.Value()), &parsed); err != nil {
		e.parseErr = err.Error()
		log.Debug("Refused switch to structured mode", zap.Error(err))
		return
	}
	e.parseErr = ""
	e.parseTag++ // the parse already happened; drop any pending timer
	e.value = parsed
	e.forward(parsed)

	// Property-less objects have nothing to render as fields and stay raw
	if e.forcedRaw {
		return
	}

	e.mode = ModeStructured
	e.textarea.Blur()
	e.rebuildFields()
	log.Debug("Switched to structured mode")
}

// Format reformats the raw buffer with canonical indentation. A blank
// buffer is a no-op. On success the reformatted value is forwarded through
// the same debounced path as ordinary edits; on failure the buffer is left
// untouched and the parser's message becomes the visible error.
func (e *Editor) Format() tea.Cmd {
	if e.closed {
		return nil
	}
	trimmed := strings.TrimSpace(e.textarea.Value())
	if trimmed == "" {
		return nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		e.parseErr = err.Error()
		return nil
	}

	pretty, err := jsonval.MarshalIndented(parsed)
	if err != nil {
		e.parseErr = err.Error()
		return nil
	}

	e.textarea.SetValue(pretty)
	e.parseErr = ""
	return e.scheduleParse()
}

// scheduleParse starts (or restarts) the debounce window. Bumping the tag
// cancels whatever was pending: a stale tick finds a newer tag and does
// nothing.
func (e *Editor) scheduleParse() tea.Cmd {
	e.parseTag++
	tag := e.parseTag
	return tea.Tick(parseDebounce, func(time.Time) tea.Msg {
		return parseTickMsg{Tag: tag}
	})
}

// Update routes a message into the active view. Returned commands carry
// debounce ticks and control blink cycles.
func (e *Editor) Update(msg tea.Msg) tea.Cmd {
	if e.closed {
		return nil
	}

	switch msg := msg.(type) {
	case parseTickMsg:
		// Only the latest scheduled parse runs; earlier ones were cancelled
		// by newer edits.
		if msg.Tag != e.parseTag {
			return nil
		}
		var parsed any
		if err := json.Unmarshal([]byte(e.textarea.Value()), &parsed); err != nil {
			// Mid-typing states are expected to be transiently invalid; no
			// error is shown for a debounced parse failure.
			return nil
		}
		e.parseErr = ""
		e.value = parsed
		e.forward(parsed)
		return nil

	case tea.WindowSizeMsg:
		e.width = msg.Width
		e.height = msg.Height
		return nil
	}

	if e.mode == ModeRaw {
		return e.updateRaw(msg)
	}
	return e.updateStructured(msg)
}

func (e *Editor) updateRaw(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+y" {
		if err := clipboard.WriteAll(e.textarea.Value()); err != nil {
			log.Warn("Failed to copy buffer to clipboard", zap.Error(err))
		}
		return nil
	}

	before := e.textarea.Value()
	var cmd tea.Cmd
	e.textarea, cmd = e.textarea.Update(msg)

	if e.textarea.Value() != before {
		// Store verbatim, then debounce the parse: last edit wins
		return tea.Batch(cmd, e.scheduleParse())
	}
	return cmd
}

func (e *Editor) updateStructured(msg tea.Msg) tea.Cmd {
	if len(e.fields) == 0 {
		return nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "down":
			e.NextField()
			return nil
		case "shift+tab", "up":
			e.PrevField()
			return nil
		}
	}

	field := e.fields[e.focused]
	cmd := field.control.Update(msg)

	if val := field.control.Value(); val != field.lastSeen {
		field.lastSeen = val
		field.apply(e, field)
	}
	return cmd
}

// NextField moves focus to the next form field
func (e *Editor) NextField() {
	if len(e.fields) == 0 {
		return
	}
	e.focusField((e.focused + 1) % len(e.fields))
}

// PrevField moves focus to the previous form field
func (e *Editor) PrevField() {
	if len(e.fields) == 0 {
		return
	}
	e.focusField((e.focused - 1 + len(e.fields)) % len(e.fields))
}

func (e *Editor) focusField(idx int) {
	for i, f := range e.fields {
		if i == idx {
			f.control.Focus()
		} else {
			f.control.Blur()
		}
	}
	e.focused = idx
}

// commit is the single funnel for every leaf edit. An empty path replaces
// the owner's value outright; otherwise the sub-value at path is updated
// copy-on-write. A failed structural update is logged and the previous
// value re-forwarded unchanged; it never surfaces as an error or a crash.
func (e *Editor) commit(path []string, v any) {
	if len(path) == 0 {
		if v == jsonval.Absent {
			v = nil
		}
		e.value = v
		e.forward(v)
		return
	}

	next, err := jsonval.SetAtPath(e.value, path, v)
	if err != nil {
		log.Error("Structural update failed; keeping previous value",
			zap.Strings("path", path),
			zap.Error(err))
		e.forward(e.value)
		return
	}
	e.value = next
	e.forward(next)
}

func (e *Editor) forward(v any) {
	if e.onChange != nil {
		e.onChange(v)
	}
}
