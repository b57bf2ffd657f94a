package editor

import (
	"fmt"
	"strconv"
	"strings"

	"formix/internal/colors"
	"formix/internal/schema"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// InputField is the common interface for all field controls
type InputField interface {
	Update(msg tea.Msg) tea.Cmd
	View() string
	Focus()
	Blur()
	Value() string
	SetValue(val string)
}

// TextInput wraps textinput.Model configured from a string schema node.
// The format keyword selects the input discipline; declared length and
// pattern constraints are carried as hints for the host control, not
// re-validated here.
type TextInput struct {
	ti *textinput.Model
}

func newTextInput(node *schema.Node, initial string) *TextInput {
	ti := textinput.New()
	ti.Prompt = ""

	placeholder := node.Description
	if placeholder == "" {
		placeholder = node.Title
	}
	if len(placeholder) > 64 {
		placeholder = placeholder[:61] + "..."
	}
	ti.Placeholder = placeholder

	switch node.Format {
	case "password":
		ti.EchoMode = textinput.EchoPassword
		ti.CharLimit = 200
	case "email":
		ti.CharLimit = 100
	case "uri", "url":
		ti.CharLimit = 500
	case "date":
		ti.Placeholder = "YYYY-MM-DD"
		ti.CharLimit = 10
	case "date-time":
		ti.Placeholder = "YYYY-MM-DDThh:mm:ssZ"
		ti.CharLimit = 25
	default:
		ti.CharLimit = 255
	}
	if node.MaxLength != nil && *node.MaxLength > 0 && *node.MaxLength < ti.CharLimit {
		ti.CharLimit = *node.MaxLength
	}

	// Auto-size width based on expected content
	if ti.CharLimit <= 30 {
		ti.Width = 25
	} else if ti.CharLimit <= 100 {
		ti.Width = 40
	} else {
		ti.Width = 60
	}

	ti.SetValue(initial)
	return &TextInput{ti: &ti}
}

func (t *TextInput) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	*t.ti, cmd = t.ti.Update(msg)
	return cmd
}

func (t *TextInput) View() string { return t.ti.View() }
func (t *TextInput) Focus() { t.ti.Focus() }
func (t *TextInput) Blur() { t.ti.Blur() }
func (t *TextInput) Value() string { return t.ti.Value() }
func (t *TextInput) SetValue(val string) { t.ti.SetValue(val) }

// BoolInput is a binary toggle flipped with y/n or space
type BoolInput struct {
	value   bool
	focused bool
}

func newBoolInput(initial bool) *BoolInput {
	return &BoolInput{value: initial}
}

func (b *BoolInput) Update(msg tea.Msg) tea.Cmd {
	if !b.focused {
		return nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "y", "Y":
			b.value = true
		case "n", "N":
			b.value = false
		case " ", "enter":
			b.value = !b.value
		}
	}
	return nil
}

// View renders the boolean input as a pill-shaped toggle switch
func (b *BoolInput) View() string {
	if b.value {
		pillStyle := lipgloss.NewStyle().
			Background(colors.BooleanEnabledBg).
			Foreground(colors.BooleanEnabledBg).
			Bold(true)
		switchStyle := lipgloss.NewStyle().
			Background(colors.WhiteTerm).
			Foreground(colors.WhiteTerm).
			Bold(true)
		return pillStyle.Render("●●●") + switchStyle.Render("○") + "  true"
	}
	switchStyle := lipgloss.NewStyle().
		Background(colors.WhiteTerm).
		Foreground(colors.WhiteTerm).
		Bold(true)
	pillStyle := lipgloss.NewStyle().
		Background(colors.BooleanDisabledBg).
		Foreground(colors.BooleanDisabledBg).
		Bold(true)
	return switchStyle.Render("○") + pillStyle.Render("●●●") + "  false"
}

func (b *BoolInput) Focus() { b.focused = true }
func (b *BoolInput) Blur() { b.focused = false }

func (b *BoolInput) Value() string {
	if b.value {
		return "true"
	}
	return "false"
}

func (b *BoolInput) SetValue(val string) {
	val = strings.ToLower(val)
	b.value = val == "true" || val == "yes" || val == "y" || val == "1"
}

func (b *BoolInput) Bool() bool { return b.value }

// Int64Input is a text control for integer fields. Parsing and commit
// decisions happen in the field layer; the control only holds text.
type Int64Input struct {
	TextInput *textinput.Model
}

func newInt64Input(node *schema.Node, initial string) *Int64Input {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 20
	ti.Width = 30
	ti.Placeholder = numericPlaceholder(node)
	ti.SetValue(initial)
	return &Int64Input{TextInput: &ti}
}

func (i *Int64Input) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	*i.TextInput, cmd = i.TextInput.Update(msg)
	return cmd
}

func (i *Int64Input) View() string { return i.TextInput.View() }
func (i *Int64Input) Focus() { i.TextInput.Focus() }
func (i *Int64Input) Blur() { i.TextInput.Blur() }
func (i *Int64Input) Value() string { return i.TextInput.Value() }
func (i *Int64Input) SetValue(val string) { i.TextInput.SetValue(val) }

// Float64Input is a text control for number fields
type Float64Input struct {
	TextInput *textinput.Model
}

func newFloat64Input(node *schema.Node, initial string) *Float64Input {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 30
	ti.Width = 30
	ti.Placeholder = numericPlaceholder(node)
	ti.SetValue(initial)
	return &Float64Input{TextInput: &ti}
}

func (f *Float64Input) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	*f.TextInput, cmd = f.TextInput.Update(msg)
	return cmd
}

func (f *Float64Input) View() string { return f.TextInput.View() }
func (f *Float64Input) Focus() { f.TextInput.Focus() }
func (f *Float64Input) Blur() { f.TextInput.Blur() }
func (f *Float64Input) Value() string { return f.TextInput.Value() }
func (f *Float64Input) SetValue(val string) { f.TextInput.SetValue(val) }

func numericPlaceholder(node *schema.Node) string {
	if node.Minimum != nil && node.Maximum != nil {
		return fmt.Sprintf("%s .. %s", trimFloat(*node.Minimum), trimFloat(*node.Maximum))
	}
	if node.Description != "" {
		desc := node.Description
		if len(desc) > 64 {
			desc = desc[:61] + "..."
		}
		return desc
	}
	return ""
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// EnumInput is a closed choice among declared enum values. Index 0 is the
// blank option; its commit semantics depend on requiredness and live in the
// field layer.
type EnumInput struct {
	options []string // raw enum values
	labels  []string // display labels (enumNames when provided)
	idx     int      // 0 = blank, 1..len(options) = options[idx-1]
	focused bool
}

func newEnumInput(node *schema.Node, initial string) *EnumInput {
	labels := make([]string, len(node.Enum))
	for i, opt := range node.Enum {
		if i < len(node.EnumNames) && node.EnumNames[i] != "" {
			labels[i] = node.EnumNames[i]
		} else {
			labels[i] = opt
		}
	}
	e := &EnumInput{options: node.Enum, labels: labels}
	e.SetValue(initial)
	return e
}

func (e *EnumInput) Update(msg tea.Msg) tea.Cmd {
	if !e.focused {
		return nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "right", "l", " ", "enter":
			e.idx = (e.idx + 1) % (len(e.options) + 1)
		case "left", "h":
			e.idx--
			if e.idx < 0 {
				e.idx = len(e.options)
			}
		}
	}
	return nil
}

func (e *EnumInput) View() string {
	selectedStyle := lipgloss.NewStyle().
		Background(colors.DeepBlue).
		Foreground(colors.BlackTerm).
		Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(colors.DimColor)

	label := "(none)"
	if e.idx > 0 {
		label = e.labels[e.idx-1]
	}
	pos := dimStyle.Render(fmt.Sprintf(" %d/%d", e.idx, len(e.options)))
	return dimStyle.Render("◂ ") + selectedStyle.Render(" "+label+" ") + dimStyle.Render(" ▸") + pos
}

func (e *EnumInput) Focus() { e.focused = true }
func (e *EnumInput) Blur() { e.focused = false }

// Value returns the selected raw enum value, empty for the blank option
func (e *EnumInput) Value() string {
	if e.idx == 0 {
		return ""
	}
	return e.options[e.idx-1]
}

func (e *EnumInput) SetValue(val string) {
	e.idx = 0
	for i, opt := range e.options {
		if opt == val {
			e.idx = i + 1
			return
		}
	}
}

// Blank reports whether the blank option is selected
func (e *EnumInput) Blank() bool { return e.idx == 0 }

// RawInput is a textarea-backed JSON editor used for depth-limited
// object/array subtrees inside a structured form.
type RawInput struct {
	ta textarea.Model
}

func newRawInput(initial string) *RawInput {
	ta := textarea.New()
	ta.Placeholder = "Enter JSON here..."
	ta.ShowLineNumbers = true
	ta.CharLimit = 0 // No limit

	lineNumberStyle := lipgloss.NewStyle().Foreground(colors.LightGrey)
	ta.FocusedStyle.LineNumber = lineNumberStyle
	ta.BlurredStyle.LineNumber = lineNumberStyle

	ta.SetValue(initial)
	ta.SetHeight(6)
	ta.SetWidth(60)
	return &RawInput{ta: ta}
}

func (r *RawInput) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	r.ta, cmd = r.ta.Update(msg)
	return cmd
}

func (r *RawInput) View() string { return r.ta.View() }
func (r *RawInput) Focus() { r.ta.Focus() }
func (r *RawInput) Blur() { r.ta.Blur() }
func (r *RawInput) Value() string { return r.ta.Value() }
func (r *RawInput) SetValue(val string) { r.ta.SetValue(val) }
