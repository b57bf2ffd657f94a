package editor

import (
	"fmt"
	"strings"

	"formix/internal/colors"
	"formix/internal/schema"

	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle    = lipgloss.NewStyle().Foreground(colors.InputLabelFg)
	requiredStyle = lipgloss.NewStyle().Foreground(colors.InputRequiredStar)
	descStyle     = lipgloss.NewStyle().Foreground(colors.DimColor)
	errorStyle    = lipgloss.NewStyle().Foreground(colors.ErrorColor)
	toggleOn      = lipgloss.NewStyle().Foreground(colors.BrightGreen).Bold(true)
	toggleOff     = lipgloss.NewStyle().Foreground(colors.Grey240)
	focusedMark   = lipgloss.NewStyle().Foreground(colors.Orange).Bold(true)
)

// View renders the editor into the given content area
func (e *Editor) View(width, height int) string {
	if width <= 0 {
		width = e.width
	}
	if height <= 0 {
		height = e.height
	}

	if e.mode == ModeRaw {
		return e.viewRaw(width, height)
	}
	return e.viewStructured(width, height)
}

func (e *Editor) viewRaw(width, height int) string {
	var b strings.Builder

	if e.capable && !e.forcedRaw {
		b.WriteString(e.renderToggle())
		b.WriteString("\n")
	}

	e.textarea.SetWidth(width - 2)
	taHeight := height - 3
	if e.parseErr != "" {
		taHeight--
	}
	if taHeight < 3 {
		taHeight = 3
	}
	e.textarea.SetHeight(taHeight)
	b.WriteString(e.textarea.View())

	if e.parseErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ " + e.parseErr))
	}
	return b.String()
}

// renderToggle draws the [form|json] mode switch indicator
func (e *Editor) renderToggle() string {
	form := "form"
	raw := "json"
	if e.mode == ModeRaw {
		form = toggleOff.Render(form)
		raw = toggleOn.Render(raw)
	} else {
		form = toggleOn.Render(form)
		raw = toggleOff.Render(raw)
	}
	return fmt.Sprintf("[%s|%s]", form, raw)
}

func (e *Editor) viewStructured(width, height int) string {
	if summary, ok := e.fallbackSummary(); ok {
		return summary
	}

	var b strings.Builder
	if e.capable {
		b.WriteString(e.renderToggle())
		b.WriteString("\n\n")
	}

	start, end := e.fieldWindow(height)
	for i := start; i < end; i++ {
		f := e.fields[i]

		marker := "  "
		if i == e.focused {
			marker = focusedMark.Render("❯ ")
		}

		label := labelStyle.Render(f.Label)
		if f.Required {
			label += requiredStyle.Render("*")
		}
		b.WriteString(marker + label + "\n")

		if f.Description != "" && i == e.focused {
			b.WriteString("  " + descStyle.Render(truncate(f.Description, width-4)) + "\n")
		}

		control := f.control.View()
		for _, line := range strings.Split(control, "\n") {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n")
	}

	if e.parseErr != "" {
		b.WriteString(errorStyle.Render("✗ " + e.parseErr))
	}
	return b.String()
}

// fieldWindow keeps the focused field visible when the form does not fit
func (e *Editor) fieldWindow(height int) (int, int) {
	// Rough budget of four lines per rendered field
	perField := 4
	visible := (height - 2) / perField
	if visible < 1 {
		visible = 1
	}
	if visible >= len(e.fields) {
		return 0, len(e.fields)
	}

	start := e.focused - visible/2
	if start < 0 {
		start = 0
	}
	end := start + visible
	if end > len(e.fields) {
		end = len(e.fields)
		start = end - visible
	}
	return start, end
}

// fallbackSummary handles the degenerate structured state: the schema
// declares an object but the current value is some other shape, so the
// form fields have nothing faithful to bind to.
func (e *Editor) fallbackSummary() (string, bool) {
	if e.schema == nil || e.schema.Type != schema.TypeObject || e.value == nil {
		return "", false
	}
	if _, ok := e.value.(map[string]any); ok {
		return "", false
	}

	var b strings.Builder
	b.WriteString(descStyle.Render(fmt.Sprintf("Current value is %s and cannot be shown as a form.", describeValue(e.value))))
	b.WriteString("\n")
	b.WriteString(descStyle.Render("Switch to the JSON view to edit it directly."))
	return b.String(), true
}

func describeValue(v any) string {
	switch v.(type) {
	case string:
		return "a string"
	case float64, int, int64:
		return "a number"
	case bool:
		return "a boolean"
	case []any:
		return "an array"
	default:
		return fmt.Sprintf("a %T", v)
	}
}

func truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
