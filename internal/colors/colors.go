package colors

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// Base colors - Named colors for better readability
const (
	// Grayscale
	Black       = lipgloss.Color("#000000")
	Grey        = lipgloss.Color("#737373")
	LightGrey   = lipgloss.Color("245")
	LighterGrey = lipgloss.Color("250")
	White       = lipgloss.Color("#ffffff")

	// Numbered greys for specific uses
	Grey240 = lipgloss.Color("240") // Dim/disabled text
	Grey250 = lipgloss.Color("250") // Light borders

	// Reds
	Red = lipgloss.Color("#FF5353")

	// Oranges & Yellows
	Orange      = lipgloss.Color("214")
	MutedOrange = lipgloss.Color("179")
	Yellow      = lipgloss.Color("#DBBD70")

	// Greens
	BrightGreen = lipgloss.Color("42")
	MediumGreen = lipgloss.Color("77")
	GreenTerm   = lipgloss.Color("2") // Terminal green

	// Blues
	DarkBlue   = lipgloss.Color("18") // Dark blue background
	DeepBlue   = lipgloss.Color("39")
	MediumCyan = lipgloss.Color("51") // Medium cyan for JSON keys
	Blue       = lipgloss.Color("63")

	// Purples
	MediumPurple = lipgloss.Color("105")

	// Numbered colors for terminal compatibility
	BlackTerm = lipgloss.Color("0")  // Terminal black
	WhiteTerm = lipgloss.Color("15") // Terminal white
)

// Semantic color names - Use these for specific UI elements
var (
	// Help/Keybindings
	HelpKey = lipgloss.AdaptiveColor{
		Dark:  "ff",
		Light: "",
	}
	HelpDesc = lipgloss.AdaptiveColor{
		Dark:  "248",
		Light: "246",
	}

	// Borders
	InactiveBorder = lipgloss.AdaptiveColor{
		Dark:  "244",
		Light: "250",
	}
	BorderBlue   = DeepBlue // For focused borders
	BorderNormal = Grey240  // For normal borders

	// Input field colors
	InputFocusedBorder = DeepBlue    // Focused input border
	InputNormalBorder  = Grey240     // Normal input border
	InputNormalFg      = LighterGrey // Normal input text
	InputLabelFg       = Orange      // Input label color
	InputRequiredStar  = Red         // Required field asterisk
	InputTypeFg        = Grey240     // Input type annotation

	// Boolean toggle colors
	BooleanEnabledBg  = BrightGreen // Green for enabled/true
	BooleanDisabledBg = LighterGrey // Grey for disabled/false
	BooleanTextFg     = WhiteTerm   // Text on boolean badges

	// Status colors
	SuccessColor = BrightGreen // Success states
	ErrorColor   = Red         // Error states
	WarningColor = Orange      // Warning states
	DimColor     = Grey240     // Dimmed/disabled text
)

// Gradient colors for the title header
var (
	GradientStart = "#5A56E0" // Purple
	GradientEnd   = "#EE6FF8" // Pink
)

// ApplyGradient applies a gradient color to the given text lines
// Used for the application title and decorative text
func ApplyGradient(lines []string) []string {
	colorA, _ := colorful.Hex(GradientStart)
	colorB, _ := colorful.Hex(GradientEnd)

	var gradientLines []string

	for _, line := range lines {
		var gradientLine strings.Builder
		lineWidth := len(line)

		for i, char := range line {
			if char == ' ' {
				// Keep spaces as spaces
				gradientLine.WriteRune(char)
			} else {
				// Calculate gradient position (0 to 1)
				var p float64
				if lineWidth == 1 {
					p = 0.5
				} else {
					p = float64(i) / float64(lineWidth-1)
				}

				c := colorA.BlendLuv(colorB, p).Hex()

				coloredChar := termenv.String(string(char)).
					Foreground(termenv.ColorProfile().Color(c)).
					String()
				gradientLine.WriteString(coloredChar)
			}
		}

		gradientLines = append(gradientLines, gradientLine.String())
	}

	return gradientLines
}
