package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/metaforge/pkg/meta"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleField = lipgloss.NewStyle().Foreground(colorGray).Width(18)

	styleConfirmed = lipgloss.NewStyle().Foreground(colorGreen)
	stylePossible  = lipgloss.NewStyle().Foreground(colorYellow)
	styleUnknown   = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
)

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// certaintyStyle picks a color for a certainty badge.
func certaintyStyle(c meta.Certainty) lipgloss.Style {
	switch c {
	case meta.Confirmed:
		return styleConfirmed
	case meta.Likely:
		return StyleValue
	case meta.Possible:
		return stylePossible
	}
	return styleUnknown
}

// printRecord renders a canonical record as an aligned field table with a
// certainty badge and origin per line.
func printRecord(record *meta.Record) {
	for _, field := range record.Fields() {
		entry, _ := record.Get(field)
		value := entry.Value
		if field.List() && len(entry.Values) > 0 {
			value = entry.Values[0]
			for _, v := range entry.Values[1:] {
				value += ", " + v
			}
		}
		if field.URL() {
			value = StyleLink.Render(value)
		} else {
			value = StyleValue.Render(value)
		}
		badge := certaintyStyle(entry.Certainty).Render(entry.Certainty.String())
		origin := ")"
		if entry.Origin != "" {
			origin = ", " + entry.Origin + ")"
		}
		fmt.Println(styleField.Render(string(field)) + " " + value + " " +
			StyleDim.Render("(") + badge + StyleDim.Render(origin))
	}
}
