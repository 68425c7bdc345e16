package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/exprtree/pkg/expr"
	"github.com/matzehuels/exprtree/pkg/layout"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - operators, primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success, results
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleResult for the value of an expression.
	StyleResult = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for error messages.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleTableHeader = lipgloss.NewStyle().Bold(true).Foreground(colorGray).Padding(0, 1)
	styleTableCell   = lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
	styleTableOp     = lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

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

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}

// =============================================================================
// Tree Output
// =============================================================================

// printStats prints tree statistics on a single line.
func printStats(t *expr.Tree, cached bool) {
	fmt.Println(statsLine(t, cached))
}

// diagnosticSummary counts diagnostics by severity, e.g. "1 error, 2 warnings".
func diagnosticSummary(ds expr.Diagnostics) string {
	return plural(len(ds.Errors()), "error") + ", " + plural(len(ds.Warnings()), "warning")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// spanLine describes the rectangle covered by node centers.
func spanLine(l layout.Layout) string {
	minX, minY, maxX, maxY := l.Bounds()
	return fmt.Sprintf("Nodes span (%d,%d) to (%d,%d) in a %dx%d frame", minX, minY, maxX, maxY, l.Width, l.Height)
}

func statsLine(t *expr.Tree, cached bool) string {
	parts := []string{
		fmt.Sprintf("%d nodes", t.Count()),
		fmt.Sprintf("depth %d", t.MaxDepth()),
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	return line + StyleDim.Render(" · ") + statusStyle.Render(status)
}

// printDiagnostics prints recovered parse problems as warnings, each with a
// caret under the offending position.
func printDiagnostics(src string, ds expr.Diagnostics) {
	for _, d := range ds {
		printWarning("%s at %d: %s", d.Kind.Code(), d.Pos, d.Message)
		printDetail("%s", src)
		printDetail("%s^", strings.Repeat(" ", min(d.Pos, len(src))))
	}
}

// nodeTable renders the nodes of t in id order.
func nodeTable(t *expr.Tree) string {
	rows := make([][]string, 0, t.Count())
	for _, n := range t.Nodes() {
		kind := "operand"
		if !expr.IsLeaf(n) {
			kind = "operator"
		}
		rows = append(rows, []string{
			strconv.Itoa(n.ID()),
			n.Label(),
			kind,
			strconv.Itoa(n.Depth()),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("ID", "LABEL", "KIND", "DEPTH").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleTableHeader
			case col == 1 && rows[row][2] == "operator":
				return styleTableOp
			default:
				return styleTableCell
			}
		}).
		String()
}
