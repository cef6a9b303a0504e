package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ANSI 256 palette shared by the status lines, tables and the actor picker.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleLabel       = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	stylePath        = lipgloss.NewStyle().Foreground(colorWhite)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

// marker is the coloured glyph that opens a status line.
type marker struct {
	glyph string
	style lipgloss.Style
}

func (m marker) line(format string, args []any) string {
	return m.style.Render(m.glyph) + " " + fmt.Sprintf(format, args...)
}

var (
	markOK   = marker{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	markFail = marker{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	markWarn = marker{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	markInfo = marker{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func printSuccess(format string, args ...any) { fmt.Println(markOK.line(format, args)) }
func printError(format string, args ...any)   { fmt.Println(markFail.line(format, args)) }
func printInfo(format string, args ...any)    { fmt.Println(markInfo.line(format, args)) }

// printWarning tints the message as well as the marker.
func printWarning(format string, args ...any) {
	msg := lipgloss.NewStyle().Foreground(colorYellow).Render(fmt.Sprintf(format, args...))
	fmt.Println(markWarn.line("%s", []any{msg}))
}

// printDetail prints an indented, dimmed line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile announces a document that was written.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + stylePath.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + stylePath.Render(value))
}

// printNextStep suggests a follow-up command, e.g. validating the output.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// stat is one labeled count, e.g. {3, "exports"}.
type stat struct {
	n     int
	label string
}

// formatStats renders the non-zero counts as "3 exports · 2 imports".
func formatStats(stats ...stat) string {
	parts := make([]string, 0, len(stats))
	for _, s := range stats {
		if s.n == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d %s", s.n, s.label))
	}
	if len(parts) == 0 {
		return "nothing added"
	}
	return strings.Join(parts, " · ")
}

func printStats(stats ...stat) {
	printDetail("%s", formatStats(stats...))
}

// renderTable draws rows in a rounded, dim-bordered table with bold headers.
func renderTable(headers []string, rows [][]string) string {
	header := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().PaddingRight(1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Render()
}
