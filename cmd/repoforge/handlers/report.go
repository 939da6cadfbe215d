package handlers

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/forgeops/repoforge/internal/provisioning"
)

var (
	reportColorGreen = lipgloss.Color("#22c55e")
	reportColorRed   = lipgloss.Color("#ef4444")
	reportColorAmber = lipgloss.Color("#f59e0b")
	reportColorDim   = lipgloss.Color("#6b7280")
	reportColorWhite = lipgloss.Color("#f9fafb")
)

var (
	reportTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(reportColorWhite)

	reportGreenStyle = lipgloss.NewStyle().
				Foreground(reportColorGreen)

	reportRedStyle = lipgloss.NewStyle().
			Foreground(reportColorRed)

	reportAmberStyle = lipgloss.NewStyle().
				Foreground(reportColorAmber)

	reportDimStyle = lipgloss.NewStyle().
			Foreground(reportColorDim)
)

const timeRound = 100 * time.Millisecond

// colorEnabled reports whether styled output should be used.
// Overridable in tests.
var colorEnabled = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func styled(style lipgloss.Style, s string) string {
	if !colorEnabled() {
		return s
	}
	return style.Render(s)
}

// renderRunReport produces the end-of-run summary.
func renderRunReport(result *provisioning.Result) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(styled(reportTitleStyle, "  repoforge run summary"))
	b.WriteString("\n")
	b.WriteString(styled(reportDimStyle, "  "+strings.Repeat("═", 30)))
	b.WriteString("\n\n")

	switch {
	case result.Cancelled:
		b.WriteString(styled(reportAmberStyle, "  ■ cancelled"))
	case result.Success:
		b.WriteString(styled(reportGreenStyle, "  ✓ success"))
	default:
		b.WriteString(styled(reportRedStyle, "  ✗ failed"))
	}
	b.WriteString(styled(reportDimStyle, fmt.Sprintf("  (%s)", result.Elapsed.Round(timeRound))))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s\n\n", result.Message)

	if len(result.Created) > 0 {
		b.WriteString(styled(reportGreenStyle, fmt.Sprintf("  Created (%d)", len(result.Created))))
		b.WriteString("\n")
		for _, name := range result.Created {
			fmt.Fprintf(&b, "    %s\n", name)
		}
		b.WriteString("\n")
	}

	if len(result.Failed) > 0 {
		b.WriteString(styled(reportRedStyle, fmt.Sprintf("  Failed (%d)", len(result.Failed))))
		b.WriteString("\n")
		for _, name := range result.Failed {
			fmt.Fprintf(&b, "    %s\n", name)
		}
		b.WriteString("\n")
	}

	if result.KeyCount > 0 {
		fmt.Fprintf(&b, "  Auth keys issued: %d\n", result.KeyCount)
	}
	if result.Backup != "" {
		fmt.Fprintf(&b, "  Key backup: %s\n", result.Backup)
	}

	if len(result.Errors) > 0 {
		b.WriteString("\n")
		b.WriteString(styled(reportAmberStyle, fmt.Sprintf("  Warnings (%d)", len(result.Errors))))
		b.WriteString("\n")
		for _, msg := range result.Errors {
			fmt.Fprintf(&b, "    %s\n", msg)
		}
	}

	return b.String()
}
