package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/jaspreet-dot-casa/armparts/pkg/validation"
)

// Styles for command output
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
)

// printIssues writes validation issues, errors only when errorsOnly is set.
func printIssues(w io.Writer, result *validation.Result, errorsOnly bool) {
	for _, issue := range result.Issues {
		prefix := WarningStyle.Render("[WARNING]")
		if issue.Severity == validation.SeverityError {
			prefix = ErrorStyle.Render("[ERROR]")
		} else if errorsOnly {
			continue
		}

		location := issue.File
		if location == "" {
			location = "manifest"
		}

		if issue.Field != "" {
			fmt.Fprintf(w, "%s %s: %s (%s)\n", prefix, location, issue.Message, issue.Field)
		} else {
			fmt.Fprintf(w, "%s %s: %s\n", prefix, location, issue.Message)
		}
	}
}
