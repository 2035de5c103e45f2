// Package oneline collapses a PowerShell script into a single command line
// suitable for an ARM commandToExecute property.
package oneline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jaspreet-dot-casa/armparts/pkg/project"
)

// Separator is inserted before every line that starts a new statement.
const Separator = " ; "

// ErrShapeViolation is returned when a script holds more than one
// .arguments assignment.
var ErrShapeViolation = errors.New("incorrect number of matches")

// Command is a collapsed script and the argument list extracted from it.
type Command struct {
	Line      string
	Arguments string
}

// String renders the interpreter invocation for the collapsed script.
func (c *Command) String() string {
	return fmt.Sprintf(`powershell.exe -ExecutionPolicy Unrestricted -command "%s"`, c.Line)
}

// Convert reads the script at path and collapses it.
func Convert(path string) (*Command, error) {
	data, err := project.ReadInput(path)
	if err != nil {
		return nil, err
	}

	cmd, err := ConvertString(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cmd, nil
}

// ConvertString collapses script text. Double quotes become single quotes
// and at most one `.arguments = '<value>' ;` clause is cut out into
// Arguments.
func ConvertString(text string) (*Command, error) {
	line := strings.ReplaceAll(join(text), `"`, "'")

	matches := findArguments(line)
	if len(matches) > 1 {
		return nil, fmt.Errorf("%w: found %d .arguments assignments", ErrShapeViolation, len(matches))
	}

	cmd := &Command{Line: line}
	if len(matches) == 1 {
		m := matches[0]
		cmd.Arguments = m.value
		cmd.Line = line[:m.start] + line[m.end:]
	}
	return cmd, nil
}

// join concatenates the lines of text. A line holding exactly one of the
// braces continues the open block and is appended as is; every other line
// starts a new statement.
func join(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")

		opens := strings.Contains(line, "{")
		closes := strings.Contains(line, "}")
		if opens == closes {
			b.WriteString(Separator)
		}
		b.WriteString(line)
	}
	return b.String()
}

type match struct {
	start, end int
	value      string
}

const argumentsKeyword = ".arguments"

// findArguments returns every non-overlapping `.arguments = '<value>' ;`
// clause in s. Whitespace is allowed around `=` and before `;`.
func findArguments(s string) []match {
	var matches []match

	for from := 0; from < len(s); {
		idx := strings.Index(s[from:], argumentsKeyword)
		if idx < 0 {
			break
		}
		start := from + idx

		m, ok := matchAt(s, start)
		if !ok {
			from = start + 1
			continue
		}
		matches = append(matches, m)
		from = m.end
	}

	return matches
}

// matchAt scans one clause starting at the keyword at start.
func matchAt(s string, start int) (match, bool) {
	i := skipSpace(s, start+len(argumentsKeyword))
	if i >= len(s) || s[i] != '=' {
		return match{}, false
	}

	i = skipSpace(s, i+1)
	if i >= len(s) || s[i] != '\'' {
		return match{}, false
	}

	closing := strings.IndexByte(s[i+1:], '\'')
	if closing < 0 {
		return match{}, false
	}
	value := s[i+1 : i+1+closing]

	i = skipSpace(s, i+1+closing+1)
	if i >= len(s) || s[i] != ';' {
		return match{}, false
	}

	return match{start: start, end: i + 1, value: value}, true
}

func skipSpace(s string, i int) int {
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			i++
		default:
			return i
		}
	}
	return i
}
