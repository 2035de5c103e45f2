package generator

import "strings"

// flattener escapes a multi-line block so it can sit inside a JSON string
// literal. Backslashes go first so the escapes added for quotes and line
// breaks are never doubled.
var flattener = strings.NewReplacer(
	`\`, `\\`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	`"`, `\"`,
)

// Flatten turns text into a single line that is safe as the body of a JSON
// string: line breaks become the two characters \n and double quotes are
// escaped. The result is checked downstream by the JSON parse in Assemble.
func Flatten(text string) string {
	return flattener.Replace(text)
}
