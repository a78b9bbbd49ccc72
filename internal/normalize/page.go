package normalize

import "strings"

// DetectLines bounds format detection to the first page of a statement.
const DetectLines = 40

// FirstPage returns the first DetectLines lines of text, lower-cased and
// without carriage returns.
func FirstPage(text string) string {
	lines := strings.SplitN(text, "\n", DetectLines+1)
	if len(lines) > DetectLines {
		lines = lines[:DetectLines]
	}
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return strings.ToLower(strings.Join(lines, "\n"))
}
