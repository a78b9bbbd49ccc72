// Package tabular parses delimiter-separated statement exports from the
// supported French banks.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	delimiter = ';'
	quote     = '"'
)

// ErrMultipleRecords is returned when a span holds more than one record,
// usually because an unquoted label was wrapped across lines.
var ErrMultipleRecords = errors.New("span holds more than one record")

// TokenizeRecord splits one logical record into fields. A quoted field may
// contain the delimiter and line breaks; "" inside quotes is a literal quote.
// The span must already be joined: see GroupRecords.
func TokenizeRecord(span string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(span))
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = false

	fields, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tokenizing record: %w", err)
	}

	if _, err := cr.Read(); err != io.EOF {
		if err != nil {
			return nil, fmt.Errorf("tokenizing record: %w", err)
		}
		return nil, ErrMultipleRecords
	}
	return fields, nil
}

// GroupRecords joins physical lines into logical record spans. A record
// starts at a line matching start and runs until the next such line,
// keeping embedded blank lines so a quoted label wrapped over several lines
// stays in one span. A start-looking line inside an open quote is treated
// as label text. Lines before the first record are dropped.
func GroupRecords(lines []string, start *regexp.Regexp) []string {
	var spans []string
	var cur []string
	open := false

	flush := func() {
		if cur == nil {
			return
		}
		spans = append(spans, strings.TrimRight(strings.Join(cur, "\n"), " \t\r\n"))
		cur = nil
	}

	for _, line := range lines {
		if !open && start.MatchString(line) {
			flush()
			cur = []string{line}
		} else if cur != nil {
			cur = append(cur, line)
		} else {
			continue
		}
		open = quoteOpen(line, open)
	}
	flush()
	return spans
}

// quoteOpen reports whether a quoted field is still open at the end of
// line, given whether one was open at its start. Only a quote that begins a
// field opens one; a bare quote inside an unquoted field (27" SCREEN) is
// text, and "" inside a quoted field is an escaped quote.
func quoteOpen(line string, open bool) bool {
	fieldStart := !open
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case open:
			if c != quote {
				continue
			}
			if i+1 < len(line) && line[i+1] == quote {
				i++
				continue
			}
			open = false
			fieldStart = false
		case c == quote && fieldStart:
			open = true
		case c == delimiter:
			fieldStart = true
		default:
			fieldStart = false
		}
	}
	return open
}

// field returns fields[i] trimmed, or "" when the record is too short.
func field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}
