package extract

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts text from a PDF using its text layer. Rows are rebuilt from
// glyph coordinates; pages without row information fall back to grouping
// the raw text objects by Y.
type PDF struct{}

func (p *PDF) Extract(ctx context.Context, data []byte) (lines []string, err error) {
	// The library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			lines, err = nil, fmt.Errorf("reading pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}

	n := r.NumPage()
	if n == 0 {
		return nil, fmt.Errorf("opening pdf: %w", ErrNoText)
	}

	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageLines := pageRows(page)
		if len(pageLines) == 0 {
			pageLines = pageContent(page)
		}
		lines = append(lines, pageLines...)
	}

	if len(lines) == 0 {
		return nil, ErrNoText
	}
	return lines, nil
}

func pageRows(page pdf.Page) []string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil
	}
	var lines []string
	for _, row := range rows {
		parts := make([]string, 0, len(row.Content))
		for _, word := range row.Content {
			parts = append(parts, word.S)
		}
		if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func pageContent(page pdf.Page) []string {
	return contentRows(page.Content().Text)
}

// contentRows groups text objects sharing a baseline, top to bottom, then
// left to right within a row. Objects at the same X keep content order.
func contentRows(texts []pdf.Text) []string {
	type item struct {
		x float64
		s string
	}
	rows := make(map[int][]item)
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		y := int(math.Round(t.Y))
		rows[y] = append(rows[y], item{x: t.X, s: t.S})
	}

	ys := make([]int, 0, len(rows))
	for y := range rows {
		ys = append(ys, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ys)))

	var lines []string
	for _, y := range ys {
		items := rows[y]
		sort.SliceStable(items, func(a, b int) bool { return items[a].x < items[b].x })

		var b strings.Builder
		prev := 0.0
		for j, it := range items {
			if j > 0 && it.x-prev > 15 {
				b.WriteByte(' ')
			}
			b.WriteString(it.s)
			prev = it.x
		}
		if line := strings.TrimSpace(b.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
