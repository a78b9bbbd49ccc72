package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate is returned for strings that do not match the expected layout.
var ErrInvalidDate = errors.New("invalid date")

// Day/month layouts used by the supported exports.
const (
	LayoutSlashLong = "02/01/2006"
	LayoutSlash     = "02/01/06"
	LayoutDotLong   = "02.01.2006"
	LayoutISO       = "2006-01-02"
)

// ParseDate parses s with layout and returns the calendar date at UTC midnight.
func ParseDate(s, layout string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	return t, nil
}

// ParseDayMonth parses a "dd<sep>mm" operation date and borrows its year from
// ref (usually the value date printed next to it). An operation month later
// than the reference month belongs to the previous year: a December purchase
// valued in January.
func ParseDayMonth(s string, sep byte, ref time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, string(sep))
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDate, s)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDate, s)
	}

	year := ref.Year()
	if month > int(ref.Month()) {
		year--
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("%w %q: no such day in %d", ErrInvalidDate, s, year)
	}
	return t, nil
}
