package document

import "strings"

// Section is the direction implied by the last banner seen.
type Section int

const (
	SectionUnknown Section = iota
	SectionCredit
	SectionDebit
)

func (s Section) String() string {
	switch s {
	case SectionCredit:
		return "credit"
	case SectionDebit:
		return "debit"
	default:
		return "unknown"
	}
}

// Record is a transaction as read off the page, before any parsing.
type Record struct {
	OpDate    string
	ValueDate string
	Fragments []string // label text, one entry per line it came from
	Glyph     string   // sign printed before the amount, if any
	Amount    string
	Section   Section
}

// with returns a copy of r with fragment appended to its label.
func (r *Record) with(fragment string) *Record {
	next := *r
	next.Fragments = append([]string(nil), r.Fragments...)
	if fragment = strings.TrimSpace(fragment); fragment != "" {
		next.Fragments = append(next.Fragments, fragment)
	}
	return &next
}

// State is threaded through Step. The zero value is the initial state.
type State struct {
	Section    Section
	Pending    *Record // dated record still waiting for its amount
	Incomplete int     // pending records dropped before their amount
}

// drop abandons the pending record, if any.
func (s State) drop() State {
	if s.Pending != nil {
		s.Pending = nil
		s.Incomplete++
	}
	return s
}

// Step feeds one extracted line to the reducer and returns the next state,
// plus the record the line completed, if any. It never mutates s.
func Step(cfg *Config, s State, line string) (State, *Record) {
	line = strings.TrimSpace(line)
	if line == "" || cfg.isNoise(line) {
		return s, nil
	}

	if sec, ok := cfg.banner(line); ok {
		s = s.drop()
		s.Section = sec
		return s, nil
	}

	if m := cfg.complete.FindStringSubmatch(line); m != nil {
		s = s.drop()
		return s, &Record{
			OpDate:    m[1],
			ValueDate: m[2],
			Fragments: []string{m[3]},
			Glyph:     m[4],
			Amount:    m[5],
			Section:   s.Section,
		}
	}

	if m := cfg.dateOnly.FindStringSubmatch(line); m != nil {
		s = s.drop()
		rec := &Record{OpDate: m[1], ValueDate: m[2], Section: s.Section}
		s.Pending = rec.with(m[3])
		return s, nil
	}

	if s.Pending == nil {
		return s, nil
	}

	if m := cfg.amountOnly.FindStringSubmatch(line); m != nil {
		rec := s.Pending.with(m[1])
		rec.Glyph, rec.Amount = m[2], m[3]
		s.Pending = nil
		return s, rec
	}

	s.Pending = s.Pending.with(line)
	return s, nil
}

// Finish closes the input: a record still pending is incomplete.
func Finish(s State) State {
	return s.drop()
}
