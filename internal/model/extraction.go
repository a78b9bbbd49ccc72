package model

// Extraction is what a parser recovers from one claimed document.
type Extraction struct {
	Transactions  []Transaction
	Skipped       int // records that could not be tokenized or parsed
	Incomplete    int // records dropped before their amount was seen
	SignDefaulted int // records signed without any section, keyword or glyph cue
}
