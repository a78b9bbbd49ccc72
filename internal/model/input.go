package model

// InputKind is the declared content kind of an uploaded statement.
type InputKind string

const (
	KindTabular  InputKind = "tabular"
	KindDocument InputKind = "document"
)

// RawInput is one uploaded statement export.
type RawInput struct {
	Name string // diagnostics only
	Kind InputKind
	Data []byte
}

// FormatMatch identifies the bank layout that claimed an input.
type FormatMatch struct {
	BankID          string
	BankDisplayName string
	Encoding        string // decoding that succeeded
	Text            string // decoded (or extracted) text the parser claimed
}

// Result is the outcome of parsing one statement.
type Result struct {
	Success         bool
	BankID          string
	BankDisplayName string
	Encoding        string
	Accounts        []AccountDescriptor
	Transactions    []Transaction
	Skipped         int // malformed records
	Incomplete      int // document records dropped before their amount was seen
	SignDefaulted   int // document records with no sign cue at all
	Error           string
	Err             error
}
