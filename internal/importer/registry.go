// Package importer detects the bank layout of a statement and dispatches it
// to the matching parser.
package importer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cleared-dev/releve/internal/document"
	"github.com/cleared-dev/releve/internal/extract"
	"github.com/cleared-dev/releve/internal/logger"
	"github.com/cleared-dev/releve/internal/model"
	"github.com/cleared-dev/releve/internal/tabular"
)

// Parser recognises and parses one bank's statement layout. Parsers are
// stateless and safe for concurrent use.
type Parser interface {
	ID() string
	DisplayName() string
	Kind() model.InputKind
	Detect(text string) bool
	ExtractAccounts(text string) []model.AccountDescriptor
	ExtractTransactions(text string) model.Extraction
}

// Registry holds parsers in priority order.
type Registry struct {
	parsers   []Parser
	byID      map[string]Parser
	extractor extract.Extractor
}

// NewRegistry creates an empty registry. ex turns document inputs into
// text; nil means extract.NewSniffing().
func NewRegistry(ex extract.Extractor) *Registry {
	if ex == nil {
		ex = extract.NewSniffing()
	}
	return &Registry{byID: make(map[string]Parser), extractor: ex}
}

// Register appends a parser after those already registered. Panics on
// duplicate ID.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.ID())
	if _, ok := r.byID[key]; ok {
		panic("duplicate parser id: " + key)
	}
	r.byID[key] = p
	r.parsers = append(r.parsers, p)
}

// Get returns the parser for id, or nil.
func (r *Registry) Get(id string) Parser {
	return r.byID[strings.ToLower(id)]
}

// Parsers returns the registered parsers in priority order.
func (r *Registry) Parsers() []Parser {
	return append([]Parser(nil), r.parsers...)
}

// IDs returns the registered parser IDs, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DefaultRegistry returns a registry with all built-in parsers. Layouts with
// a precise column header are tried before keyword-only ones.
func DefaultRegistry(ex extract.Extractor) *Registry {
	r := NewRegistry(ex)
	r.Register(&tabular.CreditMutuel{})
	r.Register(&tabular.CreditAgricole{})
	r.Register(&tabular.CaisseEpargne{})
	r.Register(&document.Qonto{})
	r.Register(&document.Shine{})
	return r
}

// Detect identifies the layout of in.
func (r *Registry) Detect(ctx context.Context, in model.RawInput) (model.FormatMatch, error) {
	_, m, err := r.detect(ctx, in)
	return m, err
}

func (r *Registry) detect(ctx context.Context, in model.RawInput) (Parser, model.FormatMatch, error) {
	switch in.Kind {
	case model.KindTabular:
		return r.detectTabular(in)
	case model.KindDocument:
		return r.detectDocument(ctx, in)
	default:
		return nil, model.FormatMatch{}, fmt.Errorf("unknown input kind %q", in.Kind)
	}
}

// detectTabular tries every decoding in turn; the first one a parser claims
// wins.
func (r *Registry) detectTabular(in model.RawInput) (Parser, model.FormatMatch, error) {
	var texts []string
	for _, dec := range decodings {
		text, err := dec.decode(in.Data)
		if err != nil {
			continue
		}
		texts = append(texts, text)
		if p := r.claim(model.KindTabular, text); p != nil {
			return p, match(p, dec.name, text), nil
		}
	}
	return nil, model.FormatMatch{}, &UnsupportedError{Name: in.Name, Preview: preview(texts)}
}

func (r *Registry) detectDocument(ctx context.Context, in model.RawInput) (Parser, model.FormatMatch, error) {
	lines, err := r.extractor.Extract(ctx, in.Data)
	if err != nil {
		return nil, model.FormatMatch{}, fmt.Errorf("%w: %s: %w", ErrExtraction, in.Name, err)
	}
	text := strings.Join(lines, "\n")
	if p := r.claim(model.KindDocument, text); p != nil {
		return p, match(p, EncodingExtracted, text), nil
	}
	return nil, model.FormatMatch{}, &UnsupportedError{Name: in.Name, Preview: preview([]string{text})}
}

func (r *Registry) claim(kind model.InputKind, text string) Parser {
	for _, p := range r.parsers {
		if p.Kind() == kind && p.Detect(text) {
			return p
		}
	}
	return nil
}

func match(p Parser, encoding, text string) model.FormatMatch {
	return model.FormatMatch{
		BankID:          p.ID(),
		BankDisplayName: p.DisplayName(),
		Encoding:        encoding,
		Text:            text,
	}
}

// Parse detects the layout of in and extracts its accounts and
// transactions. Unsupported or unreadable inputs give Success false and no
// partial data.
func (r *Registry) Parse(ctx context.Context, in model.RawInput) model.Result {
	log := logger.FromContext(ctx).With().Str("file", in.Name).Str("kind", string(in.Kind)).Logger()

	p, m, err := r.detect(ctx, in)
	if err != nil {
		log.Debug().Err(err).Msg("statement not recognised")
		return model.Result{Error: err.Error(), Err: err}
	}

	accts := p.ExtractAccounts(m.Text)
	ext := p.ExtractTransactions(m.Text)
	if len(accts) > 0 {
		for i := range ext.Transactions {
			if ext.Transactions[i].AccountNumber == "" {
				ext.Transactions[i].AccountNumber = accts[0].Number
			}
		}
	}

	log.Debug().
		Str("bank", m.BankID).
		Str("encoding", m.Encoding).
		Int("accounts", len(accts)).
		Int("transactions", len(ext.Transactions)).
		Int("skipped", ext.Skipped).
		Int("incomplete", ext.Incomplete).
		Int("sign_defaulted", ext.SignDefaulted).
		Msg("statement parsed")

	return model.Result{
		Success:         true,
		BankID:          m.BankID,
		BankDisplayName: m.BankDisplayName,
		Encoding:        m.Encoding,
		Accounts:        accts,
		Transactions:    ext.Transactions,
		Skipped:         ext.Skipped,
		Incomplete:      ext.Incomplete,
		SignDefaulted:   ext.SignDefaulted,
	}
}
