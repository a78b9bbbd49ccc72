package document

import (
	"regexp"
	"strings"

	"github.com/cleared-dev/releve/internal/model"
	"github.com/cleared-dev/releve/internal/normalize"
)

// Qonto parses Qonto transaction statements. Amounts carry an explicit
// glyph ("+ 1 200,00 €", "- 5,99 €") and labels often wrap onto a second
// line, so records are frequently split across lines.
type Qonto struct{}

var (
	qontoBalance = regexp.MustCompile(`(?i)^solde de clôture`)

	qontoConfig = NewConfig(Config{
		DateSep:       '/',
		ValueLayout:   normalize.LayoutSlashLong,
		CreditBanners: []string{"Crédits", "Entrées"},
		DebitBanners:  []string{"Débits", "Sorties", "Frais"},
		Noise: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^qonto\b`),
			regexp.MustCompile(`(?i)établissement de paiement`),
			regexp.MustCompile(`(?i)^relevé de transactions`),
			regexp.MustCompile(`(?i)^du \d{2}/\d{2}/\d{4} au \d{2}/\d{2}/\d{4}$`),
		},
		Cues: Cues{
			Credit: []string{"vir sepa recu", "virement reçu", "remboursement"},
			Debit:  []string{"vir sepa emis", "prlv", "carte", "frais", "paiement"},
		},
		Rewrites: []normalize.Rewrite{
			{Pattern: regexp.MustCompile(`(?i)^vir sepa emis vers\s+(.+)$`), Replace: "Transfer to: $1"},
			{Pattern: regexp.MustCompile(`(?i)^vir sepa recu de\s+(.+)$`), Replace: "Transfer from: $1"},
		},
	})
)

func (p *Qonto) ID() string          { return "qonto" }
func (p *Qonto) DisplayName() string { return "Qonto" }

// Kind returns model.KindDocument.
func (p *Qonto) Kind() model.InputKind { return model.KindDocument }

func (p *Qonto) Detect(text string) bool {
	page := normalize.FirstPage(text)
	return strings.Contains(page, "qonto") && strings.Contains(page, "relevé de transactions")
}

func (p *Qonto) ExtractAccounts(text string) []model.AccountDescriptor {
	if acct, ok := statementAccount(text, p.DisplayName(), qontoBalance); ok {
		return []model.AccountDescriptor{acct}
	}
	return nil
}

func (p *Qonto) ExtractTransactions(text string) model.Extraction {
	var number string
	if acct, ok := statementAccount(text, p.DisplayName(), qontoBalance); ok {
		number = acct.Number
	}
	return Run(qontoConfig, splitLines(text), number)
}
