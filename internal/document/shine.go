package document

import (
	"regexp"
	"strings"

	"github.com/cleared-dev/releve/internal/model"
	"github.com/cleared-dev/releve/internal/normalize"
)

// Shine parses Shine monthly account statements. Transactions are grouped
// under direction banners and dated "01.02 01.02.2024":
//
//	Virements reçus
//	01.02 01.02.2024 Virement de ACME SAS 1 200,00 €
type Shine struct{}

var (
	shineBalance = regexp.MustCompile(`(?i)^solde final\b`)

	shineConfig = NewConfig(Config{
		DateSep:       '.',
		ValueLayout:   normalize.LayoutDotLong,
		CreditBanners: []string{"Virements reçus"},
		DebitBanners:  []string{"Virements émis", "Paiements par carte", "Prélèvements", "Frais bancaires"},
		Noise: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^shine\b`),
			regexp.MustCompile(`(?i)sas au capital`),
			regexp.MustCompile(`(?i)^relevé de compte`),
			regexp.MustCompile(`(?i)^période du`),
		},
		Cues: Cues{
			Credit: []string{"virement de", "virement reçu", "remboursement"},
			Debit:  []string{"virement vers", "paiement", "prélèvement", "prelevement", "frais", "retrait"},
		},
		Rewrites: []normalize.Rewrite{
			{Pattern: regexp.MustCompile(`(?i)^virement vers\s+(.+)$`), Replace: "Transfer to: $1"},
			{Pattern: regexp.MustCompile(`(?i)^virement de\s+(.+)$`), Replace: "Transfer from: $1"},
		},
	})
)

func (p *Shine) ID() string          { return "shine" }
func (p *Shine) DisplayName() string { return "Shine" }

// Kind returns model.KindDocument.
func (p *Shine) Kind() model.InputKind { return model.KindDocument }

func (p *Shine) Detect(text string) bool {
	page := normalize.FirstPage(text)
	return strings.Contains(page, "shine") && strings.Contains(page, "relevé de compte")
}

func (p *Shine) ExtractAccounts(text string) []model.AccountDescriptor {
	if acct, ok := statementAccount(text, p.DisplayName(), shineBalance); ok {
		return []model.AccountDescriptor{acct}
	}
	return nil
}

func (p *Shine) ExtractTransactions(text string) model.Extraction {
	var number string
	if acct, ok := statementAccount(text, p.DisplayName(), shineBalance); ok {
		number = acct.Number
	}
	return Run(shineConfig, splitLines(text), number)
}
