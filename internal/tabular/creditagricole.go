package tabular

import (
	"regexp"
	"strings"

	"github.com/cleared-dev/releve/internal/model"
	"github.com/cleared-dev/releve/internal/normalize"
)

// CreditAgricole parses Crédit Agricole "Téléchargement" exports.
//
// The export is Windows-1252 encoded and may list several accounts, each
// under its own banner:
//
//	Compte de Dépôt carte n° 12345678901;
//	Solde au 14/02/2024 1 234,56 €;
//	Date;Libellé;Débit euros;Crédit euros;
//	01/02/2024;"PAIEMENT PAR CARTE X1234 APPLE.COM";5,99;
type CreditAgricole struct{}

var (
	caBalance = regexp.MustCompile(`(?i)^solde au \d{2}/\d{2}/\d{4}\s+([-+]?\d[\d\s.\x{00a0}\x{202f}]*,\d{2})`)

	caLayout = layout{
		marker:      regexp.MustCompile(`(?i)^(\S.*?)\s+n°\s*(\d{6,})$`),
		header:      regexp.MustCompile(`(?i)^date;libellé;débit euros;crédit euros;?$`),
		terminal:    regexp.MustCompile(`(?i)^total des opérations`),
		recordStart: regexp.MustCompile(`^\d{2}/\d{2}/\d{4};`),
		dateLayout:  normalize.LayoutSlashLong,
		cols: columns{
			date:          0,
			label:         1,
			labelFallback: -1,
			debit:         2,
			credit:        3,
			balance:       -1,
			min:           3,
		},
	}
)

func (p *CreditAgricole) ID() string          { return "credit-agricole" }
func (p *CreditAgricole) DisplayName() string { return "Crédit Agricole" }

// Kind returns model.KindTabular.
func (p *CreditAgricole) Kind() model.InputKind { return model.KindTabular }

// Detect reports whether text is a Crédit Agricole export. Both keywords
// carry accents, so a mis-decoded export is not claimed.
func (p *CreditAgricole) Detect(text string) bool {
	page := normalize.FirstPage(text)
	return strings.Contains(page, "téléchargement du") &&
		strings.Contains(page, "date;libellé;débit euros;crédit euros")
}

// ExtractAccounts returns every account banner in the export, with the
// "Solde au" balance printed under it.
func (p *CreditAgricole) ExtractAccounts(text string) []model.AccountDescriptor {
	var accts []model.AccountDescriptor
	for _, line := range splitLines(text) {
		l := bare(line)
		if m := caLayout.marker.FindStringSubmatch(l); m != nil {
			accts = append(accts, model.AccountDescriptor{
				Number:       m[2],
				DisplayLabel: m[1],
				Kind:         kindFromLabel(m[1]),
				MaskedNumber: model.MaskNumber(m[2]),
			})
			continue
		}
		if len(accts) == 0 || accts[len(accts)-1].KnownBalance != nil {
			continue
		}
		if m := caBalance.FindStringSubmatch(l); m != nil {
			if bal, err := normalize.ParseAmount(m[1]); err == nil {
				accts[len(accts)-1].KnownBalance = &bal
			}
		}
	}
	return accts
}

// ExtractTransactions parses every account section of the export.
func (p *CreditAgricole) ExtractTransactions(text string) model.Extraction {
	return caLayout.extract(text)
}

// kindFromLabel maps an account banner to an account kind.
func kindFromLabel(label string) model.AccountKind {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "livret"), strings.Contains(l, "épargne"),
		strings.Contains(l, "epargne"), strings.HasPrefix(l, "pel"):
		return model.AccountKindSavings
	case strings.Contains(l, "compte"):
		return model.AccountKindChecking
	case strings.Contains(l, "carte"):
		return model.AccountKindCard
	case strings.Contains(l, "professionnel"), strings.Contains(l, "entreprise"):
		return model.AccountKindBusiness
	default:
		return model.AccountKindOther
	}
}
