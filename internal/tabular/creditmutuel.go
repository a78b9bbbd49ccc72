package tabular

import (
	"regexp"
	"strings"

	"github.com/cleared-dev/releve/internal/model"
	"github.com/cleared-dev/releve/internal/normalize"
)

// CreditMutuel parses Crédit Mutuel CSV exports, where the label comes after
// the amounts and each row carries the running balance:
//
//	Compte : COMPTE CHEQUE EUROCOMPTE N° 00012345601
//	Date d'opération;Date de valeur;Débit;Crédit;Libellé;Solde
//	01/02/2024;01/02/2024;-5,99;;PAIEMENT CB 3101 APPLE.COM/BILL;1 228,57
type CreditMutuel struct{}

var cmLayout = layout{
	marker:      regexp.MustCompile(`(?i)^compte\s*:\s*(.*?\S)\s+n°\s*(\d{6,})$`),
	header:      regexp.MustCompile(`(?i)^date d'opération;date de valeur;débit;crédit;libellé;solde;?$`),
	terminal:    regexp.MustCompile(`(?i)^solde au\b`),
	recordStart: regexp.MustCompile(`^\d{2}/\d{2}/\d{4};\d{2}/\d{2}/\d{4};`),
	dateLayout:  normalize.LayoutSlashLong,
	cols: columns{
		date:          0,
		label:         4,
		labelFallback: -1,
		debit:         2,
		credit:        3,
		balance:       5,
		min:           5,
	},
}

func (p *CreditMutuel) ID() string          { return "credit-mutuel" }
func (p *CreditMutuel) DisplayName() string { return "Crédit Mutuel" }

// Kind returns model.KindTabular.
func (p *CreditMutuel) Kind() model.InputKind { return model.KindTabular }

// Detect reports whether text carries the Crédit Mutuel column header.
func (p *CreditMutuel) Detect(text string) bool {
	return strings.Contains(normalize.FirstPage(text), "date d'opération;date de valeur;débit;crédit;libellé;solde")
}

// ExtractAccounts returns one account per "Compte :" banner. The known
// balance is the running balance of the section's last record.
func (p *CreditMutuel) ExtractAccounts(text string) []model.AccountDescriptor {
	labels := make(map[string]string)
	for _, line := range splitLines(text) {
		if m := cmLayout.marker.FindStringSubmatch(bare(line)); m != nil {
			labels[m[2]] = m[1]
		}
	}

	var accts []model.AccountDescriptor
	for _, sec := range cmLayout.sections(text) {
		if sec.number == "" {
			continue
		}
		acct := model.AccountDescriptor{
			Number:       sec.number,
			DisplayLabel: labels[sec.number],
			Kind:         kindFromLabel(labels[sec.number]),
			MaskedNumber: model.MaskNumber(sec.number),
		}
		recs, _ := cmLayout.records(sec)
		if n := len(recs); n > 0 {
			if s := field(recs[n-1], cmLayout.cols.balance); s != "" {
				if bal, err := normalize.ParseAmount(s); err == nil {
					acct.KnownBalance = &bal
				}
			}
		}
		accts = append(accts, acct)
	}
	return accts
}

// ExtractTransactions parses every account section of the export.
func (p *CreditMutuel) ExtractTransactions(text string) model.Extraction {
	return cmLayout.extract(text)
}
