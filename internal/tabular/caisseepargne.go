package tabular

import (
	"regexp"
	"strings"

	"github.com/cleared-dev/releve/internal/model"
	"github.com/cleared-dev/releve/internal/normalize"
)

// CaisseEpargne parses Caisse d'Epargne CSV downloads.
//
//	Code de la banque : 11315;Code de la guichet : 00001;
//	Numero de compte : 04123456789;Date de debut de telechargement : 01/01/2024;
//	Date;Numero d'operation;Libelle;Debit;Credit;Detail;
//	31/01/24;0000123;CB CARREFOUR FAC 30/01;-45,20;;CB CARREFOUR FAC 30/01 ;
//	Solde en fin de periode;;;;1 234,56;
type CaisseEpargne struct{}

var ceLayout = layout{
	marker:      regexp.MustCompile(`(?i)^numero de compte\s*:\s*(\d{6,})`),
	header:      regexp.MustCompile(`(?i)^date;num[ée]ro d'op[ée]ration;libell[ée];d[ée]bit;cr[ée]dit;d[ée]tail;?$`),
	terminal:    regexp.MustCompile(`(?i)^solde en fin de p[ée]riode`),
	recordStart: regexp.MustCompile(`^\d{2}/\d{2}/\d{2};`),
	dateLayout:  normalize.LayoutSlash,
	cols: columns{
		date:          0,
		label:         2,
		labelFallback: 5,
		debit:         3,
		credit:        4,
		balance:       -1,
		min:           5,
	},
}

func (p *CaisseEpargne) ID() string          { return "caisse-epargne" }
func (p *CaisseEpargne) DisplayName() string { return "Caisse d'Epargne" }

// Kind returns model.KindTabular.
func (p *CaisseEpargne) Kind() model.InputKind { return model.KindTabular }

// Detect reports whether text is a Caisse d'Epargne export.
func (p *CaisseEpargne) Detect(text string) bool {
	page := normalize.FirstPage(text)
	return strings.Contains(page, "code de la banque") &&
		strings.Contains(page, "numero de compte")
}

// ExtractAccounts returns one account per "Numero de compte" block. The
// balance is the amount on the block's closing line.
func (p *CaisseEpargne) ExtractAccounts(text string) []model.AccountDescriptor {
	var accts []model.AccountDescriptor
	for _, line := range splitLines(text) {
		if number, ok := ceLayout.markerNumber(line); ok {
			masked := model.MaskNumber(number)
			accts = append(accts, model.AccountDescriptor{
				Number:       number,
				DisplayLabel: "Compte " + masked,
				Kind:         model.AccountKindChecking,
				MaskedNumber: masked,
			})
			continue
		}
		if len(accts) == 0 || accts[len(accts)-1].KnownBalance != nil {
			continue
		}
		if ceLayout.terminal.MatchString(bare(line)) {
			if bal, ok := lastAmount(line); ok {
				accts[len(accts)-1].KnownBalance = &bal
			}
		}
	}
	return accts
}

// ExtractTransactions parses every account block of the export.
func (p *CaisseEpargne) ExtractTransactions(text string) model.Extraction {
	return ceLayout.extract(text)
}
