// Package category guesses a spending category from a cleaned statement
// label. The guess is advisory; a downstream classifier may overwrite it.
package category

import (
	"strings"
	"unicode"
)

// Category names produced by Guess.
const (
	Income        = "income"
	Housing       = "housing"
	Groceries     = "groceries"
	Restaurants   = "restaurants"
	Transport     = "transport"
	Utilities     = "utilities"
	Subscriptions = "subscriptions"
	Shopping      = "shopping"
	Health        = "health"
	Cash          = "cash"
	BankFees      = "bank_fees"
	Transfers     = "transfers"
	Taxes         = "taxes"
)

// Rule maps label keywords to a category. Keywords are upper-case.
type Rule struct {
	Category string
	Keywords []string
}

// Rules is evaluated top to bottom; the first rule with a matching keyword
// wins. More specific rules come first ("FRAIS" would otherwise swallow
// utility bills mentioning fees).
var Rules = []Rule{
	{Income, []string{"SALAIRE", "SALARY", "PAIE ", "CAF ", "POLE EMPLOI", "FRANCE TRAVAIL", "REMBOURSEMENT"}},
	{Taxes, []string{"DGFIP", "IMPOTS", "TRESOR PUBLIC", "URSSAF"}},
	{Housing, []string{"LOYER", "FONCIA", "NEXITY", "SYNDIC", "ASSURANCE HABITATION"}},
	{Utilities, []string{"EDF", "ENGIE", "TOTALENERGIES ELEC", "VEOLIA", "ORANGE", "SFR", "BOUYGUES TEL", "FREE MOBILE", "FREE TELECOM"}},
	{Subscriptions, []string{"APPLE.COM", "NETFLIX", "SPOTIFY", "DEEZER", "DISNEY PLUS", "AMAZON PRIME", "CANAL+", "GOOGLE"}},
	{Groceries, []string{"CARREFOUR", "LECLERC", "AUCHAN", "LIDL", "ALDI", "MONOPRIX", "FRANPRIX", "INTERMARCHE", "CASINO", "PICARD", "BIOCOOP"}},
	{Restaurants, []string{"RESTAURANT", "BRASSERIE", "MCDONALD", "BURGER KING", "DELIVEROO", "UBER EATS", "BOULANGERIE"}},
	{Transport, []string{"SNCF", "RATP", "NAVIGO", "UBER", "BLABLACAR", "TOTAL ", "TOTALENERGIES", "ESSO", "SHELL", "AUTOROUTE", "PEAGE"}},
	{Health, []string{"PHARMACIE", "DOCTOLIB", "MUTUELLE", "CPAM", "LABORATOIRE"}},
	{Shopping, []string{"AMAZON", "FNAC", "DARTY", "DECATHLON", "IKEA", "ZARA", "LEROY MERLIN"}},
	{Cash, []string{"RETRAIT", "DAB "}},
	{BankFees, []string{"FRAIS", "COTISATION", "COMMISSION", "AGIOS", "INTERETS DEBITEURS"}},
	{Transfers, []string{"VIREMENT", "VIR ", "TRANSFER"}},
}

// Guess returns the category of a cleaned label, or "" when nothing matches.
// Keywords only match at the start of a word so that "EDF" does not match
// inside "FEDFX".
func Guess(cleaned string) string {
	label := strings.ToUpper(cleaned) + " "
	for _, rule := range Rules {
		for _, kw := range rule.Keywords {
			if containsAtWordStart(label, kw) {
				return rule.Category
			}
		}
	}
	return ""
}

func containsAtWordStart(s, kw string) bool {
	from := 0
	for {
		i := strings.Index(s[from:], kw)
		if i < 0 {
			return false
		}
		i += from
		if i == 0 {
			return true
		}
		prev := rune(s[i-1])
		if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
			return true
		}
		from = i + 1
	}
}
