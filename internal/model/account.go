package model

import "github.com/shopspring/decimal"

// AccountKind classifies the accounts found in a statement.
type AccountKind string

const (
	AccountKindChecking AccountKind = "checking"
	AccountKindSavings  AccountKind = "savings"
	AccountKindCard     AccountKind = "card"
	AccountKindBusiness AccountKind = "business"
	AccountKindOther    AccountKind = "other"
)

// AccountDescriptor describes one account found in a statement.
type AccountDescriptor struct {
	Number       string
	DisplayLabel string
	Kind         AccountKind
	MaskedNumber string
	KnownBalance *decimal.Decimal // nil when the statement carries no balance
}

// MaskNumber keeps the last four characters of an account number.
// "12345678901" -> "••••8901"
func MaskNumber(number string) string {
	r := []rune(number)
	if len(r) <= 4 {
		return string(r)
	}
	return "••••" + string(r[len(r)-4:])
}
