package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5,99", "5.99"},
		{"-5,99", "-5.99"},
		{"1 200,00", "1200.00"},
		{"1 200,00", "1200.00"},
		{"1 234,5", "1234.50"},
		{"1.234,56", "1234.56"},
		{"+ 1 200,00 €", "1200.00"},
		{"- 5,99 €", "-5.99"},
		{"−5,99", "-5.99"},
		{"12", "12.00"},
		{"1.200", "1200.00"},
		{"0,005", "0.01"},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		require.NoError(t, err, "ParseAmount(%q)", tt.in)
		assert.Equal(t, tt.want, got.StringFixed(2), "ParseAmount(%q)", tt.in)
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1,2,3", "12,3a", "--5"} {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, "ParseAmount(%q)", in)
	}
}

func TestIsBlankAmount(t *testing.T) {
	assert.True(t, IsBlankAmount(""))
	assert.True(t, IsBlankAmount("  "))
	assert.True(t, IsBlankAmount(" € "))
	assert.False(t, IsBlankAmount("0,00"))
}

func TestDebitCredit(t *testing.T) {
	d, err := ParseAmount("-5,99")
	require.NoError(t, err)
	assert.Equal(t, "-5.99", Debit(d).StringFixed(2))
	assert.Equal(t, "5.99", Credit(d).StringFixed(2))
	assert.Equal(t, "-5.99", Debit(d.Neg()).StringFixed(2))
}
