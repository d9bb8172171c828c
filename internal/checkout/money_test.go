package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0.00", FormatMoney(dec("0"), "$"))
	assert.Equal(t, "$20.00", FormatMoney(dec("20"), "$"))
	assert.Equal(t, "$1,234.50", FormatMoney(dec("1234.5"), "$"))
	assert.Equal(t, "$1,234,567.89", FormatMoney(dec("1234567.89"), "$"))
	assert.Equal(t, "¥999.90", FormatMoney(dec("999.9"), "¥"))
	assert.Equal(t, "-$15.25", FormatMoney(dec("-15.25"), "$"))
}

func TestRoundingMode(t *testing.T) {
	// 0.825 はちょうど中間: half-upは上へ、banker'sは偶数へ
	assert.True(t, RoundHalfUp.Round(dec("0.825")).Equal(dec("0.83")))
	assert.True(t, RoundBankers.Round(dec("0.825")).Equal(dec("0.82")))

	// 中間でなければ同じ
	assert.True(t, RoundHalfUp.Round(dec("0.8251")).Equal(dec("0.83")))
	assert.True(t, RoundBankers.Round(dec("0.8251")).Equal(dec("0.83")))
}
