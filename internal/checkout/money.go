package checkout

import (
	"strings"

	"github.com/shopspring/decimal"
)

// 税計算の丸めモード
type RoundingMode int

const (
	// 四捨五入（0から遠い方へ）。デフォルト
	RoundHalfUp RoundingMode = iota
	// 銀行丸め（偶数丸め）
	RoundBankers
)

// セント境界（小数2桁）で丸める
func (m RoundingMode) Round(d decimal.Decimal) decimal.Decimal {
	if m == RoundBankers {
		return d.RoundBank(2)
	}
	return d.Round(2)
}

// 表示用フォーマット（記号＋3桁区切り＋小数2桁固定）
// 例: FormatMoney(decimal.NewFromFloat(1234.5), "$") => "$1,234.50"
func FormatMoney(amount decimal.Decimal, symbol string) string {
	s := amount.Abs().StringFixed(2)

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart = s[:i]
		fracPart = s[i:]
	}

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(symbol)

	//3桁ごとにカンマを入れる
	n := len(intPart)
	for i, c := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteString(fracPart)

	return b.String()
}
