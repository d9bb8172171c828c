package checkout

// カート明細の構造チェック。
// 空でなく、全明細がid/productId/name/正の数量/正の単価を持つときだけtrue。
// エラーは返さない（結果は常にbool）
func ValidateCartItems(items []CartLineItem) bool {
	if len(items) == 0 {
		return false
	}

	for _, it := range items {
		if lineItemProblem(it) != "" {
			return false
		}
	}

	return true
}
