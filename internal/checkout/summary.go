package checkout

// 1つのバリデータの結果。ゼロ値は「エラーなし」として扱う
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// カート・住所・支払いの結果をまとめた最終判定
type ValidationSummary struct {
	IsValid           bool
	Errors            []string
	Warnings          []string
	HasBlockingIssues bool
}

// cart → address → payment の順でエラーを連結する（画面表示の順序を固定するため）。
// warningは現状カートのみ
func Summarize(cart, address, payment ValidationResult) ValidationSummary {
	errs := make([]string, 0, len(cart.Errors)+len(address.Errors)+len(payment.Errors))
	errs = append(errs, cart.Errors...)
	errs = append(errs, address.Errors...)
	errs = append(errs, payment.Errors...)

	warns := make([]string, 0, len(cart.Warnings))
	warns = append(warns, cart.Warnings...)

	return ValidationSummary{
		IsValid:           len(errs) == 0,
		Errors:            errs,
		Warnings:          warns,
		HasBlockingIssues: len(errs) > 0,
	}
}

// 注文確定に進めるか。
// カートの構造チェックはサマリとは別にもう一度行う（二重チェックは意図的）
func CanProceedToCheckout(items []CartLineItem, summary ValidationSummary) bool {
	return ValidateCartItems(items) && !summary.HasBlockingIssues
}
