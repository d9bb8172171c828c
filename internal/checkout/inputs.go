package checkout

// 配送先の入力
type AddressInput struct {
	FullName   string `validate:"required"`
	PostalCode string `validate:"required"`
	Prefecture string `validate:"required"`
	City       string `validate:"required"`
	Line1      string `validate:"required"`
	Line2      string `validate:"-"`
	Phone      string `validate:"omitempty,min=8"`
}

// 支払い方法の入力。実際の決済は外部サービスに任せるので構造チェックのみ
type PaymentInput struct {
	Method     string `validate:"required,oneof=CARD COD BANK_TRANSFER"`
	CardNumber string `validate:"required_if=Method CARD,omitempty,credit_card"`
	CardHolder string `validate:"required_if=Method CARD"`
	ExpMonth   int    `validate:"required_if=Method CARD,omitempty,min=1,max=12"`
	ExpYear    int    `validate:"required_if=Method CARD,omitempty,min=2000"`
}
