package validator

import (
	"fmt"

	"storefront/internal/checkout"

	"github.com/go-playground/validator/v10"
)

// 大量購入の警告ライン
const largeQuantityThreshold = 10

// 入力型はcheckoutパッケージに定義（usecase→validatorの依存を避けるため）
type AddressInput = checkout.AddressInput

type PaymentInput = checkout.PaymentInput

// カート・住所・支払いをそれぞれcheckout.ValidationResultに落とす
type CheckoutValidator struct {
	v *validator.Validate
}

func NewCheckoutValidator() *CheckoutValidator {
	return &CheckoutValidator{v: validator.New()}
}

// カートの構造チェック＋warning（エラーではなく注意喚起）
func (cv *CheckoutValidator) Cart(items []checkout.CartLineItem) checkout.ValidationResult {
	var res checkout.ValidationResult

	if len(items) == 0 {
		res.Errors = append(res.Errors, "cart: cart is empty")
		return res
	}

	for i, it := range items {
		name := it.Name
		if name == "" {
			name = fmt.Sprintf("item %d", i+1)
		}

		switch {
		case it.ID == "" || it.ProductID == "":
			res.Errors = append(res.Errors, fmt.Sprintf("cart: %s is malformed", name))
		case it.Name == "":
			res.Errors = append(res.Errors, fmt.Sprintf("cart: %s is missing a name", name))
		case it.Quantity <= 0:
			res.Errors = append(res.Errors, fmt.Sprintf("cart: %s has an invalid quantity", name))
		case !it.UnitPrice.IsPositive():
			res.Errors = append(res.Errors, fmt.Sprintf("cart: %s has an invalid price", name))
		case it.Quantity >= largeQuantityThreshold:
			res.Warnings = append(res.Warnings, fmt.Sprintf("cart: large quantity for %s", name))
		}
	}

	return res
}

func (cv *CheckoutValidator) Address(in AddressInput) checkout.ValidationResult {
	return cv.toResult("address", cv.v.Struct(in))
}

func (cv *CheckoutValidator) Payment(in PaymentInput) checkout.ValidationResult {
	return cv.toResult("payment", cv.v.Struct(in))
}

// validatorのエラーを画面表示できるメッセージに変換する
func (cv *CheckoutValidator) toResult(scope string, err error) checkout.ValidationResult {
	var res checkout.ValidationResult
	if err == nil {
		return res
	}

	ferrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: invalid input", scope))
		return res
	}

	for _, fe := range ferrs {
		switch fe.Tag() {
		case "required", "required_if":
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %s is required", scope, fe.Field()))
		default:
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %s is invalid", scope, fe.Field()))
		}
	}

	return res
}
