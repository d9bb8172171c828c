package usecase

import (
	"context"
	"net/http"

	"storefront/internal/checkout"
	repo "storefront/internal/repository"
)

// UsecaseはinterfaceでValidatorを受け取る。実装はinternal/validator側
type CheckoutValidator interface {
	Cart(items []checkout.CartLineItem) checkout.ValidationResult
	Address(in checkout.AddressInput) checkout.ValidationResult
	Payment(in checkout.PaymentInput) checkout.ValidationResult
}

type CheckoutUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	addressRepo  repo.AddressRepository
	cv           CheckoutValidator
	rounding     checkout.RoundingMode
}

func NewCheckoutUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	addressRepo repo.AddressRepository,
	cv CheckoutValidator,
	rounding checkout.RoundingMode,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		addressRepo:  addressRepo,
		cv:           cv,
		rounding:     rounding,
	}
}

type QuoteInput struct {
	AddressID      int64
	Payment        checkout.PaymentInput
	CurrentStep    string
	CompletedSteps []string
}

// 購入前の見積もり。金額の内訳・バリデーション結果・ステップ状態をまとめて返す
type QuoteOutput struct {
	Items    []CartItemResponse                    `json:"items"`
	Subtotal string                                `json:"subtotal"`
	Shipping string                                `json:"shipping"`
	Tax      string                                `json:"tax"`
	Total    string                                `json:"total"`
	Summary  checkout.ValidationSummary            `json:"summary"`
	Steps    map[checkout.Step]checkout.StepStatus `json:"steps"`

	//注文確定に進めるか
	CanProceed bool `json:"can_proceed"`
}

// 登録済み住所をバリデータの入力形式に変換する
func addressInputFromRecord(r checkout.AddressRecord) checkout.AddressInput {
	f := checkout.FormatAddressForDisplay(r)
	return checkout.AddressInput{
		FullName:   f.FullName,
		PostalCode: f.PostalCode,
		Prefecture: f.Prefecture,
		City:       f.City,
		Line1:      f.Line1,
		Line2:      f.Line2,
		Phone:      f.Phone,
	}
}

func (u *CheckoutUsecase) GetQuote(ctx context.Context, userID int64, in QuoteInput) (QuoteOutput, error) {
	if userID <= 0 {
		return QuoteOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return QuoteOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return QuoteOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	lines, err := buildLineItems(ctx, u.productRepo, items)
	if err != nil {
		return QuoteOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//住所未選択は「住所エラーあり」として扱い、見積もり自体は返す
	addrRes := checkout.ValidationResult{Errors: []string{"address: address is required"}}
	if in.AddressID > 0 {
		owned, err := u.addressRepo.IsOwnedByUser(ctx, in.AddressID, userID)
		if err != nil {
			return QuoteOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !owned {
			return QuoteOutput{}, NewHTTPError(http.StatusNotFound, "address not found")
		}

		a, err := u.addressRepo.FindByID(ctx, in.AddressID)
		if err != nil {
			return QuoteOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		addrRes = u.cv.Address(addressInputFromRecord(checkout.AddressRecord{
			FirstName:  a.FirstName,
			LastName:   a.LastName,
			Phone:      a.Phone,
			PostalCode: a.PostalCode,
			Prefecture: a.Prefecture,
			City:       a.City,
			Line1:      a.Line1,
			Line2:      a.Line2,
		}))
	}

	cartRes := u.cv.Cart(lines)
	payRes := u.cv.Payment(in.Payment)
	summary := checkout.Summarize(cartRes, addrRes, payRes)

	completed := make([]checkout.Step, 0, len(in.CompletedSteps))
	for _, s := range in.CompletedSteps {
		completed = append(completed, checkout.Step(s))
	}
	steps := checkout.StepStatuses(checkout.Step(in.CurrentStep), completed)

	out := QuoteOutput{
		Summary:    summary,
		Steps:      steps,
		CanProceed: checkout.CanProceedToCheckout(lines, summary),
	}

	//明細が不正でも見積もり画面は出す。金額は計算できた場合のみ
	totals, err := checkout.CalculateOrderTotals(lines, u.rounding)
	if err == nil {
		res := toCartResponse(cart.ID, totals)
		out.Items = res.Items
		out.Subtotal = totals.Subtotal.StringFixed(2)
		out.Shipping = totals.Shipping.StringFixed(2)
		out.Tax = totals.Tax.StringFixed(2)
		out.Total = totals.Total.StringFixed(2)
	}

	return out, nil
}
