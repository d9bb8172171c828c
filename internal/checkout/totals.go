package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// 送料（固定）
var ShippingFee = decimal.NewFromInt(20)

// 税率 8%
var TaxRate = decimal.RequireFromString("0.08")

// カートの1明細。UnitPriceは追加時点の単価
type CartLineItem struct {
	ID        string
	ProductID string
	Name      string
	Size      string // 任意
	Quantity  int64
	UnitPrice decimal.Decimal
}

// 明細＋行合計（unitPrice × quantity、行レベルでは丸めない）
type OrderItem struct {
	CartLineItem
	TotalPrice decimal.Decimal
}

// 注文金額の内訳。呼び出しごとに全部再計算する（キャッシュしない）
type OrderSummary struct {
	Items    []OrderItem
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// 不正な明細を計算前に弾くためのエラー
type MalformedLineItemError struct {
	Index  int
	Reason string
}

func (e *MalformedLineItemError) Error() string {
	return fmt.Sprintf("malformed line item at index %d: %s", e.Index, e.Reason)
}

// 明細の構造チェック。問題なければ空文字を返す
func lineItemProblem(it CartLineItem) string {
	switch {
	case it.ID == "":
		return "missing id"
	case it.ProductID == "":
		return "missing product id"
	case it.Name == "":
		return "missing name"
	case it.Quantity <= 0:
		return "quantity must be positive"
	case !it.UnitPrice.IsPositive():
		return "unit price must be positive"
	}
	return ""
}

// カート明細からOrderSummaryを導出する。
// 空カートは小計0・税0で送料のみ。明細が不正なら計算せずにMalformedLineItemErrorを返す
func CalculateOrderTotals(items []CartLineItem, mode RoundingMode) (OrderSummary, error) {
	orderItems := make([]OrderItem, 0, len(items))
	subtotal := decimal.Zero

	for i, it := range items {
		if reason := lineItemProblem(it); reason != "" {
			return OrderSummary{}, &MalformedLineItemError{Index: i, Reason: reason}
		}

		lineTotal := it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
		orderItems = append(orderItems, OrderItem{
			CartLineItem: it,
			TotalPrice:   lineTotal,
		})

		subtotal = subtotal.Add(lineTotal)
	}

	tax := mode.Round(subtotal.Mul(TaxRate))
	total := subtotal.Add(ShippingFee).Add(tax)

	return OrderSummary{
		Items:    orderItems,
		Subtotal: subtotal,
		Shipping: ShippingFee,
		Tax:      tax,
		Total:    total,
	}, nil
}
