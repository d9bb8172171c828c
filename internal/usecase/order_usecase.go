package usecase

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront/internal/checkout"
	"storefront/internal/domain/model"
	"storefront/internal/event"
	"storefront/internal/metric"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// 注文確定イベントの送信先。本番はKafka、テストはモック
type OrderEventPublisher interface {
	PublishOrderPlaced(ev event.OrderPlaced) error
}

type OrderUsecase struct {
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
	cartRepo      repo.CartRepository
	cartItemRepo  repo.CartItemRepository
	productRepo   repo.ProductRepository
	addressRepo   repo.AddressRepository
	txManager     repo.TransactionManager
	publisher     OrderEventPublisher
	cv            CheckoutValidator
	rounding      checkout.RoundingMode
}

func NewOrderUsecase(
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	addressRepo repo.AddressRepository,
	txManager repo.TransactionManager,
	publisher OrderEventPublisher,
	cv CheckoutValidator,
	rounding checkout.RoundingMode,
) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		cartRepo:      cartRepo,
		cartItemRepo:  cartItemRepo,
		productRepo:   productRepo,
		addressRepo:   addressRepo,
		txManager:     txManager,
		publisher:     publisher,
		cv:            cv,
		rounding:      rounding,
	}
}

type PlaceOrderInput struct {
	AddressID      int64
	Payment        checkout.PaymentInput
	IdempotencyKey string
}

type OrderItemResponse struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type OrderResponse struct {
	ID        int64             `json:"id"`
	Status    model.OrderStatus `json:"status"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	Shipping  decimal.Decimal   `json:"shipping"`
	Tax       decimal.Decimal   `json:"tax"`
	Total     decimal.Decimal   `json:"total"`
	CreatedAt time.Time         `json:"created_at"`
}

type OrderDetailResponse struct {
	OrderResponse
	Items []OrderItemResponse `json:"items"`
}

func toOrderResponse(o model.Order) OrderResponse {
	return OrderResponse{
		ID:        o.ID,
		Status:    o.Status,
		Subtotal:  o.Subtotal,
		Shipping:  o.ShippingFee,
		Tax:       o.Tax,
		Total:     o.TotalPrice,
		CreatedAt: o.CreatedAt,
	}
}

func toOrderItemResponses(items []model.OrderItem) []OrderItemResponse {
	out := make([]OrderItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, OrderItemResponse{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Size:      it.SizeSnapshot,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPriceSnapshot,
			LineTotal: it.UnitPriceSnapshot.Mul(decimal.NewFromInt(it.Quantity)),
		})
	}
	return out
}

// 注文確定。バリデーション→在庫引き当て→注文作成→カート確定を1トランザクションで行う
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderDetailResponse, error) {
	if userID <= 0 {
		return OrderDetailResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.IdempotencyKey) == "" {
		return OrderDetailResponse{}, NewHTTPError(http.StatusBadRequest, "idempotency key is required")
	}
	if in.AddressID <= 0 {
		return OrderDetailResponse{}, NewHTTPError(http.StatusBadRequest, "invalid address id")
	}

	//同じキーの注文が既にあればそれを返す（二重送信対策）
	if existing, found, err := u.orderRepo.FindByIdempotencyKey(ctx, userID, in.IdempotencyKey); err != nil {
		return OrderDetailResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	} else if found {
		return u.detailOf(ctx, existing)
	}

	owned, err := u.addressRepo.IsOwnedByUser(ctx, in.AddressID, userID)
	if err != nil {
		return OrderDetailResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return OrderDetailResponse{}, NewHTTPError(http.StatusNotFound, "address not found")
	}

	addr, err := u.addressRepo.FindByID(ctx, in.AddressID)
	if err != nil {
		return OrderDetailResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return OrderDetailResponse{}, NewHTTPError(http.StatusUnprocessableEntity, "cart is empty")
	}
	if err != nil {
		return OrderDetailResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cartItems, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return OrderDetailResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	lines, err := buildLineItems(ctx, u.productRepo, cartItems)
	if err != nil {
		return OrderDetailResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//カート・住所・支払いを最終チェック。1つでもエラーがあれば確定しない
	summary := checkout.Summarize(
		u.cv.Cart(lines),
		u.cv.Address(addressInputFromRecord(checkout.AddressRecord{
			FirstName:  addr.FirstName,
			LastName:   addr.LastName,
			Phone:      addr.Phone,
			PostalCode: addr.PostalCode,
			Prefecture: addr.Prefecture,
			City:       addr.City,
			Line1:      addr.Line1,
			Line2:      addr.Line2,
		})),
		u.cv.Payment(in.Payment),
	)
	if !checkout.CanProceedToCheckout(lines, summary) {
		msg := "checkout blocked"
		if len(summary.Errors) > 0 {
			msg = summary.Errors[0]
		}
		return OrderDetailResponse{}, NewHTTPError(http.StatusUnprocessableEntity, msg)
	}

	totals, err := checkout.CalculateOrderTotals(lines, u.rounding)
	if err != nil {
		return OrderDetailResponse{}, NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	var orderID int64
	created := false
	txErr := u.txManager.WithinTx(ctx, func(r repo.TxRepos) error {
		//Tx内でもう一度キーを確認（並行リクエスト対策）
		if existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, in.IdempotencyKey); err != nil {
			return err
		} else if found {
			orderID = existing.ID
			return nil
		}

		for _, it := range cartItems {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return NewHTTPError(http.StatusConflict, "insufficient stock for product "+strconv.FormatInt(it.ProductID, 10))
			}
		}

		id, err := r.Orders().Create(ctx, model.Order{
			UserID:         userID,
			AddressID:      in.AddressID,
			Status:         model.OrderStatusPending,
			Subtotal:       totals.Subtotal,
			ShippingFee:    totals.Shipping,
			Tax:            totals.Tax,
			TotalPrice:     totals.Total,
			IdempotencyKey: in.IdempotencyKey,
		})
		if err != nil {
			return err
		}
		orderID = id

		orderItems := make([]model.OrderItem, 0, len(totals.Items))
		for _, it := range totals.Items {
			productID, _ := strconv.ParseInt(it.ProductID, 10, 64)
			orderItems = append(orderItems, model.OrderItem{
				ProductID:           productID,
				ProductNameSnapshot: it.Name,
				SizeSnapshot:        it.Size,
				UnitPriceSnapshot:   it.UnitPrice,
				Quantity:            it.Quantity,
			})
		}
		if err := r.OrderItems().CreateBulk(ctx, id, orderItems); err != nil {
			return err
		}

		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
			return err
		}

		created = true
		return nil
	})
	if txErr != nil {
		if he, ok := AsHTTPError(txErr); ok {
			return OrderDetailResponse{}, he
		}
		return OrderDetailResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if created {
		metric.OrdersPlacedTotal.Inc()
		f, _ := totals.Total.Float64()
		metric.OrderTotalAmount.Observe(f)

		//イベント送信の失敗で注文は失敗させない
		if err := u.publisher.PublishOrderPlaced(event.OrderPlaced{
			OrderID:   orderID,
			UserID:    userID,
			ItemCount: len(cartItems),
			Total:     totals.Total.StringFixed(2),
			PlacedAt:  time.Now().UTC(),
		}); err != nil {
			log.Printf("publish order placed event: %v", err)
		}
	}

	order, err := u.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return OrderDetailResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.detailOf(ctx, order)
}

func (u *OrderUsecase) detailOf(ctx context.Context, o model.Order) (OrderDetailResponse, error) {
	items, err := u.orderItemRepo.ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderDetailResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return OrderDetailResponse{
		OrderResponse: toOrderResponse(o),
		Items:         toOrderItemResponses(items),
	}, nil
}

type OrderListOutput struct {
	Items []OrderResponse `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	orders, total, err := u.orderRepo.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := OrderListOutput{
		Items: make([]OrderResponse, 0, len(orders)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for _, o := range orders {
		out.Items = append(out.Items, toOrderResponse(o))
	}

	return out, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderDetailResponse, error) {
	if userID <= 0 {
		return OrderDetailResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderDetailResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderDetailResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderDetailResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//他人の注文は存在しない扱いにする
	if o.UserID != userID {
		return OrderDetailResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	return u.detailOf(ctx, o)
}
