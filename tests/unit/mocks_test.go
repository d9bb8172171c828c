package unit

import (
	"context"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/event"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

// =====================
// Repository mocks
// =====================

type productRepoMock struct{ mock.Mock }

func (m *productRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *productRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *productRepoMock) ListLowStock(ctx context.Context, threshold int64, limit int) ([]model.Product, error) {
	args := m.Called(ctx, threshold, limit)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *productRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *productRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *productRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type inventoryRepoMock struct{ mock.Mock }

func (m *inventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	args := m.Called(ctx, productID, newStock)
	return args.Error(0)
}

func (m *inventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *inventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *inventoryRepoMock) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	args := m.Called(ctx, adj)
	return args.Error(0)
}

func (m *inventoryRepoMock) ListAdjustments(ctx context.Context, productID int64, limit int) ([]model.InventoryAdjustment, error) {
	args := m.Called(ctx, productID, limit)
	items, _ := args.Get(0).([]model.InventoryAdjustment)
	return items, args.Error(1)
}

type cartRepoMock struct{ mock.Mock }

func (m *cartRepoMock) GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *cartRepoMock) FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *cartRepoMock) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

func (m *cartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type cartItemRepoMock struct{ mock.Mock }

func (m *cartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *cartItemRepoMock) FindByID(ctx context.Context, id int64) (model.CartItem, error) {
	args := m.Called(ctx, id)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *cartItemRepoMock) FindByCartAndProduct(ctx context.Context, cartID int64, productID int64, size string) (model.CartItem, error) {
	args := m.Called(ctx, cartID, productID, size)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *cartItemRepoMock) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, size string, addQty int64, unitPriceSnapshot decimal.Decimal) error {
	args := m.Called(ctx, cartID, productID, size, addQty, unitPriceSnapshot)
	return args.Error(0)
}

func (m *cartItemRepoMock) UpdateQuantity(ctx context.Context, id int64, qty int64) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

func (m *cartItemRepoMock) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *cartItemRepoMock) IsOwnedByUser(ctx context.Context, id int64, userID int64) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

type orderRepoMock struct{ mock.Mock }

func (m *orderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *orderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *orderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *orderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *orderRepoMock) UpdateStatusIfCurrent(ctx context.Context, orderID int64, from model.OrderStatus, to model.OrderStatus) (bool, error) {
	args := m.Called(ctx, orderID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *orderRepoMock) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, userID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *orderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *orderRepoMock) CountByStatusSince(ctx context.Context, since time.Time) (map[model.OrderStatus]int64, error) {
	args := m.Called(ctx, since)
	counts, _ := args.Get(0).(map[model.OrderStatus]int64)
	return counts, args.Error(1)
}

func (m *orderRepoMock) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, since)
	d, _ := args.Get(0).(decimal.Decimal)
	return d, args.Error(1)
}

type orderItemRepoMock struct{ mock.Mock }

func (m *orderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *orderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

type addressRepoMock struct{ mock.Mock }

func (m *addressRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.Address)
	return items, args.Error(1)
}

func (m *addressRepoMock) FindByID(ctx context.Context, id int64) (model.Address, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *addressRepoMock) Create(ctx context.Context, a model.Address) (model.Address, error) {
	args := m.Called(ctx, a)
	created, _ := args.Get(0).(model.Address)
	return created, args.Error(1)
}

func (m *addressRepoMock) Update(ctx context.Context, a model.Address) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *addressRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *addressRepoMock) IsOwnedByUser(ctx context.Context, id int64, userID int64) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *addressRepoMock) SetDefault(ctx context.Context, userID int64, addressID int64) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *userRepoMock) Update(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *userRepoMock) List(ctx context.Context, f repo.UserListFilter) ([]model.User, int64, error) {
	args := m.Called(ctx, f)
	users, _ := args.Get(0).([]model.User)
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *userRepoMock) ListActiveIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

func (m *userRepoMock) SetActive(ctx context.Context, userID int64, active bool) error {
	args := m.Called(ctx, userID, active)
	return args.Error(0)
}

func (m *userRepoMock) BumpTokenVersion(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *userRepoMock) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

type refreshTokenRepoMock struct{ mock.Mock }

func (m *refreshTokenRepoMock) Create(ctx context.Context, rt *model.RefreshToken) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}

func (m *refreshTokenRepoMock) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	rt, _ := args.Get(0).(*model.RefreshToken)
	return rt, args.Error(1)
}

func (m *refreshTokenRepoMock) MarkUsed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *refreshTokenRepoMock) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *refreshTokenRepoMock) DeleteAllByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type wishlistRepoMock struct{ mock.Mock }

func (m *wishlistRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.WishlistItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.WishlistItem)
	return items, args.Error(1)
}

func (m *wishlistRepoMock) Add(ctx context.Context, userID int64, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *wishlistRepoMock) Remove(ctx context.Context, userID int64, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *wishlistRepoMock) Exists(ctx context.Context, userID int64, productID int64) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

type notificationRepoMock struct{ mock.Mock }

func (m *notificationRepoMock) Create(ctx context.Context, n model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *notificationRepoMock) CreateBulk(ctx context.Context, ns []model.Notification) error {
	args := m.Called(ctx, ns)
	return args.Error(0)
}

func (m *notificationRepoMock) ListByUserID(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	args := m.Called(ctx, userID, limit)
	items, _ := args.Get(0).([]model.Notification)
	return items, args.Error(1)
}

func (m *notificationRepoMock) MarkRead(ctx context.Context, userID int64, notificationID int64) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *notificationRepoMock) CountUnread(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type auditRepoMock struct{ mock.Mock }

func (m *auditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *auditRepoMock) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.AuditLog)
	return items, args.Error(1)
}

// =====================
// Tx manager fake
// =====================

// 本物のTxは張らず、同じmockをそのまま渡す
type txReposFake struct {
	orders     *orderRepoMock
	orderItems *orderItemRepoMock
	carts      *cartRepoMock
	cartItems  *cartItemRepoMock
	inventory  *inventoryRepoMock
	products   *productRepoMock
	auditLogs  *auditRepoMock
}

func (r txReposFake) Orders() repo.OrderRepository         { return r.orders }
func (r txReposFake) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r txReposFake) Carts() repo.CartRepository           { return r.carts }
func (r txReposFake) CartItems() repo.CartItemRepository   { return r.cartItems }
func (r txReposFake) Inventory() repo.InventoryRepository  { return r.inventory }
func (r txReposFake) Products() repo.ProductRepository     { return r.products }
func (r txReposFake) AuditLogs() repo.AuditLogRepository   { return r.auditLogs }

type txManagerFake struct {
	repos txReposFake
}

func (m txManagerFake) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.repos)
}

// =====================
// Event publisher mock
// =====================

type publisherMock struct{ mock.Mock }

func (m *publisherMock) PublishOrderPlaced(ev event.OrderPlaced) error {
	args := m.Called(ev)
	return args.Error(0)
}
