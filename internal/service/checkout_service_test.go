package service

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/dujiao-next/cupcake/internal/models"
	"github.com/dujiao-next/cupcake/internal/queue"
	"github.com/dujiao-next/cupcake/internal/repository"
	"github.com/dujiao-next/cupcake/internal/session"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

var orderNoPattern = regexp.MustCompile(`^\d{14}[1-9]\d{2}$`)

type recordingNotifier struct {
	payloads []queue.OrderPlacedPayload
	err      error
}

func (n *recordingNotifier) EnqueueOrderPlaced(payload queue.OrderPlacedPayload, _ ...asynq.Option) error {
	n.payloads = append(n.payloads, payload)
	return n.err
}

func newCheckoutTestService(t *testing.T, notifier OrderNotifier) (*CheckoutService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t)
	return NewCheckoutService(repository.NewOrderRepository(db), notifier), db
}

func sampleCart() models.Cart {
	return models.Cart{
		{CupcakeID: 1, Flavor: "Ninho", Price: models.MustMoney("6.00"), Quantity: 2},
		{CupcakeID: 2, Flavor: "Red Velvet", Price: models.MustMoney("7.00"), Quantity: 1},
	}
}

func TestCheckoutCreatesOrder(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, db := newCheckoutTestService(t, notifier)
	svc.now = func() time.Time {
		return time.Date(2024, 3, 5, 14, 7, 9, 0, time.FixedZone("BRT", -3*3600))
	}
	userID := uint(7)

	order, cart, err := svc.Checkout(CheckoutInput{Cart: sampleCart(), UserID: &userID})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("cart should be cleared after checkout")
	}
	if !orderNoPattern.MatchString(order.OrderNo) {
		t.Fatalf("order number %q has unexpected format", order.OrderNo)
	}
	if order.OrderNo[:14] != "20240305170709" {
		t.Fatalf("order number should use UTC timestamp, got %s", order.OrderNo)
	}
	if order.Total.StringFixed(2) != "19.00" {
		t.Fatalf("total want 19.00 got %s", order.Total.StringFixed(2))
	}

	stored, err := svc.GetOrder(userID, order.OrderNo)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if len(stored.Items) != 2 || !stored.ItemsTotal().Equal(stored.Total.Decimal) {
		t.Fatalf("stored items do not add up: %+v", stored.Items)
	}
	if len(notifier.payloads) != 1 || notifier.payloads[0].OrderNo != order.OrderNo {
		t.Fatalf("notifier want one payload for %s got %+v", order.OrderNo, notifier.payloads)
	}

	var count int64
	db.Model(&models.Order{}).Count(&count)
	if count != 1 {
		t.Fatalf("orders want 1 got %d", count)
	}
}

func TestCheckoutEmptyCartPersistsNothing(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, db := newCheckoutTestService(t, notifier)
	cases := []struct {
		name string
		cart models.Cart
	}{
		{name: "nil cart", cart: nil},
		{name: "only zero quantities", cart: models.Cart{{CupcakeID: 1, Flavor: "Ninho", Price: models.MustMoney("6.00"), Quantity: 0}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order, _, err := svc.Checkout(CheckoutInput{Cart: tc.cart})
			if !errors.Is(err, ErrCartEmpty) || order != nil {
				t.Fatalf("want ErrCartEmpty got order=%v err=%v", order, err)
			}
		})
	}
	var orders, items int64
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.OrderItem{}).Count(&items)
	if orders != 0 || items != 0 {
		t.Fatalf("nothing should be persisted, got orders=%d items=%d", orders, items)
	}
	if len(notifier.payloads) != 0 {
		t.Fatalf("notifier should not be called")
	}
}

func TestCheckoutSkipsZeroQuantityLines(t *testing.T) {
	svc, _ := newCheckoutTestService(t, nil)
	cart := append(sampleCart(), models.CartLine{CupcakeID: 3, Flavor: "Bicho de Pé", Price: models.MustMoney("6.80"), Quantity: 0})

	order, _, err := svc.Checkout(CheckoutInput{Cart: cart})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if len(order.Items) != 2 || order.UserID != nil {
		t.Fatalf("guest order want 2 items and nil user, got %+v", order)
	}
	if order.Total.StringFixed(2) != "19.00" {
		t.Fatalf("total want 19.00 got %s", order.Total.StringFixed(2))
	}
}

func TestCheckoutNotifierFailureKeepsOrder(t *testing.T) {
	svc, _ := newCheckoutTestService(t, &recordingNotifier{err: errors.New("redis down")})
	order, _, err := svc.Checkout(CheckoutInput{Cart: sampleCart()})
	if err != nil || order == nil || order.ID == 0 {
		t.Fatalf("checkout should succeed even if notification fails, got order=%v err=%v", order, err)
	}
}

func TestOrderQueriesRequireLogin(t *testing.T) {
	svc, _ := newCheckoutTestService(t, nil)
	if _, err := svc.ListOrders(0); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("list want ErrNotAuthenticated got %v", err)
	}
	if _, err := svc.GetOrder(0, "x"); !errors.Is(err, ErrAuth) {
		t.Fatalf("get want auth error got %v", err)
	}
}

func TestGetOrderChecksOwnership(t *testing.T) {
	svc, _ := newCheckoutTestService(t, nil)
	owner := uint(3)
	order, _, err := svc.Checkout(CheckoutInput{Cart: sampleCart(), UserID: &owner})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if _, err := svc.GetOrder(4, order.OrderNo); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("other user want ErrOrderNotFound got %v", err)
	}
	list, err := svc.ListOrders(owner)
	if err != nil || len(list) != 1 {
		t.Fatalf("owner list want 1 got %d err=%v", len(list), err)
	}
}

func TestAdminOrderManagement(t *testing.T) {
	svc, db := newCheckoutTestService(t, nil)
	customer := session.Identity{UserID: 2, Name: "Ana"}
	for i := 0; i < 3; i++ {
		if _, _, err := svc.Checkout(CheckoutInput{Cart: sampleCart()}); err != nil {
			t.Fatalf("checkout %d failed: %v", i, err)
		}
	}

	if _, _, err := svc.ListAllOrders(customer, repository.OrderListFilter{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("customer list want ErrForbidden got %v", err)
	}
	orders, total, err := svc.ListAllOrders(testAdmin, repository.OrderListFilter{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if total != 3 || len(orders) != 2 {
		t.Fatalf("want total 3 page 2 got total=%d page=%d", total, len(orders))
	}

	target := orders[0].ID
	if err := svc.DeleteOrder(customer, target); !errors.Is(err, ErrForbidden) {
		t.Fatalf("customer delete want ErrForbidden got %v", err)
	}
	if err := svc.DeleteOrder(testAdmin, target); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	var items int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", target).Count(&items)
	if items != 0 {
		t.Fatalf("order items should be deleted with order, got %d", items)
	}
	if err := svc.DeleteOrder(testAdmin, target); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("second delete want ErrOrderNotFound got %v", err)
	}
}

func TestGenerateOrderNoRange(t *testing.T) {
	now := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
	for i := 0; i < 200; i++ {
		no := generateOrderNo(now)
		if !orderNoPattern.MatchString(no) || no[:14] != "20251231235959" {
			t.Fatalf("unexpected order number %s", no)
		}
	}
}
