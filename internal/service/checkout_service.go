package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/dujiao-next/cupcake/internal/logger"
	"github.com/dujiao-next/cupcake/internal/models"
	"github.com/dujiao-next/cupcake/internal/queue"
	"github.com/dujiao-next/cupcake/internal/repository"
	"github.com/dujiao-next/cupcake/internal/session"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

const (
	orderNoTimeLayout = "20060102150405"
	orderNoRandMin    = 100
	orderNoRandMax    = 999
)

// OrderNotifier 下单后的异步通知
type OrderNotifier interface {
	EnqueueOrderPlaced(payload queue.OrderPlacedPayload, opts ...asynq.Option) error
}

// CheckoutInput 结算参数
type CheckoutInput struct {
	Cart   models.Cart
	UserID *uint // 游客结算为 nil
}

// CheckoutService 结算与订单查询服务
type CheckoutService struct {
	orderRepo repository.OrderRepository
	notifier  OrderNotifier
	now       func() time.Time
}

// NewCheckoutService 创建结算服务，notifier 可为 nil
func NewCheckoutService(orderRepo repository.OrderRepository, notifier OrderNotifier) *CheckoutService {
	return &CheckoutService{
		orderRepo: orderRepo,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Checkout 将购物袋转换为订单，成功后返回清空的购物袋
func (s *CheckoutService) Checkout(input CheckoutInput) (*models.Order, models.Cart, error) {
	items := make([]models.OrderItem, 0, len(input.Cart))
	for _, line := range input.Cart {
		if line.Quantity <= 0 {
			continue
		}
		items = append(items, models.OrderItem{
			CupcakeID: line.CupcakeID,
			Flavor:    line.Flavor,
			Quantity:  line.Quantity,
			UnitPrice: line.Price,
		})
	}
	if len(items) == 0 {
		return nil, input.Cart, ErrCartEmpty
	}

	var userID *uint
	if input.UserID != nil && *input.UserID != 0 {
		id := *input.UserID
		userID = &id
	}
	order := &models.Order{
		OrderNo: generateOrderNo(s.now()),
		UserID:  userID,
		Total:   input.Cart.Total(),
	}

	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.WithTx(tx).Create(order, items)
	})
	if err != nil {
		return nil, input.Cart, err
	}

	logger.Infow("checkout_order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"total", order.Total.String(),
		"items", len(items),
	)
	s.notifyPlaced(order)
	return order, models.Cart{}, nil
}

// ListOrders 当前用户的订单，最新在前
func (s *CheckoutService) ListOrders(userID uint) ([]models.Order, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	return s.orderRepo.ListByUser(userID)
}

// GetOrder 按订单号获取当前用户的订单
func (s *CheckoutService) GetOrder(userID uint, orderNo string) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	if strings.TrimSpace(orderNo) == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNoAndUser(orderNo, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListAllOrders 管理端订单列表
func (s *CheckoutService) ListAllOrders(identity session.Identity, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, 0, err
	}
	return s.orderRepo.ListAdmin(filter)
}

// DeleteOrder 管理员删除订单，订单项在同一事务内一并删除
func (s *CheckoutService) DeleteOrder(identity session.Identity, id uint) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if err := s.orderRepo.DeleteWithItems(order.ID); err != nil {
		return err
	}
	logger.Infow("checkout_order_deleted", "order_id", order.ID, "order_no", order.OrderNo, "admin_id", identity.UserID)
	return nil
}

func (s *CheckoutService) notifyPlaced(order *models.Order) {
	if s.notifier == nil || order == nil {
		return
	}
	payload := queue.OrderPlacedPayload{OrderID: order.ID, OrderNo: order.OrderNo}
	if err := s.notifier.EnqueueOrderPlaced(payload); err != nil {
		logger.Warnw("checkout_enqueue_order_placed_failed", "order_id", order.ID, "order_no", order.OrderNo, "error", err)
	}
}

// generateOrderNo UTC 时间 YYYYMMDDHHMMSS 加 100-999 随机数，碰撞由唯一索引拒绝
func generateOrderNo(now time.Time) string {
	return now.UTC().Format(orderNoTimeLayout) + fmt.Sprintf("%d", randomInRange(orderNoRandMin, orderNoRandMax))
}

func randomInRange(lo, hi int) int {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(hi-lo+1)))
	if err != nil {
		return lo
	}
	return lo + int(n.Int64())
}
