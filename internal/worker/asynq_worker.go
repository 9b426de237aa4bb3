package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/dujiao-next/cupcake/internal/logger"
	"github.com/dujiao-next/cupcake/internal/models"
	"github.com/dujiao-next/cupcake/internal/provider"
	"github.com/dujiao-next/cupcake/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPlacedNotify, c.handleOrderPlaced)
}

func (c *Consumer) handleOrderPlaced(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_placed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderPlacedPayload(task)
	if err != nil {
		logger.Warnw("worker_order_placed_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_placed_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.Container == nil || c.OrderRepo == nil {
		logger.Warnw("worker_order_placed_skip_repo_nil", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_placed_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		// 订单可能已被管理员删除
		logger.Debugw("worker_order_placed_skip_order_not_found", "order_id", payload.OrderID, "order_no", payload.OrderNo)
		return nil
	}

	customer := "guest"
	if order.UserID != nil && c.UserRepo != nil {
		user, err := c.UserRepo.GetByID(*order.UserID)
		if err != nil {
			logger.Warnw("worker_order_placed_fetch_user_failed", "order_id", order.ID, "user_id", *order.UserID, "error", err)
			return err
		}
		if user != nil {
			customer = user.Email
		}
	}

	logger.Infow("worker_order_placed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"customer", customer,
		"total", order.Total.StringFixed(2),
		"summary", buildOrderSummary(order),
	)
	return nil
}

// buildOrderSummary 订单项摘要，例如 "2x Ninho, 1x Red Velvet"
func buildOrderSummary(order *models.Order) string {
	if order == nil || len(order.Items) == 0 {
		return ""
	}
	parts := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		flavor := strings.TrimSpace(item.Flavor)
		if flavor == "" || item.Quantity <= 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, flavor))
	}
	return strings.Join(parts, ", ")
}
