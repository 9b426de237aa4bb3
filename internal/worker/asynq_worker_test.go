package worker

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dujiao-next/cupcake/internal/config"
	"github.com/dujiao-next/cupcake/internal/models"
	"github.com/dujiao-next/cupcake/internal/provider"
	"github.com/dujiao-next/cupcake/internal/queue"
	"github.com/dujiao-next/cupcake/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func openWorkerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func TestBuildOrderSummary(t *testing.T) {
	if got := buildOrderSummary(nil); got != "" {
		t.Fatalf("expected empty summary for nil order, got %q", got)
	}
	order := &models.Order{Items: []models.OrderItem{
		{Flavor: "Ninho", Quantity: 2},
		{Flavor: "  ", Quantity: 1},
		{Flavor: "Red Velvet", Quantity: 1},
		{Flavor: "Bicho de Pé", Quantity: 0},
	}}
	want := "2x Ninho, 1x Red Velvet"
	if got := buildOrderSummary(order); got != want {
		t.Fatalf("summary want %q got %q", want, got)
	}
}

func TestHandleOrderPlaced(t *testing.T) {
	db := openWorkerTestDB(t)
	repo := repository.NewOrderRepository(db)
	order := &models.Order{OrderNo: "20240305170709123", Total: models.MustMoney("6.00")}
	items := []models.OrderItem{{CupcakeID: 1, Flavor: "Ninho", Quantity: 1, UnitPrice: models.MustMoney("6.00")}}
	if err := repo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	consumer := NewConsumer(&provider.Container{
		OrderRepo: repo,
		UserRepo:  repository.NewUserRepository(db),
	})

	cases := []struct {
		name    string
		payload queue.OrderPlacedPayload
	}{
		{name: "existing order", payload: queue.OrderPlacedPayload{OrderID: order.ID, OrderNo: order.OrderNo}},
		{name: "deleted order", payload: queue.OrderPlacedPayload{OrderID: order.ID + 100}},
		{name: "empty payload", payload: queue.OrderPlacedPayload{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task, err := queue.NewOrderPlacedTask(tc.payload)
			if err != nil {
				t.Fatalf("build task failed: %v", err)
			}
			if err := consumer.handleOrderPlaced(context.Background(), task); err != nil {
				t.Fatalf("handle failed: %v", err)
			}
		})
	}

	bad := asynq.NewTask(queue.TaskOrderPlacedNotify, []byte("{not json"))
	if err := consumer.handleOrderPlaced(context.Background(), bad); err == nil {
		t.Fatalf("malformed payload should return error")
	}
}

func TestNewServiceRequiresEnabledQueue(t *testing.T) {
	if _, err := NewService(&config.QueueConfig{Enabled: false}, NewConsumer(nil)); err == nil {
		t.Fatalf("disabled queue should not build a worker")
	}
	if _, err := NewService(&config.QueueConfig{Enabled: true}, nil); err == nil {
		t.Fatalf("nil consumer should fail")
	}
}
