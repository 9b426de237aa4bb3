package repository

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dujiao-next/cupcake/internal/constants"
	"github.com/dujiao-next/cupcake/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openRepositoryTestDB(t *testing.T) *gorm.DB {
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

func createCupcake(t *testing.T, repo *GormCupcakeRepository, flavor, price string) *models.Cupcake {
	t.Helper()
	cupcake := &models.Cupcake{Flavor: flavor, Description: flavor + " desc", Price: models.MustMoney(price)}
	if err := repo.Create(cupcake); err != nil {
		t.Fatalf("create cupcake failed: %v", err)
	}
	return cupcake
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(openRepositoryTestDB(t))
	first := &models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x"}
	if err := repo.Create(first); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	second := &models.User{Name: "Ana 2", Email: "ana@example.com", PasswordHash: "y"}
	err := repo.Create(second)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate email want ErrDuplicate got %v", err)
	}

	found, err := repo.GetByEmail("  ANA@example.com ")
	if err != nil {
		t.Fatalf("get by email failed: %v", err)
	}
	if found == nil || found.ID != first.ID {
		t.Fatalf("expected user %d, got %+v", first.ID, found)
	}

	missing, err := repo.GetByID(999)
	if err != nil || missing != nil {
		t.Fatalf("missing user want nil,nil got %+v,%v", missing, err)
	}
}

func TestCupcakeRepositoryListFilterAndSort(t *testing.T) {
	repo := NewCupcakeRepository(openRepositoryTestDB(t))
	morango := createCupcake(t, repo, "Morango com Ninho", "6.50")
	chocolate := createCupcake(t, repo, "Chocolate", "7.00")
	ninho := createCupcake(t, repo, "Ninho", "6.00")

	cases := []struct {
		name   string
		filter CupcakeListFilter
		want   []uint
	}{
		{name: "default newest first", filter: CupcakeListFilter{}, want: []uint{ninho.ID, chocolate.ID, morango.ID}},
		{name: "price asc", filter: CupcakeListFilter{Sort: constants.CatalogSortPriceAsc}, want: []uint{ninho.ID, morango.ID, chocolate.ID}},
		{name: "price desc", filter: CupcakeListFilter{Sort: constants.CatalogSortPriceDesc}, want: []uint{chocolate.ID, morango.ID, ninho.ID}},
		{name: "search case insensitive", filter: CupcakeListFilter{Search: "NINHO", Sort: constants.CatalogSortPriceAsc}, want: []uint{ninho.ID, morango.ID}},
		{name: "search no match", filter: CupcakeListFilter{Search: "limão"}, want: []uint{}},
		{name: "wildcard literal", filter: CupcakeListFilter{Search: "%"}, want: []uint{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.List(tc.filter)
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("len want %d got %d", len(tc.want), len(got))
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Fatalf("position %d want id %d got %d", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestCupcakeRepositoryDeleteIsSoft(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewCupcakeRepository(db)
	cupcake := createCupcake(t, repo, "Red Velvet", "8.00")

	if err := repo.Delete(cupcake.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	got, err := repo.GetByID(cupcake.ID)
	if err != nil || got != nil {
		t.Fatalf("deleted cupcake should be hidden, got %+v,%v", got, err)
	}
	var count int64
	if err := db.Unscoped().Model(&models.Cupcake{}).Where("id = ?", cupcake.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("soft deleted row want 1 got %d", count)
	}
}

func TestOrderRepositoryCreateListAndDelete(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	userID := uint(7)
	otherID := uint(8)

	older := &models.Order{OrderNo: "20250101120000100", UserID: &userID, Total: models.MustMoney("13.00"), CreatedAt: time.Now().Add(-time.Hour)}
	newer := &models.Order{OrderNo: "20250101130000200", UserID: &userID, Total: models.MustMoney("6.00")}
	foreign := &models.Order{OrderNo: "20250101130000300", UserID: &otherID, Total: models.MustMoney("6.00")}

	err := repo.Transaction(func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		if err := txRepo.Create(older, []models.OrderItem{{CupcakeID: 1, Flavor: "Morango", Quantity: 2, UnitPrice: models.MustMoney("6.50")}}); err != nil {
			return err
		}
		if err := txRepo.Create(newer, []models.OrderItem{{CupcakeID: 3, Flavor: "Ninho", Quantity: 1, UnitPrice: models.MustMoney("6.00")}}); err != nil {
			return err
		}
		return txRepo.Create(foreign, []models.OrderItem{{CupcakeID: 3, Flavor: "Ninho", Quantity: 1, UnitPrice: models.MustMoney("6.00")}})
	})
	if err != nil {
		t.Fatalf("create orders failed: %v", err)
	}

	orders, err := repo.ListByUser(userID)
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != newer.ID || orders[1].ID != older.ID {
		t.Fatalf("unexpected order list: %+v", orders)
	}
	if len(orders[1].Items) != 1 || orders[1].ItemsTotal().String() != "13.00" {
		t.Fatalf("older order items not loaded: %+v", orders[1].Items)
	}

	found, err := repo.GetByOrderNoAndUser(foreign.OrderNo, userID)
	if err != nil || found != nil {
		t.Fatalf("foreign order should be hidden, got %+v,%v", found, err)
	}

	page, total, err := repo.ListAdmin(OrderListFilter{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list admin failed: %v", err)
	}
	if total != 3 || len(page) != 2 {
		t.Fatalf("admin page want total=3 len=2 got total=%d len=%d", total, len(page))
	}

	if err := repo.DeleteWithItems(older.ID); err != nil {
		t.Fatalf("delete order failed: %v", err)
	}
	var itemCount int64
	if err := db.Model(&models.OrderItem{}).Where("order_id = ?", older.ID).Count(&itemCount).Error; err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if itemCount != 0 {
		t.Fatalf("order items should be deleted with order, got %d", itemCount)
	}
	gone, err := repo.GetByID(older.ID)
	if err != nil || gone != nil {
		t.Fatalf("deleted order want nil,nil got %+v,%v", gone, err)
	}
}

func TestOrderRepositoryDuplicateOrderNo(t *testing.T) {
	repo := NewOrderRepository(openRepositoryTestDB(t))
	first := &models.Order{OrderNo: "20250101120000100", Total: models.MustMoney("1.00")}
	if err := repo.Create(first, nil); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	second := &models.Order{OrderNo: "20250101120000100", Total: models.MustMoney("1.00")}
	if err := repo.Create(second, nil); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate order no want ErrDuplicate got %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gorm duplicated key", err: gorm.ErrDuplicatedKey, want: true},
		{name: "sqlite message", err: errors.New("UNIQUE constraint failed: users.email"), want: true},
		{name: "other", err: errors.New("connection refused"), want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err); got != tc.want {
				t.Fatalf("want %v got %v", tc.want, got)
			}
		})
	}
}

func TestCupcakeRepositoryCountByImage(t *testing.T) {
	repo := NewCupcakeRepository(openRepositoryTestDB(t))
	first := &models.Cupcake{Flavor: "Ninho", Price: models.MustMoney("6.00"), Image: "ninho.png"}
	second := &models.Cupcake{Flavor: "Ninho Trufado", Price: models.MustMoney("7.00"), Image: "ninho.png"}
	for _, c := range []*models.Cupcake{first, second} {
		if err := repo.Create(c); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	if count, err := repo.CountByImage("ninho.png"); err != nil || count != 2 {
		t.Fatalf("count want 2 got %d (%v)", count, err)
	}
	if err := repo.Delete(first.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if count, err := repo.CountByImage("ninho.png"); err != nil || count != 1 {
		t.Fatalf("count after soft delete want 1 got %d (%v)", count, err)
	}
	if count, err := repo.CountByImage("outro.png"); err != nil || count != 0 {
		t.Fatalf("unused image count want 0 got %d (%v)", count, err)
	}
}
