package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dujiao-next/cupcake/internal/config"
	"github.com/dujiao-next/cupcake/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
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

func newServiceTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Upload.Dir = t.TempDir()
	cfg.JWT.SecretKey = "service-test-secret"
	return cfg
}

func seedCupcake(t *testing.T, db *gorm.DB, flavor, price, image string) *models.Cupcake {
	t.Helper()
	cupcake := &models.Cupcake{Flavor: flavor, Description: flavor, Price: models.MustMoney(price), Image: image}
	if err := db.Create(cupcake).Error; err != nil {
		t.Fatalf("seed cupcake failed: %v", err)
	}
	return cupcake
}
