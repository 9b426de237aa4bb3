package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/dujiao-next/cupcake/internal/config"
	"github.com/dujiao-next/cupcake/internal/logger"
	"github.com/dujiao-next/cupcake/internal/models"
	"github.com/dujiao-next/cupcake/internal/repository"
	"github.com/dujiao-next/cupcake/internal/service"
	"github.com/dujiao-next/cupcake/internal/session"
)

func main() {
	var withOrders bool
	flag.BoolVar(&withOrders, "orders", true, "为演示顾客生成示例订单")
	flag.Parse()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.LogLevel, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 管理员与默认商品
	if err := models.InitDefaultData(models.DB, models.SeedOptions{
		AdminName:     cfg.Seed.AdminName,
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminPassword: cfg.Seed.AdminPassword,
		Cupcakes:      true,
	}); err != nil {
		stdLog.Fatalf("Failed to seed default data: %v", err)
	}

	userRepo := repository.NewUserRepository(models.DB)
	cupcakeRepo := repository.NewCupcakeRepository(models.DB)
	accounts := service.NewAccountService(cfg, userRepo, nil)

	// 演示顾客
	customers := []service.RegisterInput{
		{Name: "Maria Souza", Email: "maria@cupcake.com", Password: "maria123"},
		{Name: "João Lima", Email: "joao@cupcake.com", Password: "joao1234"},
	}
	var identities []session.Identity
	for _, input := range customers {
		_, identity, err := accounts.Register(input)
		if errors.Is(err, service.ErrEmailExists) {
			stdLog.Printf("Customer already exists: %s", input.Email)
			continue
		}
		if err != nil {
			stdLog.Printf("Failed to create customer %s: %v", input.Email, err)
			continue
		}
		stdLog.Printf("Created customer: %s", input.Email)
		identities = append(identities, identity)
	}

	// 示例订单，只为本次新建的顾客生成
	orderCount := 0
	if withOrders {
		carts := service.NewCartService(cupcakeRepo)
		checkout := service.NewCheckoutService(repository.NewOrderRepository(models.DB), nil)
		cupcakes, err := cupcakeRepo.List(repository.CupcakeListFilter{})
		if err != nil {
			stdLog.Fatalf("Failed to load cupcakes: %v", err)
		}
		for i, identity := range identities {
			if len(cupcakes) == 0 {
				break
			}
			cart := models.Cart{}
			for n := 0; n <= i; n++ {
				picked := cupcakes[(i+n)%len(cupcakes)]
				if cart, err = carts.Add(cart, picked.ID); err != nil {
					stdLog.Printf("Failed to add cupcake %d: %v", picked.ID, err)
				}
			}
			userID := identity.UserID
			order, _, err := checkout.Checkout(service.CheckoutInput{Cart: cart, UserID: &userID})
			if err != nil {
				stdLog.Printf("Failed to create order for user %d: %v", userID, err)
				continue
			}
			stdLog.Printf("Created order %s (%s)", order.OrderNo, order.Total.String())
			orderCount++
		}
	}

	fmt.Println("\n✅ Seed data created successfully!")
	fmt.Println("Summary:")
	fmt.Printf("- %d Cupcakes (default catalog)\n", len(models.DefaultCupcakes()))
	fmt.Printf("- %d new customers\n", len(identities))
	fmt.Printf("- %d sample orders\n", orderCount)
	fmt.Printf("- Admin: %s\n", cfg.Seed.AdminEmail)
}
