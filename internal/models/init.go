package models

import (
	"errors"
	"strings"

	"github.com/dujiao-next/cupcake/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultAdminPassword = "admin123"

// SeedOptions 初始数据选项
type SeedOptions struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
	Cupcakes      bool
}

// DefaultCupcakes 店铺开张时的默认商品
func DefaultCupcakes() []Cupcake {
	return []Cupcake{
		{Flavor: "Morango com Ninho", Description: "Massa macia com Ninho", Details: "Delicioso", Price: MustMoney("6.50")},
		{Flavor: "Chocolate Belga", Description: "Cobertura de chocolate belga", Details: "Intenso", Price: MustMoney("7.00")},
		{Flavor: "Ninho", Description: "Massa fofinha com recheio de Ninho", Details: "Perfeito para festas", Price: MustMoney("6.00")},
		{Flavor: "Red Velvet", Description: "Bolo vermelho com cream cheese", Details: "Clássico americano", Price: MustMoney("7.50")},
		{Flavor: "Bicho de Pé", Description: "Massa rosa com cobertura de leite condensado", Details: "Delícia nostálgica", Price: MustMoney("6.80")},
	}
}

// InitDefaultData 初始化默认管理员与默认商品，已存在时跳过
func InitDefaultData(db *gorm.DB, opts SeedOptions) error {
	if db == nil {
		return errors.New("db is nil")
	}
	if err := initDefaultAdmin(db, opts); err != nil {
		return err
	}
	if !opts.Cupcakes {
		return nil
	}
	return initDefaultCupcakes(db)
}

func initDefaultAdmin(db *gorm.DB, opts SeedOptions) error {
	email := strings.ToLower(strings.TrimSpace(opts.AdminEmail))
	if email == "" {
		email = "admin@cupcake.com"
	}
	var count int64
	if err := db.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	name := strings.TrimSpace(opts.AdminName)
	if name == "" {
		name = "Administrador"
	}
	password := opts.AdminPassword
	if password == "" {
		password = defaultAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	if password == defaultAdminPassword {
		logger.Warnw("default_admin_created_with_default_password", "email", email)
		logger.Warnw("default_admin_password_change_required", "email", email)
	} else {
		logger.Infow("default_admin_created", "email", email, "password_hidden", true)
	}
	return nil
}

func initDefaultCupcakes(db *gorm.DB) error {
	var count int64
	if err := db.Unscoped().Model(&Cupcake{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	cupcakes := DefaultCupcakes()
	if err := db.Create(&cupcakes).Error; err != nil {
		return err
	}
	logger.Infow("default_cupcakes_created", "count", len(cupcakes))
	return nil
}
