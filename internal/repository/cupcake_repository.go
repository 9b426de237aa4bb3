package repository

import (
	"errors"
	"strings"

	"github.com/dujiao-next/cupcake/internal/constants"
	"github.com/dujiao-next/cupcake/internal/models"

	"gorm.io/gorm"
)

// CupcakeRepository 商品数据访问接口
type CupcakeRepository interface {
	List(filter CupcakeListFilter) ([]models.Cupcake, error)
	GetByID(id uint) (*models.Cupcake, error)
	Create(cupcake *models.Cupcake) error
	Update(cupcake *models.Cupcake) error
	Delete(id uint) error
	CountByImage(filename string) (int64, error)
}

// GormCupcakeRepository GORM 实现
type GormCupcakeRepository struct {
	db *gorm.DB
}

// NewCupcakeRepository 创建商品仓库
func NewCupcakeRepository(db *gorm.DB) *GormCupcakeRepository {
	return &GormCupcakeRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCupcakeRepository) WithTx(tx *gorm.DB) *GormCupcakeRepository {
	if tx == nil {
		return r
	}
	return &GormCupcakeRepository{db: tx}
}

// List 按口味关键字过滤并排序，不分页
func (r *GormCupcakeRepository) List(filter CupcakeListFilter) ([]models.Cupcake, error) {
	query := r.db.Model(&models.Cupcake{})

	if keyword := strings.TrimSpace(filter.Search); keyword != "" {
		condition, arg := buildContainsCondition(r.db, "flavor", keyword)
		query = query.Where(condition, arg)
	}

	switch filter.Sort {
	case constants.CatalogSortPriceAsc:
		query = query.Order("price asc").Order("id asc")
	case constants.CatalogSortPriceDesc:
		query = query.Order("price desc").Order("id asc")
	default:
		query = query.Order("id desc")
	}

	var cupcakes []models.Cupcake
	if err := query.Find(&cupcakes).Error; err != nil {
		return nil, err
	}
	return cupcakes, nil
}

// GetByID 根据 ID 获取商品
func (r *GormCupcakeRepository) GetByID(id uint) (*models.Cupcake, error) {
	var cupcake models.Cupcake
	if err := r.db.First(&cupcake, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cupcake, nil
}

// Create 创建商品
func (r *GormCupcakeRepository) Create(cupcake *models.Cupcake) error {
	return r.db.Create(cupcake).Error
}

// Update 更新商品
func (r *GormCupcakeRepository) Update(cupcake *models.Cupcake) error {
	return r.db.Save(cupcake).Error
}

// Delete 软删除商品，历史订单项仍保留口味与价格快照
func (r *GormCupcakeRepository) Delete(id uint) error {
	return r.db.Delete(&models.Cupcake{}, id).Error
}

// CountByImage 统计引用该图片文件的商品数量，已软删除的不计
func (r *GormCupcakeRepository) CountByImage(filename string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Cupcake{}).Where("image = ?", filename).Count(&count).Error
	return count, err
}
