package service

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/dujiao-next/cupcake/internal/cache"
	"github.com/dujiao-next/cupcake/internal/config"
	"github.com/dujiao-next/cupcake/internal/constants"
	"github.com/dujiao-next/cupcake/internal/logger"
	"github.com/dujiao-next/cupcake/internal/models"
	"github.com/dujiao-next/cupcake/internal/repository"
	"github.com/dujiao-next/cupcake/internal/session"
)

// CatalogService 商品目录服务
type CatalogService struct {
	cfg    *config.Config
	repo   repository.CupcakeRepository
	images *ImageStore
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(cfg *config.Config, repo repository.CupcakeRepository, images *ImageStore) *CatalogService {
	return &CatalogService{cfg: cfg, repo: repo, images: images}
}

// ListCupcakesInput 商品列表查询参数
type ListCupcakesInput struct {
	Search string `form:"search"`
	Sort   string `form:"sort"`
}

// CupcakeInput 商品新建与编辑参数
type CupcakeInput struct {
	Flavor      string `form:"flavor" json:"flavor"`
	Description string `form:"description" json:"description"`
	Details     string `form:"details" json:"details"`
	Price       string `form:"price" json:"price"`
}

// CatalogFeedItem 目录接口条目
type CatalogFeedItem struct {
	ID          uint   `json:"id"`
	Flavor      string `json:"flavor"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
}

// NormalizeSort 归一化排序参数，兼容 menor / maior
func NormalizeSort(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case constants.CatalogSortPriceAsc, "menor":
		return constants.CatalogSortPriceAsc
	case constants.CatalogSortPriceDesc, "maior":
		return constants.CatalogSortPriceDesc
	default:
		return constants.CatalogSortNone
	}
}

// List 按口味过滤并排序
func (s *CatalogService) List(input ListCupcakesInput) ([]models.Cupcake, error) {
	return s.repo.List(repository.CupcakeListFilter{
		Search: strings.TrimSpace(input.Search),
		Sort:   NormalizeSort(input.Sort),
	})
}

// Get 获取商品详情
func (s *CatalogService) Get(id uint) (*models.Cupcake, error) {
	cupcake, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cupcake == nil {
		return nil, ErrCupcakeNotFound
	}
	return cupcake, nil
}

// Create 管理员新建商品，图片可选
func (s *CatalogService) Create(identity session.Identity, input CupcakeInput, image *multipart.FileHeader) (*models.Cupcake, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	cupcake := &models.Cupcake{}
	if err := applyCupcakeInput(cupcake, input); err != nil {
		return nil, err
	}
	filename, err := s.images.Save(image)
	if err != nil {
		return nil, err
	}
	cupcake.Image = filename

	if err := s.repo.Create(cupcake); err != nil {
		s.discardUpload(filename)
		return nil, err
	}
	s.invalidateFeed()
	logger.Infow("catalog_cupcake_created", "cupcake_id", cupcake.ID, "admin_id", identity.UserID)
	return cupcake, nil
}

// Update 管理员编辑商品，仅在上传新文件时替换图片
func (s *CatalogService) Update(identity session.Identity, id uint, input CupcakeInput, image *multipart.FileHeader) (*models.Cupcake, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	cupcake, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := applyCupcakeInput(cupcake, input); err != nil {
		return nil, err
	}
	filename, err := s.images.Save(image)
	if err != nil {
		return nil, err
	}
	if filename != "" {
		cupcake.Image = filename
	}

	if err := s.repo.Update(cupcake); err != nil {
		s.discardUpload(filename)
		return nil, err
	}
	s.invalidateFeed()
	logger.Infow("catalog_cupcake_updated", "cupcake_id", cupcake.ID, "admin_id", identity.UserID)
	return cupcake, nil
}

// Delete 管理员删除商品，图片删除失败只记录日志
func (s *CatalogService) Delete(identity session.Identity, id uint) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}
	cupcake, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(cupcake.ID); err != nil {
		return err
	}
	if cupcake.HasImage() {
		s.removeUnusedImage(cupcake.ID, cupcake.Image)
	}
	s.invalidateFeed()
	logger.Infow("catalog_cupcake_deleted", "cupcake_id", cupcake.ID, "admin_id", identity.UserID)
	return nil
}

// discardUpload 写库失败后清理刚保存的图片，仍被其他商品引用时保留
func (s *CatalogService) discardUpload(filename string) {
	if filename == "" {
		return
	}
	s.removeUnusedImage(0, filename)
}

// removeUnusedImage 尽力删除不再被任何商品引用的图片文件
func (s *CatalogService) removeUnusedImage(cupcakeID uint, filename string) {
	inUse, err := s.repo.CountByImage(filename)
	if err != nil {
		logger.Warnw("catalog_image_usage_check_failed", "cupcake_id", cupcakeID, "image", filename, "error", err)
		return
	}
	if inUse > 0 {
		logger.Debugw("catalog_image_kept_in_use", "cupcake_id", cupcakeID, "image", filename, "references", inUse)
		return
	}
	if err := s.images.Remove(filename); err != nil {
		logger.Warnw("catalog_image_remove_failed", "cupcake_id", cupcakeID, "image", filename, "error", err)
	}
}

// Feed 目录 JSON 接口，无过滤条件时走缓存
func (s *CatalogService) Feed(ctx context.Context, input ListCupcakesInput) ([]CatalogFeedItem, error) {
	cacheable := strings.TrimSpace(input.Search) == "" && NormalizeSort(input.Sort) == constants.CatalogSortNone
	if cacheable {
		var cached []CatalogFeedItem
		hit, err := cache.GetCatalogFeed(ctx, &cached)
		if err == nil && hit {
			return cached, nil
		}
		if err != nil {
			logger.Warnw("catalog_feed_cache_read_failed", "error", err)
		}
	}

	cupcakes, err := s.List(input)
	if err != nil {
		return nil, err
	}
	items := make([]CatalogFeedItem, 0, len(cupcakes))
	for _, cupcake := range cupcakes {
		items = append(items, s.FeedItem(cupcake))
	}

	if cacheable {
		if err := cache.SetCatalogFeed(ctx, items, s.feedTTL()); err != nil {
			logger.Warnw("catalog_feed_cache_write_failed", "error", err)
		}
	}
	return items, nil
}

// FeedItem 转换为目录接口条目
func (s *CatalogService) FeedItem(cupcake models.Cupcake) CatalogFeedItem {
	return CatalogFeedItem{
		ID:          cupcake.ID,
		Flavor:      cupcake.Flavor,
		Description: cupcake.Description,
		Price:       cupcake.Price.StringFixed(2),
		ImageURL:    PublicURL(cupcake.Image, s.defaultImage()),
	}
}

func (s *CatalogService) defaultImage() string {
	if s.cfg == nil {
		return ""
	}
	return s.cfg.Catalog.DefaultImage
}

func (s *CatalogService) feedTTL() time.Duration {
	if s.cfg == nil {
		return 0
	}
	return time.Duration(s.cfg.Catalog.FeedCacheTTLSeconds) * time.Second
}

func (s *CatalogService) invalidateFeed() {
	if err := cache.InvalidateCatalogFeed(context.Background()); err != nil {
		logger.Warnw("catalog_feed_cache_invalidate_failed", "error", err)
	}
}

func applyCupcakeInput(cupcake *models.Cupcake, input CupcakeInput) error {
	flavor := strings.TrimSpace(input.Flavor)
	if flavor == "" {
		return ErrFlavorRequired
	}
	price, err := models.NewMoneyFromString(input.Price)
	if err != nil || !price.IsPositive() {
		return ErrInvalidPrice
	}
	cupcake.Flavor = flavor
	cupcake.Description = strings.TrimSpace(input.Description)
	cupcake.Details = strings.TrimSpace(input.Details)
	cupcake.Price = price
	return nil
}

func requireAdmin(identity session.Identity) error {
	if !identity.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if !identity.IsAdmin {
		return ErrForbidden
	}
	return nil
}
