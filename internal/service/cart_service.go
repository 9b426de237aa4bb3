package service

import (
	"strconv"
	"strings"

	"github.com/dujiao-next/cupcake/internal/models"
	"github.com/dujiao-next/cupcake/internal/repository"
)

// UpdateQuantitiesInput 批量修改数量，值为原始表单字符串
type UpdateQuantitiesInput struct {
	Quantities map[uint]string `json:"quantities"`
}

// CartService 购物袋服务，对会话中的购物袋值做纯函数变换
type CartService struct {
	cupcakeRepo repository.CupcakeRepository
}

// NewCartService 创建购物袋服务
func NewCartService(cupcakeRepo repository.CupcakeRepository) *CartService {
	return &CartService{cupcakeRepo: cupcakeRepo}
}

// Add 加入一个商品，已存在时数量加 1，否则以当前口味与价格追加
func (s *CartService) Add(cart models.Cart, cupcakeID uint) (models.Cart, error) {
	cupcake, err := s.cupcakeRepo.GetByID(cupcakeID)
	if err != nil {
		return cart, err
	}
	if cupcake == nil {
		return cart, ErrCupcakeNotFound
	}

	next := cart.Clone()
	if idx := next.IndexOf(cupcake.ID); idx >= 0 {
		next[idx].Quantity++
		return next, nil
	}
	next = append(next, models.CartLine{
		CupcakeID: cupcake.ID,
		Flavor:    cupcake.Flavor,
		Price:     cupcake.Price,
		Quantity:  1,
	})
	return next, nil
}

// UpdateQuantities 仅更新购物袋中已有且取值为非负整数的条目，0 保留条目
func (s *CartService) UpdateQuantities(cart models.Cart, input UpdateQuantitiesInput) models.Cart {
	next := cart.Clone()
	for i := range next {
		raw, ok := input.Quantities[next[i].CupcakeID]
		if !ok {
			continue
		}
		if quantity, ok := parseQuantity(raw); ok {
			next[i].Quantity = quantity
		}
	}
	return next
}

// Remove 移除条目，不存在时原样返回
func (s *CartService) Remove(cart models.Cart, cupcakeID uint) models.Cart {
	next := make(models.Cart, 0, len(cart))
	for _, line := range cart {
		if line.CupcakeID != cupcakeID {
			next = append(next, line)
		}
	}
	return next
}

// Total 购物袋合计
func (s *CartService) Total(cart models.Cart) models.Money {
	return cart.Total()
}

// Clear 返回空购物袋
func (s *CartService) Clear() models.Cart {
	return models.Cart{}
}

func parseQuantity(raw string) (int, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	quantity, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return quantity, true
}
