package models

import (
	"time"
)

// Order 订单表（创建后不可变）
type Order struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                  // 主键
	OrderNo   string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_no"` // 订单编号
	UserID    *uint     `gorm:"index" json:"user_id"`                                  // 用户ID（游客下单为空）
	Total     Money     `gorm:"type:decimal(10,2);not null;default:0" json:"total"`    // 订单总额
	CreatedAt time.Time `gorm:"index" json:"created_at"`                               // 创建时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// ItemsTotal 按订单项重新汇总金额
func (o *Order) ItemsTotal() Money {
	total := ZeroMoney()
	if o == nil {
		return total
	}
	for _, item := range o.Items {
		total = total.Plus(item.Subtotal())
	}
	return total
}
