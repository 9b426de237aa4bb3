package models

// OrderItem 订单项表，价格与口味为下单时快照
type OrderItem struct {
	ID        uint   `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID   uint   `gorm:"index;not null" json:"order_id"`                          // 订单ID
	CupcakeID uint   `gorm:"index;not null" json:"cupcake_id"`                        // 商品ID
	Flavor    string `gorm:"type:varchar(200);not null" json:"flavor"`                // 口味快照
	Quantity  int    `gorm:"not null" json:"quantity"`                                // 数量
	UnitPrice Money  `gorm:"type:decimal(10,2);not null;default:0" json:"unit_price"` // 下单时单价
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal 小计
func (i OrderItem) Subtotal() Money {
	return i.UnitPrice.MulInt(i.Quantity)
}
