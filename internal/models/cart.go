package models

// CartLine 购物袋条目，口味与价格为加入时的快照
type CartLine struct {
	CupcakeID uint   `json:"cupcake_id"`
	Flavor    string `json:"flavor"`
	Price     Money  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Subtotal 小计
func (l CartLine) Subtotal() Money {
	return l.Price.MulInt(l.Quantity)
}

// Cart 会话购物袋，不落库，按加入顺序排列
type Cart []CartLine

// Total 汇总金额，空购物袋为 0
func (c Cart) Total() Money {
	total := ZeroMoney()
	for _, line := range c {
		total = total.Plus(line.Subtotal())
	}
	return total
}

// IsEmpty 是否为空
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// Count 商品总件数
func (c Cart) Count() int {
	count := 0
	for _, line := range c {
		count += line.Quantity
	}
	return count
}

// IndexOf 查找条目位置，不存在返回 -1
func (c Cart) IndexOf(cupcakeID uint) int {
	for i, line := range c {
		if line.CupcakeID == cupcakeID {
			return i
		}
	}
	return -1
}

// Clone 复制购物袋，修改副本不影响原值
func (c Cart) Clone() Cart {
	if c == nil {
		return Cart{}
	}
	out := make(Cart, len(c))
	copy(out, c)
	return out
}
