package repository

// CupcakeListFilter 查询商品列表的过滤条件
type CupcakeListFilter struct {
	Search string // 口味关键字，大小写不敏感的包含匹配
	Sort   string // price_asc / price_desc，其余按 id 倒序
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	OrderNo  string
}
