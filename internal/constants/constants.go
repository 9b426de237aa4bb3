package constants

// 角色常量
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// 商品排序方式
const (
	CatalogSortNone      = ""
	CatalogSortPriceAsc  = "price_asc"
	CatalogSortPriceDesc = "price_desc"
)

// 会话字段
const (
	SessionStateKey   = "state"
	SessionContextKey = "session_ctx"
)

// 队列与任务常量
const (
	QueueDefault          = "default"
	QueueCritical         = "critical"
	TaskOrderPlacedNotify = "order:placed_notify"
)

// 上传相关常量
const (
	UploadURLPrefix = "/uploads"
)

// 缓存 key
const (
	CacheKeyCatalogFeed = "catalog:feed"
)
