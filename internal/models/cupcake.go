package models

import (
	"time"

	"gorm.io/gorm"
)

// Cupcake 商品（纸杯蛋糕）表
type Cupcake struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键
	Flavor      string         `gorm:"type:varchar(200);not null;index" json:"flavor"`     // 口味
	Description string         `gorm:"type:varchar(500)" json:"description"`               // 简短描述
	Details     string         `gorm:"type:text" json:"details"`                           // 详细说明
	Price       Money          `gorm:"type:decimal(10,2);not null;default:0" json:"price"` // 单价
	Image       string         `gorm:"type:varchar(300)" json:"image"`                     // 图片文件名（位于上传目录）
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (Cupcake) TableName() string {
	return "cupcakes"
}

// HasImage 是否关联了图片
func (c *Cupcake) HasImage() bool {
	return c != nil && c.Image != ""
}
