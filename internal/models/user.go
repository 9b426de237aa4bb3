package models

import (
	"time"
)

// User 用户表
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                // 主键
	Name         string    `gorm:"type:varchar(120);not null" json:"name"`              // 显示名称
	Email        string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"email"` // 邮箱（唯一）
	PasswordHash string    `gorm:"type:varchar(256);not null" json:"-"`                 // 密码哈希（不返回给前端）
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`              // 是否管理员
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                          // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
