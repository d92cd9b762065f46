package model

import (
	"time"
)

// UserModel 注册用户模型，只有注册用户可以参与支持者分发
type UserModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username      string `json:"username" gorm:"uniqueIndex;not null" binding:"required"`
	WalletAddress string `json:"wallet_address" gorm:"not null" binding:"required"`
}

// TableName 自定义表名
func (UserModel) TableName() string {
	return "registered_user"
}
