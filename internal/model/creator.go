package model

import (
	"time"
)

// ZeroAddress 未部署合约时的占位地址
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// CreatorModel 创作者模型
type CreatorModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 身份信息
	CreatorName string `json:"creator_name" gorm:"uniqueIndex;not null" binding:"required"`

	// 链上信息
	TokenContract       string `json:"token_contract"`
	DistributorContract string `json:"distributor_contract"`
	WalletAddress       string `json:"wallet_address"`

	// 分发方案标签
	Scheme string `json:"scheme" gorm:"default:'default'"`
}

// TableName 自定义表名
func (CreatorModel) TableName() string {
	return "creator"
}

// HasDistributor 是否已配置分发合约
func (c *CreatorModel) HasDistributor() bool {
	return c.DistributorContract != "" && c.DistributorContract != ZeroAddress
}
