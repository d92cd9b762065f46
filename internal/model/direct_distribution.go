package model

import (
	"time"
)

// DirectDistributionModel 手工创建的直接分发条目，由广播任务统一提交上链
type DirectDistributionModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CreatorName         string `json:"creator_name" gorm:"index;not null"`
	TokenContract       string `json:"token_contract"`
	DistributorContract string `json:"distributor_contract" gorm:"not null"`

	Recipients  StringList `json:"recipients" gorm:"type:jsonb"`
	Amounts     StringList `json:"amounts" gorm:"type:jsonb"`
	TotalAmount string     `json:"total_amount"`

	Status DistributionStatus `json:"status" gorm:"index;default:'pending'"`
	TxHash string             `json:"tx_hash"`
}

// TableName 自定义表名
func (DirectDistributionModel) TableName() string {
	return "direct_distribution"
}
