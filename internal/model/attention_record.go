package model

import (
	"time"
)

// AttentionRecordModel 创作者级别的小时注意力记录，仅用于审计，不参与代币计算
type AttentionRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	CreatorName string  `json:"creator_name" gorm:"index:idx_attention_creator_window;not null"`
	WindowStart int64   `json:"window_start" gorm:"index:idx_attention_creator_window;not null"`
	Attention   float64 `json:"attention"`
	ReqHash     string  `json:"req_hash"`
	ResHash     string  `json:"res_hash"`
}

// TableName 自定义表名
func (AttentionRecordModel) TableName() string {
	return "attention_record"
}
