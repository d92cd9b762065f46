package model

import (
	"time"
)

// DistributionStatus 分发条目广播状态
type DistributionStatus string

const (
	// 状态机只有 pending -> broadcasted 一条路径，broadcasted 为终态
	DistributionStatusPending     DistributionStatus = "pending"
	DistributionStatusBroadcasted DistributionStatus = "broadcasted"
)

// 窗口类型
const (
	WindowKindDay  = "day"
	WindowKindWeek = "week"
)

// 广播方式
const (
	MethodSignature = "signature"
	MethodDirect    = "direct"
)

// DistributionEntryModel 分发账本条目，每个 (creator, window) 至多一条。
// 唯一索引 uniq_dist_creator_window 是幂等创建的依据。
type DistributionEntryModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CreatorName string `json:"creator_name" gorm:"uniqueIndex:uniq_dist_creator_window;not null"`
	// 窗口起始时间，统一为UTC unix时间戳
	WindowStart int64 `json:"window_start" gorm:"uniqueIndex:uniq_dist_creator_window;not null"`
	// 可读窗口标签，例如 "2025-03-10"
	WindowLabel string `json:"window_label"`
	WindowKind  string `json:"window_kind" gorm:"default:'day'"`

	// 创建时从创作者快照的链上信息
	TokenContract       string `json:"token_contract"`
	DistributorContract string `json:"distributor_contract"`
	Scheme              string `json:"scheme"`

	// 分发数据，金额为wei字符串，顺序与recipients一一对应
	Recipients  StringList `json:"recipients" gorm:"type:jsonb"`
	Amounts     StringList `json:"amounts" gorm:"type:jsonb"`
	TotalAmount string     `json:"total_amount"`

	// 参与汇总的细粒度记录副本（审计用）
	SourceRecords RecordSnapshotList `json:"source_records" gorm:"type:jsonb"`

	// 签名广播所需数据
	EncodedData string `json:"encoded_data" gorm:"type:text"`
	DataHash    string `json:"data_hash"`
	SignedHash  string `json:"signed_hash"`

	// 广播状态
	Status DistributionStatus `json:"status" gorm:"index;default:'pending'"`
	TxHash string             `json:"tx_hash"`
	Method string             `json:"method"`
}

// TableName 自定义表名
func (DistributionEntryModel) TableName() string {
	return "distribution_entry"
}
