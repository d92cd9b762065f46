package model

import (
	"database/sql/driver"
	"time"
)

// 细粒度窗口粒度
const (
	GranularityHour    = "hour"
	GranularitySixHour = "six_hour"
)

// SupportEntry 单个支持者的分发条目
type SupportEntry struct {
	Username      string  `json:"username"`
	WalletAddress string  `json:"wallet_address"`
	Percent       float64 `json:"percent"`
}

// SupportEntryList JSON存储的支持者条目数组
type SupportEntryList []SupportEntry

func (l SupportEntryList) Value() (driver.Value, error) {
	return jsonValue(l)
}

func (l *SupportEntryList) Scan(src interface{}) error {
	return jsonScan(src, l)
}

// SupportRecordModel 细粒度窗口记录，一条记录对应一次评分结果。
// 只追加，写入后不再修改。
type SupportRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	CreatorName string `json:"creator_name" gorm:"index:idx_support_creator_window;not null"`
	// 窗口起始时间，统一为UTC unix时间戳
	WindowStart int64  `json:"window_start" gorm:"index:idx_support_creator_window;not null"`
	Granularity string `json:"granularity" gorm:"default:'six_hour'"`

	// 评分调用的审计哈希
	ReqHash string `json:"req_hash"`
	ResHash string `json:"res_hash"`

	// 创作者原始注意力分
	Attention float64 `json:"attention"`

	// 过滤后的支持者分发条目
	Entries SupportEntryList `json:"entries" gorm:"type:jsonb"`
	// 因地址无效或未注册被丢弃的条目数
	Skipped int `json:"skipped"`
}

// TableName 自定义表名
func (SupportRecordModel) TableName() string {
	return "support_record"
}

// RecordSnapshot 汇总条目中物化保存的记录副本
type RecordSnapshot struct {
	WindowStart int64            `json:"window_start"`
	Granularity string           `json:"granularity"`
	Attention   float64          `json:"attention"`
	ReqHash     string           `json:"req_hash"`
	ResHash     string           `json:"res_hash"`
	Entries     SupportEntryList `json:"entries"`
}

// RecordSnapshotList JSON存储的记录副本数组
type RecordSnapshotList []RecordSnapshot

func (l RecordSnapshotList) Value() (driver.Value, error) {
	return jsonValue(l)
}

func (l *RecordSnapshotList) Scan(src interface{}) error {
	return jsonScan(src, l)
}

// Snapshot 生成记录副本
func (r *SupportRecordModel) Snapshot() RecordSnapshot {
	return RecordSnapshot{
		WindowStart: r.WindowStart,
		Granularity: r.Granularity,
		Attention:   r.Attention,
		ReqHash:     r.ReqHash,
		ResHash:     r.ResHash,
		Entries:     r.Entries,
	}
}
