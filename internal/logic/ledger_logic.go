package logic

import (
	"errors"
	"fmt"

	"github.com/Attenomics-Labs/attenomics-agent/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerLogic 分发账本：每个 (creator, window) 至多一条条目
type LedgerLogic struct {
	db *gorm.DB
}

// NewLedgerLogic 创建分发账本逻辑
func NewLedgerLogic(db *gorm.DB) *LedgerLogic {
	return &LedgerLogic{db: db}
}

// CreateEntryIfAbsent 原子地创建账本条目。依赖 (creator_name, window_start)
// 唯一索引做并发安全的去重，条目已存在时返回 (nil, nil)，这是定时汇总任务
// 幂等重跑的约定行为，不是错误。
func (l *LedgerLogic) CreateEntryIfAbsent(entry *model.DistributionEntryModel) (*model.DistributionEntryModel, error) {
	if entry.CreatorName == "" || entry.WindowStart <= 0 {
		return nil, fmt.Errorf("%w: entry requires creator name and window start", ErrInvalidInput)
	}
	entry.Status = model.DistributionStatusPending

	result := l.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "creator_name"}, {Name: "window_start"}},
		DoNothing: true,
	}).Create(entry)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to create distribution entry for %s/%d: %w",
			entry.CreatorName, entry.WindowStart, result.Error)
	}
	if result.RowsAffected == 0 {
		// 条目已存在，幂等跳过
		return nil, nil
	}
	return entry, nil
}

// GetEntry 查询账本条目
func (l *LedgerLogic) GetEntry(creatorName string, windowStart int64) (*model.DistributionEntryModel, error) {
	var entry model.DistributionEntryModel
	err := l.db.
		Where("creator_name = ? AND window_start = ?", creatorName, windowStart).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch distribution entry for %s/%d: %w", creatorName, windowStart, err)
	}
	return &entry, nil
}

// GetEntries 查询创作者的全部账本条目
func (l *LedgerLogic) GetEntries(creatorName string) ([]model.DistributionEntryModel, error) {
	var entries []model.DistributionEntryModel
	err := l.db.
		Where("creator_name = ?", creatorName).
		Order("window_start ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch distribution entries for %s: %w", creatorName, err)
	}
	return entries, nil
}

// ListPending 查询所有待广播条目。状态字段是唯一的事实来源，
// 不从其他数据重新推导。
func (l *LedgerLogic) ListPending() ([]model.DistributionEntryModel, error) {
	var entries []model.DistributionEntryModel
	err := l.db.
		Where("status = ?", model.DistributionStatusPending).
		Order("creator_name ASC, window_start ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending distribution entries: %w", err)
	}
	return entries, nil
}

// MarkBroadcasted 把条目推进到broadcasted终态，同时记录交易哈希和广播方式。
// WHERE条件限定pending，保证状态只能前进，已广播的条目不会被改写。
func (l *LedgerLogic) MarkBroadcasted(entryId int64, txHash, method string) error {
	result := l.db.Model(&model.DistributionEntryModel{}).
		Where("id = ? AND status = ?", entryId, model.DistributionStatusPending).
		Updates(map[string]interface{}{
			"status":  model.DistributionStatusBroadcasted,
			"tx_hash": txHash,
			"method":  method,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark entry %d broadcasted: %w", entryId, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("entry %d is not pending", entryId)
	}
	return nil
}
