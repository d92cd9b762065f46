package logic

import (
	"fmt"

	"github.com/Attenomics-Labs/attenomics-agent/internal/model"
	"gorm.io/gorm"
)

// RollupResult 窗口汇总结果
type RollupResult struct {
	// Recipients 按首次出现顺序排列，保证重复汇总产生逐字节相同的编码
	Recipients []string
	// Amounts 代币数量（浮点），与Recipients一一对应
	Amounts []float64
	Total   float64
	// Records 参与汇总的细粒度记录
	Records []model.SupportRecordModel
}

// RollupLogic 汇总引擎：把细粒度记录折算成钱包级别的代币数量
type RollupLogic struct {
	db *gorm.DB
}

// NewRollupLogic 创建汇总引擎
func NewRollupLogic(db *gorm.DB) *RollupLogic {
	return &RollupLogic{db: db}
}

// Rollup 扫描 [windowStart, windowEnd) 半开区间内的细粒度记录，
// 每个条目贡献 dripRate × percent / 100，按钱包累加。
// 恰好落在 windowEnd 上的记录属于下一个窗口，避免重复计算。
// 窗口内没有记录时返回 ErrNoDataForWindow，调用方应跳过该窗口。
func (r *RollupLogic) Rollup(creatorName string, windowStart, windowEnd int64, dripRate float64) (*RollupResult, error) {
	if creatorName == "" {
		return nil, fmt.Errorf("%w: creator name is required", ErrInvalidInput)
	}
	if windowEnd <= windowStart {
		return nil, fmt.Errorf("%w: window end %d not after start %d", ErrInvalidInput, windowEnd, windowStart)
	}
	if dripRate < 0 {
		return nil, fmt.Errorf("%w: negative drip rate", ErrInvalidInput)
	}

	var records []model.SupportRecordModel
	err := r.db.
		Where("creator_name = ? AND window_start >= ? AND window_start < ?", creatorName, windowStart, windowEnd).
		Order("window_start ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scan support records for %s: %w", creatorName, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: creator %s window [%d, %d)", ErrNoDataForWindow, creatorName, windowStart, windowEnd)
	}

	amounts := make(map[string]float64)
	var order []string

	for _, record := range records {
		for _, entry := range record.Entries {
			if _, seen := amounts[entry.WalletAddress]; !seen {
				order = append(order, entry.WalletAddress)
			}
			amounts[entry.WalletAddress] += dripRate * (entry.Percent / 100)
		}
	}

	result := &RollupResult{
		Recipients: make([]string, 0, len(order)),
		Amounts:    make([]float64, 0, len(order)),
		Records:    records,
	}
	for _, wallet := range order {
		result.Recipients = append(result.Recipients, wallet)
		result.Amounts = append(result.Amounts, amounts[wallet])
		result.Total += amounts[wallet]
	}

	return result, nil
}
