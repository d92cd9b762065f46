package logic

import (
	"fmt"
	"math"

	"github.com/Attenomics-Labs/attenomics-agent/internal/logger"
	"github.com/Attenomics-Labs/attenomics-agent/internal/model"
	"github.com/Attenomics-Labs/attenomics-agent/internal/scorer"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// SupportLogic 窗口聚合器：把评分结果写入创作者的细粒度时间序列
type SupportLogic struct {
	db        *gorm.DB
	users     *UserLogic
	creators  *CreatorLogic
	normalize bool
}

// NewSupportLogic 创建窗口聚合器。normalize 为真时把单条记录内的
// 百分比归一化到100，这是唯一做归一化的地方。
func NewSupportLogic(db *gorm.DB, normalize bool) *SupportLogic {
	return &SupportLogic{
		db:        db,
		users:     NewUserLogic(db),
		creators:  NewCreatorLogic(db),
		normalize: normalize,
	}
}

// RecordScores 追加一条细粒度窗口记录。逐条解析并过滤评分条目：
// 地址非法或用户名未注册的条目丢弃（记日志后继续），不会整批失败。
// 全部条目都被丢弃时仍然写入记录，保留时间序列占位。
func (s *SupportLogic) RecordScores(
	creatorName string,
	windowStart int64,
	granularity string,
	result *scorer.SupportResult,
	attention float64,
) (*model.SupportRecordModel, error) {
	if creatorName == "" {
		return nil, fmt.Errorf("%w: creator name is required", ErrInvalidInput)
	}
	if windowStart <= 0 {
		return nil, fmt.Errorf("%w: invalid window start %d", ErrInvalidInput, windowStart)
	}
	if granularity != model.GranularityHour && granularity != model.GranularitySixHour {
		return nil, fmt.Errorf("%w: invalid granularity %q", ErrInvalidInput, granularity)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: scorer result is required", ErrInvalidInput)
	}

	if _, err := s.creators.GetCreator(creatorName); err != nil {
		return nil, err
	}

	walletMap, err := s.users.WalletMap()
	if err != nil {
		return nil, err
	}

	entries := make(model.SupportEntryList, 0, len(result.Scores))
	skipped := 0

	for _, score := range result.Scores {
		wallet := score.WalletAddress
		// 没有直接给地址时，通过注册表解析用户名
		if wallet == "" {
			resolved, ok := walletMap[score.Username]
			if !ok {
				logger.Info("User %s is not registered, skipping entry", score.Username)
				skipped++
				continue
			}
			wallet = resolved
		}
		if !common.IsHexAddress(wallet) {
			logger.Info("Skipping entry with invalid wallet address %q", wallet)
			skipped++
			continue
		}
		if math.IsNaN(score.Percent) || math.IsInf(score.Percent, 0) || score.Percent < 0 {
			logger.Info("Skipping entry with invalid percent for wallet %s", wallet)
			skipped++
			continue
		}

		entries = append(entries, model.SupportEntry{
			Username:      score.Username,
			WalletAddress: common.HexToAddress(wallet).Hex(),
			Percent:       score.Percent,
		})
	}

	if s.normalize {
		entries = normalizeEntries(entries)
	}

	record := &model.SupportRecordModel{
		CreatorName: creatorName,
		WindowStart: windowStart,
		Granularity: granularity,
		ReqHash:     result.ReqHash,
		ResHash:     result.ResHash,
		Attention:   attention,
		Entries:     entries,
		Skipped:     skipped,
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to store support record for %s: %w", creatorName, err)
	}

	logger.Info("Recorded support scores for %s at %d: %d entries, %d skipped",
		creatorName, windowStart, len(entries), skipped)

	return record, nil
}

// RecordAttention 追加一条创作者级别的注意力审计记录
func (s *SupportLogic) RecordAttention(creatorName string, windowStart int64, attention float64, reqHash, resHash string) error {
	record := &model.AttentionRecordModel{
		CreatorName: creatorName,
		WindowStart: windowStart,
		Attention:   attention,
		ReqHash:     reqHash,
		ResHash:     resHash,
	}
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to store attention record for %s: %w", creatorName, err)
	}
	return nil
}

// normalizeEntries 把一条记录内的百分比缩放到总和100
func normalizeEntries(entries model.SupportEntryList) model.SupportEntryList {
	var sum float64
	for _, e := range entries {
		sum += e.Percent
	}
	if sum <= 0 {
		return entries
	}
	for i := range entries {
		entries[i].Percent = entries[i].Percent / sum * 100
	}
	return entries
}
