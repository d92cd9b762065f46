package logic

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Attenomics-Labs/attenomics-agent/internal/chain"
	"github.com/Attenomics-Labs/attenomics-agent/internal/distribution"
	"github.com/Attenomics-Labs/attenomics-agent/internal/logger"
	"github.com/Attenomics-Labs/attenomics-agent/internal/model"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// 批处理单元结局
const (
	OutcomeCreated = "created"
	OutcomeSkipped = "skipped"
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// WindowOutcome 单个创作者在一次汇总批处理中的结局
type WindowOutcome struct {
	CreatorName string `json:"creator_name"`
	WindowLabel string `json:"window_label"`
	Status      string `json:"status"`
	Reason      string `json:"reason,omitempty"`
}

// DistributionLogic 汇总编排：对每个创作者执行 汇总 → 构建 → 入账
type DistributionLogic struct {
	db       *gorm.DB
	creators *CreatorLogic
	rollup   *RollupLogic
	ledger   *LedgerLogic
	builder  *distribution.Builder
	sink     chain.Distributor
	poolSize int
}

// NewDistributionLogic 创建汇总编排逻辑
func NewDistributionLogic(db *gorm.DB, builder *distribution.Builder, sink chain.Distributor, poolSize int) *DistributionLogic {
	if poolSize <= 0 {
		poolSize = 1
	}
	return &DistributionLogic{
		db:       db,
		creators: NewCreatorLogic(db),
		rollup:   NewRollupLogic(db),
		ledger:   NewLedgerLogic(db),
		builder:  builder,
		sink:     sink,
		poolSize: poolSize,
	}
}

// CreateForAll 为所有创作者创建指定窗口的分发条目。创作者之间相互独立，
// 通过协程池并行处理（各自只写自己的行，注册表在批处理期间只读），
// 单个创作者的失败不影响其他创作者。
func (d *DistributionLogic) CreateForAll(ctx context.Context, windowStart, windowEnd int64, label, kind string) ([]WindowOutcome, error) {
	creators, err := d.creators.GetCreators()
	if err != nil {
		return nil, err
	}
	if len(creators) == 0 {
		return nil, fmt.Errorf("%w: no creators found", ErrInvalidInput)
	}

	pool, err := ants.NewPool(d.poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		outcomes []WindowOutcome
	)

	for _, creator := range creators {
		creator := creator
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			outcome := d.CreateForCreator(ctx, &creator, windowStart, windowEnd, label, kind)
			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			outcomes = append(outcomes, WindowOutcome{
				CreatorName: creator.CreatorName,
				WindowLabel: label,
				Status:      OutcomeFailed,
				Reason:      submitErr.Error(),
			})
			mu.Unlock()
		}
	}

	wg.Wait()

	// 并行收集的结果按创作者名排序，保证响应稳定
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].CreatorName < outcomes[j].CreatorName
	})

	return outcomes, nil
}

// CreateForCreator 为单个创作者创建指定窗口的分发条目
func (d *DistributionLogic) CreateForCreator(ctx context.Context, creator *model.CreatorModel, windowStart, windowEnd int64, label, kind string) WindowOutcome {
	outcome := WindowOutcome{CreatorName: creator.CreatorName, WindowLabel: label}

	if !creator.HasDistributor() {
		logger.Info("No distributor contract for %s, skipping", creator.CreatorName)
		outcome.Status = OutcomeSkipped
		outcome.Reason = "no distributor contract"
		return outcome
	}

	// 滴灌额度每次都重新读取，合约配置可能随时变化
	dripRate, err := d.sink.DripRate(ctx, creator.DistributorContract)
	if err != nil {
		logger.Error("Failed to fetch drip rate for %s: %v", creator.CreatorName, err)
		outcome.Status = OutcomeFailed
		outcome.Reason = err.Error()
		return outcome
	}

	result, err := d.rollup.Rollup(creator.CreatorName, windowStart, windowEnd, dripRate)
	if err != nil {
		if isNoData(err) {
			logger.Info("No support records for %s in window %s, skipping", creator.CreatorName, label)
			outcome.Status = OutcomeSkipped
			outcome.Reason = "no data for window"
			return outcome
		}
		logger.Error("Rollup failed for %s: %v", creator.CreatorName, err)
		outcome.Status = OutcomeFailed
		outcome.Reason = err.Error()
		return outcome
	}

	built, err := d.builder.Build(result.Recipients, result.Amounts, result.Total)
	if err != nil {
		// 编码或签名失败只影响当前创作者的当前窗口
		logger.Error("Failed to build distribution payload for %s: %v", creator.CreatorName, err)
		outcome.Status = OutcomeFailed
		outcome.Reason = err.Error()
		return outcome
	}

	snapshots := make(model.RecordSnapshotList, 0, len(result.Records))
	for _, record := range result.Records {
		snapshots = append(snapshots, record.Snapshot())
	}

	entry := &model.DistributionEntryModel{
		CreatorName:         creator.CreatorName,
		WindowStart:         windowStart,
		WindowLabel:         label,
		WindowKind:          kind,
		TokenContract:       creator.TokenContract,
		DistributorContract: creator.DistributorContract,
		Scheme:              creator.Scheme,
		Recipients:          built.Recipients,
		Amounts:             built.AmountsWei,
		TotalAmount:         built.TotalWei,
		SourceRecords:       snapshots,
		EncodedData:         built.EncodedData,
		DataHash:            built.DataHash,
		SignedHash:          built.SignedHash,
	}

	created, err := d.ledger.CreateEntryIfAbsent(entry)
	if err != nil {
		logger.Error("Failed to store distribution entry for %s: %v", creator.CreatorName, err)
		outcome.Status = OutcomeFailed
		outcome.Reason = err.Error()
		return outcome
	}
	if created == nil {
		logger.Info("Distribution entry for %s/%s already exists, skipping", creator.CreatorName, label)
		outcome.Status = OutcomeSkipped
		outcome.Reason = "entry already exists"
		return outcome
	}

	logger.Info("Created %s distribution entry for %s/%s: %d recipients, total %s wei",
		kind, creator.CreatorName, label, len(created.Recipients), created.TotalAmount)
	outcome.Status = OutcomeCreated
	return outcome
}

// isNoData 是否为窗口无数据
func isNoData(err error) bool {
	return errors.Is(err, ErrNoDataForWindow)
}
