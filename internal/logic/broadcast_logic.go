package logic

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Attenomics-Labs/attenomics-agent/internal/chain"
	"github.com/Attenomics-Labs/attenomics-agent/internal/logger"
	"github.com/Attenomics-Labs/attenomics-agent/internal/model"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BroadcastOutcome 单个条目在一次广播批处理中的结局
type BroadcastOutcome struct {
	CreatorName string `json:"creator_name"`
	WindowStart int64  `json:"window_start"`
	WindowLabel string `json:"window_label"`
	Method      string `json:"method"`
	TxHash      string `json:"tx_hash,omitempty"`
	Status      string `json:"status"`
	Reason      string `json:"reason,omitempty"`
}

// BroadcastLogic 广播器：把待广播的账本条目提交到分发合约
type BroadcastLogic struct {
	db     *gorm.DB
	ledger *LedgerLogic
	sink   chain.Distributor
}

// NewBroadcastLogic 创建广播逻辑
func NewBroadcastLogic(db *gorm.DB, sink chain.Distributor) *BroadcastLogic {
	return &BroadcastLogic{
		db:     db,
		ledger: NewLedgerLogic(db),
		sink:   sink,
	}
}

// BroadcastPending 遍历所有pending条目并逐条广播。单个条目失败只记录
// 结局，条目保持pending等待下次重试，不影响其他条目。状态只在拿到
// 交易回执后推进，所以同一条目可以安全重试。
//
// 已知风险：合约确认成功和状态落库之间进程崩溃会导致该条目在重试时
// 重复广播，分发合约需要对同一载荷哈希幂等。
func (b *BroadcastLogic) BroadcastPending(ctx context.Context, method string) (string, []BroadcastOutcome, error) {
	if method != model.MethodSignature && method != model.MethodDirect {
		return "", nil, fmt.Errorf("%w: unknown broadcast method %q", ErrInvalidInput, method)
	}

	batchId := uuid.NewString()

	entries, err := b.ledger.ListPending()
	if err != nil {
		return batchId, nil, err
	}
	if len(entries) == 0 {
		logger.Info("No pending distribution entries to broadcast (batch %s)", batchId)
		return batchId, nil, nil
	}

	logger.Info("Broadcasting %d pending entries via %s method (batch %s)", len(entries), method, batchId)

	outcomes := make([]BroadcastOutcome, 0, len(entries))
	for _, entry := range entries {
		outcome := b.broadcastEntry(ctx, &entry, method)
		outcomes = append(outcomes, outcome)
	}

	return batchId, outcomes, nil
}

// broadcastEntry 广播单个条目
func (b *BroadcastLogic) broadcastEntry(ctx context.Context, entry *model.DistributionEntryModel, method string) BroadcastOutcome {
	outcome := BroadcastOutcome{
		CreatorName: entry.CreatorName,
		WindowStart: entry.WindowStart,
		WindowLabel: entry.WindowLabel,
		Method:      method,
	}

	txHash, err := b.submit(ctx, entry, method)
	if err != nil {
		logger.Error("Broadcast failed for %s/%s: %v", entry.CreatorName, entry.WindowLabel, err)
		outcome.Status = OutcomeFailed
		outcome.Reason = err.Error()
		return outcome
	}

	if err := b.ledger.MarkBroadcasted(entry.Id, txHash, method); err != nil {
		// 交易已上链但状态未落库，下次重试会重复广播，必须显式告警
		logger.Error("Transaction %s confirmed but failed to mark entry %d broadcasted: %v",
			txHash, entry.Id, err)
		outcome.Status = OutcomeFailed
		outcome.TxHash = txHash
		outcome.Reason = fmt.Sprintf("confirmed but not persisted: %v", err)
		return outcome
	}

	logger.Info("Broadcast succeeded for %s/%s: %s", entry.CreatorName, entry.WindowLabel, txHash)
	outcome.Status = OutcomeSuccess
	outcome.TxHash = txHash
	return outcome
}

// submit 按指定方式提交条目
func (b *BroadcastLogic) submit(ctx context.Context, entry *model.DistributionEntryModel, method string) (string, error) {
	if method == model.MethodSignature {
		encoded, err := hexutil.Decode(entry.EncodedData)
		if err != nil {
			return "", fmt.Errorf("invalid encoded data: %w", err)
		}
		signature, err := hexutil.Decode(entry.SignedHash)
		if err != nil {
			return "", fmt.Errorf("invalid signature: %w", err)
		}
		return b.sink.DistributeWithData(ctx, entry.DistributorContract, encoded, signature)
	}

	amounts, total, err := parseWeiAmounts(entry.Amounts, entry.TotalAmount)
	if err != nil {
		return "", err
	}
	return b.sink.Distribute(ctx, entry.DistributorContract, entry.Recipients, amounts, total)
}

// BroadcastDirect 广播所有待处理的直接分发条目
func (b *BroadcastLogic) BroadcastDirect(ctx context.Context) ([]BroadcastOutcome, error) {
	var pending []model.DirectDistributionModel
	err := b.db.
		Where("status = ?", model.DistributionStatusPending).
		Order("id ASC").
		Find(&pending).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending direct distributions: %w", err)
	}

	outcomes := make([]BroadcastOutcome, 0, len(pending))
	for _, dist := range pending {
		outcome := BroadcastOutcome{
			CreatorName: dist.CreatorName,
			Method:      model.MethodDirect,
		}

		amounts, total, err := parseWeiAmounts(dist.Amounts, dist.TotalAmount)
		if err == nil {
			var txHash string
			txHash, err = b.sink.Distribute(ctx, dist.DistributorContract, dist.Recipients, amounts, total)
			if err == nil {
				result := b.db.Model(&model.DirectDistributionModel{}).
					Where("id = ? AND status = ?", dist.Id, model.DistributionStatusPending).
					Updates(map[string]interface{}{
						"status":  model.DistributionStatusBroadcasted,
						"tx_hash": txHash,
					})
				err = result.Error
				outcome.TxHash = txHash
			}
		}

		if err != nil {
			logger.Error("Direct distribution failed for %s: %v", dist.CreatorName, err)
			outcome.Status = OutcomeFailed
			outcome.Reason = err.Error()
		} else {
			logger.Info("Direct distribution succeeded for %s: %s", dist.CreatorName, outcome.TxHash)
			outcome.Status = OutcomeSuccess
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

// parseWeiAmounts 解析wei字符串数组和总额
func parseWeiAmounts(amounts []string, totalAmount string) ([]*big.Int, *big.Int, error) {
	parsed := make([]*big.Int, 0, len(amounts))
	for _, a := range amounts {
		v, ok := new(big.Int).SetString(a, 10)
		if !ok {
			return nil, nil, fmt.Errorf("invalid wei amount %q", a)
		}
		parsed = append(parsed, v)
	}
	total, ok := new(big.Int).SetString(totalAmount, 10)
	if !ok {
		return nil, nil, fmt.Errorf("invalid total amount %q", totalAmount)
	}
	return parsed, total, nil
}
