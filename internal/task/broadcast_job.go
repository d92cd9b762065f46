package task

import (
	"context"
	"time"

	"github.com/Attenomics-Labs/attenomics-agent/internal/chain"
	"github.com/Attenomics-Labs/attenomics-agent/internal/config"
	"github.com/Attenomics-Labs/attenomics-agent/internal/logger"
	"github.com/Attenomics-Labs/attenomics-agent/internal/logic"
	"github.com/Attenomics-Labs/attenomics-agent/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// BroadcastJob 广播任务：把待广播的分发条目提交上链
type BroadcastJob struct {
	db             *gorm.DB
	config         *config.Config
	broadcastLogic *logic.BroadcastLogic
}

// NewBroadcastJob 创建广播任务
func NewBroadcastJob(db *gorm.DB, cfg *config.Config, sink chain.Distributor) *BroadcastJob {
	return &BroadcastJob{
		db:             db,
		config:         cfg,
		broadcastLogic: logic.NewBroadcastLogic(db, sink),
	}
}

// GetName 获取任务名称
func (j *BroadcastJob) GetName() string {
	return "distribution_broadcaster"
}

// GetSchedule 获取调度配置
func (j *BroadcastJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.BroadcastInterval) * time.Second)
}

// Execute 执行任务
func (j *BroadcastJob) Execute() {
	logger.Info("Starting broadcast task")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	batchId, outcomes, err := j.broadcastLogic.BroadcastPending(ctx, model.MethodSignature)
	if err != nil {
		logger.Error("Failed to run broadcast batch: %v", err)
		return
	}

	succeeded, failed := 0, 0
	for _, outcome := range outcomes {
		if outcome.Status == logic.OutcomeSuccess {
			succeeded++
		} else {
			failed++
			logger.Error("Broadcast failed for creator %s window %s: %s",
				outcome.CreatorName, outcome.WindowLabel, outcome.Reason)
		}
	}

	logger.Info("Broadcast batch %s completed: %d broadcasted, %d failed",
		batchId, succeeded, failed)
}
