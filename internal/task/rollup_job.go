package task

import (
	"context"
	"time"

	"github.com/Attenomics-Labs/attenomics-agent/internal/chain"
	"github.com/Attenomics-Labs/attenomics-agent/internal/config"
	"github.com/Attenomics-Labs/attenomics-agent/internal/distribution"
	"github.com/Attenomics-Labs/attenomics-agent/internal/logger"
	"github.com/Attenomics-Labs/attenomics-agent/internal/logic"
	"github.com/Attenomics-Labs/attenomics-agent/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// RollupJob 日汇总任务：把前一天的窗口记录汇总为分发条目
type RollupJob struct {
	db                *gorm.DB
	config            *config.Config
	distributionLogic *logic.DistributionLogic
}

// NewRollupJob 创建日汇总任务
func NewRollupJob(db *gorm.DB, cfg *config.Config, builder *distribution.Builder, sink chain.Distributor) *RollupJob {
	return &RollupJob{
		db:                db,
		config:            cfg,
		distributionLogic: logic.NewDistributionLogic(db, builder, sink, cfg.Task.PoolSize),
	}
}

// GetName 获取任务名称
func (j *RollupJob) GetName() string {
	return "daily_rollup"
}

// GetSchedule 获取调度配置
func (j *RollupJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.RollupInterval) * time.Second)
}

// Execute 执行任务
func (j *RollupJob) Execute() {
	logger.Info("Starting daily rollup task")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// 汇总前一天的完整窗口
	day := time.Now().UTC().AddDate(0, 0, -1)
	start, end, label, err := logic.ParseDayWindow(day.Format("2006-01-02"))
	if err != nil {
		logger.Error("Failed to resolve rollup window: %v", err)
		return
	}

	outcomes, err := j.distributionLogic.CreateForAll(ctx, start, end, label, model.WindowKindDay)
	if err != nil {
		logger.Error("Failed to run daily rollup for window %s: %v", label, err)
		return
	}

	created, skipped, failed := 0, 0, 0
	for _, outcome := range outcomes {
		switch outcome.Status {
		case logic.OutcomeCreated:
			created++
		case logic.OutcomeSkipped:
			skipped++
		case logic.OutcomeFailed:
			failed++
			logger.Error("Rollup failed for creator %s window %s: %s",
				outcome.CreatorName, label, outcome.Reason)
		}
	}

	logger.Info("Daily rollup completed for window %s: %d created, %d skipped, %d failed",
		label, created, skipped, failed)
}
