package task

import (
	"context"
	"time"

	"github.com/Attenomics-Labs/attenomics-agent/internal/collector"
	"github.com/Attenomics-Labs/attenomics-agent/internal/config"
	"github.com/Attenomics-Labs/attenomics-agent/internal/logger"
	"github.com/Attenomics-Labs/attenomics-agent/internal/logic"
	"github.com/Attenomics-Labs/attenomics-agent/internal/model"
	"github.com/Attenomics-Labs/attenomics-agent/internal/scorer"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

const sixHourSeconds = 6 * 60 * 60

// ScoringJob 评分任务：拉取创作者内容并写入窗口记录
type ScoringJob struct {
	db           *gorm.DB
	config       *config.Config
	collector    collector.Collector
	scorerClient *scorer.Client
	supportLogic *logic.SupportLogic
	creatorLogic *logic.CreatorLogic
}

// NewScoringJob 创建评分任务
func NewScoringJob(db *gorm.DB, cfg *config.Config, col collector.Collector) *ScoringJob {
	return &ScoringJob{
		db:           db,
		config:       cfg,
		collector:    col,
		scorerClient: scorer.NewClient(cfg.Scorer),
		supportLogic: logic.NewSupportLogic(db, cfg.Scorer.NormalizePercent),
		creatorLogic: logic.NewCreatorLogic(db),
	}
}

// GetName 获取任务名称
func (j *ScoringJob) GetName() string {
	return "scoring_collector"
}

// GetSchedule 获取调度配置
func (j *ScoringJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.ScoringInterval) * time.Second)
}

// Execute 执行任务
func (j *ScoringJob) Execute() {
	logger.Info("Starting scoring task")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	creators, err := j.creatorLogic.GetCreators()
	if err != nil {
		logger.Error("Failed to fetch creators for scoring: %v", err)
		return
	}

	// 窗口起始对齐到六小时边界
	windowStart := (time.Now().Unix() / sixHourSeconds) * sixHourSeconds

	scoredCount := 0
	for i := range creators {
		creator := &creators[i]
		if err := j.scoreCreator(ctx, creator.CreatorName, windowStart); err != nil {
			logger.Error("Failed to score creator %s: %v", creator.CreatorName, err)
			continue
		}
		scoredCount++
	}

	logger.Info("Scoring task completed: %d/%d creators scored for window %d",
		scoredCount, len(creators), windowStart)
}

func (j *ScoringJob) scoreCreator(ctx context.Context, creatorName string, windowStart int64) error {
	posts, err := j.collector.CollectPosts(ctx, creatorName)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		logger.Info("No posts collected for creator %s, skipping window %d", creatorName, windowStart)
		return nil
	}

	attentionResult, err := j.scorerClient.EvalAttention(ctx, posts)
	if err != nil {
		return err
	}

	attention := 0.0
	for _, score := range attentionResult.Scores {
		attention += score.Attention
	}

	if err := j.supportLogic.RecordAttention(creatorName, windowStart, attention,
		attentionResult.ReqHash, attentionResult.ResHash); err != nil {
		logger.Error("Failed to record attention for creator %s: %v", creatorName, err)
	}

	supportResult, err := j.scorerClient.EvalSupport(ctx, posts)
	if err != nil {
		return err
	}

	record, err := j.supportLogic.RecordScores(creatorName, windowStart,
		model.GranularitySixHour, supportResult, attention)
	if err != nil {
		return err
	}

	logger.Info("Recorded window %d for creator %s: %d entries, %d skipped",
		windowStart, creatorName, len(record.Entries), record.Skipped)
	return nil
}
