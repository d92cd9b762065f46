package task

import (
	"github.com/Attenomics-Labs/attenomics-agent/internal/chain"
	"github.com/Attenomics-Labs/attenomics-agent/internal/collector"
	"github.com/Attenomics-Labs/attenomics-agent/internal/config"
	"github.com/Attenomics-Labs/attenomics-agent/internal/distribution"
	"github.com/Attenomics-Labs/attenomics-agent/internal/logger"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Manager 任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	db        *gorm.DB
	sink      chain.Distributor
	builder   *distribution.Builder
	collector collector.Collector
	config    *config.Config
}

// NewManager 创建新的任务管理器
func NewManager(db *gorm.DB, sink chain.Distributor, builder *distribution.Builder, col collector.Collector, cfg *config.Config) *Manager {
	s, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}

	return &Manager{
		scheduler: s,
		db:        db,
		sink:      sink,
		builder:   builder,
		collector: col,
		config:    cfg,
	}
}

// Start 启动任务管理器
func Start(db *gorm.DB, sink chain.Distributor, builder *distribution.Builder, col collector.Collector, cfg *config.Config) *Manager {
	manager := NewManager(db, sink, builder, col, cfg)

	// 注册所有任务
	manager.RegisterJobs()

	// 启动调度器
	manager.scheduler.Start()

	logger.Info("Task manager started successfully")
	return manager
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() {
	// 注册评分任务
	m.registerJob(NewScoringJob(m.db, m.config, m.collector))
	// 注册日汇总任务
	m.registerJob(NewRollupJob(m.db, m.config, m.builder, m.sink))
	// 注册广播任务
	m.registerJob(NewBroadcastJob(m.db, m.config, m.sink))
}

// Job 可调度任务
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

func (m *Manager) registerJob(job Job) {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
