package main

import (
	"log"

	"github.com/Attenomics-Labs/attenomics-agent/internal/chain"
	"github.com/Attenomics-Labs/attenomics-agent/internal/collector"
	"github.com/Attenomics-Labs/attenomics-agent/internal/config"
	"github.com/Attenomics-Labs/attenomics-agent/internal/database"
	"github.com/Attenomics-Labs/attenomics-agent/internal/distribution"
	"github.com/Attenomics-Labs/attenomics-agent/internal/logger"
	"github.com/Attenomics-Labs/attenomics-agent/internal/router"
	"github.com/Attenomics-Labs/attenomics-agent/internal/task"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	setupLogger(cfg.Log)
	defer logger.Sync()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	// 初始化分发合约客户端
	sink, err := chain.NewDistributorClient(cfg.Chain)
	if err != nil {
		log.Fatalf("Failed to initialize distributor client: %v", err)
	}

	// 签名构建器与合约客户端共用同一把私钥
	builder := distribution.NewBuilder(sink.SigningKey())
	logger.Info("Distribution signer address: %s", builder.SignerAddress().Hex())

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, sink, builder, cfg)

	// 启动定时任务
	manager := task.Start(db, sink, builder, collector.NewNoop(), cfg)
	defer manager.Stop()

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupLogger(cfg config.LogConfig) {
	level := logger.ParseLogLevel(cfg.Level)

	var l *logger.Logger
	var err error
	if cfg.Output == "file" && cfg.File != "" {
		l, err = logger.NewWithFileRotation(level, cfg.File)
	} else {
		l, err = logger.New(level)
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.SetDefaultLogger(l)
}
