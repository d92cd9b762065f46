package config

import (
	"github.com/Attenomics-Labs/attenomics-agent/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Scorer   ScorerConfig   `mapstructure:"scorer"`
	Task     TaskConfig     `mapstructure:"task"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ChainConfig 链配置
type ChainConfig struct {
	ChainId    int64  `mapstructure:"chain_id"`    // 链ID
	RpcUrl     string `mapstructure:"rpc_url"`     // RPC节点URL
	PrivateKey string `mapstructure:"private_key"` // 分发签名私钥
	GasLimit   uint64 `mapstructure:"gas_limit"`   // 交易gas上限
	TxTimeout  int    `mapstructure:"tx_timeout"`  // 等待交易上链的超时时间（秒）
}

// ScorerConfig 评分服务（judge）配置
type ScorerConfig struct {
	URI              string `mapstructure:"uri"`               // judge服务地址
	AuthToken        string `mapstructure:"auth_token"`        // 鉴权token
	Timeout          int    `mapstructure:"timeout"`           // 请求超时时间（秒）
	TotalPoints      int    `mapstructure:"total_points"`      // 每个窗口分配的总点数
	NormalizePercent bool   `mapstructure:"normalize_percent"` // 是否将单条记录内的百分比归一化到100
}

// TaskConfig 定时任务配置
type TaskConfig struct {
	ScoringInterval   int `mapstructure:"scoring_interval"`   // 评分任务间隔（秒）
	RollupInterval    int `mapstructure:"rollup_interval"`    // 汇总任务间隔（秒）
	BroadcastInterval int `mapstructure:"broadcast_interval"` // 广播任务间隔（秒）
	PoolSize          int `mapstructure:"pool_size"`          // 批处理协程池大小
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/attenomics")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "attenomics")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("chain.chain_id", 1)
	viper.SetDefault("chain.gas_limit", 500000)
	viper.SetDefault("chain.tx_timeout", 120)
	viper.SetDefault("scorer.timeout", 120)
	viper.SetDefault("scorer.total_points", 100)
	viper.SetDefault("scorer.normalize_percent", false)
	viper.SetDefault("task.scoring_interval", 3600)
	viper.SetDefault("task.rollup_interval", 86400)
	viper.SetDefault("task.broadcast_interval", 600)
	viper.SetDefault("task.pool_size", 8)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
