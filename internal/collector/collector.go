package collector

import (
	"context"
)

// Collector 内容采集接口，由外部抓取服务实现。
// 定时评分任务通过它获取创作者最近的帖子与回复。
type Collector interface {
	// CollectPosts 返回创作者最近一个窗口内的帖子，空结果表示该窗口无数据
	CollectPosts(ctx context.Context, creatorName string) ([]string, error)
}

// NoopCollector 空实现，未接入抓取服务时使用
type NoopCollector struct{}

// NewNoop 创建空采集器
func NewNoop() *NoopCollector {
	return &NoopCollector{}
}

// CollectPosts 始终返回空结果
func (c *NoopCollector) CollectPosts(ctx context.Context, creatorName string) ([]string, error) {
	return nil, nil
}
