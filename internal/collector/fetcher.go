package collector

import (
	"context"
	"time"
)

// RawItem 单个源解析出的原始条目，清洗前的状态，由 processor 消费
type RawItem struct {
	Title       string
	Link        string
	Description string
	Content     string
	// PublishedAt 为 nil 表示源未提供发布时间，由 processor 用当前时间兜底
	PublishedAt *time.Time
	GUID        string
	Author      string
}

// Source 描述一个配置的资讯源：展示名、端点、该源的默认分类
type Source struct {
	Name     string
	URL      string
	Category string // 标题关键词未命中任何分类时的兜底分类
}

// Fetcher 抽象每一个数据源
type Fetcher interface {
	Name() string
	Category() string
	Fetch(ctx context.Context) ([]RawItem, error)
}
