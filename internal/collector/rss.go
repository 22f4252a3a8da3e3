package collector

import (
	"context"
	"fmt"
	"log"

	"github.com/mmcdole/gofeed"
)

// RSSFetcher 拉取并解析一个 RSS/Atom 源
type RSSFetcher struct {
	source Source
	parser *gofeed.Parser
}

func NewRSSFetcher(source Source) *RSSFetcher {
	return &RSSFetcher{
		source: source,
		parser: gofeed.NewParser(),
	}
}

func (f *RSSFetcher) Name() string {
	return f.source.Name
}

func (f *RSSFetcher) Category() string {
	return f.source.Category
}

// Fetch 按文档顺序返回条目，不做重排；空 feed 返回空切片而非错误。
// 网络失败、超时、文档解析失败统一以 error 返回，由调度层隔离。
func (f *RSSFetcher) Fetch(ctx context.Context) ([]RawItem, error) {
	log.Printf("fetch %s...", f.source.Name)

	feed, err := f.parser.ParseURLWithContext(f.source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("rss: parse feed %s: %w", f.source.URL, err)
	}

	items := make([]RawItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		raw := RawItem{
			Title:       it.Title,
			Link:        it.Link,
			Description: it.Description,
			Content:     it.Content,
			GUID:        it.GUID,
		}
		if it.Author != nil {
			raw.Author = it.Author.Name
		}
		// 优先 published，缺失时退回 updated；两者都没有时留空由 processor 兜底
		if it.PublishedParsed != nil {
			raw.PublishedAt = it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			raw.PublishedAt = it.UpdatedParsed
		}
		items = append(items, raw)
	}
	return items, nil
}
