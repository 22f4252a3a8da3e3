package collector

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const cryptoSlateNewsURL = "https://cryptoslate.com/news/"

// CryptoSlateFetcher 抓取 CryptoSlate 新闻列表页。该站没有稳定可用的 RSS，
// 走页面抓取；页面结构可能调整，此处基于当前的 DOM 结构做“尽力而为”的解析。
type CryptoSlateFetcher struct{}

func NewCryptoSlateFetcher() *CryptoSlateFetcher {
	return &CryptoSlateFetcher{}
}

func (c *CryptoSlateFetcher) Name() string {
	return "CryptoSlate"
}

func (c *CryptoSlateFetcher) Category() string {
	return "general"
}

func (c *CryptoSlateFetcher) Fetch(ctx context.Context) ([]RawItem, error) {
	log.Println("fetch CryptoSlate news...")

	col := colly.NewCollector(
		colly.AllowedDomains("cryptoslate.com"),
		colly.UserAgent("CryptoHubBot/1.0"),
	)

	// 请求超时跟随调度层给的 ctx 预算
	timeout := 10 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 && d < timeout {
			timeout = d
		}
	}
	col.SetRequestTimeout(timeout)

	results := make([]RawItem, 0, 20)

	col.OnHTML("article", func(e *colly.HTMLElement) {
		titleSel := e.DOM.Find("h2 a, h3 a").First()
		title := strings.TrimSpace(titleSel.Text())
		if title == "" {
			// 标题不在链接内时退回标题标签本身
			title = strings.TrimSpace(e.DOM.Find("h2, h3").First().Text())
		}
		if title == "" {
			return
		}

		href, _ := titleSel.Attr("href")
		if href == "" {
			href, _ = e.DOM.Find("a[href]").First().Attr("href")
		}
		if href == "" {
			return
		}
		if !strings.HasPrefix(href, "http") {
			href = "https://cryptoslate.com" + href
		}

		// 摘要：列表页的 p 段落，缺失时留空交给 processor 兜底文案
		desc := strings.TrimSpace(e.ChildText("p"))

		results = append(results, RawItem{
			Title:       title,
			Link:        href,
			Description: desc,
		})
	})

	if err := col.Visit(cryptoSlateNewsURL); err != nil {
		log.Printf("fetch CryptoSlate failed: %v", err)
		return nil, err
	}

	if len(results) == 0 {
		log.Println("cryptoslate: no items fetched")
	}

	return results, nil
}
