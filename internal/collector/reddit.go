package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	redditListingURL       = "https://www.reddit.com/r/CryptoCurrency/new.json?limit=25"
	redditMaxResponseBytes = 1 << 20 // 1MB
	redditClientTimeout    = 10 * time.Second
	redditUserAgent        = "CryptoHubBot/1.0"
)

// RedditFetcher 通过 Reddit 公开 JSON API 抓取 r/CryptoCurrency 最新帖子
type RedditFetcher struct {
	client *http.Client
}

func NewRedditFetcher() *RedditFetcher {
	return &RedditFetcher{client: &http.Client{Timeout: redditClientTimeout}}
}

func (r *RedditFetcher) Name() string {
	return "Reddit r/CryptoCurrency"
}

func (r *RedditFetcher) Category() string {
	return "general"
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Name       string  `json:"name"`
	Title      string  `json:"title"`
	Permalink  string  `json:"permalink"`
	Selftext   string  `json:"selftext"`
	Author     string  `json:"author"`
	CreatedUTC float64 `json:"created_utc"`
	Stickied   bool    `json:"stickied"`
}

func (r *RedditFetcher) Fetch(ctx context.Context) ([]RawItem, error) {
	log.Println("fetch Reddit r/CryptoCurrency...")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, redditListingURL, nil)
	if err != nil {
		return nil, err
	}
	// Reddit 对默认 Go UA 限流严格，必须带自定义 UA
	req.Header.Set("User-Agent", redditUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit: fetch listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit: unexpected status %d", resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(io.LimitReader(resp.Body, redditMaxResponseBytes)).Decode(&listing); err != nil {
		return nil, fmt.Errorf("reddit: decode listing: %w", err)
	}

	items := make([]RawItem, 0, len(listing.Data.Children))
	for _, ch := range listing.Data.Children {
		post := ch.Data
		// 置顶帖多为社区公告，跳过
		if post.Stickied || post.Title == "" {
			continue
		}
		published := time.Unix(int64(post.CreatedUTC), 0)
		items = append(items, RawItem{
			Title:       post.Title,
			Link:        "https://www.reddit.com" + post.Permalink,
			Description: post.Selftext,
			PublishedAt: &published,
			GUID:        post.Name,
			Author:      post.Author,
		})
	}

	if len(items) == 0 {
		log.Println("reddit: no items fetched")
	}

	return items, nil
}
