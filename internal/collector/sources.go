package collector

// DefaultSources 内置的加密货币 RSS 源列表。进程启动时确定，运行期不再变化；
// 端点配置错误属于部署问题，在首轮采集的错误列表中即可暴露。
func DefaultSources() []Source {
	return []Source{
		{Name: "CoinDesk", URL: "https://feeds.feedburner.com/CoinDesk", Category: "general"},
		{Name: "CoinTelegraph", URL: "https://cointelegraph.com/rss", Category: "general"},
		{Name: "The Block", URL: "https://www.theblockcrypto.com/rss.xml", Category: "general"},
		{Name: "Decrypt", URL: "https://decrypt.co/feed", Category: "general"},
		{Name: "Bitcoin Magazine", URL: "https://bitcoinmagazine.com/feed", Category: "bitcoin"},
	}
}

// DefaultFetchers 按注册顺序组装全部数据源：RSS 源 + Reddit JSON API + CryptoSlate 页面抓取
func DefaultFetchers() []Fetcher {
	fetchers := make([]Fetcher, 0, len(DefaultSources())+2)
	for _, src := range DefaultSources() {
		fetchers = append(fetchers, NewRSSFetcher(src))
	}
	fetchers = append(fetchers, NewRedditFetcher())
	fetchers = append(fetchers, NewCryptoSlateFetcher())
	return fetchers
}
