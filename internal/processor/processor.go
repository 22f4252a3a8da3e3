package processor

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/LJTian/CryptoHub/internal/collector"
)

const (
	maxTitleRunes   = 500
	maxSummaryRunes = 300

	// 摘要缺失时的兜底文案，原样入库，不参与清洗
	summaryPlaceholder = "Click to read the full article for more details..."
)

// Article 清洗后、写入存储层前的统一结构
type Article struct {
	Title       string
	Summary     string
	URL         string
	Source      string
	PublishedAt time.Time
	Category    string
	ContentHash string
	Extra       map[string]any
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	// 只解码上游实际出现的五个标准实体；不用 html.UnescapeString，
	// 避免把 &nbsp; 之类一并解码导致行为偏离
	entityReplacer = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

// Processor 做条目清洗、分类与指纹生成
type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

// Normalize 把一个原始条目转为入库候选。缺链接或缺标题的条目直接丢弃
// （ok=false），不算错误也不重试。
func (p *Processor) Normalize(raw collector.RawItem, source, defaultCategory string) (Article, bool) {
	if raw.Link == "" || raw.Title == "" {
		return Article{}, false
	}

	published := time.Now()
	if raw.PublishedAt != nil {
		published = *raw.PublishedAt
	}

	extra := map[string]any{}
	if raw.GUID != "" {
		extra["guid"] = raw.GUID
	}
	if raw.Author != "" {
		extra["author"] = raw.Author
	}

	return Article{
		Title:       cleanTitle(raw.Title),
		Summary:     cleanSummary(firstNonEmpty(raw.Description, raw.Content)),
		URL:         raw.Link,
		Source:      source,
		PublishedAt: published,
		Category:    Categorize(raw.Title, defaultCategory),
		// 指纹对清洗前的标题+链接计算（md5 hex），只作诊断指纹；
		// 去重依赖 URL 唯一约束，不用这个哈希
		ContentHash: hashContent(raw.Title + raw.Link),
		Extra:       extra,
	}, true
}

// cleanTitle 解码实体、去掉标签、去首尾空白并按 rune 截断到 500
func cleanTitle(title string) string {
	t := entityReplacer.Replace(title)
	t = tagPattern.ReplaceAllString(t, "")
	t = strings.TrimSpace(t)

	rs := []rune(t)
	if len(rs) > maxTitleRunes {
		return string(rs[:maxTitleRunes])
	}
	return t
}

// cleanSummary 清洗摘要并截断到 300，发生截断时追加省略标记；
// 入参为空时返回固定兜底文案
func cleanSummary(summary string) string {
	if summary == "" {
		return summaryPlaceholder
	}

	s := tagPattern.ReplaceAllString(summary, "")
	s = entityReplacer.Replace(s)
	s = whitespacePattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	rs := []rune(s)
	if len(rs) > maxSummaryRunes {
		return string(rs[:maxSummaryRunes]) + "..."
	}
	return s
}

// categoryRules 按固定顺序匹配，第一个命中的分组生效。
// "eth"/"sol"/"ada" 的子串匹配会误伤无关单词（比如 "method"、"solution"），
// 这是沿用上游的已知局限，刻意不修。
var categoryRules = []struct {
	keywords []string
	label    string
}{
	{[]string{"bitcoin", "btc"}, "bitcoin"},
	{[]string{"ethereum", "eth"}, "ethereum"},
	{[]string{"defi", "decentralized"}, "defi"},
	{[]string{"nft", "collectible"}, "nft"},
	{[]string{"regulation", "legal"}, "regulation"},
	{[]string{"solana", "sol"}, "solana"},
	{[]string{"cardano", "ada"}, "cardano"},
}

// Categorize 用标题关键词定分类，全部未命中时返回 defaultCategory
func Categorize(title, defaultCategory string) string {
	lower := strings.ToLower(title)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.label
			}
		}
	}
	return defaultCategory
}

func hashContent(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
