package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/LJTian/CryptoHub/internal/processor"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeedSource 描述一个已配置的资讯源，例如 coindesk / decrypt
type FeedSource struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Code     string `gorm:"size:64;uniqueIndex" json:"code"` // 例如: coindesk, decrypt
	Name     string `gorm:"size:128" json:"name"`
	URL      string `gorm:"size:512" json:"url"`
	Category string `gorm:"size:32" json:"category"` // 该源的默认分类
	Status   string `gorm:"size:32;index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Article struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"size:500" json:"title"`
	Summary string `gorm:"size:320" json:"summary"` // 300 字符 + 省略标记的余量
	URL     string `gorm:"size:1024;uniqueIndex" json:"url"`
	Source  string `gorm:"size:64;index" json:"source"`

	PublishedAt time.Time `gorm:"index" json:"publishedAt"`
	Category    string    `gorm:"size:32;index" json:"category"`
	// ContentHash 是原始标题+链接的 md5 指纹，只作诊断用途；去重靠 url 唯一索引
	ContentHash string            `gorm:"size:32" json:"contentHash"`
	ExtraData   datatypes.JSONMap `gorm:"type:jsonb" json:"extraData"`

	CreatedAt time.Time `json:"createdAt"`
}

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewStore(dsn, redisAddr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&FeedSource{}, &Article{}); err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warn: redis ping failed: %v", err)
	}

	return &Store{DB: db, Redis: rdb}, nil
}

// EnsureSource 确保某个源的记录存在
func (s *Store) EnsureSource(code, name, url, category string) (*FeedSource, error) {
	src := &FeedSource{}
	if err := s.DB.Where("code = ?", code).First(src).Error; err == nil {
		return src, nil
	}

	src = &FeedSource{
		Code:     code,
		Name:     name,
		URL:      url,
		Category: category,
		Status:   "active",
	}
	if err := s.DB.Create(src).Error; err != nil {
		return nil, err
	}
	return src, nil
}

// toValidUTF8 将字符串规范为合法 UTF-8，避免 PostgreSQL invalid byte sequence 错误
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "�")
}

// truncateRunesDB 按 rune 数截断字符串，确保不超过数据库字段长度。
// 这是对上游 Processor 的双保险，防止异常长文本导致入库失败。
func truncateRunesDB(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}

// SaveArticle 以 URL 作为幂等键插入一篇文章：URL 冲突时不报错也不覆盖，
// 返回 false；真正插入时返回 true。并发写同一 URL 时由唯一索引保证恰好一方成功。
func (s *Store) SaveArticle(a processor.Article) (bool, error) {
	row := &Article{
		Title:       truncateRunesDB(toValidUTF8(a.Title), 500),
		Summary:     truncateRunesDB(toValidUTF8(a.Summary), 320),
		URL:         a.URL,
		Source:      a.Source,
		PublishedAt: a.PublishedAt,
		Category:    a.Category,
		ContentHash: a.ContentHash,
		ExtraData:   datatypes.JSONMap(a.Extra),
	}

	res := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoNothing: true,
	}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}

	// 这里不做缓存失效，列表缓存靠短 TTL 自然过期
	return res.RowsAffected > 0, nil
}

const listCacheTTL = 5 * time.Minute

// listWithCache 按缓存 key 读取文章列表，未命中时执行 query 并回写缓存。
// 读路径不依赖采集状态：采集失败不影响已入库数据的读取。
func (s *Store) listWithCache(cacheKey string, query func() ([]Article, error)) ([]Article, error) {
	ctx := context.Background()

	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []Article
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	list, err := query()
	if err != nil {
		return nil, err
	}

	if s.Redis != nil && len(list) > 0 {
		if bs, err := json.Marshal(list); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, listCacheTTL).Err()
		}
	}

	return list, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 1000 {
		return 20
	}
	return limit
}

// Latest 按发布时间倒序返回最新文章
func (s *Store) Latest(limit int) ([]Article, error) {
	limit = clampLimit(limit)
	cacheKey := fmt.Sprintf("articles:latest:%d", limit)

	return s.listWithCache(cacheKey, func() ([]Article, error) {
		var list []Article
		err := s.DB.Model(&Article{}).
			Order("published_at DESC").
			Limit(limit).
			Find(&list).Error
		return list, err
	})
}

// ByCategory 按分类筛选，发布时间倒序
func (s *Store) ByCategory(category string, limit int) ([]Article, error) {
	limit = clampLimit(limit)
	cacheKey := fmt.Sprintf("articles:cat:%s:%d", category, limit)

	return s.listWithCache(cacheKey, func() ([]Article, error) {
		var list []Article
		err := s.DB.Model(&Article{}).
			Where("category = ?", category).
			Order("published_at DESC").
			Limit(limit).
			Find(&list).Error
		return list, err
	})
}

// Search 在标题和摘要上做大小写不敏感的模糊搜索，发布时间倒序
func (s *Store) Search(query string, limit int) ([]Article, error) {
	limit = clampLimit(limit)
	cacheKey := fmt.Sprintf("articles:search:%s:%d", query, limit)

	pattern := "%" + query + "%"
	return s.listWithCache(cacheKey, func() ([]Article, error) {
		var list []Article
		err := s.DB.Model(&Article{}).
			Where("title ILIKE ? OR summary ILIKE ?", pattern, pattern).
			Order("published_at DESC").
			Limit(limit).
			Find(&list).Error
		return list, err
	})
}

// ListCategories 返回当前有文章的分类列表（字典序），结果缓存 5 分钟
func (s *Store) ListCategories() ([]string, error) {
	ctx := context.Background()
	cacheKey := "articles:categories"

	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []string
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var rows []struct{ Category string }
	if err := s.DB.Raw(`SELECT DISTINCT category FROM articles WHERE category <> '' ORDER BY category`).Scan(&rows).Error; err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(rows))
	for _, r := range rows {
		categories = append(categories, r.Category)
	}

	if s.Redis != nil && len(categories) > 0 {
		if bs, err := json.Marshal(categories); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, listCacheTTL).Err()
		}
	}
	return categories, nil
}
