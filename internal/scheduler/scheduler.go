package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/LJTian/CryptoHub/internal/collector"
	"github.com/LJTian/CryptoHub/internal/processor"
	"github.com/robfig/cron/v3"
)

// 每个源每轮最多入库的条目数，取文档顺序的前 10 条
const maxItemsPerSource = 10

// ArticleStore 编排层对存储层的唯一依赖：按 URL 幂等插入，返回是否真的新增。
// 重复 URL 不是错误，返回 false；error 只表示真实的 I/O 故障。
type ArticleStore interface {
	SaveArticle(a processor.Article) (bool, error)
}

// Result 单轮采集的聚合结果
type Result struct {
	NewArticles int      `json:"newArticles"`
	Errors      []string `json:"errors"`
	Sources     int      `json:"sources"`
}

type Scheduler struct {
	cron         *cron.Cron
	fetchers     []collector.Fetcher
	processor    *processor.Processor
	store        ArticleStore
	fetchTimeout time.Duration
}

func New(spec string, fetchers []collector.Fetcher, p *processor.Processor, store ArticleStore, fetchTimeout time.Duration) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:         c,
		fetchers:     fetchers,
		processor:    p,
		store:        store,
		fetchTimeout: fetchTimeout,
	}

	if _, err := c.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	// 延迟执行首轮采集，避免与启动期的迁移和首个页面请求争抢资源
	const startupDelay = 15 * time.Second
	time.AfterFunc(startupDelay, func() {
		go s.RunOnce(context.Background())
	})
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunOnce 执行一轮采集：对全部源并发拉取，单源失败只记入错误列表，
// 不影响其它源。同一批 feed 内容重复执行时第二轮新增数为 0（按 URL 幂等）。
func (s *Scheduler) RunOnce(ctx context.Context) Result {
	log.Println("start ingest job...")

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result = Result{Sources: len(s.fetchers), Errors: []string{}}
	)

	for _, f := range s.fetchers {
		fetcher := f
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, errMsg := s.ingestSource(ctx, fetcher)

			mu.Lock()
			result.NewArticles += inserted
			if errMsg != "" {
				result.Errors = append(result.Errors, errMsg)
			}
			mu.Unlock()
		}()
	}

	wg.Wait()
	log.Printf("ingest job done: sources=%d new=%d errors=%d",
		result.Sources, result.NewArticles, len(result.Errors))
	return result
}

// ingestSource 处理单个源：拉取、截取前 N 条、逐条清洗入库。
// 返回新增条数和该源的错误描述（为空表示本轮无错误）。
func (s *Scheduler) ingestSource(ctx context.Context, fetcher collector.Fetcher) (int, string) {
	name := fetcher.Name()

	// 单源超时必须存在，防止一个无响应的源拖住整轮；超时与网络错误同等对待
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	items, err := fetcher.Fetch(fetchCtx)
	if err != nil {
		log.Printf("fetch %s error: %v", name, err)
		return 0, fmt.Sprintf("Failed to fetch %s: %v", name, err)
	}
	if len(items) == 0 {
		log.Printf("fetch %s got 0 items", name)
		return 0, ""
	}

	// 只取文档顺序的前 N 条，不重排也不抽样
	if len(items) > maxItemsPerSource {
		items = items[:maxItemsPerSource]
	}

	inserted := 0
	for _, raw := range items {
		article, ok := s.processor.Normalize(raw, name, fetcher.Category())
		if !ok {
			// 缺标题/链接的条目静默丢弃
			continue
		}

		created, err := s.store.SaveArticle(article)
		if err != nil {
			// 存储故障按单条隔离，记日志后继续处理剩余条目
			log.Printf("save article from %s error: %v", name, err)
			continue
		}
		if created {
			inserted++
		}
	}

	log.Printf("%s done, fetched=%d inserted=%d", name, len(items), inserted)
	return inserted, ""
}
