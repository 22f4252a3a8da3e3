package main

import (
	"context"
	"log"

	"github.com/LJTian/CryptoHub/internal/collector"
	"github.com/LJTian/CryptoHub/internal/config"
	"github.com/LJTian/CryptoHub/internal/processor"
	"github.com/LJTian/CryptoHub/internal/scheduler"
	"github.com/LJTian/CryptoHub/internal/storage"
)

// 一个仅执行一次采集任务的命令行入口：适合手动触发采集
func main() {
	cfg := config.Load()

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	p := processor.NewProcessor()
	s, err := scheduler.New(cfg.CronSpec, collector.DefaultFetchers(), p, store, cfg.FetchTimeout)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}

	// 只执行一轮采集任务后退出
	result := s.RunOnce(context.Background())
	log.Printf("collect finished: sources=%d new=%d", result.Sources, result.NewArticles)
	for _, msg := range result.Errors {
		log.Printf("collect error: %s", msg)
	}
}
