package main

import (
	"log"
	"strings"

	"github.com/LJTian/CryptoHub/internal/api"
	"github.com/LJTian/CryptoHub/internal/collector"
	"github.com/LJTian/CryptoHub/internal/config"
	"github.com/LJTian/CryptoHub/internal/processor"
	"github.com/LJTian/CryptoHub/internal/scheduler"
	"github.com/LJTian/CryptoHub/internal/storage"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	// 确保各个 RSS 源的记录存在
	for _, src := range collector.DefaultSources() {
		if _, err := store.EnsureSource(sourceCode(src.Name), src.Name, src.URL, src.Category); err != nil {
			log.Fatalf("ensure source %s failed: %v", src.Name, err)
		}
	}

	p := processor.NewProcessor()
	s, err := scheduler.New(cfg.CronSpec, collector.DefaultFetchers(), p, store, cfg.FetchTimeout)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	s.Start()

	// API
	r := gin.Default()
	apiServer := api.NewServer(store, s)
	apiServer.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}

// sourceCode 把展示名转成 code，如 "Bitcoin Magazine" -> "bitcoin-magazine"
func sourceCode(name string) string {
	code := strings.ToLower(name)
	code = strings.ReplaceAll(code, " ", "-")
	code = strings.ReplaceAll(code, "/", "-")
	return code
}
