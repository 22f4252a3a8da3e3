package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/LJTian/CryptoHub/internal/scheduler"
	"github.com/LJTian/CryptoHub/internal/storage"
	"github.com/gin-gonic/gin"
)

type Server struct {
	store     *storage.Store
	scheduler *scheduler.Scheduler
}

func NewServer(store *storage.Store, sched *scheduler.Scheduler) *Server {
	return &Server{store: store, scheduler: sched}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/articles", s.listArticles)
		v1.GET("/categories", s.listCategories)
		v1.GET("/ingest", s.ingestStatus)
		v1.POST("/ingest", s.runIngest)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// listArticles 支持三种读取方式：q= 搜索、category= 按分类、默认最新列表
func (s *Server) listArticles(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "20")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 20
	}

	var (
		items    []storage.Article
		queryErr error
	)
	switch {
	case c.Query("q") != "":
		items, queryErr = s.store.Search(c.Query("q"), limit)
	case c.Query("category") != "":
		items, queryErr = s.store.ByCategory(c.Query("category"), limit)
	default:
		items, queryErr = s.store.Latest(limit)
	}

	if queryErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    items,
	})
}

func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.store.ListCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    categories,
	})
}

func (s *Server) ingestStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "ingest ready, use POST to trigger a run",
	})
}

// runIngest 手动触发一轮采集并同步返回聚合结果
func (s *Server) runIngest(c *gin.Context) {
	result := s.scheduler.RunOnce(context.Background())

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    result,
	})
}
