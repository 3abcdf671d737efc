package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Dumessi/pricing-agent-ocr/database"
	"github.com/Dumessi/pricing-agent-ocr/internal/config"
	"github.com/Dumessi/pricing-agent-ocr/matching"
	"github.com/Dumessi/pricing-agent-ocr/server/handlers"
	"github.com/Dumessi/pricing-agent-ocr/server/middleware"
	"github.com/Dumessi/pricing-agent-ocr/server/services"
)

// Server HTTP 服务：组装匹配管线、存储与各接口处理器
type Server struct {
	config     *config.Config
	httpServer *http.Server

	materialDB *database.MaterialDB
	synonymDB  *database.SynonymDB

	matchHandler    *handlers.MatchHandler
	materialHandler *handlers.MaterialHandler
	synonymHandler  *handlers.SynonymHandler
	systemHandler   *handlers.SystemHandler
}

// New 创建服务器并完成依赖装配
func New(cfg *config.Config, materialDB *database.MaterialDB, synonymDB *database.SynonymDB) *Server {
	pipeline := matching.NewMatchPipeline(materialDB, synonymDB, cfg.Pipeline)
	generator := matching.NewSynonymGenerator(nil)

	matchService := services.NewMatchService(pipeline, cfg.MatchConcurrency)
	materialService := services.NewMaterialService(materialDB)
	synonymService := services.NewSynonymService(synonymDB, materialDB, generator)

	return &Server{
		config:          cfg,
		materialDB:      materialDB,
		synonymDB:       synonymDB,
		matchHandler:    handlers.NewMatchHandler(matchService),
		materialHandler: handlers.NewMaterialHandler(materialService),
		synonymHandler:  handlers.NewSynonymHandler(synonymService),
		systemHandler:   handlers.NewSystemHandler(materialService),
	}
}

// buildRouter 构建 gin 路由与中间件链
func (s *Server) buildRouter() *gin.Engine {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.GinRequestIDMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinGzipMiddleware())
	router.Use(middleware.GinLoggerMiddleware())
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/health", s.systemHandler.HandleHealth)

		api.POST("/match", s.matchHandler.HandleMatch)
		api.POST("/match/batch", s.matchHandler.HandleMatchBatch)

		api.GET("/materials", s.materialHandler.HandleSearch)
		api.GET("/materials/:code", s.materialHandler.HandleGet)

		api.POST("/synonyms", s.synonymHandler.HandleCreate)
		api.POST("/synonyms/batch", s.synonymHandler.HandleCreateBatch)
		api.GET("/synonyms", s.synonymHandler.HandleList)
		api.GET("/synonyms/:id", s.synonymHandler.HandleGet)
		api.PUT("/synonyms/:id", s.synonymHandler.HandleReplace)
		api.DELETE("/synonyms/:id", s.synonymHandler.HandleDelete)

		// 导入与批量生成是重操作，单独限流
		imports := api.Group("")
		imports.Use(middleware.GinRateLimitMiddleware(s.config.ImportRPS, s.config.ImportBurst))
		{
			imports.POST("/materials/import", s.materialHandler.HandleImport)
			imports.POST("/synonyms/import", s.synonymHandler.HandleImport)
			imports.POST("/synonyms/generate", s.synonymHandler.HandleGenerate)
		}
	}

	return router
}

// Start 启动 HTTP 服务，阻塞直到服务停止
func (s *Server) Start() error {
	router := s.buildRouter()

	addr := fmt.Sprintf(":%s", s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // 大文件导入可能较慢
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("服务启动，监听端口 %s", s.config.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Shutdown 优雅停机
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	log.Println("服务停机中...")
	return s.httpServer.Shutdown(ctx)
}
