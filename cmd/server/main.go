package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Dumessi/pricing-agent-ocr/database"
	"github.com/Dumessi/pricing-agent-ocr/internal/config"
	"github.com/Dumessi/pricing-agent-ocr/server"
)

func main() {
	log.Println("启动物料匹配服务...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("创建数据目录失败: %v", err)
		}
	}

	dbConfig := database.DBConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}

	materialDB, err := database.NewMaterialDBWithConfig(cfg.DatabasePath, dbConfig)
	if err != nil {
		log.Fatalf("打开物料数据库失败: %v", err)
	}
	defer materialDB.Close()

	synonymDB, err := database.NewSynonymDBWithConfig(cfg.DatabasePath, dbConfig)
	if err != nil {
		log.Fatalf("打开同义词数据库失败: %v", err)
	}
	defer synonymDB.Close()
	log.Printf("数据库就绪: %s", cfg.DatabasePath)

	srv := server.New(cfg, materialDB, synonymDB)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号后优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("停机超时，强制退出: %v", err)
	}
	log.Println("服务已退出")
}
