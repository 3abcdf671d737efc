package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/Dumessi/pricing-agent-ocr/matching"
)

// Config 服务配置
type Config struct {
	// 服务
	Port string

	// 数据库
	DatabasePath string

	// 连接池
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// 匹配管线
	Pipeline         matching.PipelineConfig
	MatchConcurrency int

	// 导入限流（每秒请求数与突发容量）
	ImportRPS   float64
	ImportBurst int
}

// LoadConfig 从环境变量加载配置，未设置的项使用默认值
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		DatabasePath:     getEnv("DATABASE_PATH", "./data/materials.db"),
		MaxOpenConns:     getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:     getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:  getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		Pipeline:         matching.DefaultPipelineConfig(),
		MatchConcurrency: getEnvInt("MATCH_CONCURRENCY", 8),
		ImportRPS:        getEnvFloat("IMPORT_RPS", 1),
		ImportBurst:      getEnvInt("IMPORT_BURST", 3),
	}

	// 允许按需覆盖各阶段阈值
	cfg.Pipeline.ExactThreshold = getEnvFloat("MATCH_EXACT_THRESHOLD", cfg.Pipeline.ExactThreshold)
	cfg.Pipeline.SpecThreshold = getEnvFloat("MATCH_SPEC_THRESHOLD", cfg.Pipeline.SpecThreshold)
	cfg.Pipeline.SynonymThreshold = getEnvFloat("MATCH_SYNONYM_THRESHOLD", cfg.Pipeline.SynonymThreshold)
	cfg.Pipeline.CategoryThreshold = getEnvFloat("MATCH_CATEGORY_THRESHOLD", cfg.Pipeline.CategoryThreshold)
	cfg.Pipeline.FuzzyThreshold = getEnvFloat("MATCH_FUZZY_THRESHOLD", cfg.Pipeline.FuzzyThreshold)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置项取值
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("max open conns must be positive, got %d", c.MaxOpenConns)
	}
	if c.MaxIdleConns < 0 || c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("max idle conns must be in [0, %d], got %d", c.MaxOpenConns, c.MaxIdleConns)
	}
	if c.MatchConcurrency <= 0 {
		return fmt.Errorf("match concurrency must be positive, got %d", c.MatchConcurrency)
	}
	for _, t := range []struct {
		name  string
		value float64
	}{
		{"exact", c.Pipeline.ExactThreshold},
		{"specification", c.Pipeline.SpecThreshold},
		{"synonym", c.Pipeline.SynonymThreshold},
		{"category", c.Pipeline.CategoryThreshold},
		{"fuzzy", c.Pipeline.FuzzyThreshold},
	} {
		if t.value < 0 || t.value > 1 {
			return fmt.Errorf("%s threshold must be in [0, 1], got %v", t.name, t.value)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("配置项 %s=%q 不是合法整数，使用默认值 %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("配置项 %s=%q 不是合法数值，使用默认值 %v", key, v, fallback)
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("配置项 %s=%q 不是合法时长，使用默认值 %v", key, v, fallback)
		return fallback
	}
	return d
}
