package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	Catalog     CatalogConfig    `mapstructure:"catalog"`
	Directory   DirectoryConfig  `mapstructure:"directory"`
	Harvest     HarvestConfig    `mapstructure:"harvest"`
	Cache       CacheConfig      `mapstructure:"cache"`
	Regulation  RegulationConfig `mapstructure:"regulation"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// CatalogConfig 參考資料檔案路徑
type CatalogConfig struct {
	ObligationsPath    string   `mapstructure:"obligations_path"`
	ProcessedFoodsPath string   `mapstructure:"processed_foods_path"`
	RawProducePath     string   `mapstructure:"raw_produce_path"`
	SeafoodPath        string   `mapstructure:"seafood_path"`
	DairyHints         []string `mapstructure:"dairy_hints"` // 乳製品分類提示詞
}

// DirectoryConfig 認證產品目錄 API 配置
type DirectoryConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	PageSize int           `mapstructure:"page_size"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// HarvestConfig 證據採集設定
type HarvestConfig struct {
	Workers                 int     `mapstructure:"workers"`
	EvidenceCap             int     `mapstructure:"evidence_cap"`
	ProcessedThreshold      float64 `mapstructure:"processed_threshold"`
	RepresentativeThreshold float64 `mapstructure:"representative_threshold"`
	CandidateLimit          int     `mapstructure:"candidate_limit"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Addr    string        `mapstructure:"addr"`
	DB      int           `mapstructure:"db"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// RegulationConfig 違規案例 CSV 路徑
type RegulationConfig struct {
	SearchIndexPath string `mapstructure:"search_index_path"`
	DetailIndexPath string `mapstructure:"detail_index_path"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件（不存在時沿用環境變數與預設值）
	_ = godotenv.Load()

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("directory.base_url", "DIRECTORY_BASE_URL")
	viper.BindEnv("directory.api_key", "DIRECTORY_API_KEY")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("cache.addr", "REDIS_ADDR")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "recipe-compliance")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// 參考資料設定
	viper.SetDefault("catalog.obligations_path", "data/allergen_obligations.json")
	viper.SetDefault("catalog.processed_foods_path", "data/processed_foods.json")
	viper.SetDefault("catalog.raw_produce_path", "data/raw_produce.txt")
	viper.SetDefault("catalog.seafood_path", "data/seafood_categories.json")
	viper.SetDefault("catalog.dairy_hints", []string{"유가공", "우유류", "치즈", "버터"})

	// 認證產品目錄設定
	viper.SetDefault("directory.base_url", "https://apis.data.go.kr/B553748/CertImgListServiceV3")
	viper.SetDefault("directory.page_size", 20)
	viper.SetDefault("directory.timeout", "10s")

	// 證據採集設定
	// 閾值與上限為經驗值，維持與既有資料驗證過的行為一致
	viper.SetDefault("harvest.workers", 5)
	viper.SetDefault("harvest.evidence_cap", 5)
	viper.SetDefault("harvest.processed_threshold", 0.80)
	viper.SetDefault("harvest.representative_threshold", 0.75)
	viper.SetDefault("harvest.candidate_limit", 5)

	// 快取設定
	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.addr", "localhost:6379")
	viper.SetDefault("cache.db", 0)
	viper.SetDefault("cache.ttl", "24h")

	// 違規案例設定
	viper.SetDefault("regulation.search_index_path", "data/regulation_search.csv")
	viper.SetDefault("regulation.detail_index_path", "data/regulation_detail.csv")

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	// 重複請求過濾視窗
	viper.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證參考資料路徑
	if config.Catalog.ObligationsPath == "" ||
		config.Catalog.ProcessedFoodsPath == "" ||
		config.Catalog.RawProducePath == "" ||
		config.Catalog.SeafoodPath == "" {
		return fmt.Errorf("catalog reference file paths are required")
	}

	// 驗證採集設定
	if config.Harvest.Workers <= 0 {
		return fmt.Errorf("invalid harvest workers")
	}
	if config.Harvest.EvidenceCap <= 0 {
		return fmt.Errorf("invalid harvest evidence cap")
	}
	if config.Harvest.ProcessedThreshold <= 0 || config.Harvest.ProcessedThreshold > 1 {
		return fmt.Errorf("invalid processed-name threshold")
	}
	if config.Harvest.RepresentativeThreshold <= 0 || config.Harvest.RepresentativeThreshold > 1 {
		return fmt.Errorf("invalid representative-name threshold")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.Addr == "" {
			return fmt.Errorf("cache addr is required when cache is enabled")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	return nil
}
