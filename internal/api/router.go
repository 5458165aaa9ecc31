package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	allergenHandler "recipe-compliance/internal/api/handlers/allergen"
	"recipe-compliance/internal/api/handlers/health"
	regulationHandler "recipe-compliance/internal/api/handlers/regulation"
	"recipe-compliance/internal/api/middleware"
	allergenService "recipe-compliance/internal/core/allergen"
	"recipe-compliance/internal/core/catalog"
	regulationService "recipe-compliance/internal/core/regulation"
	"recipe-compliance/internal/infrastructure/config"
	"recipe-compliance/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置：證據採集需多次外部查詢，視窗放寬
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (1MB)，請求只含文字
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, store *catalog.Store, harvestCache *allergenService.HarvestCache) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流與重複請求過濾
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Int("harvest_workers", cfg.Harvest.Workers),
		zap.String("directory_base_url", cfg.Directory.BaseURL),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化過敏原比對與證據採集服務
	matcher := allergenService.NewMatcher(store)
	directory := allergenService.NewDirectoryClient(cfg)
	harvester := allergenService.NewHarvester(directory, store, harvestCache, cfg)
	analyzeSvc := allergenService.NewService(store, matcher, harvester, cfg)
	if analyzeSvc == nil {
		common.LogError("Failed to initialize allergen service")
		return nil, fmt.Errorf("failed to initialize allergen service")
	}

	// 初始化違規案例比對服務（索引延遲載入）
	caseMatcher := regulationService.NewMatcher(cfg.Regulation)

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		// 設置配置與參考資料
		c.Set("config", cfg)
		c.Set("catalog", store)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		allergenGroup := api.Group("/allergen")
		{
			h := allergenHandler.NewHandler(analyzeSvc)
			allergenGroup.POST("/analyze", h.HandleAnalyze)
		}

		regulationGroup := api.Group("/regulation")
		{
			h := regulationHandler.NewHandler(caseMatcher)
			regulationGroup.POST("/cases", h.HandleCases)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Int("catalog_countries", store.Countries()),
		zap.Int("catalog_entries", store.Entries()),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
