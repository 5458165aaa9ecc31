package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-compliance/internal/api"
	"recipe-compliance/internal/core/allergen"
	"recipe-compliance/internal/core/catalog"
	"recipe-compliance/internal/infrastructure/config"
	"recipe-compliance/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	// 使用 logger 記錄啟動信息
	common.LogInfo("載入設定",
		zap.String("obligations_path", cfg.Catalog.ObligationsPath),
		zap.String("directory_base_url", cfg.Directory.BaseURL),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	// 載入參考資料：缺少參考資料引擎無法運作，載入失敗直接終止
	store, err := catalog.Load(catalog.Paths{
		Obligations:    cfg.Catalog.ObligationsPath,
		ProcessedFoods: cfg.Catalog.ProcessedFoodsPath,
		RawProduce:     cfg.Catalog.RawProducePath,
		Seafood:        cfg.Catalog.SeafoodPath,
	}, catalog.Options{
		ProcessedThreshold:      cfg.Harvest.ProcessedThreshold,
		RepresentativeThreshold: cfg.Harvest.RepresentativeThreshold,
		CandidateLimit:          cfg.Harvest.CandidateLimit,
		DairyHints:              cfg.Catalog.DairyHints,
	})
	if err != nil {
		common.LogFatal("Failed to load reference catalog", zap.Error(err))
	}

	// 初始化快取（停用時回傳 no-op 實例，只在開啟且連線失敗時才 Fatal）
	harvestCache, err := allergen.NewHarvestCache(&cfg.Cache)
	if err != nil {
		common.LogFatal("Failed to initialize harvest cache", zap.Error(err))
	}
	defer harvestCache.Close()

	// 設置路由
	router, err := api.SetupRouter(cfg, store, harvestCache)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
