package allergen

import (
	"context"
	"encoding/json"
	"fmt"

	"recipe-compliance/internal/infrastructure/config"
	"recipe-compliance/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// HarvestCache 證據採集結果的 Redis 快取。
// 停用時所有操作均為無害的 no-op，呼叫端不需判斷。
type HarvestCache struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewHarvestCache 創建證據快取，停用時回傳無 client 的實例
func NewHarvestCache(cfg *config.CacheConfig) (*HarvestCache, error) {
	if !cfg.Enabled {
		return &HarvestCache{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &HarvestCache{
		client: client,
		config: cfg,
	}, nil
}

// Get 讀取已快取的採集結果
func (c *HarvestCache) Get(ctx context.Context, country, ingredient string) (*common.IngredientEvidence, bool) {
	if c == nil || !c.config.Enabled || c.client == nil {
		return nil, false
	}

	key := c.generateKey(country, ingredient)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		common.LogCacheMiss("harvest", key)
		return nil, false
	}

	var ev common.IngredientEvidence
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, false
	}

	common.LogCacheHit("harvest", key)
	return &ev, true
}

// Set 寫入採集結果
func (c *HarvestCache) Set(ctx context.Context, country, ingredient string, ev *common.IngredientEvidence) error {
	if c == nil || !c.config.Enabled || c.client == nil {
		return nil
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal evidence: %w", err)
	}

	key := c.generateKey(country, ingredient)
	if err := c.client.Set(ctx, key, data, c.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉快取連線
func (c *HarvestCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// generateKey 生成快取鍵；比對結果依國家而異，鍵需包含國碼
func (c *HarvestCache) generateKey(country, ingredient string) string {
	return fmt.Sprintf("harvest:%s:%s", country, ingredient)
}
