package allergen

import (
	"net/http"

	allergenService "recipe-compliance/internal/core/allergen"
	"recipe-compliance/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnalyzeRequest 過敏原分析請求
type AnalyzeRequest struct {
	RecipeText    string `json:"recipe_text" binding:"required"`    // 食譜或食材清單文字
	TargetCountry string `json:"target_country" binding:"required"` // 目標出口國代碼
}

// Handler 過敏原分析處理程序
type Handler struct {
	service *allergenService.Service
}

// NewHandler 創建過敏原分析處理程序
func NewHandler(service *allergenService.Service) *Handler {
	return &Handler{service: service}
}

// HandleAnalyze 執行過敏原分析。
// 引擎層不會失敗：未知國碼與查無證據都是有效結果，一律回傳 200。
func (h *Handler) HandleAnalyze(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	common.LogInfo("開始處理過敏原分析請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result := h.service.Analyze(c.Request.Context(), req.RecipeText, req.TargetCountry)

	c.JSON(http.StatusOK, result)
}
