package regulation

import (
	"net/http"

	regulationService "recipe-compliance/internal/core/regulation"
	"recipe-compliance/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CasesRequest 違規案例比對請求
type CasesRequest struct {
	RecipeText string `json:"recipe_text" binding:"required"` // 「產品名: 食材清單」格式
	RecipeID   string `json:"recipe_id,omitempty"`
}

// Handler 違規案例處理程序
type Handler struct {
	matcher *regulationService.Matcher
}

// NewHandler 創建違規案例處理程序
func NewHandler(matcher *regulationService.Matcher) *Handler {
	return &Handler{matcher: matcher}
}

// HandleCases 比對歷史違規案例。
// 查無案例是有效結果（空清單）；只有索引載入失敗回傳 503。
func (h *Handler) HandleCases(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req CasesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.matcher.MatchCases(req.RecipeText, req.RecipeID)
	if err != nil {
		common.LogError("違規案例索引載入失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": common.ErrCaseIndexLoad.Message,
			"code":  common.ErrCaseIndexLoad.Code,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
