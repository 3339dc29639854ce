package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"goalpath/internal/service/enhance"
)

type Analyzer interface {
	AnalyzeTask(ctx context.Context, req enhance.AnalyzeRequest) (*enhance.AnalyzeResponse, error)
}

// AnalyzeHandler proxies single-task analysis to the enhancement service.
// Nothing is persisted; failure degrades to the generic analysis.
type AnalyzeHandler struct {
	analyzer Analyzer
	logger   *zap.Logger
}

func NewAnalyzeHandler(analyzer Analyzer, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer, logger: logger}
}

func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req enhance.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Task.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task title required"})
		return
	}

	resp, err := h.analyzer.AnalyzeTask(c.Request.Context(), req)
	if err != nil {
		h.logger.Warn("AnalyzeTask degraded to fallback",
			zap.String("task_title", req.Task.Title),
			zap.Error(err),
		)
		resp = enhance.FallbackAnalyze(req.Task)
	}
	c.JSON(http.StatusOK, gin.H{"analysis": resp})
}
