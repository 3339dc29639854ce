package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"goalpath/internal/service/tools"
)

type ToolsHandler struct {
	svc    *tools.Service
	logger *zap.Logger
}

func NewToolsHandler(svc *tools.Service, logger *zap.Logger) *ToolsHandler {
	return &ToolsHandler{svc: svc, logger: logger}
}

func (h *ToolsHandler) Get(c *gin.Context) {
	snap, err := h.svc.Get(c.Request.Context(), userID(c))
	if err != nil {
		h.logger.Error("GetTools: failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch tools"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *ToolsHandler) Generate(c *gin.Context) {
	bundle, err := h.svc.Generate(c.Request.Context(), userID(c))
	if err != nil {
		if errors.Is(err, tools.ErrNoGoals) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no goals to generate tools from"})
			return
		}
		h.logger.Error("GenerateTools: failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate tools"})
		return
	}

	h.logger.Info("GenerateTools: success", zap.Int("user_id", userID(c)))
	c.JSON(http.StatusOK, gin.H{"tools": bundle})
}

func (h *ToolsHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), userID(c)); err != nil {
		h.logger.Error("DeleteTools: failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete tools"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
