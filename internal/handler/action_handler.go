package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"goalpath/internal/model"
	"goalpath/internal/mutate"
	"goalpath/internal/service/goal"
)

type ActionHandler struct {
	svc    *goal.Service
	logger *zap.Logger
}

func NewActionHandler(svc *goal.Service, logger *zap.Logger) *ActionHandler {
	return &ActionHandler{svc: svc, logger: logger}
}

// scopeOf reads the ?scope= query. Goal actions are the default; only
// "milestone" selects the other domain.
func scopeOf(c *gin.Context) goal.Scope {
	if c.Query("scope") == string(goal.ScopeMilestone) {
		return goal.ScopeMilestone
	}
	return goal.ScopeGoal
}

func (h *ActionHandler) List(c *gin.Context) {
	actions, err := h.svc.ListActions(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, err, "ListActions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions})
}

type saveActionsRequest struct {
	Actions []*model.Action `json:"actions" binding:"required"`
}

func (h *ActionHandler) Save(c *gin.Context) {
	var req saveActionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "actions required"})
		return
	}

	saved, err := h.svc.SaveActions(c.Request.Context(), userID(c), c.Param("id"), req.Actions)
	if err != nil {
		writeServiceError(c, h.logger, err, "SaveActions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": saved})
}

type updateActionRequest struct {
	Title         *string `json:"title"`
	Completed     *bool   `json:"completed"`
	Date          *string `json:"date"`
	Impact        *int    `json:"impact"`
	IsExpanded    *bool   `json:"isExpanded"`
	Notes         *string `json:"notes"`
	EstimatedTime *int    `json:"estimatedTime"`
	ActualTime    *int    `json:"actualTime"`
	TimeGenerated *bool   `json:"timeGenerated"`
}

func (h *ActionHandler) Update(c *gin.Context) {
	var req updateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p := mutate.Patch{
		Title:         req.Title,
		Completed:     req.Completed,
		Date:          req.Date,
		Impact:        req.Impact,
		IsExpanded:    req.IsExpanded,
		Notes:         req.Notes,
		EstimatedTime: req.EstimatedTime,
		ActualTime:    req.ActualTime,
		TimeGenerated: req.TimeGenerated,
	}
	rec, err := h.svc.UpdateAction(c.Request.Context(), userID(c), scopeOf(c), c.Param("id"), p)
	if err != nil {
		writeServiceError(c, h.logger, err, "UpdateAction")
		return
	}
	c.JSON(http.StatusOK, gin.H{"action": rec})
}

func (h *ActionHandler) BreakDown(c *gin.Context) {
	actionID := c.Param("id")
	action, err := h.svc.BreakDownAction(c.Request.Context(), userID(c), scopeOf(c), actionID)
	if err != nil {
		if errors.Is(err, mutate.ErrDepthLimit) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "maximum breakdown depth reached"})
			return
		}
		writeServiceError(c, h.logger, err, "BreakDownAction")
		return
	}

	h.logger.Info("BreakDownAction: success",
		zap.String("action_id", actionID),
		zap.Int("sub_action_count", len(action.SubActions)),
	)
	c.JSON(http.StatusOK, gin.H{"action": action})
}

func (h *ActionHandler) Estimate(c *gin.Context) {
	minutes, err := h.svc.EstimateAction(c.Request.Context(), userID(c), scopeOf(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, goal.ErrNotFound) {
			writeServiceError(c, h.logger, err, "EstimateAction")
			return
		}
		// Estimation has no fallback: a failed estimate is reported, not
		// fabricated.
		h.logger.Warn("EstimateAction: estimation unavailable",
			zap.String("action_id", c.Param("id")),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "estimation unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"estimatedTime": minutes})
}

func (h *ActionHandler) EstimateSubtree(c *gin.Context) {
	action, total, err := h.svc.EstimateSubtree(c.Request.Context(), userID(c), scopeOf(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, err, "EstimateSubtree")
		return
	}
	c.JSON(http.StatusOK, gin.H{"action": action, "totalEstimatedTime": total})
}
