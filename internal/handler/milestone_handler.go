package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"goalpath/internal/model"
	"goalpath/internal/service/goal"
)

type MilestoneHandler struct {
	svc    *goal.Service
	logger *zap.Logger
}

func NewMilestoneHandler(svc *goal.Service, logger *zap.Logger) *MilestoneHandler {
	return &MilestoneHandler{svc: svc, logger: logger}
}

func (h *MilestoneHandler) List(c *gin.Context) {
	milestones, err := h.svc.ListMilestones(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, err, "ListMilestones")
		return
	}
	c.JSON(http.StatusOK, gin.H{"milestones": milestones})
}

type saveMilestonesRequest struct {
	Milestones []*model.Milestone `json:"milestones" binding:"required"`
}

func (h *MilestoneHandler) Save(c *gin.Context) {
	var req saveMilestonesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "milestones required"})
		return
	}

	saved, err := h.svc.SaveMilestones(c.Request.Context(), userID(c), c.Param("id"), req.Milestones)
	if err != nil {
		writeServiceError(c, h.logger, err, "SaveMilestones")
		return
	}
	c.JSON(http.StatusOK, gin.H{"milestones": saved})
}

func (h *MilestoneHandler) Update(c *gin.Context) {
	var req goal.UpdateMilestoneInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	m, err := h.svc.UpdateMilestone(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, h.logger, err, "UpdateMilestone")
		return
	}
	c.JSON(http.StatusOK, gin.H{"milestone": m})
}
