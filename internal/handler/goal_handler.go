package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"goalpath/internal/service/goal"
)

type GoalHandler struct {
	svc    *goal.Service
	logger *zap.Logger
}

func NewGoalHandler(svc *goal.Service, logger *zap.Logger) *GoalHandler {
	return &GoalHandler{svc: svc, logger: logger}
}

// userID is set by the auth middleware; routes behind it always have one.
func userID(c *gin.Context) int {
	return c.GetInt("user_id")
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Unknown errors are logged and returned as opaque 500s.
func writeServiceError(c *gin.Context, logger *zap.Logger, err error, op string) {
	var verr *goal.ValidationError
	switch {
	case errors.Is(err, goal.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, goal.ErrEnhanceInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "enhancement already in progress"})
	default:
		logger.Error(op+": failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *GoalHandler) List(c *gin.Context) {
	goals, err := h.svc.List(c.Request.Context(), userID(c))
	if err != nil {
		writeServiceError(c, h.logger, err, "ListGoals")
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

func (h *GoalHandler) Create(c *gin.Context) {
	var req goal.CreateGoalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	g, err := h.svc.Create(c.Request.Context(), userID(c), req)
	if err != nil {
		writeServiceError(c, h.logger, err, "CreateGoal")
		return
	}

	h.logger.Info("CreateGoal: success",
		zap.Int("user_id", userID(c)),
		zap.String("goal_id", g.ID),
	)
	c.JSON(http.StatusCreated, gin.H{"goal": g})
}

func (h *GoalHandler) Update(c *gin.Context) {
	var req goal.UpdateGoalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	g, err := h.svc.Update(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, h.logger, err, "UpdateGoal")
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": g})
}

func (h *GoalHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		writeServiceError(c, h.logger, err, "DeleteGoal")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *GoalHandler) Enhance(c *gin.Context) {
	goalID := c.Param("id")
	resp, err := h.svc.Enhance(c.Request.Context(), userID(c), goalID)
	if err != nil {
		writeServiceError(c, h.logger, err, "EnhanceGoal")
		return
	}

	h.logger.Info("EnhanceGoal: success",
		zap.String("goal_id", goalID),
		zap.Int("action_count", len(resp.Actions)),
		zap.Int("milestone_count", len(resp.Milestones)),
	)
	c.JSON(http.StatusOK, resp)
}
