package mutate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"goalpath/internal/model"
	"goalpath/internal/service/enhance"
	"goalpath/internal/tree"
	"goalpath/pkg/metrics"
)

// ErrDepthLimit is returned when breakdown is requested for a node at or
// below the configured depth ceiling. The ceiling is product policy, not a
// technical limit.
var ErrDepthLimit = errors.New("breakdown not offered at this depth")

// Enhancer is the slice of the enhancement client the engine needs.
type Enhancer interface {
	BreakDownAction(ctx context.Context, req enhance.BreakdownRequest) (*enhance.BreakdownResponse, error)
	EstimateActionTime(ctx context.Context, req enhance.EstimateRequest) (int, error)
}

// Engine applies breakdown and time-estimation operations to action trees.
type Engine struct {
	enhancer            Enhancer
	maxDepth            int
	estimateConcurrency int
	logger              *zap.Logger
}

func NewEngine(enhancer Enhancer, maxDepth, estimateConcurrency int, logger *zap.Logger) *Engine {
	if maxDepth <= 0 {
		maxDepth = 3
	}
	if estimateConcurrency <= 0 {
		estimateConcurrency = 4
	}
	return &Engine{
		enhancer:            enhancer,
		maxDepth:            maxDepth,
		estimateConcurrency: estimateConcurrency,
		logger:              logger,
	}
}

// CanBreakDown reports whether breakdown is still offered for a node.
func (e *Engine) CanBreakDown(a *model.Action) bool {
	return a.Level < e.maxDepth
}

// BreakDown decomposes the node with targetID. A node is broken down at
// most once: if it already has children the call is a pure expanded-state
// toggle and no content is generated. Otherwise the enhancement service is
// asked for 3-5 sub-steps; on any service failure the fixed generic
// breakdown is used instead, so the operation degrades rather than errors.
func (e *Engine) BreakDown(ctx context.Context, roots []*model.Action, targetID string, gctx *enhance.GoalContext) ([]*model.Action, error) {
	target := tree.Find(roots, targetID)
	if target == nil {
		return roots, nil
	}

	if len(target.SubActions) > 0 {
		expanded := !target.IsExpanded
		updated, _ := ApplyUpdate(roots, targetID, Patch{IsExpanded: &expanded})
		metrics.IncrementBreakdown("toggle")
		return updated, nil
	}

	if !e.CanBreakDown(target) {
		return roots, ErrDepthLimit
	}

	source := "ai"
	resp, err := e.enhancer.BreakDownAction(ctx, enhance.BreakdownRequest{
		Title:   target.Title,
		Level:   target.Level,
		Context: gctx,
	})
	if err != nil {
		e.logger.Warn("Breakdown degraded to fallback",
			zap.String("action_id", targetID),
			zap.Error(err),
		)
		resp = enhance.FallbackBreakdown(target.Title)
		source = "fallback"
	}
	metrics.IncrementBreakdown(source)

	children := mintChildren(target, resp.SubActions, time.Now())
	expanded := true
	updated, _ := ApplyUpdate(roots, targetID, Patch{
		SubActions: children,
		IsExpanded: &expanded,
	})
	return updated, nil
}

// mintChildren turns suggestions into child actions with fresh ids scoped
// under the parent (timestamp + index keeps them unique within the tree)
// and depth one below the parent.
func mintChildren(parent *model.Action, suggestions []enhance.SubActionSuggestion, now time.Time) []*model.Action {
	children := make([]*model.Action, 0, len(suggestions))
	for i, s := range suggestions {
		children = append(children, &model.Action{
			ID:            fmt.Sprintf("%s-sub-%d-%d", parent.ID, now.UnixMilli(), i),
			ParentID:      parent.ID,
			Title:         s.Title,
			Date:          now.Format("2006-01-02"),
			Impact:        impactOf(s),
			Level:         parent.Level + 1,
			Notes:         s.Description,
			EstimatedTime: s.EstimatedMinutes,
			TimeGenerated: s.EstimatedMinutes > 0,
		})
	}
	return children
}

func impactOf(s enhance.SubActionSuggestion) int {
	if s.EstimatedMinutes > 0 {
		return s.EstimatedMinutes
	}
	return 10
}
