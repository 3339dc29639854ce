package mutate

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"goalpath/internal/model"
	"goalpath/internal/service/enhance"
	"goalpath/internal/tree"
)

// EstimateTime fetches a minute estimate for one node and returns the
// updated forest. Unlike breakdown there is no fallback value: an estimate
// is either service-sourced or absent, and failure is reported to the
// caller with the forest unchanged.
func (e *Engine) EstimateTime(ctx context.Context, roots []*model.Action, targetID string, gctx *enhance.GoalContext) ([]*model.Action, int, error) {
	target := tree.Find(roots, targetID)
	if target == nil {
		return roots, 0, nil
	}

	minutes, err := e.enhancer.EstimateActionTime(ctx, enhance.EstimateRequest{
		Title:   target.Title,
		Impact:  target.Impact,
		Notes:   target.Notes,
		Context: gctx,
		Level:   target.Level,
	})
	if err != nil {
		return roots, 0, err
	}

	generated := true
	updated, _ := ApplyUpdate(roots, targetID, Patch{
		EstimatedTime: &minutes,
		TimeGenerated: &generated,
	})
	return updated, minutes, nil
}

// EstimateSubtree walks the subtree rooted at targetID depth-first and
// estimates every node that lacks an estimate, skipping nodes that already
// have one. Sibling estimates are fetched concurrently; a single node's
// failure is logged and skipped, never aborting the batch. The returned
// total sums all estimates in the subtree, counting a still-missing
// estimate as zero.
func (e *Engine) EstimateSubtree(ctx context.Context, roots []*model.Action, targetID string, gctx *enhance.GoalContext) ([]*model.Action, int, error) {
	target := tree.Find(roots, targetID)
	if target == nil {
		return roots, 0, nil
	}

	var pending []*model.Action
	collect(target, &pending)

	type result struct {
		id      string
		minutes int
	}
	results := make(chan result, len(pending))

	g, gctx2 := errgroup.WithContext(ctx)
	g.SetLimit(e.estimateConcurrency)
	for _, node := range pending {
		node := node
		g.Go(func() error {
			minutes, err := e.enhancer.EstimateActionTime(gctx2, enhance.EstimateRequest{
				Title:   node.Title,
				Impact:  node.Impact,
				Notes:   node.Notes,
				Context: gctx,
				Level:   node.Level,
			})
			if err != nil {
				e.logger.Warn("Subtree estimate skipped node",
					zap.String("action_id", node.ID),
					zap.Error(err),
				)
				return nil
			}
			results <- result{id: node.ID, minutes: minutes}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return roots, 0, err
	}
	close(results)

	updated := roots
	generated := true
	for r := range results {
		m := r.minutes
		updated, _ = ApplyUpdate(updated, r.id, Patch{
			EstimatedTime: &m,
			TimeGenerated: &generated,
		})
	}

	total := 0
	sum(tree.Find(updated, targetID), &total)
	return updated, total, nil
}

func collect(n *model.Action, pending *[]*model.Action) {
	if n.EstimatedTime == 0 {
		*pending = append(*pending, n)
	}
	for _, c := range n.SubActions {
		collect(c, pending)
	}
}

func sum(n *model.Action, total *int) {
	if n == nil {
		return
	}
	*total += n.EstimatedTime
	for _, c := range n.SubActions {
		sum(c, total)
	}
}
