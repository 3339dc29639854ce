// Package mutate applies partial updates to nodes at arbitrary depth in an
// action tree, and hosts the breakdown / time-estimation engine.
package mutate

import (
	"math"

	"goalpath/internal/model"
)

// Patch is a partial update. Nil fields are left untouched; a non-nil
// SubActions replaces the children wholesale.
type Patch struct {
	Title         *string
	Completed     *bool
	Date          *string
	Impact        *int
	Level         *int
	IsExpanded    *bool
	Notes         *string
	EstimatedTime *int
	ActualTime    *int
	TimeGenerated *bool
	SubActions    []*model.Action
}

// ApplyUpdate returns a new forest with the node matching targetID patched.
// Untouched siblings keep their identity (structural sharing); only the
// ancestor chain of the target is rebuilt. If no node matches, the input is
// returned unchanged and found is false — updates against a since-removed
// node are a no-op, not an error.
func ApplyUpdate(nodes []*model.Action, targetID string, p Patch) (out []*model.Action, found bool) {
	for i, n := range nodes {
		if n.ID == targetID {
			clone := applyPatch(n, p)
			return replaceAt(nodes, i, clone), true
		}
		// Matching stops at the patched node: its new children (if any)
		// are taken wholesale, never descended into on this call.
		if updated, ok := ApplyUpdate(n.SubActions, targetID, p); ok {
			clone := *n
			clone.SubActions = updated
			return replaceAt(nodes, i, &clone), true
		}
	}
	return nodes, false
}

func replaceAt(nodes []*model.Action, i int, n *model.Action) []*model.Action {
	out := make([]*model.Action, len(nodes))
	copy(out, nodes)
	out[i] = n
	return out
}

func applyPatch(n *model.Action, p Patch) *model.Action {
	clone := *n
	if p.Title != nil {
		clone.Title = *p.Title
	}
	if p.Completed != nil {
		clone.Completed = *p.Completed
	}
	if p.Date != nil {
		clone.Date = *p.Date
	}
	if p.Impact != nil {
		clone.Impact = *p.Impact
	}
	if p.Level != nil {
		clone.Level = *p.Level
	}
	if p.IsExpanded != nil {
		clone.IsExpanded = *p.IsExpanded
	}
	if p.Notes != nil {
		clone.Notes = *p.Notes
	}
	if p.EstimatedTime != nil {
		clone.EstimatedTime = *p.EstimatedTime
	}
	if p.ActualTime != nil {
		clone.ActualTime = *p.ActualTime
	}
	if p.TimeGenerated != nil {
		clone.TimeGenerated = *p.TimeGenerated
	}
	if p.SubActions != nil {
		clone.SubActions = p.SubActions
	}
	return &clone
}

// Progress derives goal progress from root-level completion only:
// round(100 * completed / total). Sub-action completion does not roll up.
func Progress(roots []*model.Action) int {
	if len(roots) == 0 {
		return 0
	}
	completed := 0
	for _, a := range roots {
		if a.Completed {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(roots))))
}
