// Package tree converts between the flat storage representation of actions
// (rows with an optional parent id) and the nested in-memory tree, for a
// single ownership domain at a time.
package tree

import (
	"github.com/google/uuid"

	"goalpath/internal/model"
)

// BuildResult carries the assembled forest plus the ids of orphan nodes:
// records whose parent id did not resolve within the supplied set. Orphans
// are promoted to roots rather than dropped, so the data stays visible; the
// caller decides how loudly to report them.
type BuildResult struct {
	Roots   []*model.Action
	Orphans []string
}

// Build assembles a nested forest from flat records. Relative input order is
// preserved everywhere (the storage layer supplies rows in creation order).
//
// Stored level is authoritative and never recomputed from tree position; a
// row whose level disagrees with its actual parent chain is preserved as-is.
func Build(records []model.ActionRecord) BuildResult {
	nodes := make(map[string]*model.Action, len(records))
	expanded := make(map[string]*bool, len(records))

	for i := range records {
		rec := &records[i]
		nodes[rec.ID] = &model.Action{
			ID:            rec.ID,
			ParentID:      rec.ParentID,
			Title:         rec.Title,
			Completed:     rec.Completed,
			Date:          rec.Date,
			Impact:        rec.Impact,
			Level:         rec.Level,
			IsExpanded:    rec.Expanded != nil && *rec.Expanded,
			Notes:         rec.Notes,
			EstimatedTime: rec.EstimatedTime,
			ActualTime:    rec.ActualTime,
			TimeGenerated: rec.TimeGenerated,
		}
		expanded[rec.ID] = rec.Expanded
	}

	var result BuildResult
	for i := range records {
		rec := &records[i]
		node := nodes[rec.ID]
		if rec.ParentID == "" {
			result.Roots = append(result.Roots, node)
			continue
		}
		parent, ok := nodes[rec.ParentID]
		if !ok {
			// Dangling parent reference: root the node and flag it.
			result.Orphans = append(result.Orphans, rec.ID)
			result.Roots = append(result.Roots, node)
			continue
		}
		parent.SubActions = append(parent.SubActions, node)
	}

	// A node with children is shown expanded unless the stored state was an
	// explicit collapse.
	for id, node := range nodes {
		if len(node.SubActions) > 0 {
			if e := expanded[id]; e == nil || *e {
				node.IsExpanded = true
			}
		}
	}

	return result
}

// Flatten emits the forest depth-first as flat records, each carrying the
// identifier of the parent it was reached through. Node ids are preserved
// so persistence can distinguish updates (ids minted by the store) from
// inserts (locally minted ids, see IsPersistedID).
func Flatten(roots []*model.Action, ownerID string) []model.ActionRecord {
	var out []model.ActionRecord
	var walk func(nodes []*model.Action, parentID string)
	walk = func(nodes []*model.Action, parentID string) {
		for _, n := range nodes {
			e := n.IsExpanded
			out = append(out, model.ActionRecord{
				ID:            n.ID,
				OwnerID:       ownerID,
				ParentID:      parentID,
				Title:         n.Title,
				Completed:     n.Completed,
				Date:          n.Date,
				Impact:        n.Impact,
				Level:         n.Level,
				Expanded:      &e,
				Notes:         n.Notes,
				EstimatedTime: n.EstimatedTime,
				ActualTime:    n.ActualTime,
				TimeGenerated: n.TimeGenerated,
			})
			walk(n.SubActions, n.ID)
		}
	}
	walk(roots, "")
	return out
}

// Find returns the node with the given id anywhere in the forest, or nil.
func Find(roots []*model.Action, id string) *model.Action {
	for _, n := range roots {
		if n.ID == id {
			return n
		}
		if found := Find(n.SubActions, id); found != nil {
			return found
		}
	}
	return nil
}

// IsPersistedID reports whether an id was minted by the store (a UUID) as
// opposed to a local suggestion id ("ai-..." / "<parent>-sub-..."). The
// distinction drives update-vs-insert during persistence.
func IsPersistedID(id string) bool {
	return uuid.Validate(id) == nil
}
