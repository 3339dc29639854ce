package goal

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goalpath/internal/model"
	"goalpath/internal/mutate"
	"goalpath/internal/service/enhance"
	"goalpath/internal/tree"
)

// Scope selects which ownership domain an action lives in. Goal actions
// and milestone actions have identical shapes but disjoint id spaces.
type Scope string

const (
	ScopeGoal      Scope = "goal"
	ScopeMilestone Scope = "milestone"
)

func (s *Service) storeFor(scope Scope) ActionStore {
	if scope == ScopeMilestone {
		return s.milestoneActions
	}
	return s.actions
}

// resolveOwner walks from an action's owner id back to the goal and
// enforces ownership. For milestone-scoped actions that is two hops:
// action -> milestone -> goal.
func (s *Service) resolveOwner(ctx context.Context, userID int, scope Scope, ownerID string) (*model.Goal, error) {
	if scope == ScopeMilestone {
		m, err := s.milestones.FindByID(ctx, ownerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return s.ownedGoal(ctx, userID, m.GoalID)
	}
	return s.ownedGoal(ctx, userID, ownerID)
}

// ListActions returns the goal's direct action tree.
func (s *Service) ListActions(ctx context.Context, userID int, goalID string) ([]*model.Action, error) {
	if _, err := s.ownedGoal(ctx, userID, goalID); err != nil {
		return nil, err
	}
	return s.loadTree(ctx, s.actions, goalID)
}

// SaveActions upserts a whole action tree under the goal. Nodes carrying a
// database id are updated in place; freshly minted nodes are inserted and
// pick up their database ids, which are written back into the tree so the
// caller sees the persisted identifiers. Goal progress is recomputed from
// the saved roots.
func (s *Service) SaveActions(ctx context.Context, userID int, goalID string, roots []*model.Action) ([]*model.Action, error) {
	if _, err := s.ownedGoal(ctx, userID, goalID); err != nil {
		return nil, err
	}
	if err := s.persistTree(ctx, s.actions, goalID, roots, ""); err != nil {
		return nil, err
	}
	if err := s.goals.UpdateProgress(ctx, goalID, mutate.Progress(roots)); err != nil {
		return nil, err
	}
	return roots, nil
}

func (s *Service) persistTree(ctx context.Context, store ActionStore, ownerID string, nodes []*model.Action, parentID string) error {
	for _, n := range nodes {
		rec := recordFrom(n, ownerID, parentID)
		if tree.IsPersistedID(n.ID) {
			rec.ID = n.ID
			if err := store.Update(ctx, rec); err != nil {
				return err
			}
		} else {
			if err := store.Insert(ctx, rec); err != nil {
				return err
			}
			n.ID = rec.ID
		}
		if err := s.persistTree(ctx, store, ownerID, n.SubActions, n.ID); err != nil {
			return err
		}
	}
	return nil
}

func recordFrom(n *model.Action, ownerID, parentID string) *model.ActionRecord {
	expanded := n.IsExpanded
	return &model.ActionRecord{
		OwnerID:       ownerID,
		ParentID:      parentID,
		Title:         n.Title,
		Completed:     n.Completed,
		Date:          n.Date,
		Impact:        n.Impact,
		Level:         n.Level,
		Expanded:      &expanded,
		Notes:         n.Notes,
		EstimatedTime: n.EstimatedTime,
		ActualTime:    n.ActualTime,
		TimeGenerated: n.TimeGenerated,
	}
}

// UpdateAction patches a single persisted action. Only fields present in
// the patch change. When a root goal action flips completion, goal
// progress is recomputed.
func (s *Service) UpdateAction(ctx context.Context, userID int, scope Scope, actionID string, p mutate.Patch) (*model.ActionRecord, error) {
	store := s.storeFor(scope)
	rec, err := store.FindByID(ctx, actionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.resolveOwner(ctx, userID, scope, rec.OwnerID); err != nil {
		return nil, err
	}

	completionChanged := p.Completed != nil && *p.Completed != rec.Completed
	mergePatch(rec, p)
	if err := store.Update(ctx, rec); err != nil {
		return nil, err
	}

	if scope == ScopeGoal && rec.ParentID == "" && completionChanged {
		if err := s.recomputeProgress(ctx, rec.OwnerID); err != nil {
			s.logger.Warn("Progress recompute failed after action update",
				zap.String("goal_id", rec.OwnerID),
				zap.Error(err),
			)
		}
	}
	return rec, nil
}

func mergePatch(rec *model.ActionRecord, p mutate.Patch) {
	if p.Title != nil {
		rec.Title = *p.Title
	}
	if p.Completed != nil {
		rec.Completed = *p.Completed
	}
	if p.Date != nil {
		rec.Date = *p.Date
	}
	if p.Impact != nil {
		rec.Impact = *p.Impact
	}
	if p.Level != nil {
		rec.Level = *p.Level
	}
	if p.IsExpanded != nil {
		v := *p.IsExpanded
		rec.Expanded = &v
	}
	if p.Notes != nil {
		rec.Notes = *p.Notes
	}
	if p.EstimatedTime != nil {
		rec.EstimatedTime = *p.EstimatedTime
	}
	if p.ActualTime != nil {
		rec.ActualTime = *p.ActualTime
	}
	if p.TimeGenerated != nil {
		rec.TimeGenerated = *p.TimeGenerated
	}
}

// BreakDownAction decomposes one persisted action into sub-actions and
// persists the result. If the action already has children the call only
// toggles its expanded state. The returned node reflects database ids for
// any children created.
func (s *Service) BreakDownAction(ctx context.Context, userID int, scope Scope, actionID string) (*model.Action, error) {
	store := s.storeFor(scope)
	rec, err := store.FindByID(ctx, actionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	g, err := s.resolveOwner(ctx, userID, scope, rec.OwnerID)
	if err != nil {
		return nil, err
	}

	roots, err := s.loadTree(ctx, store, rec.OwnerID)
	if err != nil {
		return nil, err
	}
	updated, err := s.engine.BreakDown(ctx, roots, actionID, &enhance.GoalContext{
		GoalTitle:    g.Title,
		GoalCategory: g.Category,
	})
	if err != nil {
		return nil, err
	}

	target := tree.Find(updated, actionID)
	if target == nil {
		return nil, ErrNotFound
	}

	rec.Expanded = &target.IsExpanded
	if err := store.Update(ctx, rec); err != nil {
		return nil, err
	}
	for _, child := range target.SubActions {
		if tree.IsPersistedID(child.ID) {
			continue
		}
		childRec := recordFrom(child, rec.OwnerID, actionID)
		if err := store.Insert(ctx, childRec); err != nil {
			return nil, err
		}
		child.ID = childRec.ID
		child.ParentID = actionID
	}
	return target, nil
}

// EstimateAction asks for a time estimate on a single action and persists
// it. Unlike breakdown there is no fallback: estimation failures are
// reported so the caller never mistakes a guess for a real estimate.
func (s *Service) EstimateAction(ctx context.Context, userID int, scope Scope, actionID string) (int, error) {
	store := s.storeFor(scope)
	rec, err := store.FindByID(ctx, actionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	g, err := s.resolveOwner(ctx, userID, scope, rec.OwnerID)
	if err != nil {
		return 0, err
	}

	roots, err := s.loadTree(ctx, store, rec.OwnerID)
	if err != nil {
		return 0, err
	}
	_, minutes, err := s.engine.EstimateTime(ctx, roots, actionID, &enhance.GoalContext{
		GoalTitle:    g.Title,
		GoalCategory: g.Category,
	})
	if err != nil {
		return 0, err
	}

	rec.EstimatedTime = minutes
	rec.TimeGenerated = true
	if err := store.Update(ctx, rec); err != nil {
		return 0, err
	}
	return minutes, nil
}

// EstimateSubtree estimates every unestimated node under the target
// concurrently, persists the new estimates, and returns the updated
// subtree with the total minutes across it. Individual estimation
// failures are skipped, not fatal.
func (s *Service) EstimateSubtree(ctx context.Context, userID int, scope Scope, actionID string) (*model.Action, int, error) {
	store := s.storeFor(scope)
	rec, err := store.FindByID(ctx, actionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	g, err := s.resolveOwner(ctx, userID, scope, rec.OwnerID)
	if err != nil {
		return nil, 0, err
	}

	records, err := store.ListByOwner(ctx, rec.OwnerID)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[string]model.ActionRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	built := tree.Build(records)
	updated, total, err := s.engine.EstimateSubtree(ctx, built.Roots, actionID, &enhance.GoalContext{
		GoalTitle:    g.Title,
		GoalCategory: g.Category,
	})
	if err != nil {
		return nil, 0, err
	}

	target := tree.Find(updated, actionID)
	if target == nil {
		return nil, 0, ErrNotFound
	}
	if err := s.persistEstimates(ctx, store, target, byID); err != nil {
		return nil, 0, err
	}
	return target, total, nil
}

func (s *Service) persistEstimates(ctx context.Context, store ActionStore, n *model.Action, byID map[string]model.ActionRecord) error {
	if prev, ok := byID[n.ID]; ok && n.EstimatedTime != prev.EstimatedTime {
		prev.EstimatedTime = n.EstimatedTime
		prev.TimeGenerated = n.TimeGenerated
		if err := store.Update(ctx, &prev); err != nil {
			return err
		}
	}
	for _, c := range n.SubActions {
		if err := s.persistEstimates(ctx, store, c, byID); err != nil {
			return err
		}
	}
	return nil
}

// ListMilestones returns the goal's milestones with their action trees.
func (s *Service) ListMilestones(ctx context.Context, userID int, goalID string) ([]*model.Milestone, error) {
	if _, err := s.ownedGoal(ctx, userID, goalID); err != nil {
		return nil, err
	}
	milestones, err := s.milestones.ListByGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Milestone, 0, len(milestones))
	for i := range milestones {
		m := milestones[i]
		acts, err := s.loadTree(ctx, s.milestoneActions, m.ID)
		if err != nil {
			return nil, err
		}
		m.Actions = acts
		out = append(out, &m)
	}
	return out, nil
}

// SaveMilestones upserts milestones and their action trees under the
// goal. Milestones with database ids are updated; new ones are inserted
// and pick up their ids before their actions are persisted against them.
func (s *Service) SaveMilestones(ctx context.Context, userID int, goalID string, milestones []*model.Milestone) ([]*model.Milestone, error) {
	if _, err := s.ownedGoal(ctx, userID, goalID); err != nil {
		return nil, err
	}
	for _, m := range milestones {
		m.GoalID = goalID
		if tree.IsPersistedID(m.ID) {
			if err := s.milestones.Update(ctx, m); err != nil {
				return nil, err
			}
		} else {
			if err := s.milestones.Insert(ctx, m); err != nil {
				return nil, err
			}
		}
		if err := s.persistTree(ctx, s.milestoneActions, m.ID, m.Actions, ""); err != nil {
			return nil, err
		}
	}
	return milestones, nil
}

type UpdateMilestoneInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	Date        *string `json:"date"`
	IsExpanded  *bool   `json:"isExpanded"`
}

// UpdateMilestone patches a single milestone's own fields; its action
// tree is managed through the action operations.
func (s *Service) UpdateMilestone(ctx context.Context, userID int, milestoneID string, in UpdateMilestoneInput) (*model.Milestone, error) {
	m, err := s.milestones.FindByID(ctx, milestoneID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.ownedGoal(ctx, userID, m.GoalID); err != nil {
		return nil, err
	}

	if in.Title != nil {
		m.Title = *in.Title
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.Completed != nil {
		m.Completed = *in.Completed
	}
	if in.Date != nil {
		m.Date = *in.Date
	}
	if in.IsExpanded != nil {
		m.IsExpanded = *in.IsExpanded
	}
	if err := s.milestones.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
