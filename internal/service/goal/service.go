// Package goal owns the Goal aggregate: a goal, its action tree, and its
// milestones with their own action trees. Every operation is scoped to the
// requesting user's goals.
package goal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goalpath/internal/model"
	"goalpath/internal/mutate"
	"goalpath/internal/service/enhance"
	"goalpath/internal/tree"
	"goalpath/pkg/metrics"
	"goalpath/pkg/util"
)

// ErrNotFound covers both "goal does not exist" and "goal belongs to
// someone else". The two are deliberately indistinguishable so the error
// surface leaks no existence information.
var ErrNotFound = errors.New("goal not found")

// ErrEnhanceInFlight is returned when an enhancement for the same goal is
// already being processed.
var ErrEnhanceInFlight = errors.New("enhancement already in progress")

// ValidationError rejects a create/update before any persistence attempt.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid or missing field: %s", e.Field)
}

type GoalStore interface {
	Insert(ctx context.Context, g *model.Goal) error
	FindByID(ctx context.Context, id string) (*model.Goal, error)
	ListByUser(ctx context.Context, userID int) ([]model.Goal, error)
	Update(ctx context.Context, g *model.Goal) error
	UpdateProgress(ctx context.Context, id string, progress int) error
	Delete(ctx context.Context, id string) error
}

type ActionStore interface {
	Insert(ctx context.Context, rec *model.ActionRecord) error
	Update(ctx context.Context, rec *model.ActionRecord) error
	FindByID(ctx context.Context, id string) (*model.ActionRecord, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.ActionRecord, error)
}

type MilestoneStore interface {
	Insert(ctx context.Context, m *model.Milestone) error
	FindByID(ctx context.Context, id string) (*model.Milestone, error)
	ListByGoal(ctx context.Context, goalID string) ([]model.Milestone, error)
	Update(ctx context.Context, m *model.Milestone) error
}

type UserReader interface {
	FindByID(ctx context.Context, id int) (*model.User, error)
}

type Enhancer interface {
	EnhanceGoal(ctx context.Context, req enhance.EnhanceGoalRequest) (*enhance.EnhanceGoalResponse, error)
}

// Reader is an alternate read strategy for goal listing. The demo account
// is served fixtures through one of these instead of an inline conditional
// in the read path.
type Reader interface {
	ListGoals(ctx context.Context) ([]model.Goal, error)
}

type Deps struct {
	Goals            GoalStore
	Actions          ActionStore
	MilestoneActions ActionStore
	Milestones       MilestoneStore
	Users            UserReader
	Enhancer         Enhancer
	Engine           *mutate.Engine
	Dedupe           *util.Deduper
	Demo             Reader
	DemoEmail        string
	Logger           *zap.Logger
}

type Service struct {
	goals            GoalStore
	actions          ActionStore
	milestoneActions ActionStore
	milestones       MilestoneStore
	users            UserReader
	enhancer         Enhancer
	engine           *mutate.Engine
	dedupe           *util.Deduper
	demo             Reader
	demoEmail        string
	logger           *zap.Logger
	now              func() time.Time
}

func NewService(deps Deps) *Service {
	return &Service{
		goals:            deps.Goals,
		actions:          deps.Actions,
		milestoneActions: deps.MilestoneActions,
		milestones:       deps.Milestones,
		users:            deps.Users,
		enhancer:         deps.Enhancer,
		engine:           deps.Engine,
		dedupe:           deps.Dedupe,
		demo:             deps.Demo,
		demoEmail:        deps.DemoEmail,
		logger:           deps.Logger,
		now:              time.Now,
	}
}

type CreateGoalInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Deadline    string `json:"deadline"` // YYYY-MM-DD
	Target      int    `json:"target"`
}

// Create validates and persists a new goal with progress 0 and no actions
// or milestones. Enhancement is a separate, best-effort step; creation
// never depends on it.
func (s *Service) Create(ctx context.Context, userID int, in CreateGoalInput) (*model.Goal, error) {
	if in.Title == "" {
		return nil, &ValidationError{Field: "title"}
	}
	if in.Description == "" {
		return nil, &ValidationError{Field: "description"}
	}
	if !model.ValidCategory(in.Category) {
		return nil, &ValidationError{Field: "category"}
	}
	if _, err := time.Parse("2006-01-02", in.Deadline); err != nil {
		return nil, &ValidationError{Field: "deadline"}
	}

	target := in.Target
	if target <= 0 {
		target = 100
	}

	g := &model.Goal{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Progress:    0,
		Target:      target,
		Deadline:    in.Deadline,
		Actions:     []*model.Action{},
		Milestones:  []*model.Milestone{},
	}
	if err := s.goals.Insert(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// List returns the caller's goals, most recent first, each with its action
// tree and milestones reassembled. The demo account is served by the
// fixture reader instead of the store.
func (s *Service) List(ctx context.Context, userID int) ([]model.Goal, error) {
	if r := s.readerFor(ctx, userID); r != nil {
		return r.ListGoals(ctx)
	}

	goals, err := s.goals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range goals {
		if err := s.loadAggregate(ctx, &goals[i]); err != nil {
			return nil, err
		}
	}
	return goals, nil
}

func (s *Service) readerFor(ctx context.Context, userID int) Reader {
	if s.demo == nil || s.demoEmail == "" {
		return nil
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil || u.Email != s.demoEmail {
		return nil
	}
	return s.demo
}

type UpdateGoalInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Deadline    *string `json:"deadline"`
	Progress    *int    `json:"progress"`
	Target      *int    `json:"target"`
}

// Update applies the mutable field whitelist and returns the full
// aggregate.
func (s *Service) Update(ctx context.Context, userID int, goalID string, in UpdateGoalInput) (*model.Goal, error) {
	g, err := s.ownedGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		g.Title = *in.Title
	}
	if in.Description != nil {
		g.Description = *in.Description
	}
	if in.Category != nil {
		if !model.ValidCategory(*in.Category) {
			return nil, &ValidationError{Field: "category"}
		}
		g.Category = *in.Category
	}
	if in.Deadline != nil {
		if _, err := time.Parse("2006-01-02", *in.Deadline); err != nil {
			return nil, &ValidationError{Field: "deadline"}
		}
		g.Deadline = *in.Deadline
	}
	if in.Progress != nil {
		g.Progress = *in.Progress
	}
	if in.Target != nil {
		g.Target = *in.Target
	}

	if err := s.goals.Update(ctx, g); err != nil {
		return nil, err
	}
	if err := s.loadAggregate(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Delete removes the goal and, through the store's cascade, every action
// and milestone it owns.
func (s *Service) Delete(ctx context.Context, userID int, goalID string) error {
	if _, err := s.ownedGoal(ctx, userID, goalID); err != nil {
		return err
	}
	return s.goals.Delete(ctx, goalID)
}

// Enhance asks the enhancement service for an action/milestone breakdown
// of the goal and persists the suggestions. Service failure degrades to
// the rule-based generator; from the caller's point of view enhancement
// always succeeds.
func (s *Service) Enhance(ctx context.Context, userID int, goalID string) (*enhance.EnhanceGoalResponse, error) {
	g, err := s.ownedGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if !s.dedupe.AcquireOnce(ctx, "enhance", goalID) {
		return nil, ErrEnhanceInFlight
	}
	defer s.dedupe.Release(ctx, "enhance", goalID)

	req := enhance.EnhanceGoalRequest{
		Title:       g.Title,
		Description: g.Description,
		Category:    g.Category,
		Deadline:    g.Deadline,
	}

	source := "ai"
	resp, err := s.enhancer.EnhanceGoal(ctx, req)
	if err != nil {
		s.logger.Warn("Goal enhancement degraded to fallback",
			zap.String("goal_id", goalID),
			zap.Error(err),
		)
		resp = enhance.FallbackEnhanceGoal(req, s.now())
		source = "fallback"
	}
	metrics.IncrementGoalEnhanced(source)

	now := s.now()
	for i, a := range resp.Actions {
		date := a.Date
		if date == "" {
			date = now.AddDate(0, 0, (i+1)*7).Format("2006-01-02")
		}
		rec := &model.ActionRecord{
			OwnerID: goalID,
			Title:   a.Title,
			Date:    date,
			Impact:  a.Impact,
			Level:   0,
		}
		if err := s.actions.Insert(ctx, rec); err != nil {
			// Best-effort persistence: one bad row never fails the
			// whole enhancement.
			s.logger.Error("Failed to persist suggested action",
				zap.String("goal_id", goalID),
				zap.Error(err),
			)
		}
	}
	for _, m := range resp.Milestones {
		milestone := &model.Milestone{
			GoalID:      goalID,
			Title:       m.Title,
			Description: m.Description,
			Date:        m.TargetDate,
		}
		if err := s.milestones.Insert(ctx, milestone); err != nil {
			s.logger.Error("Failed to persist suggested milestone",
				zap.String("goal_id", goalID),
				zap.Error(err),
			)
		}
	}

	if err := s.recomputeProgress(ctx, goalID); err != nil {
		s.logger.Warn("Progress recompute failed after enhancement",
			zap.String("goal_id", goalID),
			zap.Error(err),
		)
	}
	return resp, nil
}

// ownedGoal resolves a goal and enforces ownership; missing and foreign
// goals both come back as ErrNotFound.
func (s *Service) ownedGoal(ctx context.Context, userID int, goalID string) (*model.Goal, error) {
	g, err := s.goals.FindByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if g.UserID != userID {
		return nil, ErrNotFound
	}
	return g, nil
}

func (s *Service) loadAggregate(ctx context.Context, g *model.Goal) error {
	actions, err := s.loadTree(ctx, s.actions, g.ID)
	if err != nil {
		return err
	}
	g.Actions = actions

	milestones, err := s.milestones.ListByGoal(ctx, g.ID)
	if err != nil {
		return err
	}
	g.Milestones = make([]*model.Milestone, 0, len(milestones))
	for i := range milestones {
		m := milestones[i]
		acts, err := s.loadTree(ctx, s.milestoneActions, m.ID)
		if err != nil {
			return err
		}
		m.Actions = acts
		g.Milestones = append(g.Milestones, &m)
	}
	return nil
}

// loadTree reads one ownership domain's flat records and assembles the
// nested tree, surfacing any dangling parent references.
func (s *Service) loadTree(ctx context.Context, store ActionStore, ownerID string) ([]*model.Action, error) {
	records, err := store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	result := tree.Build(records)
	if len(result.Orphans) > 0 {
		s.logger.Warn("Orphan actions promoted to root",
			zap.String("owner_id", ownerID),
			zap.Strings("action_ids", result.Orphans),
		)
	}
	if result.Roots == nil {
		return []*model.Action{}, nil
	}
	return result.Roots, nil
}

// recomputeProgress derives goal progress from root-level action
// completion. Sub-action completion does not roll up.
func (s *Service) recomputeProgress(ctx context.Context, goalID string) error {
	roots, err := s.loadTree(ctx, s.actions, goalID)
	if err != nil {
		return err
	}
	return s.goals.UpdateProgress(ctx, goalID, mutate.Progress(roots))
}
