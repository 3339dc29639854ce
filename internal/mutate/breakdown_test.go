package mutate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"goalpath/internal/model"
	"goalpath/internal/service/enhance"
	"goalpath/internal/tree"
)

// fakeEnhancer counts calls and can be programmed to fail.
type fakeEnhancer struct {
	mu             sync.Mutex
	breakdownCalls int
	estimateCalls  int
	breakdownErr   error
	estimateErr    error
	estimateFor    map[string]int // title -> minutes
	minutes        int
}

func (f *fakeEnhancer) BreakDownAction(ctx context.Context, req enhance.BreakdownRequest) (*enhance.BreakdownResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.breakdownCalls++
	if f.breakdownErr != nil {
		return nil, f.breakdownErr
	}
	return &enhance.BreakdownResponse{
		SubActions: []enhance.SubActionSuggestion{
			{Title: "Research " + req.Title, EstimatedMinutes: 20},
			{Title: "Execute " + req.Title, EstimatedMinutes: 45},
		},
	}, nil
}

func (f *fakeEnhancer) EstimateActionTime(ctx context.Context, req enhance.EstimateRequest) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.estimateCalls++
	if f.estimateErr != nil {
		return 0, f.estimateErr
	}
	if m, ok := f.estimateFor[req.Title]; ok {
		return m, nil
	}
	if f.minutes > 0 {
		return f.minutes, nil
	}
	return 30, nil
}

func newTestEngine(f *fakeEnhancer) *Engine {
	return NewEngine(f, 3, 4, zap.NewNop())
}

func TestBreakDownMintsChildren(t *testing.T) {
	t.Parallel()

	f := &fakeEnhancer{}
	roots := []*model.Action{{ID: "a", Title: "Write thesis", Level: 0}}

	updated, err := newTestEngine(f).BreakDown(context.Background(), roots, "a", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	target := tree.Find(updated, "a")
	if got := len(target.SubActions); got != 2 {
		t.Fatalf("children = %d, want 2", got)
	}
	if !target.IsExpanded {
		t.Fatal("broken-down node should be expanded")
	}
	for _, c := range target.SubActions {
		if c.Level != 1 {
			t.Fatalf("child level = %d, want 1", c.Level)
		}
		if c.ParentID != "a" {
			t.Fatalf("child parent = %s, want a", c.ParentID)
		}
		if !strings.HasPrefix(c.ID, "a-sub-") {
			t.Fatalf("child id = %s, want a-sub- prefix", c.ID)
		}
		if tree.IsPersistedID(c.ID) {
			t.Fatalf("minted id %s must not look persisted", c.ID)
		}
	}
}

func TestBreakDownWithChildrenTogglesOnly(t *testing.T) {
	t.Parallel()

	f := &fakeEnhancer{}
	roots := []*model.Action{{
		ID:         "a",
		Title:      "parent",
		IsExpanded: true,
		SubActions: []*model.Action{{ID: "a1", Title: "existing", Level: 1}},
	}}
	engine := newTestEngine(f)

	updated, err := engine.BreakDown(context.Background(), roots, "a", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	target := tree.Find(updated, "a")
	if target.IsExpanded {
		t.Fatal("expanded state should have toggled off")
	}
	if len(target.SubActions) != 1 || target.SubActions[0].ID != "a1" {
		t.Fatalf("children changed: %+v", target.SubActions)
	}
	if f.breakdownCalls != 0 {
		t.Fatalf("enhancer called %d times for a toggle", f.breakdownCalls)
	}

	// Toggling again flips back; still no generation.
	updated, _ = engine.BreakDown(context.Background(), updated, "a", nil)
	if !tree.Find(updated, "a").IsExpanded {
		t.Fatal("second toggle should expand again")
	}
	if f.breakdownCalls != 0 {
		t.Fatal("enhancer must never be called once children exist")
	}
}

func TestBreakDownDepthCeiling(t *testing.T) {
	t.Parallel()

	f := &fakeEnhancer{}
	roots := []*model.Action{{ID: "deep", Title: "too deep", Level: 3}}

	_, err := newTestEngine(f).BreakDown(context.Background(), roots, "deep", nil)
	if !errors.Is(err, ErrDepthLimit) {
		t.Fatalf("err = %v, want ErrDepthLimit", err)
	}
	if f.breakdownCalls != 0 {
		t.Fatal("enhancer called despite depth ceiling")
	}
}

func TestBreakDownFallsBackOnServiceFailure(t *testing.T) {
	t.Parallel()

	f := &fakeEnhancer{breakdownErr: errors.New("service down")}
	roots := []*model.Action{{ID: "a", Title: "Launch product", Level: 0}}

	updated, err := newTestEngine(f).BreakDown(context.Background(), roots, "a", nil)
	if err != nil {
		t.Fatalf("fallback path must not error: %v", err)
	}
	target := tree.Find(updated, "a")
	if len(target.SubActions) == 0 {
		t.Fatal("fallback produced no children")
	}
	// Fallback titles derive from the parent title.
	if !strings.Contains(target.SubActions[0].Title, "Launch product") {
		t.Fatalf("fallback child title = %q", target.SubActions[0].Title)
	}
}

func TestBreakDownMissingTargetIsNoop(t *testing.T) {
	t.Parallel()

	f := &fakeEnhancer{}
	roots := []*model.Action{{ID: "a", Title: "root"}}
	updated, err := newTestEngine(f).BreakDown(context.Background(), roots, "ghost", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated) != 1 || updated[0] != roots[0] {
		t.Fatal("forest changed for missing target")
	}
}
