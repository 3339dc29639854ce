package mutate

import (
	"testing"

	"goalpath/internal/model"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }

func forest() []*model.Action {
	return []*model.Action{
		{
			ID:    "a",
			Title: "root a",
			SubActions: []*model.Action{
				{ID: "a1", Title: "child", Level: 1},
				{
					ID:    "a2",
					Title: "second child",
					Level: 1,
					SubActions: []*model.Action{
						{ID: "a2x", Title: "grandchild", Level: 2},
					},
				},
			},
		},
		{ID: "b", Title: "root b"},
	}
}

func TestApplyUpdatePatchesDeepNode(t *testing.T) {
	t.Parallel()

	in := forest()
	out, found := ApplyUpdate(in, "a2x", Patch{
		Title:     strPtr("renamed"),
		Completed: boolPtr(true),
	})

	if !found {
		t.Fatal("target not found")
	}
	got := out[0].SubActions[1].SubActions[0]
	if got.Title != "renamed" || !got.Completed {
		t.Fatalf("patched node = %+v", got)
	}
	// Input tree untouched.
	if in[0].SubActions[1].SubActions[0].Title != "grandchild" {
		t.Fatal("input mutated")
	}
}

func TestApplyUpdateSharesUntouchedBranches(t *testing.T) {
	t.Parallel()

	in := forest()
	out, found := ApplyUpdate(in, "a2", Patch{Completed: boolPtr(true)})
	if !found {
		t.Fatal("target not found")
	}

	// Sibling subtree and the other root keep pointer identity.
	if out[0].SubActions[0] != in[0].SubActions[0] {
		t.Fatal("untouched sibling was copied")
	}
	if out[1] != in[1] {
		t.Fatal("untouched root was copied")
	}
	// The ancestor chain of the target is new.
	if out[0] == in[0] {
		t.Fatal("target's parent should be rebuilt")
	}
	if out[0].SubActions[1] == in[0].SubActions[1] {
		t.Fatal("target should be a new node")
	}
}

func TestApplyUpdateMissingTargetIsNoop(t *testing.T) {
	t.Parallel()

	in := forest()
	out, found := ApplyUpdate(in, "no-such-node", Patch{Title: strPtr("x")})
	if found {
		t.Fatal("found = true for missing node")
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatal("forest changed for missing target")
		}
	}
}

func TestApplyUpdateReplacesChildrenWholesale(t *testing.T) {
	t.Parallel()

	replacement := []*model.Action{{ID: "new-1", Title: "fresh"}}
	out, found := ApplyUpdate(forest(), "a", Patch{SubActions: replacement})
	if !found {
		t.Fatal("target not found")
	}
	if len(out[0].SubActions) != 1 || out[0].SubActions[0].ID != "new-1" {
		t.Fatalf("children = %+v, want replacement set", out[0].SubActions)
	}
}

func TestApplyUpdateNilFieldsUntouched(t *testing.T) {
	t.Parallel()

	out, _ := ApplyUpdate(forest(), "a1", Patch{Notes: strPtr("added a note")})
	got := out[0].SubActions[0]
	if got.Notes != "added a note" {
		t.Fatalf("notes = %q", got.Notes)
	}
	if got.Title != "child" || got.Level != 1 {
		t.Fatalf("unrelated fields changed: %+v", got)
	}
}

func TestProgressRootCompletionOnly(t *testing.T) {
	t.Parallel()

	roots := []*model.Action{
		{ID: "a", Completed: true, SubActions: []*model.Action{
			{ID: "a1", Completed: false},
		}},
		{ID: "b", Completed: true},
		{ID: "c", Completed: false, SubActions: []*model.Action{
			{ID: "c1", Completed: true},
			{ID: "c2", Completed: true},
		}},
	}

	// 2 of 3 roots complete; sub-actions do not roll up.
	if got := Progress(roots); got != 67 {
		t.Fatalf("Progress = %d, want 67", got)
	}
}

func TestProgressEmptyForest(t *testing.T) {
	t.Parallel()

	if got := Progress(nil); got != 0 {
		t.Fatalf("Progress(nil) = %d, want 0", got)
	}
}
