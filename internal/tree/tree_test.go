package tree

import (
	"testing"

	"goalpath/internal/model"
)

func rec(id, parentID, title string, level int) model.ActionRecord {
	return model.ActionRecord{
		ID:       id,
		OwnerID:  "goal-1",
		ParentID: parentID,
		Title:    title,
		Level:    level,
	}
}

func TestBuildNestsChildrenUnderParents(t *testing.T) {
	t.Parallel()

	result := Build([]model.ActionRecord{
		rec("a", "", "root a", 0),
		rec("b", "", "root b", 0),
		rec("a1", "a", "child of a", 1),
		rec("a2", "a", "second child of a", 1),
		rec("a1x", "a1", "grandchild", 2),
	})

	if len(result.Orphans) != 0 {
		t.Fatalf("unexpected orphans: %v", result.Orphans)
	}
	if got := len(result.Roots); got != 2 {
		t.Fatalf("root count = %d, want 2", got)
	}
	a := result.Roots[0]
	if got := len(a.SubActions); got != 2 {
		t.Fatalf("children of a = %d, want 2", got)
	}
	if a.SubActions[0].ID != "a1" || a.SubActions[1].ID != "a2" {
		t.Fatalf("child order = %s, %s; want a1, a2", a.SubActions[0].ID, a.SubActions[1].ID)
	}
	if got := len(a.SubActions[0].SubActions); got != 1 {
		t.Fatalf("grandchildren of a1 = %d, want 1", got)
	}
}

func TestBuildPreservesRootOrder(t *testing.T) {
	t.Parallel()

	result := Build([]model.ActionRecord{
		rec("first", "", "1", 0),
		rec("second", "", "2", 0),
		rec("third", "", "3", 0),
	})

	want := []string{"first", "second", "third"}
	for i, id := range want {
		if result.Roots[i].ID != id {
			t.Fatalf("roots[%d] = %s, want %s", i, result.Roots[i].ID, id)
		}
	}
}

func TestBuildPromotesOrphansToRoots(t *testing.T) {
	t.Parallel()

	result := Build([]model.ActionRecord{
		rec("a", "", "root", 0),
		rec("lost", "vanished-parent", "dangling", 1),
	})

	if got := len(result.Roots); got != 2 {
		t.Fatalf("root count = %d, want 2 (orphan promoted)", got)
	}
	if len(result.Orphans) != 1 || result.Orphans[0] != "lost" {
		t.Fatalf("orphans = %v, want [lost]", result.Orphans)
	}
	// Stored level is kept even though the node now sits at root.
	if got := result.Roots[1].Level; got != 1 {
		t.Fatalf("orphan level = %d, want 1", got)
	}
}

func TestBuildAutoExpandsParentsUnlessExplicitlyCollapsed(t *testing.T) {
	t.Parallel()

	collapsed := false
	records := []model.ActionRecord{
		rec("open", "", "no stored preference", 0),
		rec("open-child", "open", "c", 1),
		{ID: "shut", OwnerID: "goal-1", Title: "explicit collapse", Expanded: &collapsed},
		rec("shut-child", "shut", "c", 1),
		rec("leaf", "", "no children", 0),
	}

	result := Build(records)

	byID := map[string]*model.Action{}
	for _, r := range result.Roots {
		byID[r.ID] = r
	}
	if !byID["open"].IsExpanded {
		t.Fatal("parent with nil stored state should auto-expand")
	}
	if byID["shut"].IsExpanded {
		t.Fatal("explicit collapse must be honored despite children")
	}
	if byID["leaf"].IsExpanded {
		t.Fatal("childless node should not expand")
	}
}

func TestFlattenRoundTrip(t *testing.T) {
	t.Parallel()

	original := []model.ActionRecord{
		rec("a", "", "root", 0),
		rec("a1", "a", "child", 1),
		rec("a1x", "a1", "grandchild", 2),
		rec("b", "", "sibling root", 0),
	}

	flat := Flatten(Build(original).Roots, "goal-1")

	if got := len(flat); got != len(original) {
		t.Fatalf("flattened count = %d, want %d", got, len(original))
	}
	// Depth-first: a, a1, a1x, b.
	wantOrder := []string{"a", "a1", "a1x", "b"}
	for i, id := range wantOrder {
		if flat[i].ID != id {
			t.Fatalf("flat[%d].ID = %s, want %s", i, flat[i].ID, id)
		}
	}
	if flat[1].ParentID != "a" || flat[2].ParentID != "a1" {
		t.Fatalf("parent ids not preserved: %s, %s", flat[1].ParentID, flat[2].ParentID)
	}
	for _, f := range flat {
		if f.OwnerID != "goal-1" {
			t.Fatalf("owner id = %s, want goal-1", f.OwnerID)
		}
	}
}

func TestFind(t *testing.T) {
	t.Parallel()

	roots := Build([]model.ActionRecord{
		rec("a", "", "root", 0),
		rec("a1", "a", "child", 1),
		rec("a1x", "a1", "grandchild", 2),
	}).Roots

	if n := Find(roots, "a1x"); n == nil || n.ID != "a1x" {
		t.Fatalf("Find(a1x) = %v", n)
	}
	if n := Find(roots, "missing"); n != nil {
		t.Fatalf("Find(missing) = %v, want nil", n)
	}
}

func TestIsPersistedID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		id   string
		want bool
	}{
		{"6f1f64cb-62d5-4a29-a6ce-66c31c4eab2e", true},
		{"6F1F64CB-62D5-4A29-A6CE-66C31C4EAB2E", true},
		{"ai-1716239022-0", false},
		{"abc-sub-1716239022000-1", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsPersistedID(c.id); got != c.want {
			t.Fatalf("IsPersistedID(%q) = %v, want %v", c.id, got, c.want)
		}
	}
}
