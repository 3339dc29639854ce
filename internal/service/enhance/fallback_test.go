package enhance

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

func TestFallbackEnhanceGoalDeterministic(t *testing.T) {
	t.Parallel()

	req := EnhanceGoalRequest{
		Title:    "Open a bakery",
		Category: "business",
		Deadline: "2025-12-31",
	}
	a := FallbackEnhanceGoal(req, testNow)
	b := FallbackEnhanceGoal(req, testNow)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same inputs must produce identical suggestions")
	}
}

func TestFallbackEnhanceGoalActionsWeeklyCadence(t *testing.T) {
	t.Parallel()

	resp := FallbackEnhanceGoal(EnhanceGoalRequest{
		Title:    "Open a bakery",
		Category: "business",
		Deadline: "2025-12-31",
	}, testNow)

	if got := len(resp.Actions); got != 3 {
		t.Fatalf("action count = %d, want 3", got)
	}
	wantDates := []string{"2025-03-08", "2025-03-15", "2025-03-22"}
	for i, a := range resp.Actions {
		if a.Date != wantDates[i] {
			t.Fatalf("actions[%d].Date = %s, want %s", i, a.Date, wantDates[i])
		}
		if a.Impact <= 0 {
			t.Fatalf("actions[%d].Impact = %d", i, a.Impact)
		}
	}
	if resp.Actions[0].Title != "Conduct market research" {
		t.Fatalf("first business action = %q", resp.Actions[0].Title)
	}
}

func TestFallbackEnhanceGoalMilestonesRespectDeadline(t *testing.T) {
	t.Parallel()

	// ~9 weeks out: business milestones at 2 and 6 weeks fit, 12 and 20
	// do not.
	resp := FallbackEnhanceGoal(EnhanceGoalRequest{
		Title:    "Open a bakery",
		Category: "business",
		Deadline: "2025-05-03",
	}, testNow)

	if got := len(resp.Milestones); got != 2 {
		t.Fatalf("milestone count = %d, want 2", got)
	}
	if resp.Milestones[0].Title != "Complete initial planning phase" {
		t.Fatalf("first milestone = %q", resp.Milestones[0].Title)
	}
	if resp.Milestones[0].TargetDate != "2025-03-15" {
		t.Fatalf("first milestone date = %s", resp.Milestones[0].TargetDate)
	}
}

func TestFallbackEnhanceGoalUnknownCategoryUsesPersonal(t *testing.T) {
	t.Parallel()

	resp := FallbackEnhanceGoal(EnhanceGoalRequest{
		Title:    "Mystery goal",
		Category: "cooking",
		Deadline: "2026-01-01",
	}, testNow)

	if resp.Actions[0].Title != "Define specific outcomes" {
		t.Fatalf("unknown category should fall back to personal catalog, got %q", resp.Actions[0].Title)
	}
}

func TestFallbackEnhanceGoalPastDeadline(t *testing.T) {
	t.Parallel()

	resp := FallbackEnhanceGoal(EnhanceGoalRequest{
		Title:    "Too late",
		Category: "health",
		Deadline: "2020-01-01",
	}, testNow)

	// Actions are still offered; no milestone fits zero remaining weeks
	// except week-zero entries (health starts at week 1).
	if len(resp.Actions) != 3 {
		t.Fatalf("action count = %d, want 3", len(resp.Actions))
	}
	if len(resp.Milestones) != 0 {
		t.Fatalf("milestones = %d, want 0 for a past deadline", len(resp.Milestones))
	}
}

func TestFallbackBreakdownFourPhases(t *testing.T) {
	t.Parallel()

	resp := FallbackBreakdown("Ship the feature")

	if got := len(resp.SubActions); got != 4 {
		t.Fatalf("sub-action count = %d, want 4", got)
	}
	wantCategories := []string{"research", "planning", "execution", "review"}
	wantMinutes := []int{20, 15, 45, 10}
	for i, s := range resp.SubActions {
		if s.Category != wantCategories[i] {
			t.Fatalf("subActions[%d].Category = %s, want %s", i, s.Category, wantCategories[i])
		}
		if s.EstimatedMinutes != wantMinutes[i] {
			t.Fatalf("subActions[%d].EstimatedMinutes = %d, want %d", i, s.EstimatedMinutes, wantMinutes[i])
		}
		if !strings.Contains(s.Title, "Ship the feature") {
			t.Fatalf("subActions[%d].Title = %q does not reference parent", i, s.Title)
		}
	}
}

func TestFallbackToolsComplete(t *testing.T) {
	t.Parallel()

	b := FallbackTools()
	if b.Inspiration.Quote == "" || b.Inspiration.Author == "" {
		t.Fatal("inspiration incomplete")
	}
	if b.FocusSession.Duration != 25 || len(b.FocusSession.Steps) == 0 {
		t.Fatalf("focus session = %+v", b.FocusSession)
	}
	if len(b.Resources) == 0 || len(b.Habits) == 0 {
		t.Fatal("resources/habits missing")
	}
}

func TestWeeksUntil(t *testing.T) {
	t.Parallel()

	cases := []struct {
		deadline string
		want     int
	}{
		{"2025-03-15", 2},
		{"2025-03-08", 1},
		{"2025-03-02", 0},
		{"2020-01-01", 0},
		{"not-a-date", 0},
	}
	for _, c := range cases {
		if got := weeksUntil(c.deadline, testNow); got != c.want {
			t.Fatalf("weeksUntil(%s) = %d, want %d", c.deadline, got, c.want)
		}
	}
}
