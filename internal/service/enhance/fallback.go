package enhance

import (
	"fmt"
	"time"
)

// The rule-based generators below are deterministic given (category, title,
// deadline, now). They are the degradation path for every operation except
// time estimation, which has no fallback value by design.

type catalogAction struct {
	Title  string
	Impact int
}

type catalogMilestone struct {
	Title string
	Weeks int
}

var actionCatalog = map[string][]catalogAction{
	"business": {
		{"Conduct market research", 20},
		{"Create detailed project plan", 25},
		{"Set up tracking metrics", 15},
		{"Identify key stakeholders", 20},
		{"Develop MVP or prototype", 30},
	},
	"learning": {
		{"Set daily study schedule", 25},
		{"Find online courses or resources", 20},
		{"Join relevant communities", 15},
		{"Practice with hands-on projects", 30},
		{"Take progress assessments", 15},
	},
	"health": {
		{"Consult with healthcare professional", 25},
		{"Create workout routine", 30},
		{"Plan nutrition strategy", 25},
		{"Set up progress tracking", 15},
		{"Find accountability partner", 20},
	},
	"personal": {
		{"Define specific outcomes", 20},
		{"Break down into weekly goals", 25},
		{"Identify potential obstacles", 15},
		{"Create reward system", 10},
		{"Schedule regular check-ins", 20},
	},
}

var milestoneCatalog = map[string][]catalogMilestone{
	"business": {
		{"Complete initial planning phase", 2},
		{"Achieve first major deliverable", 6},
		{"Reach 50% completion", 12},
		{"Final review and optimization", 20},
	},
	"learning": {
		{"Complete foundational materials", 4},
		{"Finish first practical project", 8},
		{"Pass intermediate assessment", 12},
		{"Demonstrate mastery", 16},
	},
	"health": {
		{"Establish baseline measurements", 1},
		{"See initial improvements", 4},
		{"Reach halfway point", 12},
		{"Achieve target goal", 24},
	},
	"personal": {
		{"Set up systems and habits", 2},
		{"Show consistent progress", 6},
		{"Overcome major challenges", 12},
		{"Achieve desired outcome", 20},
	},
}

const dateLayout = "2006-01-02"

// FallbackEnhanceGoal selects category-specific suggestions: the first three
// actions from the catalog, dated weekly from now, and every catalog
// milestone whose week offset still fits before the deadline.
func FallbackEnhanceGoal(req EnhanceGoalRequest, now time.Time) *EnhanceGoalResponse {
	actions, ok := actionCatalog[req.Category]
	if !ok {
		actions = actionCatalog["personal"]
	}
	milestones, ok := milestoneCatalog[req.Category]
	if !ok {
		milestones = milestoneCatalog["personal"]
	}

	weeksRemaining := weeksUntil(req.Deadline, now)

	resp := &EnhanceGoalResponse{}
	for i, a := range actions {
		if i >= 3 {
			break
		}
		resp.Actions = append(resp.Actions, SuggestedAction{
			Title:  a.Title,
			Impact: a.Impact,
			Date:   now.AddDate(0, 0, (i+1)*7).Format(dateLayout),
		})
	}
	for _, m := range milestones {
		if m.Weeks > weeksRemaining {
			continue
		}
		resp.Milestones = append(resp.Milestones, SuggestedMilestone{
			Title:      m.Title,
			TargetDate: now.AddDate(0, 0, m.Weeks*7).Format(dateLayout),
		})
	}
	resp.AIInsight = fmt.Sprintf(
		"Based on your %s goal %q, I've suggested %d actionable steps and %d key milestones to help you succeed.",
		req.Category, req.Title, len(resp.Actions), len(resp.Milestones),
	)
	return resp
}

// FallbackBreakdown is the fixed four-step generic decomposition used when
// the service cannot break an action down: research, plan, execute, review.
func FallbackBreakdown(title string) *BreakdownResponse {
	return &BreakdownResponse{
		SubActions: []SubActionSuggestion{
			{
				Title:            fmt.Sprintf("Research requirements for %q", title),
				Description:      "Gather information and understand what needs to be done",
				EstimatedMinutes: 20,
				Category:         "research",
			},
			{
				Title:            fmt.Sprintf("Plan approach for %q", title),
				Description:      "Create a detailed plan and gather necessary resources",
				EstimatedMinutes: 15,
				Category:         "planning",
			},
			{
				Title:            fmt.Sprintf("Execute the main work for %q", title),
				Description:      "Perform the core activities required",
				EstimatedMinutes: 45,
				Category:         "execution",
			},
			{
				Title:            fmt.Sprintf("Review and finalize %q", title),
				Description:      "Check quality and make any necessary adjustments",
				EstimatedMinutes: 10,
				Category:         "review",
			},
		},
		Reasoning: "Generated fallback breakdown due to service unavailability",
	}
}

// FallbackTools is the fixed productivity bundle served when generation
// fails.
func FallbackTools() *ToolsBundle {
	return &ToolsBundle{
		Inspiration: Inspiration{
			Quote:   "The way to get started is to quit talking and begin doing.",
			Author:  "Walt Disney",
			Context: "Taking action is the first step toward achieving any goal. Your goals require consistent effort and execution.",
		},
		DopamineBoost: DopamineBoost{
			Title:       "Victory Visualization",
			Technique:   "Mental rehearsal",
			Duration:    "5 minutes",
			Description: "Close your eyes and vividly imagine completing your goal. Feel the emotions, see the details, and experience the satisfaction.",
		},
		FocusSession: FocusSession{
			Title:    "Deep Work Block",
			Method:   "Pomodoro + Single-tasking",
			Duration: 25,
			Steps: []string{
				"Choose one specific task related to your goal",
				"Eliminate all distractions (phone, notifications, etc.)",
				"Set timer for 25 minutes and work with complete focus",
				"Take a 5-minute break to recharge",
				"Repeat for 2-4 cycles for maximum productivity",
			},
		},
		Resources: []Resource{
			{
				Title:   "Deep Work by Cal Newport",
				Type:    "book",
				Summary: "A guide to focused success in a distracted world, showing how to cultivate the ability to focus on cognitively demanding tasks.",
				KeyTakeaways: []string{
					"Deep work is becoming increasingly rare and valuable",
					"Structured approaches to concentration improve output quality",
					"Elimination of shallow work maximizes meaningful progress",
				},
				Relevance: "Essential for making consistent progress on complex goals requiring sustained attention.",
			},
		},
		Habits: []Habit{
			{
				Title:           "Morning Goal Review",
				Frequency:       "Daily",
				Description:     "Spend 5 minutes each morning reviewing your goals and planning the day's most important task.",
				ScientificBasis: "Research shows that implementation intentions (if-then planning) increase goal achievement by 2-3x.",
			},
		},
	}
}

// FallbackAnalyze returns a generic task analysis.
func FallbackAnalyze(task TaskRef) *AnalyzeResponse {
	return &AnalyzeResponse{
		Summary: fmt.Sprintf(
			"%q is a moderately complex task. Break it into smaller steps, time-box the first session, and review progress after 25 minutes of focused work.",
			task.Title,
		),
		EstimatedMinutes: 45,
	}
}

// weeksUntil returns the whole weeks between now and a YYYY-MM-DD deadline;
// an unparseable or past deadline counts as zero.
func weeksUntil(deadline string, now time.Time) int {
	d, err := time.Parse(dateLayout, deadline)
	if err != nil {
		return 0
	}
	if d.Before(now) {
		return 0
	}
	return int(d.Sub(now).Hours() / (24 * 7))
}
