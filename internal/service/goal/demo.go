package goal

import (
	"context"

	"goalpath/internal/model"
)

// DemoReader serves a fixed set of goals for the demo account so the app
// can be shown without seeding a database. The fixtures never persist:
// writes against them fail ownership checks like any foreign goal.
type DemoReader struct{}

func NewDemoReader() *DemoReader {
	return &DemoReader{}
}

func (r *DemoReader) ListGoals(ctx context.Context) ([]model.Goal, error) {
	return []model.Goal{
		{
			ID:          "demo-1",
			Title:       "Launch EdTech Startup",
			Description: "Create an innovative educational technology platform that revolutionizes online learning",
			Category:    model.CategoryBusiness,
			Progress:    35,
			Target:      100,
			Deadline:    "2024-12-31",
			Actions: []*model.Action{
				{
					ID:         "demo-action-1",
					Title:      "Conduct market research on existing EdTech solutions",
					Completed:  true,
					Date:       "2024-01-15",
					Impact:     25,
					SubActions: []*model.Action{},
				},
				{
					ID:         "demo-action-2",
					Title:      "Develop MVP prototype",
					Date:       "2024-02-28",
					Impact:     40,
					SubActions: []*model.Action{},
				},
				{
					ID:         "demo-action-3",
					Title:      "Secure initial funding round",
					Date:       "2024-04-30",
					Impact:     35,
					SubActions: []*model.Action{},
				},
			},
			Milestones: []*model.Milestone{
				{
					ID:        "demo-milestone-1",
					GoalID:    "demo-1",
					Title:     "Complete Product Design",
					Completed: true,
					Date:      "2024-01-31",
					Actions:   []*model.Action{},
				},
				{
					ID:      "demo-milestone-2",
					GoalID:  "demo-1",
					Title:   "Beta Launch",
					Date:    "2024-06-15",
					Actions: []*model.Action{},
				},
			},
		},
		{
			ID:          "demo-2",
			Title:       "Master Machine Learning",
			Description: "Become proficient in ML algorithms and deep learning frameworks",
			Category:    model.CategoryLearning,
			Progress:    60,
			Target:      100,
			Deadline:    "2024-08-15",
			Actions: []*model.Action{
				{
					ID:         "demo-action-4",
					Title:      "Complete Andrew Ng's ML Course",
					Completed:  true,
					Date:       "2024-01-20",
					Impact:     30,
					SubActions: []*model.Action{},
				},
				{
					ID:         "demo-action-5",
					Title:      "Build 3 ML projects",
					Date:       "2024-03-15",
					Impact:     40,
					SubActions: []*model.Action{},
				},
			},
			Milestones: []*model.Milestone{},
		},
	}, nil
}
