package model

import "time"

// Milestone is a dated checkpoint within a goal. It owns its own action
// tree, stored in the milestone_actions table, disjoint from the goal's
// direct actions.
type Milestone struct {
	ID          string    `json:"id"`
	GoalID      string    `json:"goal_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	Date        string    `json:"date"` // YYYY-MM-DD
	IsExpanded  bool      `json:"isExpanded"`
	CreatedAt   time.Time `json:"created_at"`
	Actions     []*Action `json:"actions"`
}
