package model

import "time"

// Goal categories. Anything else is rejected at the validation layer.
const (
	CategoryBusiness = "business"
	CategoryPersonal = "personal"
	CategoryHealth   = "health"
	CategoryLearning = "learning"
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryBusiness, CategoryPersonal, CategoryHealth, CategoryLearning:
		return true
	}
	return false
}

type Goal struct {
	ID          string       `json:"id"`
	UserID      int          `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Progress    int          `json:"progress"`
	Target      int          `json:"target"`
	Deadline    string       `json:"deadline"` // YYYY-MM-DD
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Actions     []*Action    `json:"actions"`
	Milestones  []*Milestone `json:"milestones"`
}
