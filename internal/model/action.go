package model

// Action is the nested in-memory shape: each node owns its sub-actions
// recursively. Level is the stored depth (0 = root for goal actions,
// 1 by convention for generated milestone actions).
type Action struct {
	ID            string    `json:"id"`
	ParentID      string    `json:"parentId,omitempty"`
	Title         string    `json:"title"`
	Completed     bool      `json:"completed"`
	Date          string    `json:"date"` // YYYY-MM-DD
	Impact        int       `json:"impact"`
	Level         int       `json:"level"`
	IsExpanded    bool      `json:"isExpanded"`
	Notes         string    `json:"notes,omitempty"`
	EstimatedTime int       `json:"estimatedTime,omitempty"` // minutes, 0 = no estimate
	ActualTime    int       `json:"actualTime,omitempty"`
	TimeGenerated bool      `json:"timeGenerated,omitempty"`
	SubActions    []*Action `json:"subActions"`
}

// ActionRecord is the flat storage shape: one row per node with an explicit
// optional parent reference. OwnerID is goal_id or milestone_id depending on
// which table the record lives in; the two domains share this shape.
//
// Expanded is tri-state: nil means the row never stored a preference, which
// the tree builder may override when children are discovered. An explicit
// false is an explicit collapse and is honored.
type ActionRecord struct {
	ID            string
	OwnerID       string
	ParentID      string // "" = root
	Title         string
	Completed     bool
	Date          string
	Impact        int
	Level         int
	Expanded      *bool
	Notes         string
	EstimatedTime int
	ActualTime    int
	TimeGenerated bool
}
