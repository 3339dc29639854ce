package model

import (
	"encoding/json"
	"time"
)

// ToolsSnapshot holds the last generated productivity-tool bundle for a
// user, plus the goal snapshot it was derived from. One row per user,
// overwritten on regeneration.
type ToolsSnapshot struct {
	ID            int             `json:"id"`
	UserID        int             `json:"user_id"`
	ToolsData     json.RawMessage `json:"tools_data"`
	GoalsSnapshot json.RawMessage `json:"goals_snapshot"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
