package enhance

import "encoding/json"

// GoalContext is the ambient goal information attached to action-scoped
// requests so the service can tailor suggestions.
type GoalContext struct {
	GoalTitle    string `json:"goalTitle"`
	GoalCategory string `json:"goalCategory"`
}

type EnhanceGoalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Deadline    string `json:"deadline"` // YYYY-MM-DD
}

type SuggestedAction struct {
	Title    string `json:"title"`
	Impact   int    `json:"impact"`
	Category string `json:"category,omitempty"`
	Date     string `json:"date,omitempty"`
}

type SuggestedMilestone struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	TargetDate  string `json:"targetDate"`
}

type EnhanceGoalResponse struct {
	Actions    []SuggestedAction    `json:"actions"`
	Milestones []SuggestedMilestone `json:"milestones"`
	AIInsight  string               `json:"aiInsight"`
}

type BreakdownRequest struct {
	Title   string       `json:"title"`
	Level   int          `json:"depthLevel"`
	Context *GoalContext `json:"goalContext,omitempty"`
}

type SubActionSuggestion struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	EstimatedMinutes int      `json:"estimatedMinutes"`
	Category         string   `json:"category"`
	Tools            []string `json:"tools,omitempty"`
	Deliverable      string   `json:"deliverable,omitempty"`
}

type BreakdownResponse struct {
	SubActions []SubActionSuggestion `json:"subActions"`
	Reasoning  string                `json:"reasoning"`
}

type EstimateRequest struct {
	Title   string       `json:"title"`
	Impact  int          `json:"impact"`
	Notes   string       `json:"notes,omitempty"`
	Context *GoalContext `json:"goalContext,omitempty"`
	Level   int          `json:"depthLevel"`
}

type estimateResponse struct {
	EstimatedMinutes int `json:"estimatedMinutes"`
}

// GoalSummary is the per-goal slice of state sent with tool-generation and
// task-analysis requests.
type GoalSummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Progress    int    `json:"progress"`
}

type TaskRef struct {
	Title  string `json:"title"`
	Type   string `json:"type"`
	Impact int    `json:"impact,omitempty"`
	Date   string `json:"date,omitempty"`
}

type AnalyzeRequest struct {
	Task       TaskRef       `json:"task"`
	Context    *GoalContext  `json:"context,omitempty"`
	PriorGoals []GoalSummary `json:"priorGoals,omitempty"`
}

// AnalyzeResponse is consumed read-only by the presentation layer; the
// blocks are passed through opaquely, only summary and the estimate are
// inspected here.
type AnalyzeResponse struct {
	Complexity       json.RawMessage `json:"complexity,omitempty"`
	Strategy         json.RawMessage `json:"strategy,omitempty"`
	Collaboration    json.RawMessage `json:"collaboration,omitempty"`
	Resources        json.RawMessage `json:"resources,omitempty"`
	SimilarTopics    json.RawMessage `json:"similarTopics,omitempty"`
	Summary          string          `json:"summary"`
	EstimatedMinutes int             `json:"estimatedMinutes,omitempty"`
}

type ToolsRequest struct {
	Goals []GoalSummary `json:"goals"`
}

type Inspiration struct {
	Quote   string `json:"quote"`
	Author  string `json:"author"`
	Context string `json:"context"`
}

type DopamineBoost struct {
	Title       string `json:"title"`
	Technique   string `json:"technique"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type FocusSession struct {
	Title    string   `json:"title"`
	Method   string   `json:"method"`
	Duration int      `json:"duration"`
	Steps    []string `json:"steps"`
}

type Resource struct {
	Title        string   `json:"title"`
	Type         string   `json:"type"`
	Summary      string   `json:"summary"`
	KeyTakeaways []string `json:"keyTakeaways"`
	Relevance    string   `json:"relevance"`
}

type Habit struct {
	Title           string `json:"title"`
	Frequency       string `json:"frequency"`
	Description     string `json:"description"`
	ScientificBasis string `json:"scientificBasis"`
}

type ToolsBundle struct {
	Inspiration   Inspiration   `json:"inspiration"`
	DopamineBoost DopamineBoost `json:"dopamineBoost"`
	FocusSession  FocusSession  `json:"focusSession"`
	Resources     []Resource    `json:"resources"`
	Habits        []Habit       `json:"habits"`
}

type toolsResponse struct {
	Tools *ToolsBundle `json:"tools"`
}
