package enhance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"goalpath/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.EnhanceConfig{
		BaseURL:        srv.URL,
		APIKey:         "test-key",
		TimeoutSeconds: 2,
	}, zap.NewNop())
}

func TestEnhanceGoalSuccess(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/enhance-goal" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		w.Write([]byte(`{
			"actions": [{"title": "Do the thing", "impact": 30}],
			"milestones": [{"title": "Halfway", "targetDate": "2025-06-01"}],
			"aiInsight": "looks achievable"
		}`))
	})

	resp, err := c.EnhanceGoal(context.Background(), EnhanceGoalRequest{Title: "g"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Actions) != 1 || resp.Actions[0].Title != "Do the thing" {
		t.Fatalf("actions = %+v", resp.Actions)
	}
	if resp.AIInsight != "looks achievable" {
		t.Fatalf("insight = %q", resp.AIInsight)
	}
}

func TestEnhanceGoalEmptyActionsIsMalformed(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"actions": [], "milestones": []}`))
	})

	_, err := c.EnhanceGoal(context.Background(), EnhanceGoalRequest{Title: "g"})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestEnhanceGoalInvalidJSONIsMalformed(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	})

	_, err := c.EnhanceGoal(context.Background(), EnhanceGoalRequest{Title: "g"})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestPostServerError(t *testing.T) {
	t.Parallel()

	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.BreakDownAction(context.Background(), BreakdownRequest{Title: "t"})
	if err == nil {
		t.Fatal("expected error for 500")
	}
	// A 5xx is not classified retryable; exactly one attempt.
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestEstimateActionTime(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"estimatedMinutes": 75}`))
	})

	minutes, err := c.EstimateActionTime(context.Background(), EstimateRequest{Title: "t"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 75 {
		t.Fatalf("minutes = %d, want 75", minutes)
	}
}

func TestEstimateActionTimeNonPositiveIsMalformed(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"estimatedMinutes": 0}`))
	})

	_, err := c.EstimateActionTime(context.Background(), EstimateRequest{Title: "t"})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestGenerateToolsEmptyPayloadIsMalformed(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := c.GenerateTools(context.Background(), ToolsRequest{})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}
