// Package tools manages each user's generated productivity-tool bundle:
// one snapshot per user, regenerated on demand from their current goals.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"goalpath/internal/model"
	"goalpath/internal/service/enhance"
)

// ErrNoGoals rejects generation for a user with nothing to personalize
// against.
var ErrNoGoals = errors.New("no goals to generate tools from")

const cacheTTL = 10 * time.Minute

type Repository interface {
	Get(ctx context.Context, userID int) (*model.ToolsSnapshot, error)
	Upsert(ctx context.Context, s *model.ToolsSnapshot) error
	Delete(ctx context.Context, userID int) error
}

type GoalLister interface {
	List(ctx context.Context, userID int) ([]model.Goal, error)
}

type Generator interface {
	GenerateTools(ctx context.Context, req enhance.ToolsRequest) (*enhance.ToolsBundle, error)
}

// Snapshot is the read shape: the stored bundle plus whether one exists,
// so clients can distinguish "never generated" from an empty bundle.
type Snapshot struct {
	Tools       json.RawMessage `json:"tools"`
	LastUpdated time.Time       `json:"lastUpdated,omitempty"`
	HasTools    bool            `json:"hasTools"`
}

type Service struct {
	repo      Repository
	goals     GoalLister
	generator Generator
	cache     *redis.Client
	logger    *zap.Logger
}

func NewService(repo Repository, goals GoalLister, generator Generator, cache *redis.Client, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		goals:     goals,
		generator: generator,
		cache:     cache,
		logger:    logger,
	}
}

// Get returns the user's stored bundle, served from cache when warm.
func (s *Service) Get(ctx context.Context, userID int) (*Snapshot, error) {
	if cached := s.fromCache(ctx, userID); cached != nil {
		return cached, nil
	}

	snap, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &Snapshot{HasTools: false}, nil
		}
		return nil, err
	}
	out := &Snapshot{
		Tools:       snap.ToolsData,
		LastUpdated: snap.UpdatedAt,
		HasTools:    true,
	}
	s.toCache(ctx, userID, out)
	return out, nil
}

// Generate builds a fresh bundle from the user's current goals and
// replaces the stored snapshot. Generator failure degrades to the fixed
// bundle rather than failing the request.
func (s *Service) Generate(ctx context.Context, userID int) (*enhance.ToolsBundle, error) {
	goals, err := s.goals.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return nil, ErrNoGoals
	}

	req := enhance.ToolsRequest{Goals: make([]enhance.GoalSummary, 0, len(goals))}
	for _, g := range goals {
		req.Goals = append(req.Goals, enhance.GoalSummary{
			Title:       g.Title,
			Description: g.Description,
			Category:    g.Category,
			Progress:    g.Progress,
		})
	}

	bundle, err := s.generator.GenerateTools(ctx, req)
	if err != nil {
		s.logger.Warn("Tools generation degraded to fallback",
			zap.Int("user_id", userID),
			zap.Error(err),
		)
		bundle = enhance.FallbackTools()
	}

	toolsData, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("encode tools bundle: %w", err)
	}
	goalsSnapshot, err := json.Marshal(req.Goals)
	if err != nil {
		return nil, fmt.Errorf("encode goals snapshot: %w", err)
	}
	snap := &model.ToolsSnapshot{
		UserID:        userID,
		ToolsData:     toolsData,
		GoalsSnapshot: goalsSnapshot,
	}
	if err := s.repo.Upsert(ctx, snap); err != nil {
		return nil, err
	}

	s.toCache(ctx, userID, &Snapshot{
		Tools:       toolsData,
		LastUpdated: snap.UpdatedAt,
		HasTools:    true,
	})
	return bundle, nil
}

// Delete drops the stored snapshot and its cache entry.
func (s *Service) Delete(ctx context.Context, userID int) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.dropCache(ctx, userID)
	return nil
}

func cacheKey(userID int) string {
	return fmt.Sprintf("tools:%d", userID)
}

func (s *Service) fromCache(ctx context.Context, userID int) *Snapshot {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cacheKey(userID)).Bytes()
	if err != nil {
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil
	}
	return &snap
}

func (s *Service) toCache(ctx context.Context, userID int, snap *Snapshot) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(userID), raw, cacheTTL).Err(); err != nil {
		s.logger.Debug("Tools cache write failed", zap.Error(err))
	}
}

func (s *Service) dropCache(ctx context.Context, userID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(userID)).Err(); err != nil {
		s.logger.Debug("Tools cache delete failed", zap.Error(err))
	}
}
