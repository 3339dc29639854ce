package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"goalpath/internal/model"
)

type MilestoneRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewMilestoneRepository(db *pgxpool.Pool, logger *zap.Logger) *MilestoneRepository {
	return &MilestoneRepository{
		db:     db,
		logger: logger,
	}
}

func (r *MilestoneRepository) Insert(ctx context.Context, m *model.Milestone) error {
	m.ID = uuid.NewString()
	r.logger.Debug("Inserting milestone",
		zap.String("goal_id", m.GoalID),
		zap.String("title", m.Title),
	)
	query := `
        INSERT INTO milestones (id, goal_id, title, description, completed, date, is_expanded)
        VALUES ($1, $2, $3, $4, $5, $6::date, $7)
        RETURNING created_at
    `
	err := r.db.QueryRow(ctx, query,
		m.ID,
		m.GoalID,
		m.Title,
		m.Description,
		m.Completed,
		nullIfEmpty(m.Date),
		m.IsExpanded,
	).Scan(&m.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert milestone", zap.Error(err))
		return err
	}
	r.logger.Info("Milestone inserted successfully",
		zap.String("milestone_id", m.ID),
		zap.String("goal_id", m.GoalID),
	)
	return nil
}

func (r *MilestoneRepository) FindByID(ctx context.Context, id string) (*model.Milestone, error) {
	query := `
        SELECT id, goal_id, title, description, completed,
               to_char(date, 'YYYY-MM-DD'), is_expanded, created_at
        FROM milestones
        WHERE id = $1
    `
	var m model.Milestone
	var date *string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.GoalID,
		&m.Title,
		&m.Description,
		&m.Completed,
		&date,
		&m.IsExpanded,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if date != nil {
		m.Date = *date
	}
	return &m, nil
}

func (r *MilestoneRepository) ListByGoal(ctx context.Context, goalID string) ([]model.Milestone, error) {
	query := `
        SELECT id, goal_id, title, description, completed,
               to_char(date, 'YYYY-MM-DD'), is_expanded, created_at
        FROM milestones
        WHERE goal_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, goalID)
	if err != nil {
		r.logger.Error("Failed to query milestones",
			zap.Error(err),
			zap.String("goal_id", goalID),
		)
		return nil, err
	}
	defer rows.Close()

	milestones := []model.Milestone{}
	for rows.Next() {
		var m model.Milestone
		var date *string
		if err := rows.Scan(
			&m.ID,
			&m.GoalID,
			&m.Title,
			&m.Description,
			&m.Completed,
			&date,
			&m.IsExpanded,
			&m.CreatedAt,
		); err != nil {
			r.logger.Error("Failed to scan milestone", zap.Error(err))
			return nil, err
		}
		if date != nil {
			m.Date = *date
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

func (r *MilestoneRepository) Update(ctx context.Context, m *model.Milestone) error {
	query := `
        UPDATE milestones
        SET title = $2, description = $3, completed = $4, date = $5::date, is_expanded = $6
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query,
		m.ID,
		m.Title,
		m.Description,
		m.Completed,
		nullIfEmpty(m.Date),
		m.IsExpanded,
	)
	if err != nil {
		r.logger.Error("Failed to update milestone",
			zap.Error(err),
			zap.String("milestone_id", m.ID),
		)
		return err
	}
	return nil
}
