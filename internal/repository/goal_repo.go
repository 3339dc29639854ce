package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"goalpath/internal/model"
)

type GoalRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewGoalRepository(db *pgxpool.Pool, logger *zap.Logger) *GoalRepository {
	return &GoalRepository{db: db, logger: logger}
}

func (r *GoalRepository) Insert(ctx context.Context, g *model.Goal) error {
	g.ID = uuid.NewString()
	r.logger.Debug("Inserting goal",
		zap.String("goal_id", g.ID),
		zap.Int("user_id", g.UserID),
		zap.String("category", g.Category),
	)
	query := `
        INSERT INTO goals (id, user_id, title, description, category, progress, target, deadline)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8::date)
        RETURNING created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		g.ID,
		g.UserID,
		g.Title,
		g.Description,
		g.Category,
		g.Progress,
		g.Target,
		g.Deadline,
	).Scan(&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert goal",
			zap.Error(err),
			zap.Int("user_id", g.UserID),
		)
		return err
	}
	r.logger.Info("Goal inserted successfully",
		zap.String("goal_id", g.ID),
		zap.Int("user_id", g.UserID),
	)
	return nil
}

func (r *GoalRepository) FindByID(ctx context.Context, id string) (*model.Goal, error) {
	query := `
        SELECT id, user_id, title, description, category, progress, target,
               to_char(deadline, 'YYYY-MM-DD'), created_at, updated_at
        FROM goals
        WHERE id = $1
    `
	var g model.Goal
	err := r.db.QueryRow(ctx, query, id).Scan(
		&g.ID,
		&g.UserID,
		&g.Title,
		&g.Description,
		&g.Category,
		&g.Progress,
		&g.Target,
		&g.Deadline,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GoalRepository) ListByUser(ctx context.Context, userID int) ([]model.Goal, error) {
	r.logger.Debug("Listing goals for user", zap.Int("user_id", userID))
	query := `
        SELECT id, user_id, title, description, category, progress, target,
               to_char(deadline, 'YYYY-MM-DD'), created_at, updated_at
        FROM goals
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to query goals",
			zap.Error(err),
			zap.Int("user_id", userID),
		)
		return nil, err
	}
	defer rows.Close()

	goals := []model.Goal{}
	for rows.Next() {
		var g model.Goal
		if err := rows.Scan(
			&g.ID,
			&g.UserID,
			&g.Title,
			&g.Description,
			&g.Category,
			&g.Progress,
			&g.Target,
			&g.Deadline,
			&g.CreatedAt,
			&g.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan goal row", zap.Error(err))
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// Update persists the mutable field whitelist. Progress is written as-is;
// it is recomputed by the service when root actions change.
func (r *GoalRepository) Update(ctx context.Context, g *model.Goal) error {
	query := `
        UPDATE goals
        SET title = $2, description = $3, category = $4, deadline = $5::date,
            progress = $6, target = $7, updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query,
		g.ID,
		g.Title,
		g.Description,
		g.Category,
		g.Deadline,
		g.Progress,
		g.Target,
	)
	if err != nil {
		r.logger.Error("Failed to update goal",
			zap.Error(err),
			zap.String("goal_id", g.ID),
		)
		return err
	}
	r.logger.Info("Goal updated successfully", zap.String("goal_id", g.ID))
	return nil
}

func (r *GoalRepository) UpdateProgress(ctx context.Context, id string, progress int) error {
	query := `UPDATE goals SET progress = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, progress)
	if err != nil {
		r.logger.Error("Failed to update goal progress",
			zap.Error(err),
			zap.String("goal_id", id),
		)
		return err
	}
	return nil
}

// Delete removes the goal; actions, milestones and milestone actions go
// with it via ON DELETE CASCADE, atomically.
func (r *GoalRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete goal",
			zap.Error(err),
			zap.String("goal_id", id),
		)
		return err
	}
	r.logger.Info("Goal deleted",
		zap.String("goal_id", id),
		zap.Int64("rows_affected", result.RowsAffected()),
	)
	return nil
}
