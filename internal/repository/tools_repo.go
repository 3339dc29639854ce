package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"goalpath/internal/model"
)

type ToolsRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewToolsRepository(db *pgxpool.Pool, logger *zap.Logger) *ToolsRepository {
	return &ToolsRepository{db: db, logger: logger}
}

func (r *ToolsRepository) Get(ctx context.Context, userID int) (*model.ToolsSnapshot, error) {
	query := `
        SELECT id, user_id, tools_data, goals_snapshot, updated_at
        FROM tools
        WHERE user_id = $1
    `
	var s model.ToolsSnapshot
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.ID,
		&s.UserID,
		&s.ToolsData,
		&s.GoalsSnapshot,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert overwrites the user's single snapshot row; the bundle is not
// versioned.
func (r *ToolsRepository) Upsert(ctx context.Context, s *model.ToolsSnapshot) error {
	query := `
        INSERT INTO tools (user_id, tools_data, goals_snapshot, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (user_id) DO UPDATE
        SET tools_data = EXCLUDED.tools_data,
            goals_snapshot = EXCLUDED.goals_snapshot,
            updated_at = NOW()
        RETURNING id, updated_at
    `
	err := r.db.QueryRow(ctx, query, s.UserID, s.ToolsData, s.GoalsSnapshot).Scan(&s.ID, &s.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to upsert tools snapshot",
			zap.Error(err),
			zap.Int("user_id", s.UserID),
		)
		return err
	}
	r.logger.Info("Tools snapshot saved", zap.Int("user_id", s.UserID))
	return nil
}

func (r *ToolsRepository) Delete(ctx context.Context, userID int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tools WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error("Failed to delete tools snapshot",
			zap.Error(err),
			zap.Int("user_id", userID),
		)
		return err
	}
	return nil
}
