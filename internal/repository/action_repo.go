package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"goalpath/internal/model"
)

// ActionRepository serves one of the two action tables. Goal actions and
// milestone actions are disjoint ownership domains with identical shape, so
// a single repository parameterized by table and owner column covers both.
type ActionRepository struct {
	db       *pgxpool.Pool
	logger   *zap.Logger
	table    string
	ownerCol string
}

func NewGoalActionRepository(db *pgxpool.Pool, logger *zap.Logger) *ActionRepository {
	return &ActionRepository{db: db, logger: logger, table: "actions", ownerCol: "goal_id"}
}

func NewMilestoneActionRepository(db *pgxpool.Pool, logger *zap.Logger) *ActionRepository {
	return &ActionRepository{db: db, logger: logger, table: "milestone_actions", ownerCol: "milestone_id"}
}

// Table identifies which domain this repository serves.
func (r *ActionRepository) Table() string {
	return r.table
}

func (r *ActionRepository) Insert(ctx context.Context, rec *model.ActionRecord) error {
	rec.ID = uuid.NewString()
	r.logger.Debug("Inserting action",
		zap.String("table", r.table),
		zap.String("owner_id", rec.OwnerID),
		zap.String("title", rec.Title),
	)
	query := fmt.Sprintf(`
        INSERT INTO %s (id, %s, parent_id, title, completed, date, impact, level,
                        is_expanded, notes, estimated_time, actual_time, time_generated)
        VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8, $9, $10, $11, $12, $13)
    `, r.table, r.ownerCol)
	_, err := r.db.Exec(ctx, query,
		rec.ID,
		rec.OwnerID,
		nullIfEmpty(rec.ParentID),
		rec.Title,
		rec.Completed,
		nullIfEmpty(rec.Date),
		rec.Impact,
		rec.Level,
		rec.Expanded,
		rec.Notes,
		rec.EstimatedTime,
		rec.ActualTime,
		rec.TimeGenerated,
	)
	if err != nil {
		r.logger.Error("Failed to insert action",
			zap.Error(err),
			zap.String("table", r.table),
			zap.String("owner_id", rec.OwnerID),
		)
		return err
	}
	return nil
}

func (r *ActionRepository) Update(ctx context.Context, rec *model.ActionRecord) error {
	query := fmt.Sprintf(`
        UPDATE %s
        SET title = $2, completed = $3, date = $4::date, impact = $5, level = $6,
            is_expanded = $7, notes = $8, estimated_time = $9, actual_time = $10,
            time_generated = $11, parent_id = $12
        WHERE id = $1
    `, r.table)
	_, err := r.db.Exec(ctx, query,
		rec.ID,
		rec.Title,
		rec.Completed,
		nullIfEmpty(rec.Date),
		rec.Impact,
		rec.Level,
		rec.Expanded,
		rec.Notes,
		rec.EstimatedTime,
		rec.ActualTime,
		rec.TimeGenerated,
		nullIfEmpty(rec.ParentID),
	)
	if err != nil {
		r.logger.Error("Failed to update action",
			zap.Error(err),
			zap.String("table", r.table),
			zap.String("action_id", rec.ID),
		)
		return err
	}
	return nil
}

func (r *ActionRepository) FindByID(ctx context.Context, id string) (*model.ActionRecord, error) {
	query := fmt.Sprintf(`
        SELECT id, %s, parent_id, title, completed, to_char(date, 'YYYY-MM-DD'),
               impact, level, is_expanded, notes, estimated_time, actual_time, time_generated
        FROM %s
        WHERE id = $1
    `, r.ownerCol, r.table)
	rec, err := scanRecord(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListByOwner returns every record for one owning goal or milestone, in
// creation order. The tree builder relies on that ordering.
func (r *ActionRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.ActionRecord, error) {
	query := fmt.Sprintf(`
        SELECT id, %s, parent_id, title, completed, to_char(date, 'YYYY-MM-DD'),
               impact, level, is_expanded, notes, estimated_time, actual_time, time_generated
        FROM %s
        WHERE %s = $1
        ORDER BY created_at ASC
    `, r.ownerCol, r.table, r.ownerCol)
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		r.logger.Error("Failed to query actions",
			zap.Error(err),
			zap.String("table", r.table),
			zap.String("owner_id", ownerID),
		)
		return nil, err
	}
	defer rows.Close()

	records := []model.ActionRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			r.logger.Error("Failed to scan action row",
				zap.Error(err),
				zap.String("table", r.table),
			)
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*model.ActionRecord, error) {
	var rec model.ActionRecord
	var parentID, notes, date *string
	var estimated, actual *int
	if err := row.Scan(
		&rec.ID,
		&rec.OwnerID,
		&parentID,
		&rec.Title,
		&rec.Completed,
		&date,
		&rec.Impact,
		&rec.Level,
		&rec.Expanded,
		&notes,
		&estimated,
		&actual,
		&rec.TimeGenerated,
	); err != nil {
		return nil, err
	}
	if parentID != nil {
		rec.ParentID = *parentID
	}
	if notes != nil {
		rec.Notes = *notes
	}
	if date != nil {
		rec.Date = *date
	}
	if estimated != nil {
		rec.EstimatedTime = *estimated
	}
	if actual != nil {
		rec.ActualTime = *actual
	}
	return &rec, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
