package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yankaics/OnlineJudge/internal/models"
	"github.com/yankaics/OnlineJudge/pkg/database"
)

type ContestRepository struct {
	db *database.DB
}

func NewContestRepository(db *database.DB) *ContestRepository {
	return &ContestRepository{db: db}
}

// FindByID ID로 대회 찾기
func (r *ContestRepository) FindByID(ctx context.Context, id int64) (*models.Contest, error) {
	query := `
		SELECT id, title, created_by, start_time, end_time, visible
		FROM contests
		WHERE id = $1
	`

	contest := &models.Contest{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&contest.ID,
		&contest.Title,
		&contest.CreatedBy,
		&contest.StartTime,
		&contest.EndTime,
		&contest.Visible,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find contest: %w", err)
	}

	return contest, nil
}
