package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yankaics/OnlineJudge/internal/models"
	"github.com/yankaics/OnlineJudge/pkg/database"
)

// ProblemRepository 공개 문제 / 대회 문제 조회 (읽기 전용)
type ProblemRepository struct {
	db *database.DB
}

func NewProblemRepository(db *database.DB) *ProblemRepository {
	return &ProblemRepository{db: db}
}

func (r *ProblemRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Problem, error) {
	problem := &models.Problem{}
	var contestID sql.NullInt64

	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&problem.ID,
		&problem.Title,
		&problem.TimeLimit,
		&problem.MemoryLimit,
		&problem.TestCaseID,
		&problem.Visible,
		&contestID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find problem: %w", err)
	}

	if contestID.Valid {
		problem.ContestID = &contestID.Int64
	}

	return problem, nil
}

// FindByID 공개 문제 조회
func (r *ProblemRepository) FindByID(ctx context.Context, id int64) (*models.Problem, error) {
	return r.findOne(ctx, `
		SELECT id, title, time_limit, memory_limit, test_case_id, visible, NULL::BIGINT
		FROM problems
		WHERE id = $1
	`, id)
}

// FindContestProblem 특정 대회의 문제 조회
func (r *ProblemRepository) FindContestProblem(ctx context.Context, contestID, id int64) (*models.Problem, error) {
	return r.findOne(ctx, `
		SELECT id, title, time_limit, memory_limit, test_case_id, visible, contest_id
		FROM contest_problems
		WHERE id = $1 AND contest_id = $2
	`, id, contestID)
}

// FindContestProblemByID 대회 문제 ID만으로 조회
func (r *ProblemRepository) FindContestProblemByID(ctx context.Context, id int64) (*models.Problem, error) {
	return r.findOne(ctx, `
		SELECT id, title, time_limit, memory_limit, test_case_id, visible, contest_id
		FROM contest_problems
		WHERE id = $1
	`, id)
}
