package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/yankaics/OnlineJudge/internal/models"
	"github.com/yankaics/OnlineJudge/pkg/database"
)

const submissionColumns = `
	id, user_id, problem_id, contest_id, language, code, result,
	create_time, accepted_answer_time, info, shared
`

type SubmissionRepository struct {
	db *database.DB
}

func NewSubmissionRepository(db *database.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	submission := &models.Submission{}
	var contestID, acceptedTime sql.NullInt64
	var info sql.NullString

	err := row.Scan(
		&submission.ID,
		&submission.UserID,
		&submission.ProblemID,
		&contestID,
		&submission.Language,
		&submission.Code,
		&submission.Result,
		&submission.CreateTime,
		&acceptedTime,
		&info,
		&submission.Shared,
	)
	if err != nil {
		return nil, err
	}

	if contestID.Valid {
		submission.ContestID = &contestID.Int64
	}
	if acceptedTime.Valid {
		t := int(acceptedTime.Int64)
		submission.AcceptedAnswerTime = &t
	}
	if info.Valid {
		submission.Info = &info.String
	}

	return submission, nil
}

// Create 새 제출 생성 (ID, create_time은 DB가 부여)
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	query := `
		INSERT INTO submissions (user_id, problem_id, contest_id, language, code, result, shared)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, create_time
	`

	err := r.db.QueryRowContext(ctx, query,
		submission.UserID,
		submission.ProblemID,
		submission.ContestID,
		submission.Language,
		submission.Code,
		submission.Result,
		submission.Shared,
	).Scan(&submission.ID, &submission.CreateTime)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	return nil
}

func (r *SubmissionRepository) findOne(ctx context.Context, where string, args ...interface{}) (*models.Submission, error) {
	query := "SELECT " + submissionColumns + " FROM submissions WHERE " + where

	submission, err := scanSubmission(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}

	return submission, nil
}

// FindByID ID로 제출 찾기
func (r *SubmissionRepository) FindByID(ctx context.Context, id int64) (*models.Submission, error) {
	return r.findOne(ctx, "id = $1", id)
}

// FindStandaloneByID 대회에 속하지 않은 제출만 조회
func (r *SubmissionRepository) FindStandaloneByID(ctx context.Context, id int64) (*models.Submission, error) {
	return r.findOne(ctx, "id = $1 AND contest_id IS NULL", id)
}

// FindByIDAndUser 본인 제출 조회
func (r *SubmissionRepository) FindByIDAndUser(ctx context.Context, id, userID int64) (*models.Submission, error) {
	return r.findOne(ctx, "id = $1 AND user_id = $2", id, userID)
}

// ToggleShared 공유 플래그 반전 후 새 값 반환
func (r *SubmissionRepository) ToggleShared(ctx context.Context, id int64) (bool, error) {
	var shared bool
	err := r.db.QueryRowContext(ctx, `
		UPDATE submissions
		SET shared = NOT shared
		WHERE id = $1
		RETURNING shared
	`, id).Scan(&shared)
	if err != nil {
		return false, fmt.Errorf("failed to toggle shared: %w", err)
	}

	return shared, nil
}

// ListByProblem 문제별 공개 제출 목록 (관리자용)
func (r *SubmissionRepository) ListByProblem(ctx context.Context, problemID int64, page, pageSize int) ([]*models.Submission, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM submissions
		WHERE problem_id = $1 AND contest_id IS NULL
	`, problemID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	query := "SELECT " + submissionColumns + `
		FROM submissions
		WHERE problem_id = $1 AND contest_id IS NULL
		ORDER BY create_time DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, problemID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*models.Submission
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, submission)
	}

	return submissions, total, rows.Err()
}

// ListForUser 내 제출 목록 (공개 문제만, 문제 제목 포함)
func (r *SubmissionRepository) ListForUser(ctx context.Context, filter models.SubmissionFilter) ([]*models.SubmissionSummary, int, error) {
	conds := []string{"s.contest_id IS NULL"}
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if !filter.ShowAll {
		add("s.user_id = $%d", filter.UserID)
	}
	if filter.ProblemID != nil {
		add("s.problem_id = $%d", *filter.ProblemID)
	}
	if filter.Language != nil {
		add("s.language = $%d", *filter.Language)
	}
	if filter.Result != nil {
		add("s.result = $%d", *filter.Result)
	}

	where := strings.Join(conds, " AND ")

	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM submissions s WHERE "+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT s.id, s.user_id, s.problem_id, COALESCE(p.title, ''), s.language, s.result,
		       s.create_time, s.accepted_answer_time
		FROM submissions s
		LEFT JOIN problems p ON p.id = s.problem_id
		WHERE %s
		ORDER BY s.create_time DESC, s.id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var summaries []*models.SubmissionSummary
	for rows.Next() {
		item := &models.SubmissionSummary{}
		var acceptedTime sql.NullInt64
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProblemID,
			&item.ProblemTitle,
			&item.Language,
			&item.Result,
			&item.CreateTime,
			&acceptedTime,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan submission: %w", err)
		}
		if acceptedTime.Valid && item.Result == models.ResultAccepted {
			t := int(acceptedTime.Int64)
			item.AcceptedAnswerTime = &t
		}
		summaries = append(summaries, item)
	}

	return summaries, total, rows.Err()
}
