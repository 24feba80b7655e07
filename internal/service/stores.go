package service

import (
	"context"

	"github.com/yankaics/OnlineJudge/internal/judge"
	"github.com/yankaics/OnlineJudge/internal/models"
)

// 조회 메서드는 대상이 없으면 nil, nil을 반환한다 (repository 규약).

type SubmissionStore interface {
	Create(ctx context.Context, submission *models.Submission) error
	FindByID(ctx context.Context, id int64) (*models.Submission, error)
	FindStandaloneByID(ctx context.Context, id int64) (*models.Submission, error)
	FindByIDAndUser(ctx context.Context, id, userID int64) (*models.Submission, error)
	ToggleShared(ctx context.Context, id int64) (bool, error)
	ListByProblem(ctx context.Context, problemID int64, page, pageSize int) ([]*models.Submission, int, error)
	ListForUser(ctx context.Context, filter models.SubmissionFilter) ([]*models.SubmissionSummary, int, error)
}

type ProblemCatalog interface {
	FindByID(ctx context.Context, id int64) (*models.Problem, error)
	FindContestProblem(ctx context.Context, contestID, id int64) (*models.Problem, error)
	FindContestProblemByID(ctx context.Context, id int64) (*models.Problem, error)
}

type ContestDirectory interface {
	FindByID(ctx context.Context, id int64) (*models.Contest, error)
}

type UserDirectory interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type JobDispatcher interface {
	Dispatch(ctx context.Context, job judge.Job, priority int) error
}

// QueueNotifier 채점 큐 등록 이벤트 전달 (websocket)
type QueueNotifier interface {
	NotifyQueued(userID, submissionID int64)
}
