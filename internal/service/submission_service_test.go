package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yankaics/OnlineJudge/internal/judge"
	"github.com/yankaics/OnlineJudge/internal/models"
)

func validRequest() models.CreateSubmissionRequest {
	return models.CreateSubmissionRequest{ProblemID: 7, Language: models.LanguagePython, Code: "print(input())"}
}

func TestCreate_QueuesSubmission(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, owner, validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(101), id)
	assert.Equal(t, int64(1), env.counter.n.Load())

	queued := env.queue.last(t)
	assert.Equal(t, judge.PrioritySubmit, queued.priority)
	assert.Equal(t, judge.Job{SubmissionID: 101, TimeLimit: 1000, MemoryLimit: 256, TestCaseID: "tc-7"}, queued.job)

	stored, err := env.store.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.ResultWaiting, stored.Result)
	assert.False(t, stored.Shared)
	assert.Nil(t, stored.ContestID)
	assert.Equal(t, owner.UserID, stored.UserID)

	assert.Equal(t, [][2]int64{{owner.UserID, 101}}, env.notifier.events)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		req    models.CreateSubmissionRequest
		fields map[string]string
	}{
		{
			name:   "missing everything",
			req:    models.CreateSubmissionRequest{},
			fields: map[string]string{"problem_id": "is required", "language": "is required", "code": "is required"},
		},
		{
			name:   "unsupported language",
			req:    models.CreateSubmissionRequest{ProblemID: 7, Language: 9, Code: "x"},
			fields: map[string]string{"language": "unsupported language"},
		},
		{
			name:   "negative problem id",
			req:    models.CreateSubmissionRequest{ProblemID: -1, Language: models.LanguageC, Code: "x"},
			fields: map[string]string{"problem_id": "must be greater than 0"},
		},
		{
			name:   "code too long",
			req:    models.CreateSubmissionRequest{ProblemID: 7, Language: models.LanguageC, Code: strings.Repeat("a", 1025)},
			fields: map[string]string{"code": "must be at most 1024 bytes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			_, err := env.svc.Create(context.Background(), owner, tt.req)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.fields, verr.Fields)
			assert.Zero(t, env.store.Submissions())
			assert.Zero(t, env.counter.n.Load())
		})
	}
}

func TestCreate_ProblemNotFound(t *testing.T) {
	env := newTestEnv(t)

	req := validRequest()
	req.ProblemID = 404
	_, err := env.svc.Create(context.Background(), owner, req)

	assert.ErrorIs(t, err, ErrProblemNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, env.store.Submissions())
}

func TestCreate_DispatchFailureKeepsPendingRow(t *testing.T) {
	env := newTestEnv(t)
	env.queue.err = errors.New("broker down")
	ctx := context.Background()

	id, err := env.svc.Create(ctx, owner, validRequest())

	var derr *DispatchError
	require.True(t, errors.As(err, &derr))
	assert.ErrorIs(t, err, ErrDispatchFailed)
	assert.Equal(t, int64(101), derr.SubmissionID)
	assert.Equal(t, int64(101), id)

	assert.Equal(t, 1, env.store.Submissions())
	stored, err := env.store.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.ResultWaiting, stored.Result)

	assert.Zero(t, env.counter.n.Load())
	assert.Empty(t, env.notifier.events)
}

func TestCreateForContest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.svc.CreateForContest(ctx, owner, models.CreateContestSubmissionRequest{
		ContestID: 5,
		ProblemID: 70,
		Language:  models.LanguageCPP,
		Code:      "int main(){}",
	})
	require.NoError(t, err)

	stored, err := env.store.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, stored.ContestID)
	assert.Equal(t, int64(5), *stored.ContestID)

	queued := env.queue.last(t)
	assert.Equal(t, 2000, queued.job.TimeLimit)
	assert.Equal(t, "tc-70", queued.job.TestCaseID)
}

func TestCreateForContest_ProblemOutsideContest(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateForContest(context.Background(), owner, models.CreateContestSubmissionRequest{
		ContestID: 5,
		ProblemID: 7,
		Language:  models.LanguageC,
		Code:      "x",
	})

	assert.ErrorIs(t, err, ErrProblemNotFound)
	assert.Zero(t, env.store.Submissions())
}

func TestToggleShare(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.PutSubmission(models.Submission{ID: 10, UserID: owner.UserID, ProblemID: 7, Language: models.LanguageC, Code: "x"})

	shared, err := env.svc.ToggleShare(ctx, owner, 10)
	require.NoError(t, err)
	assert.True(t, shared)

	// 공유 열람자는 토글 불가
	_, err = env.svc.ToggleShare(ctx, stranger, 10)
	assert.ErrorIs(t, err, ErrForbidden)

	shared, err = env.svc.ToggleShare(ctx, owner, 10)
	require.NoError(t, err)
	assert.False(t, shared)

	// 공유 해제 후에는 존재 자체가 숨겨진다
	_, err = env.svc.ToggleShare(ctx, stranger, 10)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)

	shared, err = env.svc.ToggleShare(ctx, super, 10)
	require.NoError(t, err)
	assert.True(t, shared)
}

func TestRejudge_UsesCurrentLimits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, owner, validRequest())
	require.NoError(t, err)

	env.store.AddProblem(models.Problem{ID: 7, Title: "A+B", TimeLimit: 3000, MemoryLimit: 128, TestCaseID: "tc-7b", Visible: true})

	require.NoError(t, env.svc.Rejudge(ctx, super, id))

	queued := env.queue.last(t)
	assert.Equal(t, judge.PriorityRejudge, queued.priority)
	assert.Equal(t, judge.Job{SubmissionID: id, TimeLimit: 3000, MemoryLimit: 128, TestCaseID: "tc-7b"}, queued.job)
	assert.Equal(t, int64(2), env.counter.n.Load())
	assert.Equal(t, 1, env.locker.released)
}

func TestRejudge_Rules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.PutSubmission(models.Submission{ID: 10, UserID: owner.UserID, ProblemID: 7})
	env.store.PutSubmission(models.Submission{ID: 11, UserID: owner.UserID, ProblemID: 70, ContestID: int64Ptr(5)})

	assert.ErrorIs(t, env.svc.Rejudge(ctx, owner, 10), ErrForbidden)
	assert.ErrorIs(t, env.svc.Rejudge(ctx, admin, 10), ErrForbidden)
	assert.ErrorIs(t, env.svc.Rejudge(ctx, super, 11), ErrSubmissionNotFound)
	assert.ErrorIs(t, env.svc.Rejudge(ctx, super, 404), ErrSubmissionNotFound)

	env.locker.busy = true
	assert.ErrorIs(t, env.svc.Rejudge(ctx, super, 10), ErrRejudgeInProgress)
	assert.Zero(t, env.counter.n.Load())
}

func TestRejudge_DispatchFailure(t *testing.T) {
	env := newTestEnv(t)
	env.store.PutSubmission(models.Submission{ID: 10, UserID: owner.UserID, ProblemID: 7})
	env.queue.err = errors.New("broker down")

	err := env.svc.Rejudge(context.Background(), super, 10)

	assert.ErrorIs(t, err, ErrDispatchFailed)
	assert.Equal(t, 1, env.locker.released)
}

func TestGetStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.PutSubmission(models.Submission{ID: 10, UserID: owner.UserID, ProblemID: 7, Result: models.ResultWaiting})

	status, err := env.svc.GetStatus(ctx, owner, 10)
	require.NoError(t, err)
	assert.Equal(t, models.ResultWaiting, status.Result)
	assert.Nil(t, status.AcceptedAnswerTime)

	elapsed := 42
	env.store.SetResult(10, models.ResultAccepted, &elapsed, nil)
	status, err = env.svc.GetStatus(ctx, owner, 10)
	require.NoError(t, err)
	assert.Equal(t, models.ResultAccepted, status.Result)
	assert.Equal(t, &elapsed, status.AcceptedAnswerTime)

	_, err = env.svc.GetStatus(ctx, stranger, 10)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)

	// 슈퍼관리자도 상태 조회는 소유자 전용
	_, err = env.svc.GetStatus(ctx, super, 10)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestGetDetail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	elapsed := 15
	env.store.PutSubmission(models.Submission{ID: 10, UserID: owner.UserID, ProblemID: 7, Code: "x", Shared: true})
	env.store.SetResult(10, models.ResultAccepted, &elapsed, strPtr(`{"cases":[{"id":1,"ok":true}]}`))

	detail, err := env.svc.GetDetail(ctx, owner, 10)
	require.NoError(t, err)
	assert.True(t, detail.CanShare)
	assert.Equal(t, &elapsed, detail.AcceptedAnswerTime)
	assert.Equal(t, "A+B", detail.Problem.Title)
	info, ok := detail.Info.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, info, "cases")

	detail, err = env.svc.GetDetail(ctx, stranger, 10)
	require.NoError(t, err)
	assert.False(t, detail.CanShare)
}

func TestGetDetail_UnparsableInfo(t *testing.T) {
	env := newTestEnv(t)
	env.store.PutSubmission(models.Submission{ID: 10, UserID: owner.UserID, ProblemID: 7})
	env.store.SetResult(10, models.ResultCompileError, nil, strPtr("main.c:1: error"))

	detail, err := env.svc.GetDetail(context.Background(), owner, 10)
	require.NoError(t, err)
	assert.Equal(t, "main.c:1: error", detail.Info)
	assert.Nil(t, detail.AcceptedAnswerTime)
}

func TestGetDetail_HiddenProblem(t *testing.T) {
	env := newTestEnv(t)
	env.store.PutSubmission(models.Submission{ID: 10, UserID: owner.UserID, ProblemID: 8})

	_, err := env.svc.GetDetail(context.Background(), owner, 10)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestGetDetail_ContestSubmission(t *testing.T) {
	env := newTestEnv(t)
	env.store.PutSubmission(models.Submission{ID: 10, UserID: owner.UserID, ProblemID: 70, ContestID: int64Ptr(5)})

	detail, err := env.svc.GetDetail(context.Background(), owner, 10)
	require.NoError(t, err)
	assert.Equal(t, "Contest A", detail.Problem.Title)
}

func TestListMine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.PutSubmission(models.Submission{ID: 10, UserID: owner.UserID, ProblemID: 7, Language: models.LanguageC})
	env.store.PutSubmission(models.Submission{ID: 11, UserID: owner.UserID, ProblemID: 7, Language: models.LanguagePython})
	env.store.PutSubmission(models.Submission{ID: 12, UserID: stranger.UserID, ProblemID: 7, Language: models.LanguageC})
	env.store.PutSubmission(models.Submission{ID: 13, UserID: owner.UserID, ProblemID: 70, ContestID: int64Ptr(5)})

	page, err := env.svc.ListMine(ctx, owner, models.SubmissionFilter{ShowAll: true})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(11), page.Items[0].ID)
	assert.Equal(t, "A+B", page.Items[0].ProblemTitle)
	assert.Equal(t, DefaultPageSize, page.PageSize)

	page, err = env.svc.ListMine(ctx, super, models.SubmissionFilter{ShowAll: true})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)

	lang := models.LanguageC
	page, err = env.svc.ListMine(ctx, owner, models.SubmissionFilter{Language: &lang})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(10), page.Items[0].ID)

	_, err = env.svc.ListMine(ctx, owner, models.SubmissionFilter{ProblemID: int64Ptr(8)})
	assert.ErrorIs(t, err, ErrProblemNotFound)

	page, err = env.svc.ListMine(ctx, stranger, models.SubmissionFilter{Page: 5, PageSize: 1000})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, MaxPageSize, page.PageSize)
}

func TestListByProblem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for i := int64(10); i < 15; i++ {
		env.store.PutSubmission(models.Submission{ID: i, UserID: owner.UserID, ProblemID: 7})
	}
	env.store.PutSubmission(models.Submission{ID: 20, UserID: owner.UserID, ProblemID: 70, ContestID: int64Ptr(5)})

	_, err := env.svc.ListByProblem(ctx, owner, 7, 1, 10)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.svc.ListByProblem(ctx, super, 0, 1, 10)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	page, err := env.svc.ListByProblem(ctx, super, 7, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(12), page.Items[0].ID)
	assert.Equal(t, int64(11), page.Items[1].ID)
}
