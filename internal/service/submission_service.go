package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yankaics/OnlineJudge/internal/judge"
	"github.com/yankaics/OnlineJudge/internal/models"
	"github.com/yankaics/OnlineJudge/pkg/logger"
	"go.uber.org/zap"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type SubmissionService struct {
	submissions   SubmissionStore
	problems      ProblemCatalog
	access        *AccessResolver
	dispatcher    JobDispatcher
	locker        RejudgeLocker
	notifier      QueueNotifier
	maxCodeLength int
	logger        *zap.SugaredLogger
}

func NewSubmissionService(
	submissions SubmissionStore,
	problems ProblemCatalog,
	contests ContestDirectory,
	dispatcher JobDispatcher,
	maxCodeLength int,
) *SubmissionService {
	return &SubmissionService{
		submissions:   submissions,
		problems:      problems,
		access:        NewAccessResolver(submissions, contests),
		dispatcher:    dispatcher,
		maxCodeLength: maxCodeLength,
		logger:        logger.Named("submission"),
	}
}

// WithRejudgeLocker 재채점 중복 방지 락 설정
func (s *SubmissionService) WithRejudgeLocker(locker RejudgeLocker) *SubmissionService {
	s.locker = locker
	return s
}

// WithNotifier 큐 등록 이벤트 전달자 설정
func (s *SubmissionService) WithNotifier(notifier QueueNotifier) *SubmissionService {
	s.notifier = notifier
	return s
}

// Access 열람 권한 판정기
func (s *SubmissionService) Access() *AccessResolver {
	return s.access
}

func (s *SubmissionService) validateCode(req interface{}, code string) error {
	err := ValidateStruct(req)
	if s.maxCodeLength <= 0 || len(code) <= s.maxCodeLength {
		return err
	}

	verr, ok := err.(*ValidationError)
	if err != nil && !ok {
		return err
	}
	if verr == nil {
		verr = &ValidationError{Fields: map[string]string{}}
	}
	verr.Fields["code"] = fmt.Sprintf("must be at most %d bytes", s.maxCodeLength)
	return verr
}

// Create 공개 문제 제출 생성 후 채점 큐 등록
func (s *SubmissionService) Create(ctx context.Context, requester models.Identity, req models.CreateSubmissionRequest) (int64, error) {
	if err := s.validateCode(&req, req.Code); err != nil {
		return 0, err
	}

	problem, err := s.problems.FindByID(ctx, req.ProblemID)
	if err != nil {
		return 0, fmt.Errorf("failed to find problem: %w", err)
	}
	if problem == nil {
		return 0, ErrProblemNotFound
	}

	return s.submit(ctx, &models.Submission{
		UserID:    requester.UserID,
		ProblemID: problem.ID,
		Language:  req.Language,
		Code:      req.Code,
	}, problem)
}

// CreateForContest 대회 제출 생성. 대회 참가 자격은 ContestGate가 먼저 확인한다.
func (s *SubmissionService) CreateForContest(ctx context.Context, requester models.Identity, req models.CreateContestSubmissionRequest) (int64, error) {
	if err := s.validateCode(&req, req.Code); err != nil {
		return 0, err
	}

	problem, err := s.problems.FindContestProblem(ctx, req.ContestID, req.ProblemID)
	if err != nil {
		return 0, fmt.Errorf("failed to find contest problem: %w", err)
	}
	if problem == nil {
		return 0, ErrProblemNotFound
	}

	contestID := req.ContestID
	return s.submit(ctx, &models.Submission{
		UserID:    requester.UserID,
		ProblemID: problem.ID,
		ContestID: &contestID,
		Language:  req.Language,
		Code:      req.Code,
	}, problem)
}

// submit 저장 → 디스패치. 디스패치 실패 시 제출은 waiting 상태로 남는다.
func (s *SubmissionService) submit(ctx context.Context, submission *models.Submission, problem *models.Problem) (int64, error) {
	submission.Result = models.ResultWaiting
	submission.Shared = false

	if err := s.submissions.Create(ctx, submission); err != nil {
		return 0, fmt.Errorf("failed to create submission: %w", err)
	}

	job := judge.Job{
		SubmissionID: submission.ID,
		TimeLimit:    problem.TimeLimit,
		MemoryLimit:  problem.MemoryLimit,
		TestCaseID:   problem.TestCaseID,
	}
	if err := s.dispatcher.Dispatch(ctx, job, judge.PrioritySubmit); err != nil {
		s.logger.Errorw("Failed to dispatch judge job",
			"submissionId", submission.ID,
			"problemId", problem.ID,
			"error", err)
		return submission.ID, &DispatchError{SubmissionID: submission.ID, Err: err}
	}

	s.logger.Infow("Submission queued",
		"submissionId", submission.ID,
		"userId", submission.UserID,
		"problemId", submission.ProblemID,
		"contest", submission.IsContest())

	if s.notifier != nil {
		s.notifier.NotifyQueued(submission.UserID, submission.ID)
	}

	return submission.ID, nil
}

// Rejudge 공개 문제 제출 재채점 (현재 문제 제한값 사용)
func (s *SubmissionService) Rejudge(ctx context.Context, requester models.Identity, submissionID int64) error {
	if !requester.IsSuperAdmin() {
		return ErrForbidden
	}

	submission, err := s.submissions.FindStandaloneByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("failed to find submission: %w", err)
	}
	if submission == nil {
		return ErrSubmissionNotFound
	}

	problem, err := s.problems.FindByID(ctx, submission.ProblemID)
	if err != nil {
		return fmt.Errorf("failed to find problem: %w", err)
	}
	if problem == nil {
		return ErrProblemNotFound
	}

	if s.locker != nil {
		release, err := s.locker.Lock(ctx, submission.ID)
		if err != nil {
			return err
		}
		defer release()
	}

	job := judge.Job{
		SubmissionID: submission.ID,
		TimeLimit:    problem.TimeLimit,
		MemoryLimit:  problem.MemoryLimit,
		TestCaseID:   problem.TestCaseID,
	}
	if err := s.dispatcher.Dispatch(ctx, job, judge.PriorityRejudge); err != nil {
		s.logger.Errorw("Failed to dispatch rejudge job",
			"submissionId", submission.ID,
			"error", err)
		return &DispatchError{SubmissionID: submission.ID, Err: err}
	}

	s.logger.Infow("Submission rejudge queued",
		"submissionId", submission.ID,
		"adminId", requester.UserID)

	return nil
}

// ToggleShare 공유 플래그 반전. 공유 열람자(PUBLIC_SHARED)는 변경 불가.
func (s *SubmissionService) ToggleShare(ctx context.Context, requester models.Identity, submissionID int64) (bool, error) {
	access, err := s.access.Resolve(ctx, submissionID, requester)
	if err != nil {
		return false, err
	}
	if !access.CanShare() {
		return false, ErrForbidden
	}

	shared, err := s.submissions.ToggleShared(ctx, submissionID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle share: %w", err)
	}

	return shared, nil
}

// StatusView 제출 상태 (소유자 전용)
type StatusView struct {
	Result             models.Result `json:"result"`
	AcceptedAnswerTime *int          `json:"accepted_answer_time,omitempty"`
}

// GetStatus 본인 제출 결과 조회
func (s *SubmissionService) GetStatus(ctx context.Context, requester models.Identity, submissionID int64) (*StatusView, error) {
	submission, err := s.submissions.FindByIDAndUser(ctx, submissionID, requester.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil, ErrSubmissionNotFound
	}

	return &StatusView{
		Result:             submission.Result,
		AcceptedAnswerTime: submission.AcceptedTime(),
	}, nil
}

// DetailView 제출 상세
type DetailView struct {
	Submission         *models.Submission `json:"submission"`
	AcceptedAnswerTime *int               `json:"accepted_answer_time,omitempty"`
	Problem            *models.Problem    `json:"problem"`
	Info               interface{}        `json:"info"`
	CanShare           bool               `json:"can_share"`
}

// GetDetail 제출 상세 조회. 문제가 숨김 처리되면 제출도 보이지 않는다.
func (s *SubmissionService) GetDetail(ctx context.Context, requester models.Identity, submissionID int64) (*DetailView, error) {
	access, err := s.access.Resolve(ctx, submissionID, requester)
	if err != nil {
		return nil, err
	}
	submission := access.Submission

	var problem *models.Problem
	if submission.IsContest() {
		problem, err = s.problems.FindContestProblemByID(ctx, submission.ProblemID)
	} else {
		problem, err = s.problems.FindByID(ctx, submission.ProblemID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find problem: %w", err)
	}
	if problem == nil || !problem.Visible {
		return nil, ErrSubmissionNotFound
	}

	return &DetailView{
		Submission:         submission,
		AcceptedAnswerTime: submission.AcceptedTime(),
		Problem:            problem,
		Info:               parseInfo(submission.Info),
		CanShare:           access.CanShare(),
	}, nil
}

// parseInfo JSON이면 파싱, 아니면 원본 문자열 그대로
func parseInfo(raw *string) interface{} {
	if raw == nil || *raw == "" {
		return nil
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(*raw), &parsed); err != nil {
		return *raw
	}
	return parsed
}

// Page 목록 응답
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// ListByProblem 문제별 제출 목록 (슈퍼관리자)
func (s *SubmissionService) ListByProblem(ctx context.Context, requester models.Identity, problemID int64, page, pageSize int) (*Page[*models.Submission], error) {
	if !requester.IsSuperAdmin() {
		return nil, ErrForbidden
	}
	if problemID <= 0 {
		return nil, &ValidationError{Fields: map[string]string{"problem_id": "is required"}}
	}

	page, pageSize = normalizePage(page, pageSize)
	items, total, err := s.submissions.ListByProblem(ctx, problemID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	if items == nil {
		items = []*models.Submission{}
	}

	return &Page[*models.Submission]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// ListMine 내 제출 목록. ShowAll은 슈퍼관리자만 적용된다.
func (s *SubmissionService) ListMine(ctx context.Context, requester models.Identity, filter models.SubmissionFilter) (*Page[*models.SubmissionSummary], error) {
	filter.UserID = requester.UserID
	filter.ShowAll = filter.ShowAll && requester.IsSuperAdmin()
	filter.Page, filter.PageSize = normalizePage(filter.Page, filter.PageSize)

	if filter.ProblemID != nil {
		problem, err := s.problems.FindByID(ctx, *filter.ProblemID)
		if err != nil {
			return nil, fmt.Errorf("failed to find problem: %w", err)
		}
		if problem == nil || !problem.Visible {
			return nil, ErrProblemNotFound
		}
	}

	items, total, err := s.submissions.ListForUser(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	if items == nil {
		items = []*models.SubmissionSummary{}
	}

	return &Page[*models.SubmissionSummary]{Items: items, Total: total, Page: filter.Page, PageSize: filter.PageSize}, nil
}
