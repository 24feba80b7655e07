// Package memstore 테스트와 로컬 실행용 인메모리 저장소
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/yankaics/OnlineJudge/internal/models"
)

var ErrStoreUnavailable = errors.New("store unavailable")

// Store 제출/문제/대회/사용자를 한 곳에 보관
type Store struct {
	mu sync.RWMutex

	nextID      int64
	lastCreated time.Time
	now         func() time.Time

	submissions     map[int64]*models.Submission
	problems        map[int64]*models.Problem
	contestProblems map[int64]*models.Problem
	contests        map[int64]*models.Contest
	users           map[int64]*models.User

	// FailCreate true면 Create가 ErrStoreUnavailable 반환
	FailCreate bool
}

func New() *Store {
	return &Store{
		nextID:          1,
		now:             time.Now,
		submissions:     make(map[int64]*models.Submission),
		problems:        make(map[int64]*models.Problem),
		contestProblems: make(map[int64]*models.Problem),
		contests:        make(map[int64]*models.Contest),
		users:           make(map[int64]*models.User),
	}
}

// SetNextID 다음 제출 ID 지정
func (s *Store) SetNextID(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = id
}

func (s *Store) AddProblem(p models.Problem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ContestID = nil
	s.problems[p.ID] = &p
}

func (s *Store) AddContestProblem(contestID int64, p models.Problem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ContestID = &contestID
	s.contestProblems[p.ID] = &p
}

func (s *Store) AddContest(c models.Contest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contests[c.ID] = &c
}

func (s *Store) AddUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = &u
}

// PutSubmission 저장된 제출을 그대로 넣는다 (ID 지정)
func (s *Store) PutSubmission(sub models.Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.CreateTime.IsZero() {
		sub.CreateTime = s.tick()
	}
	s.submissions[sub.ID] = &sub
	if sub.ID >= s.nextID {
		s.nextID = sub.ID + 1
	}
}

// Submissions 저장된 제출 수
func (s *Store) Submissions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.submissions)
}

// tick 생성 시각은 감소하지 않는다
func (s *Store) tick() time.Time {
	t := s.now()
	if !t.After(s.lastCreated) {
		t = s.lastCreated.Add(time.Microsecond)
	}
	s.lastCreated = t
	return t
}

func copySubmission(sub *models.Submission) *models.Submission {
	c := *sub
	return &c
}

func (s *Store) Create(_ context.Context, submission *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailCreate {
		return ErrStoreUnavailable
	}

	submission.ID = s.nextID
	s.nextID++
	submission.CreateTime = s.tick()
	s.submissions[submission.ID] = copySubmission(submission)
	return nil
}

func (s *Store) find(match func(*models.Submission) bool) *models.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.submissions {
		if match(sub) {
			return copySubmission(sub)
		}
	}
	return nil
}

func (s *Store) FindByID(_ context.Context, id int64) (*models.Submission, error) {
	return s.find(func(sub *models.Submission) bool { return sub.ID == id }), nil
}

func (s *Store) FindStandaloneByID(_ context.Context, id int64) (*models.Submission, error) {
	return s.find(func(sub *models.Submission) bool { return sub.ID == id && sub.ContestID == nil }), nil
}

func (s *Store) FindByIDAndUser(_ context.Context, id, userID int64) (*models.Submission, error) {
	return s.find(func(sub *models.Submission) bool { return sub.ID == id && sub.UserID == userID }), nil
}

func (s *Store) ToggleShared(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[id]
	if !ok {
		return false, errors.New("submission not found")
	}
	sub.Shared = !sub.Shared
	return sub.Shared, nil
}

// SetResult judge worker 결과 기록 흉내
func (s *Store) SetResult(id int64, result models.Result, acceptedTime *int, info *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.submissions[id]; ok {
		sub.Result = result
		sub.AcceptedAnswerTime = acceptedTime
		sub.Info = info
	}
}

// newestFirst create_time DESC, id DESC
func newestFirst(subs []*models.Submission) {
	sort.Slice(subs, func(i, j int) bool {
		if !subs[i].CreateTime.Equal(subs[j].CreateTime) {
			return subs[i].CreateTime.After(subs[j].CreateTime)
		}
		return subs[i].ID > subs[j].ID
	})
}

func paginate[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (s *Store) ListByProblem(_ context.Context, problemID int64, page, pageSize int) ([]*models.Submission, int, error) {
	s.mu.RLock()
	var matched []*models.Submission
	for _, sub := range s.submissions {
		if sub.ProblemID == problemID && sub.ContestID == nil {
			matched = append(matched, copySubmission(sub))
		}
	}
	s.mu.RUnlock()

	newestFirst(matched)
	return paginate(matched, page, pageSize), len(matched), nil
}

func (s *Store) ListForUser(_ context.Context, filter models.SubmissionFilter) ([]*models.SubmissionSummary, int, error) {
	s.mu.RLock()
	var matched []*models.Submission
	for _, sub := range s.submissions {
		if sub.ContestID != nil {
			continue
		}
		if !filter.ShowAll && sub.UserID != filter.UserID {
			continue
		}
		if filter.ProblemID != nil && sub.ProblemID != *filter.ProblemID {
			continue
		}
		if filter.Language != nil && sub.Language != *filter.Language {
			continue
		}
		if filter.Result != nil && sub.Result != *filter.Result {
			continue
		}
		matched = append(matched, copySubmission(sub))
	}
	titles := make(map[int64]string, len(s.problems))
	for id, p := range s.problems {
		titles[id] = p.Title
	}
	s.mu.RUnlock()

	newestFirst(matched)

	var out []*models.SubmissionSummary
	for _, sub := range paginate(matched, filter.Page, filter.PageSize) {
		out = append(out, &models.SubmissionSummary{
			ID:                 sub.ID,
			UserID:             sub.UserID,
			ProblemID:          sub.ProblemID,
			ProblemTitle:       titles[sub.ProblemID],
			Language:           sub.Language,
			Result:             sub.Result,
			CreateTime:         sub.CreateTime,
			AcceptedAnswerTime: sub.AcceptedTime(),
		})
	}
	return out, len(matched), nil
}

// Problems ProblemCatalog 뷰
func (s *Store) Problems() *ProblemView {
	return &ProblemView{s: s}
}

// Contests ContestDirectory 뷰
func (s *Store) Contests() *ContestView {
	return &ContestView{s: s}
}

// Users UserDirectory 뷰
func (s *Store) Users() *UserView {
	return &UserView{s: s}
}

type ProblemView struct{ s *Store }

func copyProblem(p *models.Problem) *models.Problem {
	c := *p
	return &c
}

func (v *ProblemView) FindByID(_ context.Context, id int64) (*models.Problem, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	if p, ok := v.s.problems[id]; ok {
		return copyProblem(p), nil
	}
	return nil, nil
}

func (v *ProblemView) FindContestProblem(_ context.Context, contestID, id int64) (*models.Problem, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	if p, ok := v.s.contestProblems[id]; ok && *p.ContestID == contestID {
		return copyProblem(p), nil
	}
	return nil, nil
}

func (v *ProblemView) FindContestProblemByID(_ context.Context, id int64) (*models.Problem, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	if p, ok := v.s.contestProblems[id]; ok {
		return copyProblem(p), nil
	}
	return nil, nil
}

type ContestView struct{ s *Store }

func (v *ContestView) FindByID(_ context.Context, id int64) (*models.Contest, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	if c, ok := v.s.contests[id]; ok {
		cc := *c
		return &cc, nil
	}
	return nil, nil
}

type UserView struct{ s *Store }

func (v *UserView) FindByID(_ context.Context, id int64) (*models.User, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	if u, ok := v.s.users[id]; ok {
		uu := *u
		return &uu, nil
	}
	return nil, nil
}

func (v *UserView) FindByUsername(_ context.Context, username string) (*models.User, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	for _, u := range v.s.users {
		if u.Username == username {
			uu := *u
			return &uu, nil
		}
	}
	return nil, nil
}
