package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yankaics/OnlineJudge/internal/judge"
	"github.com/yankaics/OnlineJudge/internal/models"
	"github.com/yankaics/OnlineJudge/internal/repository/memstore"
)

var (
	owner    = models.Identity{UserID: 1, Username: "owner"}
	stranger = models.Identity{UserID: 2, Username: "stranger"}
	admin    = models.Identity{UserID: 3, Username: "admin", AdminType: models.AdminTypeAdmin}
	super    = models.Identity{UserID: 99, Username: "root", AdminType: models.AdminTypeSuperAdmin}
)

type queuedJob struct {
	job      judge.Job
	priority int
}

type fakeQueue struct {
	mu   sync.Mutex
	jobs []queuedJob
	err  error
}

func (q *fakeQueue) Submit(_ context.Context, job judge.Job, priority int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, queuedJob{job: job, priority: priority})
	return nil
}

func (q *fakeQueue) last(t *testing.T) queuedJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	require.NotEmpty(t, q.jobs)
	return q.jobs[len(q.jobs)-1]
}

type fakeCounter struct {
	n atomic.Int64
}

func (c *fakeCounter) Incr(context.Context) (int64, error) {
	return c.n.Add(1), nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events [][2]int64
}

func (n *fakeNotifier) NotifyQueued(userID, submissionID int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, [2]int64{userID, submissionID})
}

type fakeLocker struct {
	busy     bool
	released int
}

func (l *fakeLocker) Lock(context.Context, int64) (func(), error) {
	if l.busy {
		return nil, ErrRejudgeInProgress
	}
	return func() { l.released++ }, nil
}

type testEnv struct {
	store    *memstore.Store
	queue    *fakeQueue
	counter  *fakeCounter
	notifier *fakeNotifier
	locker   *fakeLocker
	svc      *SubmissionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memstore.New()
	store.SetNextID(101)
	store.AddProblem(models.Problem{ID: 7, Title: "A+B", TimeLimit: 1000, MemoryLimit: 256, TestCaseID: "tc-7", Visible: true})
	store.AddProblem(models.Problem{ID: 8, Title: "Hidden", TimeLimit: 1000, MemoryLimit: 256, TestCaseID: "tc-8", Visible: false})
	store.AddContest(models.Contest{
		ID:        5,
		Title:     "Weekly",
		CreatedBy: 50,
		StartTime: time.Now().Add(-time.Hour),
		EndTime:   time.Now().Add(time.Hour),
		Visible:   true,
	})
	store.AddContestProblem(5, models.Problem{ID: 70, Title: "Contest A", TimeLimit: 2000, MemoryLimit: 512, TestCaseID: "tc-70", Visible: true})

	env := &testEnv{
		store:    store,
		queue:    &fakeQueue{},
		counter:  &fakeCounter{},
		notifier: &fakeNotifier{},
		locker:   &fakeLocker{},
	}

	dispatcher := judge.NewDispatcher(env.queue, env.counter, time.Second, nil)
	env.svc = NewSubmissionService(store, store.Problems(), store.Contests(), dispatcher, 1024).
		WithRejudgeLocker(env.locker).
		WithNotifier(env.notifier)

	return env
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }
