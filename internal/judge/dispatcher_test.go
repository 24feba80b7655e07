package judge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	jobs       []Job
	priorities []int
	err        error
	block      bool
}

func (q *fakeQueue) Submit(ctx context.Context, job Job, priority int) error {
	if q.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	q.priorities = append(q.priorities, priority)
	return nil
}

type fakeCounter struct {
	value int64
	err   error
}

func (c *fakeCounter) Incr(context.Context) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	c.value++
	return c.value, nil
}

func TestDispatcher_Dispatch(t *testing.T) {
	queue := &fakeQueue{}
	counter := &fakeCounter{}
	d := NewDispatcher(queue, counter, time.Second, nil)

	job := Job{SubmissionID: 101, TimeLimit: 1000, MemoryLimit: 256, TestCaseID: "tc-7"}
	require.NoError(t, d.Dispatch(context.Background(), job, PrioritySubmit))

	assert.Equal(t, []Job{job}, queue.jobs)
	assert.Equal(t, []int{PrioritySubmit}, queue.priorities)
	assert.Equal(t, int64(1), counter.value)
}

func TestDispatcher_QueueFailureDoesNotCount(t *testing.T) {
	queue := &fakeQueue{err: errors.New("connection refused")}
	counter := &fakeCounter{}
	d := NewDispatcher(queue, counter, time.Second, nil)

	err := d.Dispatch(context.Background(), Job{SubmissionID: 1}, PrioritySubmit)
	assert.Error(t, err)
	assert.Equal(t, int64(0), counter.value)
}

func TestDispatcher_Timeout(t *testing.T) {
	queue := &fakeQueue{block: true}
	counter := &fakeCounter{}
	d := NewDispatcher(queue, counter, 20*time.Millisecond, nil)

	start := time.Now()
	err := d.Dispatch(context.Background(), Job{SubmissionID: 1}, PrioritySubmit)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, int64(0), counter.value)
}

func TestDispatcher_CounterFailureIsNotFatal(t *testing.T) {
	queue := &fakeQueue{}
	counter := &fakeCounter{err: errors.New("redis down")}
	d := NewDispatcher(queue, counter, time.Second, nil)

	err := d.Dispatch(context.Background(), Job{SubmissionID: 1}, PriorityRejudge)
	assert.NoError(t, err)
	assert.Len(t, queue.jobs, 1)
}
