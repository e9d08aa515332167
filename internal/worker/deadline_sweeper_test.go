package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/events"
	"github.com/spec-kit/task-tracker/internal/observability"
)

type fakeTaskRepo struct {
	mu      sync.Mutex
	tasks   map[int64]*domain.Task
	markErr map[int64]error
}

func newFakeTaskRepo(tasks ...*domain.Task) *fakeTaskRepo {
	repo := &fakeTaskRepo{tasks: make(map[int64]*domain.Task), markErr: make(map[int64]error)}
	for _, task := range tasks {
		repo.tasks[task.ID] = task
	}
	return repo
}

func (f *fakeTaskRepo) Create(context.Context, *domain.Task) error  { return nil }
func (f *fakeTaskRepo) Update(context.Context, *domain.Task) error  { return nil }
func (f *fakeTaskRepo) Delete(context.Context, int64) error         { return nil }
func (f *fakeTaskRepo) GetByID(context.Context, int64) (*domain.Task, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeTaskRepo) ListByProject(context.Context, int64) ([]domain.Task, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskRepo) FindOverdueUnflagged(_ context.Context, now time.Time) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Task
	for _, task := range f.tasks {
		if task.Overdue(now) && !task.ExpiredNotified {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) MarkExpiredNotified(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.markErr[id]; err != nil {
		return false, err
	}
	task, ok := f.tasks[id]
	if !ok || task.ExpiredNotified {
		return false, nil
	}
	task.ExpiredNotified = true
	return true, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ChangeEvent
}

func (r *recordingPublisher) Publish(_ string, event events.ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingPublisher) published() []events.ChangeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.ChangeEvent(nil), r.events...)
}

func overdueTask(id, projectID int64) *domain.Task {
	deadline := time.Now().Add(-time.Hour)
	return &domain.Task{ID: id, Title: "late", ProjectID: projectID, Deadline: &deadline}
}

func newTestSweeper(repo *fakeTaskRepo, pub *recordingPublisher) *DeadlineSweeper {
	return NewDeadlineSweeper(repo, pub, observability.NewMetrics(), time.Minute, zap.NewNop())
}

func TestSweeper_FlagsAndPublishesOnce(t *testing.T) {
	repo := newFakeTaskRepo(overdueTask(1, 5))
	pub := &recordingPublisher{}
	s := newTestSweeper(repo, pub)

	s.sweep(context.Background())
	s.sweep(context.Background())

	published := pub.published()
	require.Len(t, published, 1)
	require.Equal(t, events.ChangeExpired, published[0].Kind)
	require.Equal(t, "projects/5/tasks", published[0].Topic)
	require.True(t, repo.tasks[1].ExpiredNotified)
}

func TestSweeper_ZeroOverdueIsNoop(t *testing.T) {
	future := time.Now().Add(time.Hour)
	repo := newFakeTaskRepo(&domain.Task{ID: 1, ProjectID: 5, Deadline: &future})
	pub := &recordingPublisher{}
	s := newTestSweeper(repo, pub)

	s.sweep(context.Background())

	require.Empty(t, pub.published())
	require.False(t, repo.tasks[1].ExpiredNotified)
}

func TestSweeper_TaskWithoutDeadlineIgnored(t *testing.T) {
	repo := newFakeTaskRepo(&domain.Task{ID: 1, ProjectID: 5})
	pub := &recordingPublisher{}
	s := newTestSweeper(repo, pub)

	s.sweep(context.Background())

	require.Empty(t, pub.published())
}

func TestSweeper_EntityFailureIsIsolated(t *testing.T) {
	repo := newFakeTaskRepo(overdueTask(1, 5), overdueTask(2, 5), overdueTask(3, 6))
	repo.markErr[2] = errors.New("connection reset")
	pub := &recordingPublisher{}
	s := newTestSweeper(repo, pub)

	s.sweep(context.Background())

	// tasks 1 and 3 notified, task 2 left unflagged for the next run
	require.Len(t, pub.published(), 2)
	require.False(t, repo.tasks[2].ExpiredNotified)

	delete(repo.markErr, 2)
	s.sweep(context.Background())

	require.Len(t, pub.published(), 3)
	require.True(t, repo.tasks[2].ExpiredNotified)
}

func TestSweeper_ConcurrentRunsNotifyOnce(t *testing.T) {
	repo := newFakeTaskRepo(overdueTask(1, 5))
	pub := &recordingPublisher{}
	s := newTestSweeper(repo, pub)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.sweep(context.Background())
		}()
	}
	wg.Wait()

	require.Len(t, pub.published(), 1)
}

func TestSweeper_StartStop(t *testing.T) {
	repo := newFakeTaskRepo()
	pub := &recordingPublisher{}
	s := NewDeadlineSweeper(repo, pub, observability.NewMetrics(), 10*time.Millisecond, zap.NewNop())

	s.Start(context.Background())
	time.Sleep(35 * time.Millisecond)
	s.Stop()

	// no overdue tasks, so nothing was ever published
	require.Empty(t, pub.published())
}
