package worker

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/task-tracker/internal/events"
	"github.com/spec-kit/task-tracker/internal/observability"
	"github.com/spec-kit/task-tracker/internal/repository"
)

// DeadlineSweeper periodically scans for tasks whose deadline has passed
// without a notification, flags each exactly once and publishes an
// expired event for it. The flag write is a conditional update, so a
// racing sweep observes the task as already flagged and skips it.
type DeadlineSweeper struct {
	tasks     repository.TaskRepository
	publisher events.Publisher
	metrics   *observability.Metrics
	interval  time.Duration
	logger    *zap.Logger

	inFlight atomic.Bool
	stop     chan struct{}
	done     chan struct{}
}

// NewDeadlineSweeper builds the sweeper.
func NewDeadlineSweeper(tasks repository.TaskRepository, publisher events.Publisher, metrics *observability.Metrics, interval time.Duration, logger *zap.Logger) *DeadlineSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &DeadlineSweeper{
		tasks:     tasks,
		publisher: publisher,
		metrics:   metrics,
		interval:  interval,
		logger:    logger,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the timer loop.
func (s *DeadlineSweeper) Start(ctx context.Context) {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the loop. A sweep that is mid-flight finishes its current
// task's flag-persist-publish triple before the call returns.
func (s *DeadlineSweeper) Stop() {
	close(s.stop)
	<-s.done
}

// sweep executes one run. Runs never overlap: a tick that fires while a
// previous run is still flushing is skipped, and the conditional flag
// update guards the per-task invariant regardless.
func (s *DeadlineSweeper) sweep(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer s.inFlight.Store(false)

	overdue, err := s.tasks.FindOverdueUnflagged(ctx, time.Now())
	if err != nil {
		s.logger.Error("overdue scan failed", zap.Error(err))
		return
	}
	if len(overdue) == 0 {
		s.metrics.RecordSweep(0)
		return
	}

	flagged := 0
	for _, task := range overdue {
		select {
		case <-s.stop:
			s.metrics.RecordSweep(flagged)
			return
		default:
		}

		won, err := s.tasks.MarkExpiredNotified(ctx, task.ID)
		if err != nil {
			// isolated per task; the unflagged task is retried next cycle
			s.logger.Warn("flagging task failed",
				zap.Int64("task_id", task.ID),
				zap.Error(err))
			continue
		}
		if !won {
			continue
		}

		topic := events.ProjectTasksTopic(task.ProjectID)
		s.publisher.Publish(topic, events.NewChangeEvent(topic, events.ChangeExpired, events.TaskPayload{
			TaskID:    task.ID,
			ProjectID: task.ProjectID,
			Title:     task.Title,
			Deadline:  task.Deadline,
		}))
		flagged++
	}

	s.metrics.RecordSweep(flagged)
	s.logger.Info("sweep completed",
		zap.Int("overdue", len(overdue)),
		zap.Int("flagged", flagged))
}
