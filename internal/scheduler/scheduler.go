package scheduler

import (
	"context"
	"time"

	"board-automation/internal/automation"
	"board-automation/internal/model"
	"board-automation/internal/task"
	"board-automation/pkg/log"
)

// Scheduler periodically scans for tasks crossing a due-date edge and
// feeds each one through the automation engine as a trigger occurrence.
// A task fires each edge at most once; the mark is cleared when its due
// date changes.
type Scheduler struct {
	engine automation.UseCase
	tasks  task.UseCase

	interval          time.Duration
	approachingWindow time.Duration
	batchLimit        int
	clock             func() time.Time

	l log.Logger
}

type Config struct {
	Engine automation.UseCase
	Tasks  task.UseCase

	Interval          time.Duration
	ApproachingWindow time.Duration
	BatchLimit        int

	// Clock defaults to time.Now.
	Clock func() time.Time
}

func New(cfg Config, l log.Logger) *Scheduler {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Scheduler{
		engine:            cfg.Engine,
		tasks:             cfg.Tasks,
		interval:          cfg.Interval,
		approachingWindow: cfg.ApproachingWindow,
		batchLimit:        cfg.BatchLimit,
		clock:             clock,
		l:                 l,
	}
}

// Run scans immediately, then on every tick until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.Scan(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Scan(ctx)
		}
	}
}

// Scan runs one pass over both due-date edges.
func (s *Scheduler) Scan(ctx context.Context) {
	s.scanEdge(ctx, task.DueEdgeApproaching, automation.TriggerDueDateApproaching)
	s.scanEdge(ctx, task.DueEdgePassed, automation.TriggerDueDatePassed)
}

func (s *Scheduler) scanEdge(ctx context.Context, edge task.DueEdge, trigger automation.TriggerType) {
	due, err := s.tasks.ListDueTasks(ctx, task.ListDueTasksInput{
		Edge:   edge,
		Now:    s.clock(),
		Window: s.approachingWindow,
		Limit:  s.batchLimit,
	})
	if err != nil {
		s.l.Errorf(ctx, "scheduler: list due tasks (%s): %v", edge, err)
		return
	}

	for i := range due {
		if ctx.Err() != nil {
			return
		}
		t := due[i]

		tc, err := automation.BuildContext(trigger, automation.ContextFields{
			BoardID: t.BoardID,
			Task:    &t,
			DueDate: t.DueDate,
		})
		if err != nil {
			s.l.Errorf(ctx, "scheduler: build context for task %s: %v", t.ID, err)
			continue
		}

		out, err := s.engine.Process(ctx, model.Scope{UserID: "scheduler"}, automation.ProcessInput{Context: tc})
		if err != nil {
			// Leave the task unmarked so the next scan retries it.
			s.l.Errorf(ctx, "scheduler: process task %s (%s): %v", t.ID, trigger, err)
			continue
		}

		if err := s.tasks.MarkDueNotified(ctx, t.ID, edge); err != nil {
			s.l.Errorf(ctx, "scheduler: mark notified task %s (%s): %v", t.ID, edge, err)
			continue
		}

		s.l.Infof(ctx, "scheduler: task %s fired %s, %d rules executed", t.ID, trigger, out.RulesExecuted)
	}
}
