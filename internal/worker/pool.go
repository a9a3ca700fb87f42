// Package worker runs submission processing: a bounded queue feeding a
// fixed set of workers that drive each submission through the
// queued -> running -> {done|error} lifecycle.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/alfredjeanlab/lanes/internal/automation"
	"github.com/alfredjeanlab/lanes/internal/events"
	"github.com/alfredjeanlab/lanes/internal/model"
	"github.com/alfredjeanlab/lanes/internal/store"
)

// ErrQueueFull is returned by Enqueue when the submit queue is at capacity.
// The caller surfaces it before any record is created.
var ErrQueueFull = errors.New("submission queue full")

// errShutdown marks a run interrupted by Stop rather than by its own
// deadline. The record is left in the running state for the operator
// instead of being resolved to an error it did not earn.
var errShutdown = errors.New("worker shutting down")

// Options configures a Pool. Zero values fall back to the defaults.
type Options struct {
	Workers    int           // number of worker goroutines (default 4)
	QueueSize  int           // bounded queue capacity (default 64)
	RunTimeout time.Duration // per-submission processing timeout (default 2m)
}

const (
	defaultWorkers    = 4
	defaultQueueSize  = 64
	defaultRunTimeout = 2 * time.Minute
)

// Pool schedules and executes submission processing. Exactly one unit of
// work is enqueued per submission id; the submission record is mutated
// only by the worker that picked it up.
type Pool struct {
	store     store.Store
	registry  *automation.Registry
	publisher events.Publisher
	logger    *slog.Logger
	timeout   time.Duration

	queue  chan string
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a pool and starts its workers.
func New(s store.Store, reg *automation.Registry, pub events.Publisher, logger *slog.Logger, opts Options) *Pool {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = defaultRunTimeout
	}

	p := &Pool{
		store:     s,
		registry:  reg,
		publisher: pub,
		logger:    logger,
		timeout:   opts.RunTimeout,
		queue:     make(chan string, opts.QueueSize),
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	for range opts.Workers {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.run(ctx)
		}()
	}
	return p
}

// Stop cancels the workers and waits for in-flight processing to finish.
// Queued-but-unprocessed submissions stay in the queued state and are
// picked up again by Requeue on the next start; a run interrupted
// mid-flight leaves its record in the running state.
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
}

// Full reports whether the queue is at capacity. Callers can use it to
// reject new work before creating a submission record.
func (p *Pool) Full() bool {
	return len(p.queue) == cap(p.queue)
}

// Enqueue schedules processing for a submission id without blocking the
// caller. Returns ErrQueueFull when the queue is at capacity.
func (p *Pool) Enqueue(id string) error {
	select {
	case p.queue <- id:
		return nil
	default:
		return ErrQueueFull
	}
}

// Requeue re-enqueues submissions left in the queued state by a previous
// run. Called once at startup, before requests are served.
func (p *Pool) Requeue(ctx context.Context) (int, error) {
	subs, _, err := p.store.ListSubmissions(ctx, model.SubmissionFilter{
		Status: []model.Status{model.StatusQueued},
	})
	if err != nil {
		return 0, fmt.Errorf("list queued submissions: %w", err)
	}
	requeued := 0
	for _, sub := range subs {
		if err := p.Enqueue(sub.ID); err != nil {
			return requeued, err
		}
		requeued++
	}
	return requeued, nil
}

func (p *Pool) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-p.queue:
			p.Process(ctx, id)
		}
	}
}

// Process drives one submission through the state machine. It is a no-op
// for ids that are missing or no longer in the queued state, so repeated
// or stale scheduling can never overwrite a terminal record. Exported so
// tests can run processing deterministically.
func (p *Pool) Process(ctx context.Context, id string) {
	sub, err := p.store.MarkRunning(ctx, id)
	if errors.Is(err, store.ErrInvalidTransition) {
		p.logger.Warn("skipping submission not in queued state", "id", id)
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		p.logger.Warn("skipping unknown submission", "id", id)
		return
	}
	if err != nil {
		p.logger.Error("failed to mark submission running", "id", id, "err", err)
		return
	}

	a, ok := p.registry.Get(sub.Kind)
	if !ok {
		p.fail(ctx, sub, fmt.Sprintf("no automation registered for kind %q", sub.Kind))
		return
	}

	result, runErr := p.runOne(ctx, a, sub)
	if errors.Is(runErr, errShutdown) {
		p.logger.Warn("shutdown interrupted submission run", "id", id, "kind", sub.Kind)
		return
	}
	if runErr != nil {
		p.fail(ctx, sub, runErr.Error())
		return
	}

	done, err := p.store.MarkDone(ctx, id, result)
	if err != nil {
		p.logger.Error("failed to mark submission done", "id", id, "err", err)
		return
	}
	p.recordAndPublish(ctx, done, model.ActionCompleted, events.TopicSubmissionCompleted,
		events.SubmissionCompleted{Submission: done})
	p.logger.Info("submission completed", "id", id, "kind", sub.Kind)
}

// runOne executes the automation with panic recovery and a deadline. A
// run that panics, errors, or outlives the deadline resolves to the error
// state; it never crashes the worker. A run cut short by Stop returns
// errShutdown so the caller leaves the record untouched.
func (p *Pool) runOne(ctx context.Context, a automation.Automation, sub *model.Submission) (result []byte, err error) {
	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	type outcome struct {
		result []byte
		err    error
	}
	ch := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("panic in automation run",
					"kind", sub.Kind, "id", sub.ID,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
				ch <- outcome{err: fmt.Errorf("automation panicked: %v", r)}
			}
		}()
		res, runErr := a.Run(runCtx, sub.Payload)
		ch <- outcome{result: res, err: runErr}
	}()

	select {
	case out := <-ch:
		return out.result, out.err
	case <-runCtx.Done():
		if ctx.Err() != nil {
			return nil, errShutdown
		}
		return nil, fmt.Errorf("processing timed out after %s", p.timeout)
	}
}

func (p *Pool) fail(ctx context.Context, sub *model.Submission, message string) {
	failed, err := p.store.MarkFailed(ctx, sub.ID, message)
	if err != nil {
		p.logger.Error("failed to mark submission failed", "id", sub.ID, "err", err)
		return
	}
	p.recordAndPublish(ctx, failed, model.ActionFailed, events.TopicSubmissionFailed,
		events.SubmissionFailed{Submission: failed, Reason: message})
	p.logger.Info("submission failed", "id", sub.ID, "kind", sub.Kind, "reason", message)
}

// recordAndPublish persists an audit event and publishes it to NATS.
// Both operations are best-effort; failures are logged but do not block
// the worker.
func (p *Pool) recordAndPublish(ctx context.Context, sub *model.Submission, action, topic string, event any) {
	if err := p.store.RecordAudit(ctx, &model.AuditEvent{
		Kind:    sub.Kind,
		Action:  action,
		ActorID: sub.ActorID,
		Context: map[string]string{"submission_id": sub.ID},
	}); err != nil {
		p.logger.Warn("failed to record audit event", "action", action, "id", sub.ID, "err", err)
	}
	if err := p.publisher.Publish(ctx, topic, event); err != nil {
		p.logger.Warn("failed to publish event", "topic", topic, "id", sub.ID, "err", err)
	}
}
