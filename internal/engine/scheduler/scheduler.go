// Package scheduler drives the pool worker loop: materialize jobs for
// ready intentions, claim them, run their backends, and archive the
// outcome.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// usersPerPass is how many users one materialize pass serves.
	// Fairness comes from the random pick, not from batch size.
	usersPerPass = 1

	// shutdownGrace bounds the store writes that record job outcomes
	// after the run context is gone.
	shutdownGrace = 5 * time.Second
)

// Worker claims and runs pool jobs until stopped. Several workers share
// one pool; they coordinate exclusively through the store.
type Worker struct {
	store    ports.Store
	backends map[domain.Kind]ports.Backend
	jobLogs  ports.JobLogs
	tracer   ports.Tracer
	log      ports.Logger

	name    string
	maxJobs int
	poll    time.Duration
}

// Option configures a Worker.
type Option func(*Worker)

// WithMaxJobs sets how many jobs the worker runs concurrently.
func WithMaxJobs(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.maxJobs = n
		}
	}
}

// WithPoll sets the idle wait between passes.
func WithPoll(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.poll = d
		}
	}
}

// WithName overrides the worker's pool identity.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// New creates a Worker running the given backends.
func New(
	store ports.Store,
	backends []ports.Backend,
	jobLogs ports.JobLogs,
	tracer ports.Tracer,
	log ports.Logger,
	opts ...Option,
) *Worker {
	byKind := make(map[domain.Kind]ports.Backend, len(backends))
	for _, backend := range backends {
		byKind[backend.Kind()] = backend
	}

	w := &Worker{
		store:    store,
		backends: byKind,
		jobLogs:  jobLogs,
		tracer:   tracer,
		log:      log,
		name:     workerName(),
		maxJobs:  domain.DefaultWorkerMaxJobs,
		poll:     domain.DefaultWorkerPoll,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// workerName builds the default pool identity for this process.
func workerName() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return host + "/" + uuid.NewString()
}

// Run drives the worker loop until ctx is canceled. When once is true a
// single pass runs and Run returns after its jobs finish.
func (w *Worker) Run(ctx context.Context, once bool) error {
	worker, err := w.store.RegisterWorker(ctx, w.name)
	if err != nil {
		return zerr.Wrap(err, "registering worker")
	}
	defer w.deregister(worker.ID)

	w.log.Info(fmt.Sprintf("worker %s joined the pool (max jobs %d)", worker.Name, w.maxJobs))

	state := &runState{
		ctx:       ctx,
		w:         w,
		worker:    worker,
		resultsCh: make(chan result, w.maxJobs),
	}
	state.loop(once)
	return nil
}

// deregister removes the worker from the pool and releases its claims.
// It runs on its own context: the run context is usually gone by now.
func (w *Worker) deregister(workerID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := w.store.DeregisterWorker(ctx, workerID); err != nil {
		w.log.Error(zerr.Wrap(err, "deregistering worker"))
		return
	}
	w.log.Info("worker left the pool")
}

// result is what a job goroutine reports back to the loop.
type result struct {
	job domain.Job
	err error
}

// runState is owned by the loop goroutine. Job goroutines only touch the
// results channel.
type runState struct {
	ctx       context.Context
	w         *Worker
	worker    domain.Worker
	active    int
	resultsCh chan result
}

func (state *runState) loop(once bool) {
	for {
		if state.ctx.Err() != nil {
			state.drain()
			return
		}

		claimed := state.pass()

		if once {
			state.drain()
			return
		}

		if state.active > 0 {
			state.wait()
			continue
		}
		if !claimed {
			state.idle()
		}
	}
}

// pass runs one scheduling pass and reports whether it claimed any job.
func (state *runState) pass() bool {
	if err := state.w.store.HeartbeatWorker(state.ctx, state.worker.ID); err != nil && state.ctx.Err() == nil {
		state.w.log.Error(zerr.Wrap(err, "worker heartbeat"))
	}

	state.materialize()
	return state.dispatch()
}

// materialize turns ready intentions into waiting jobs, one random user
// per pass. Jobs land in the shared pool, so they also feed the other
// workers.
func (state *runState) materialize() {
	users, err := state.w.store.PickReadyUsers(state.ctx, usersPerPass)
	if err != nil {
		if state.ctx.Err() == nil {
			state.w.log.Error(zerr.Wrap(err, "picking ready users"))
		}
		return
	}

	for _, user := range users {
		for _, spec := range domain.Kinds() {
			state.materializeKind(user, spec.Kind)
		}
	}
}

func (state *runState) materializeKind(user domain.User, kind domain.Kind) {
	intentions, err := state.w.store.SelectableIntentions(state.ctx, user.ID, kind, state.w.maxJobs)
	if err != nil {
		if state.ctx.Err() == nil {
			state.w.log.Error(zerr.Wrap(err, "selecting intentions"))
		}
		return
	}

	for _, intention := range intentions {
		job, created, err := state.w.store.AttachOrCreateJob(state.ctx, intention.ID)
		if errors.Is(err, domain.ErrNoTokenReady) {
			// Token slots filled up between selection and binding. The
			// intention stays pending for a later pass.
			continue
		}
		if err != nil {
			if state.ctx.Err() == nil {
				state.w.log.Error(zerr.Wrap(err, "creating job"))
			}
			continue
		}

		if created {
			state.w.log.Debug(fmt.Sprintf("job %d created: %s for %s", job.ID, job.Kind, user.Username))
		} else {
			state.w.log.Debug(fmt.Sprintf("intention %d attached to job %d", intention.ID, job.ID))
		}
	}
}

// dispatch claims waiting jobs until the worker is full or the pool has
// nothing runnable.
func (state *runState) dispatch() bool {
	claimed := false
	for state.active < state.w.maxJobs && state.ctx.Err() == nil {
		job, err := state.w.store.ClaimNextJob(state.ctx, state.worker.ID)
		if errors.Is(err, domain.ErrNoJobReady) {
			break
		}
		if err != nil {
			if state.ctx.Err() == nil {
				state.w.log.Error(zerr.Wrap(err, "claiming job"))
			}
			break
		}

		claimed = true
		state.active++
		go state.runJob(job)
	}
	return claimed
}

// wait blocks until a job finishes, the poll interval elapses, or the
// context ends, then the loop passes again.
func (state *runState) wait() {
	timer := time.NewTimer(state.w.poll)
	defer timer.Stop()

	select {
	case res := <-state.resultsCh:
		state.handleResult(res)
	case <-timer.C:
	case <-state.ctx.Done():
	}
}

// idle sleeps out the poll interval of a pass that found nothing to do.
func (state *runState) idle() {
	timer := time.NewTimer(state.w.poll)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-state.ctx.Done():
	}
}

// drain waits for every running job to report back.
func (state *runState) drain() {
	for state.active > 0 {
		state.handleResult(<-state.resultsCh)
	}
}

// runJob executes one claimed job and reports the outcome. The span ends
// before the result is sent so span processors see it in order.
func (state *runState) runJob(job domain.Job) {
	err := func() error {
		ctx, span := state.w.tracer.Start(state.ctx, "job.run",
			ports.WithAttributes(map[string]any{
				"job.id":   job.ID,
				"job.kind": string(job.Kind),
			}))
		defer span.End()

		err := state.w.work(ctx, job, span)
		if err != nil {
			span.RecordError(err)
		}
		return err
	}()

	state.resultsCh <- result{job: job, err: err}
}

// work resolves everything one job run needs and calls its backend.
func (w *Worker) work(ctx context.Context, job domain.Job, span ports.Span) error {
	backend, ok := w.backends[job.Kind]
	if !ok {
		return zerr.With(domain.ErrUnknownKind, "kind", string(job.Kind))
	}

	repo, err := w.store.GetRepo(ctx, job.RepoID)
	if err != nil {
		return zerr.Wrap(err, "loading job repo")
	}
	span.SetAttribute("job.origin", repo.Origin())

	req := ports.RunRequest{Job: job, Repo: repo}

	if job.Kind.TokenGated() {
		token, err := w.store.ReadyTokenForJob(ctx, job.ID)
		if err != nil {
			return err
		}
		req.Token = token
	}

	jobLog, err := w.jobLogs.Open(job.ID)
	if err != nil {
		return zerr.Wrap(err, "opening job log")
	}
	defer func() { _ = jobLog.Close() }()
	req.JobLog = jobLog

	fmt.Fprintf(jobLog, "job %d started: %s %s\n", job.ID, job.Kind, repo.Slug())
	w.log.Info(fmt.Sprintf("job %d started: %s %s", job.ID, job.Kind, repo.Slug()))

	if err := backend.Run(ctx, req); err != nil {
		fmt.Fprintf(jobLog, "job %d failed: %v\n", job.ID, err)
		return err
	}

	fmt.Fprintf(jobLog, "job %d finished\n", job.ID)
	return nil
}

// handleResult records one job outcome in the store.
func (state *runState) handleResult(res result) {
	state.active--

	ctx := state.ctx
	if ctx.Err() != nil {
		// Outcomes still need to reach the store during shutdown.
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
	}

	job := res.job
	var exhausted *domain.TokenExhaustedError

	switch {
	case res.err == nil:
		archived, err := state.w.store.ArchiveJob(ctx, job.ID, domain.ArchiveOK, state.w.jobLogs.Path(job.ID))
		if err != nil {
			state.w.log.Error(zerr.Wrap(err, "archiving job"))
			return
		}
		state.w.log.Info(fmt.Sprintf("job %d done: %d intentions archived", job.ID, len(archived)))

	case errors.As(res.err, &exhausted):
		if err := state.w.store.ParkToken(ctx, exhausted.TokenID, exhausted.Reset); err != nil {
			state.w.log.Error(zerr.Wrap(err, "parking token"))
		}
		state.release(ctx, job.ID)
		state.w.log.Warn(fmt.Sprintf("job %d rate limited: token %d parked until %s",
			job.ID, exhausted.TokenID, exhausted.Reset.Format(time.RFC3339)))

	case errors.Is(res.err, domain.ErrNoTokenReady):
		// The token parked between claim and run. The job goes back to
		// waiting until one resets.
		state.release(ctx, job.ID)
		state.w.log.Debug(fmt.Sprintf("job %d released: no token ready", job.ID))

	case errors.Is(res.err, context.Canceled), errors.Is(res.err, context.DeadlineExceeded):
		state.release(ctx, job.ID)
		state.w.log.Info(fmt.Sprintf("job %d released on shutdown", job.ID))

	default:
		_, err := state.w.store.ArchiveJob(ctx, job.ID, domain.ArchiveError, state.w.jobLogs.Path(job.ID))
		if err != nil {
			state.w.log.Error(zerr.Wrap(err, "archiving failed job"))
		}
		state.w.log.Error(zerr.With(zerr.Wrap(res.err, "job failed"), "job", job.ID))
	}
}

func (state *runState) release(ctx context.Context, jobID int64) {
	if err := state.w.store.ReleaseJob(ctx, jobID); err != nil {
		state.w.log.Error(zerr.Wrap(err, "releasing job"))
	}
}
