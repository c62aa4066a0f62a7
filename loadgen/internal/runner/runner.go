// Package runner drives load against a sender service: a pool of user
// goroutines is spawned at a configurable rate, each looping a weighted
// task mix with think time between requests.
package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/tenantwave/tenantwave-demo/loadgen/internal/payload"
)

// Options configures a load run.
type Options struct {
	// Target is the sender service base URL, e.g. http://localhost:8000.
	Target string
	// Users is the number of concurrent simulated users.
	Users int
	// SpawnRate is how many users to start per second during ramp-up.
	SpawnRate float64
	// Duration bounds the run; zero means run until stopped.
	Duration time.Duration
	// MinWait and MaxWait bound the think time between tasks.
	MinWait time.Duration
	MaxWait time.Duration
	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
}

func (o *Options) validate() error {
	if o.Target == "" {
		return errors.New("target URL is required")
	}
	if o.Users <= 0 {
		return errors.New("users must be positive")
	}
	if o.SpawnRate <= 0 {
		return errors.New("spawn rate must be positive")
	}
	if o.MinWait == 0 && o.MaxWait == 0 {
		o.MinWait = 500 * time.Millisecond
		o.MaxWait = 2 * time.Second
	}
	if o.MinWait < 0 || o.MaxWait < o.MinWait {
		return errors.New("wait bounds must satisfy 0 <= min <= max")
	}
	return nil
}

// task is one step of the user loop.
type task struct {
	endpoint string
	perform  func(r *Runner) (failed bool)
}

// Runner executes one load run. A Runner is single-use.
type Runner struct {
	opts    Options
	client  *http.Client
	gen     *payload.Generator
	stats   *stats
	tasks   []task
	stop    chan struct{}
	stopped sync.Once
	done    chan struct{}
}

func New(opts Options) (*Runner, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid run options: %w", err)
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	r := &Runner{
		opts:   opts,
		client: client,
		gen:    payload.NewGenerator("loadgen"),
		stats:  newStats(),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	// The mix mirrors typical demo traffic: sends dominate, with
	// occasional health and metrics scrapes mixed in.
	r.tasks = []task{
		{"send", (*Runner).doSend},
		{"send", (*Runner).doSend},
		{"send", (*Runner).doSend},
		{"health", (*Runner).doHealth},
		{"metrics", (*Runner).doMetrics},
	}
	return r, nil
}

// Run spawns users at the configured rate and blocks until the duration
// elapses, Stop is called, or ctx is cancelled. It always returns the
// final report; the error reports an early abort, not request failures.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	defer close(r.done)

	var wg sync.WaitGroup
	interval := time.Duration(float64(time.Second) / r.opts.SpawnRate)
	spawnTicker := time.NewTicker(interval)
	defer spawnTicker.Stop()

	var deadline <-chan time.Time
	if r.opts.Duration > 0 {
		timer := time.NewTimer(r.opts.Duration)
		defer timer.Stop()
		deadline = timer.C
	}

	var runErr error
	spawned := 0
ramp:
	for spawned < r.opts.Users {
		select {
		case <-spawnTicker.C:
			wg.Add(1)
			go r.user(&wg)
			spawned++
		case <-deadline:
			deadline = nil
			r.Stop()
			break ramp
		case <-r.stop:
			break ramp
		case <-ctx.Done():
			runErr = ctx.Err()
			r.Stop()
			break ramp
		}
	}

	if deadline != nil || r.opts.Duration == 0 {
		select {
		case <-deadline:
			r.Stop()
		case <-r.stop:
		case <-ctx.Done():
			runErr = ctx.Err()
			r.Stop()
		}
	}

	wg.Wait()
	return r.stats.report(r.opts.Target, r.opts.Users), runErr
}

// Stop signals all users to finish their current task and exit.
func (r *Runner) Stop() {
	r.stopped.Do(func() { close(r.stop) })
}

// Done is closed once Run has returned.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Snapshot returns the live stats for the run.
func (r *Runner) Snapshot() Snapshot {
	select {
	case <-r.done:
		return r.stats.snapshot(false)
	default:
		return r.stats.snapshot(true)
	}
}

// user is one simulated client looping the task mix until stopped.
func (r *Runner) user(wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case <-r.stop:
			return
		default:
		}

		t := r.tasks[rand.Intn(len(r.tasks))]
		start := time.Now()
		failed := t.perform(r)
		r.stats.record(t.endpoint, time.Since(start), failed)

		wait := r.opts.MinWait + time.Duration(rand.Int63n(int64(r.opts.MaxWait-r.opts.MinWait)+1))
		timer := time.NewTimer(wait)
		select {
		case <-r.stop:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// doSend posts a generated envelope. An HTTP 500 is an injected fault
// doing its job and counts as a success.
func (r *Runner) doSend() bool {
	env := r.gen.Next()
	body, err := json.Marshal(env)
	if err != nil {
		return true
	}

	resp, err := r.client.Post(r.opts.Target+"/send", "application/json", bytes.NewReader(body))
	if err != nil {
		return true
	}
	drain(resp)
	return resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusInternalServerError
}

func (r *Runner) doHealth() bool {
	return r.get("/health")
}

func (r *Runner) doMetrics() bool {
	return r.get("/metrics")
}

func (r *Runner) get(path string) bool {
	resp, err := r.client.Get(r.opts.Target + path)
	if err != nil {
		return true
	}
	drain(resp)
	return resp.StatusCode != http.StatusOK
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	resp.Body.Close()
}

// WriteReport writes the report as indented JSON to path.
func WriteReport(rep *Report, path string) error {
	buf, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, append(buf, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
