// Package console exposes a small JSON API for driving load runs
// interactively: start a run, stop it, and watch live stats.
package console

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/tenantwave/tenantwave-demo/common/httputil"
	"github.com/tenantwave/tenantwave-demo/common/logging"
	"github.com/tenantwave/tenantwave-demo/loadgen/internal/runner"
)

// StartRequest is the body of POST /runs.
type StartRequest struct {
	Target          string  `json:"target"`
	Users           int     `json:"users"`
	SpawnRate       float64 `json:"spawn_rate"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Console manages at most one run at a time.
type Console struct {
	logger *logging.Logger

	mu         sync.Mutex
	current    *runner.Runner
	lastReport *runner.Report
}

func New(logger *logging.Logger) *Console {
	return &Console{logger: logger}
}

// Router returns the console API routes.
func (c *Console) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/runs", c.handleStart)
	mux.HandleFunc("/runs/stop", c.handleStop)
	mux.HandleFunc("/stats", c.handleStats)
	mux.HandleFunc("/health", c.handleHealth)
	return mux
}

// handleStart implements POST /runs. One run at a time; a second start
// while a run is active returns 409.
func (c *Console) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req StartRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	run, err := runner.New(runner.Options{
		Target:    req.Target,
		Users:     req.Users,
		SpawnRate: req.SpawnRate,
		Duration:  time.Duration(req.DurationSeconds * float64(time.Second)),
	})
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	c.mu.Lock()
	if c.current != nil {
		select {
		case <-c.current.Done():
			// previous run finished, replace it
		default:
			c.mu.Unlock()
			httputil.WriteError(w, http.StatusConflict, "a run is already active")
			return
		}
	}
	c.current = run
	c.mu.Unlock()

	go func() {
		rep, err := run.Run(context.Background())
		if err != nil {
			c.logger.Error("run aborted", logging.Error(err))
		}
		c.mu.Lock()
		c.lastReport = rep
		c.mu.Unlock()
		c.logger.Info("run finished",
			logging.Target(req.Target),
			logging.Duration(int64(rep.DurationSec*1000)),
		)
	}()

	c.logger.Info("run started", logging.Target(req.Target))
	httputil.WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"status":     "started",
		"target":     req.Target,
		"users":      req.Users,
		"spawn_rate": req.SpawnRate,
	})
}

// handleStop implements POST /runs/stop.
func (c *Console) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	c.mu.Lock()
	run := c.current
	c.mu.Unlock()

	if run == nil {
		httputil.WriteError(w, http.StatusNotFound, "no run to stop")
		return
	}

	run.Stop()
	<-run.Done()
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// handleStats implements GET /stats: the live snapshot of the current run,
// or the final report of the last one.
func (c *Console) handleStats(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	run := c.current
	c.mu.Unlock()

	if run == nil {
		httputil.WriteError(w, http.StatusNotFound, "no run yet")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, run.Snapshot())
}

func (c *Console) handleHealth(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	active := false
	if c.current != nil {
		select {
		case <-c.current.Done():
		default:
			active = true
		}
	}
	c.mu.Unlock()

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "healthy",
		"run_active": active,
	})
}

// LastReport returns the report of the most recently finished run, or nil.
func (c *Console) LastReport() *runner.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastReport
}
