// Package parser supervises the external Python ingestion process. The
// process itself is an opaque collaborator: this package only starts,
// stops, and polls it, and scrapes coarse progress counters from its
// stdout.
package parser

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"
)

// Lifecycle errors the HTTP layer translates to 400.
var (
	ErrAlreadyRunning = errors.New("parser is already running")
	ErrNotRunning     = errors.New("parser is not running")
)

// Config carries the subprocess invocation settings.
type Config struct {
	Python          string
	Script          string
	ChatListScript  string
	WorkDir         string
	ChatListTimeout time.Duration
}

// Status is the supervisor's process-wide state snapshot. External is
// true when the running instance was detected in the OS process table
// rather than started by this supervisor.
type Status struct {
	Running           bool       `json:"running"`
	External          bool       `json:"external"`
	PID               int        `json:"pid"`
	StartTime         *time.Time `json:"startTime"`
	LastActivity      *time.Time `json:"lastActivity"`
	MessagesProcessed int64      `json:"messagesProcessed"`
	MessagesSaved     int64      `json:"messagesSaved"`
}

// RunResult is the outcome of a one-shot batch invocation.
type RunResult struct {
	Processed int64  `json:"processed"`
	Saved     int64  `json:"saved"`
	Output    string `json:"output"`
}

// Supervisor owns the single tracked ingestion subprocess. All state
// transitions happen under mu; the spawned goroutines that pump output
// and await exit re-acquire it and check the generation counter so a
// late callback from a previous child cannot clobber newer state.
type Supervisor struct {
	cfg       Config
	inspector ProcessInspector
	logger    *slog.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	status Status
	gen    uint64
}

// NewSupervisor creates a Supervisor. inspector may be nil to disable
// external-process detection.
func NewSupervisor(cfg Config, inspector ProcessInspector, logger *slog.Logger) *Supervisor {
	if cfg.Python == "" {
		cfg.Python = "python3"
	}
	if cfg.ChatListTimeout <= 0 {
		cfg.ChatListTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		cfg:       cfg,
		inspector: inspector,
		logger:    logger.With("component", "parser"),
	}
}

// Start spawns the ingestion process in monitor mode. Returns
// ErrAlreadyRunning when an instance (own or adopted) is already
// tracked.
func (s *Supervisor) Start(ctx context.Context) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reconcileLocked(ctx)
	if s.status.Running {
		return s.status, ErrAlreadyRunning
	}

	// The child must outlive the HTTP request that started it, so it is
	// deliberately not bound to ctx.
	cmd := exec.Command(s.cfg.Python, s.cfg.Script, "--monitor")
	cmd.Dir = s.cfg.WorkDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return s.status, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return s.status, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return s.status, fmt.Errorf("failed to start parser: %w", err)
	}

	now := time.Now()
	s.gen++
	s.cmd = cmd
	s.status = Status{
		Running:      true,
		PID:          cmd.Process.Pid,
		StartTime:    &now,
		LastActivity: &now,
	}

	gen := s.gen
	go s.consume(gen, stdout, true)
	go s.consume(gen, stderr, false)
	go s.awaitExit(gen, cmd)

	s.logger.Info("Parser started", "pid", cmd.Process.Pid, "script", s.cfg.Script)
	return s.status, nil
}

// Stop terminates the tracked process and clears state immediately; it
// does not wait for confirmed exit. Returns ErrNotRunning when nothing
// is tracked.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reconcileLocked(ctx)
	if !s.status.Running {
		return ErrNotRunning
	}

	pid := s.status.PID
	var signalErr error
	if s.cmd != nil && s.cmd.Process != nil {
		signalErr = s.cmd.Process.Signal(syscall.SIGTERM)
	} else if pid > 0 {
		if proc, err := os.FindProcess(pid); err == nil {
			signalErr = proc.Signal(syscall.SIGTERM)
		} else {
			signalErr = err
		}
	}

	// State clears regardless of signal outcome; a dead process would
	// fail signal delivery too.
	s.gen++
	s.cmd = nil
	s.status = Status{}

	if signalErr != nil {
		s.logger.Warn("Failed to signal parser", "pid", pid, "error", signalErr)
		return fmt.Errorf("failed to signal parser (pid %d): %w", pid, signalErr)
	}
	s.logger.Info("Parser stopped", "pid", pid)
	return nil
}

// RunOnce spawns the ingestion script without the monitor flag, waits
// for it to finish, and reports the counters scraped from its output.
// It is independent of the persistent monitor lifecycle.
func (s *Supervisor) RunOnce(ctx context.Context) (RunResult, error) {
	cmd := exec.CommandContext(ctx, s.cfg.Python, s.cfg.Script)
	cmd.Dir = s.cfg.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	s.logger.Info("Running one-shot ingestion", "script", s.cfg.Script)
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		s.logger.Error("One-shot ingestion failed", "error", err, "stderr", detail)
		return RunResult{}, fmt.Errorf("parser run failed: %w: %s", err, detail)
	}

	result := RunResult{Output: stdout.String()}
	for _, line := range strings.Split(stdout.String(), "\n") {
		if n, ok := ParseProcessed(line); ok {
			result.Processed = n
		}
		if n, ok := ParseSaved(line); ok {
			result.Saved = n
		}
	}

	s.logger.Info("One-shot ingestion finished",
		"processed", result.Processed, "saved", result.Saved)
	return result, nil
}

// CurrentStatus reconciles against the OS process table and returns the
// state snapshot. Reconciliation adopts an externally started instance
// and drops an adopted instance that has vanished.
func (s *Supervisor) CurrentStatus(ctx context.Context) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconcileLocked(ctx)
	return s.status
}

func (s *Supervisor) reconcileLocked(ctx context.Context) {
	if s.inspector == nil || s.cfg.Script == "" {
		return
	}
	// Our own child's exit is observed by awaitExit; reconciliation only
	// covers the external-detection path.
	if s.status.Running && !s.status.External {
		return
	}

	pid, found, err := s.inspector.FindProcess(ctx, filepath.Base(s.cfg.Script))
	if err != nil {
		s.logger.Warn("Process inspection failed", "error", err)
		return
	}

	switch {
	case !s.status.Running && found:
		s.gen++
		s.cmd = nil
		s.status = Status{Running: true, External: true, PID: pid}
		s.logger.Info("Adopted externally started parser", "pid", pid)
	case s.status.Running && s.status.External && !found:
		s.gen++
		s.status = Status{}
		s.logger.Info("Externally started parser vanished")
	}
}

// consume pumps one output stream line by line, refreshing the activity
// timestamp on every line and scraping counters from stdout.
func (s *Supervisor) consume(gen uint64, r io.Reader, scrape bool) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		s.logger.Debug("Parser output", "line", line)

		s.mu.Lock()
		if s.gen == gen {
			now := time.Now()
			s.status.LastActivity = &now
			if scrape {
				if n, ok := ParseProcessed(line); ok {
					s.status.MessagesProcessed = n
				}
				if n, ok := ParseSaved(line); ok {
					s.status.MessagesSaved = n
				}
			}
		}
		s.mu.Unlock()
	}
}

// awaitExit reaps the child and, if its generation is still current,
// transitions to stopped.
func (s *Supervisor) awaitExit(gen uint64, cmd *exec.Cmd) {
	err := cmd.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.gen++
	s.cmd = nil
	processed := s.status.MessagesProcessed
	s.status = Status{}

	if err != nil {
		s.logger.Warn("Parser exited with error", "error", err, "processed", processed)
	} else {
		s.logger.Info("Parser exited", "processed", processed)
	}
}
