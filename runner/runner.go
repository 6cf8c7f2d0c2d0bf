// Package runner manages the lifecycle of the external CLI embedded in the
// monitor widget: resolve on PATH, spawn, stream output, restart, stop.
package runner

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/clawdeck/clawdeck/errors"
	"github.com/clawdeck/clawdeck/logging"
)

// Event is delivered to the UI through a thread-safe hand-off; the runner
// never touches widget state directly.
type Event interface{ runnerEvent() }

// Started reports a successful spawn.
type Started struct {
	PID     int
	Command string
}

// Line is one line of combined stdout/stderr output.
type Line struct {
	Text string
}

// Exited reports process termination.
type Exited struct {
	Code int
	Err  error
}

// SpawnFailed reports that no command could be started. It is surfaced as a
// message in the terminal surface, never as a crash.
type SpawnFailed struct {
	Err error
}

func (Started) runnerEvent()     {}
func (Line) runnerEvent()        {}
func (Exited) runnerEvent()      {}
func (SpawnFailed) runnerEvent() {}

// Config names the primary executable, its fixed arguments, and fallback
// executables tried in order when the primary is not on PATH.
type Config struct {
	Command  string
	Args     []string
	Fallback []string
}

// Runner spawns and supervises one embedded process at a time.
type Runner struct {
	cfg    Config
	notify func(Event)

	mu      sync.Mutex
	cmd     *exec.Cmd
	running bool
}

// New creates a runner. notify must be safe to call from any goroutine.
func New(cfg Config, notify func(Event)) *Runner {
	return &Runner{cfg: cfg, notify: notify}
}

// Resolve picks the executable to run: the primary if present on PATH,
// otherwise the first available fallback.
func (r *Runner) Resolve() (path string, args []string, err error) {
	if p, err := exec.LookPath(r.cfg.Command); err == nil {
		return p, r.cfg.Args, nil
	}
	for _, fb := range r.cfg.Fallback {
		if p, err := exec.LookPath(fb); err == nil {
			logging.GetLogger().Infof("%s not found, falling back to %s", r.cfg.Command, fb)
			return p, nil, nil
		}
	}
	return "", nil, errors.New(errors.KindProcessSpawn,
		fmt.Sprintf("%s not found on PATH (no fallback available)", r.cfg.Command))
}

// Start spawns the process and begins streaming its output. Spawn failures
// are reported through notify.
func (r *Runner) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}

	path, args, err := r.Resolve()
	if err != nil {
		r.mu.Unlock()
		r.notify(SpawnFailed{Err: err})
		return
	}

	cmd := exec.Command(path, args...)
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		r.mu.Unlock()
		pw.Close()
		r.notify(SpawnFailed{Err: errors.Wrap(errors.KindProcessSpawn, "start "+path, err)})
		return
	}

	r.cmd = cmd
	r.running = true
	r.mu.Unlock()

	r.notify(Started{PID: cmd.Process.Pid, Command: path})

	go r.streamOutput(pr)
	go r.wait(cmd, pw)
}

// Restart terminates the current process (if any) and spawns a fresh one.
func (r *Runner) Restart() {
	r.Stop()
	r.Start()
}

// Stop terminates the embedded process. SIGTERM first, SIGKILL if the
// process has not exited shortly after.
func (r *Runner) Stop() {
	r.mu.Lock()
	cmd := r.cmd
	r.mu.Unlock()
	if cmd == nil || cmd.Process == nil {
		return
	}

	_ = cmd.Process.Signal(syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		for {
			r.mu.Lock()
			running := r.running
			r.mu.Unlock()
			if !running {
				close(done)
				return
			}
			time.Sleep(50 * time.Millisecond)
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		_ = cmd.Process.Kill()
	}
}

// Running reports whether a process is currently alive.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Runner) streamOutput(pr *io.PipeReader) {
	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		r.notify(Line{Text: scanner.Text()})
	}
}

func (r *Runner) wait(cmd *exec.Cmd, pw *io.PipeWriter) {
	err := cmd.Wait()
	pw.Close()

	code := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		code = exitErr.ExitCode()
		err = nil
	}

	r.mu.Lock()
	if r.cmd == cmd {
		r.running = false
		r.cmd = nil
	}
	r.mu.Unlock()

	r.notify(Exited{Code: code, Err: err})
}
