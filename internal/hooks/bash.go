// ABOUTME: Bash action executor: spawns sh -c with JSON context on stdin and a timeout
// ABOUTME: Never returns an error; spawn failures and timeouts become exit code 1

package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/mauromedda/pi-hooks/internal/config"
)

const (
	// DefaultBashTimeout applies to bash actions that set no timeout.
	DefaultBashTimeout = 60 * time.Second

	// killWaitDelay bounds how long Wait lingers on open pipes after the
	// process group was killed or the shell exited.
	killWaitDelay = 250 * time.Millisecond

	failedExitCode = 1
)

// BashResult is the outcome of one bash action.
type BashResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	TimedOut bool
}

// ExecutorConfig configures an Executor. Zero fields take defaults.
type ExecutorConfig struct {
	Shell          string
	ProjectDir     string
	DefaultTimeout time.Duration
	ProjectDirEnv  string
	SessionIDEnv   string
}

// Executor runs bash actions.
type Executor struct {
	shell          string
	projectDir     string
	defaultTimeout time.Duration
	projectDirEnv  string
	sessionIDEnv   string
}

// NewExecutor creates an executor. ProjectDir is made absolute.
func NewExecutor(cfg ExecutorConfig) *Executor {
	e := &Executor{
		shell:          cfg.Shell,
		projectDir:     cfg.ProjectDir,
		defaultTimeout: cfg.DefaultTimeout,
		projectDirEnv:  cfg.ProjectDirEnv,
		sessionIDEnv:   cfg.SessionIDEnv,
	}
	if e.shell == "" {
		e.shell = "sh"
	}
	if e.defaultTimeout <= 0 {
		e.defaultTimeout = DefaultBashTimeout
	}
	if e.projectDirEnv == "" {
		e.projectDirEnv = config.DefaultProjectDirEnv
	}
	if e.sessionIDEnv == "" {
		e.sessionIDEnv = config.DefaultSessionIDEnv
	}
	if e.projectDir == "" {
		e.projectDir, _ = os.Getwd()
	}
	if abs, err := filepath.Abs(e.projectDir); err == nil {
		e.projectDir = abs
	}
	return e
}

// Run executes command in cwd with bc on stdin. A non-positive timeout
// means the executor default. On timeout the process group is killed
// without waiting for it to die, and the result reports exit code 1.
func (e *Executor) Run(ctx context.Context, command string, timeout time.Duration, bc BashContext, cwd string) BashResult {
	if timeout <= 0 {
		timeout = e.defaultTimeout
	}
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, e.shell, "-c", command)
	cmd.Dir = cwd
	cmd.Env = append(os.Environ(),
		e.projectDirEnv+"="+e.projectDir,
		e.sessionIDEnv+"="+bc.SessionID,
	)
	cmd.Stdin = bytes.NewReader(encodeStdin(bc))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	setProcGroup(cmd)
	cmd.Cancel = func() error {
		return killProcGroup(cmd)
	}
	cmd.WaitDelay = killWaitDelay

	if err := cmd.Start(); err != nil {
		return BashResult{
			ExitCode: failedExitCode,
			Stderr:   err.Error(),
			Duration: time.Since(start),
		}
	}

	waitErr := cmd.Wait()
	res := BashResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if waitErr != nil && runCtx.Err() != nil {
		res.ExitCode = failedExitCode
		if ctx.Err() != nil {
			res.Stderr = fmt.Sprintf("hook command canceled: %v", ctx.Err())
			return res
		}
		res.TimedOut = true
		res.Stderr = fmt.Sprintf("hook command timed out after %v", timeout)
		return res
	}

	res.ExitCode = exitCode(cmd, waitErr)
	return res
}

// exitCode extracts the real exit status; signals and unknown states map to 1.
func exitCode(cmd *exec.Cmd, waitErr error) int {
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
		return failedExitCode
	}
	if cmd.ProcessState != nil {
		if code := cmd.ProcessState.ExitCode(); code >= 0 {
			return code
		}
	}
	return failedExitCode
}
