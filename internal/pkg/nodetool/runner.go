package nodetool

import (
	"bytes"
	"context"
	"os/exec"

	"go.uber.org/zap"
)

// Result of one external command invocation. Success mirrors the process
// exit status.
type Result struct {
	Success bool
	Cmd     string
	Stdout  string
	Stderr  string
}

// Runner executes a command line and captures its output.
type Runner interface {
	Run(ctx context.Context, cmd string) Result
}

// NewRunner returns a Runner that executes command lines through the
// shell, the same way resumed ledger entries are re-run.
func NewRunner(logger *zap.SugaredLogger) Runner {
	return &shellRunner{logger: logger}
}

type shellRunner struct {
	logger *zap.SugaredLogger
}

func (r *shellRunner) Run(ctx context.Context, cmd string) Result {
	r.logger.Debugf("run command: %s", cmd)
	var stdout, stderr bytes.Buffer
	proc := exec.CommandContext(ctx, "sh", "-c", cmd)
	proc.Stdout = &stdout
	proc.Stderr = &stderr
	err := proc.Run()
	return Result{
		Success: err == nil,
		Cmd:     cmd,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}
}
