package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ochairo/netport/internal/domain/entities"
	"github.com/ochairo/netport/internal/domain/interfaces"
)

// ScanExecutor runs an external scan process against a manifest and reads
// its JSON scan document from stdout
type ScanExecutor struct {
	command        []string
	defaultTimeout time.Duration
	logger         interfaces.Logger
}

// ExecuteResult contains the result of one scan process run
type ExecuteResult struct {
	Success  bool
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	Error    error
}

// NewScanExecutor creates a subprocess scanner. command is split on
// whitespace; the manifest path is appended as the last argument.
func NewScanExecutor(command string, timeout time.Duration, logger interfaces.Logger) *ScanExecutor {
	return NewScanExecutorArgs(strings.Fields(command), timeout, logger)
}

// NewScanExecutorArgs creates a subprocess scanner from an argument vector
func NewScanExecutorArgs(argv []string, timeout time.Duration, logger interfaces.Logger) *ScanExecutor {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &ScanExecutor{
		command:        append([]string(nil), argv...),
		defaultTimeout: timeout,
		logger:         interfaces.OrNoOp(logger),
	}
}

// Scan runs the scan process for the artifact's manifest. The returned
// error text is the diagnostic to surface in the report.
func (se *ScanExecutor) Scan(ctx context.Context, artifact *entities.ProjectArtifact) (*entities.ScanResult, error) {
	result := se.Execute(ctx, artifact.ManifestPath)
	if !result.Success {
		msg := result.Stderr
		if strings.TrimSpace(msg) == "" {
			msg = "Analyzer execution failed: " + result.Error.Error()
		}
		se.logger.Warn("scan process failed",
			interfaces.F("exit_code", result.ExitCode),
			interfaces.F("duration", result.Duration),
			interfaces.Err(result.Error))
		return nil, errors.Mark(errors.New(msg), entities.ErrScanExecution)
	}

	var doc entities.ScanDocument
	if err := json.Unmarshal([]byte(result.Stdout), &doc); err != nil {
		se.logger.Warn("scan output is not a scan document", interfaces.Err(err))
		return nil, errors.Mark(
			errors.Mark(errors.Newf("Parse error: %s\n%s", err.Error(), result.Stdout), entities.ErrScanExecution),
			entities.ErrScanOutput)
	}

	return &entities.ScanResult{
		Findings:    doc.Findings(artifact.ManifestPath),
		FileCount:   doc.FileCount,
		Diagnostics: make([]string, 0),
		Raw:         result.Stdout,
	}, nil
}

// Execute runs the scan command with manifestPath as its final argument
func (se *ScanExecutor) Execute(ctx context.Context, manifestPath string) *ExecuteResult {
	startTime := time.Now()
	result := &ExecuteResult{ExitCode: -1}

	if len(se.command) == 0 {
		result.Error = errors.New("no scan command configured")
		return result
	}

	execCtx, cancel := context.WithTimeout(ctx, se.defaultTimeout)
	defer cancel()

	args := append(append([]string{}, se.command[1:]...), manifestPath)
	//nolint:gosec // G204: The scan command comes from operator configuration
	cmd := exec.CommandContext(execCtx, se.command[0], args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Children of the scan process may hold the pipes open after a kill
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	result.Duration = time.Since(startTime)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		result.Error = err
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			result.Error = errors.Newf("scan timeout after %v", se.defaultTimeout)
		}
		return result
	}

	result.Success = true
	result.ExitCode = 0
	return result
}
