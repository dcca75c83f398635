package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors
type ErrorCode string

const (
	ErrCodeProbeSpawn    ErrorCode = "PROBE_SPAWN_FAILURE"
	ErrCodeProbeTimeout  ErrorCode = "PROBE_TIMEOUT"
	ErrCodeProbeExit     ErrorCode = "PROBE_NONZERO_EXIT"
	ErrCodeProbeParse    ErrorCode = "PROBE_PARSE_FAILURE"
	ErrCodeWorkerFault   ErrorCode = "WORKER_FAULT"
	ErrCodeUninitialized ErrorCode = "POOL_UNINITIALIZED"
	ErrCodeShuttingDown  ErrorCode = "POOL_SHUTTING_DOWN"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
)

// AnalysisError is the base structured error
type AnalysisError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// ErrUninitialized is returned when analysis is requested before the
// analyzer has been initialized. This is the only failure that surfaces
// as an error instead of a success=false result.
var ErrUninitialized = &AnalysisError{
	Code:    ErrCodeUninitialized,
	Message: "analyzer not initialized",
}

// ShutdownMessage is the error string carried by results resolved
// during pool shutdown.
const ShutdownMessage = "pool shutting down"

// ProbeError represents a failed probe invocation
type ProbeError struct {
	AnalysisError
	Path     string
	ExitCode int
	Stderr   string
}

func NewProbeSpawnError(path string, cause error) *ProbeError {
	return &ProbeError{
		AnalysisError: AnalysisError{
			Code:    ErrCodeProbeSpawn,
			Message: "failed to spawn prober",
			Cause:   cause,
		},
		Path:     path,
		ExitCode: -1,
	}
}

func NewProbeTimeoutError(path string, cause error) *ProbeError {
	return &ProbeError{
		AnalysisError: AnalysisError{
			Code:    ErrCodeProbeTimeout,
			Message: "probe timed out",
			Cause:   cause,
		},
		Path:     path,
		ExitCode: -1,
	}
}

func NewProbeExitError(path string, exitCode int, stderr string, cause error) *ProbeError {
	return &ProbeError{
		AnalysisError: AnalysisError{
			Code:    ErrCodeProbeExit,
			Message: fmt.Sprintf("prober exited with code %d", exitCode),
			Cause:   cause,
		},
		Path:     path,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
}

func NewProbeParseError(path, message string, cause error) *ProbeError {
	return &ProbeError{
		AnalysisError: AnalysisError{
			Code:    ErrCodeProbeParse,
			Message: message,
			Cause:   cause,
		},
		Path: path,
	}
}

func (e *ProbeError) Error() string {
	base := e.AnalysisError.Error()
	if e.Stderr != "" {
		return fmt.Sprintf("%s (path=%s, stderr=%q)", base, e.Path, truncate(e.Stderr, 200))
	}
	return fmt.Sprintf("%s (path=%s)", base, e.Path)
}

// WorkerFaultError wraps an uncaught fault inside a worker
type WorkerFaultError struct {
	AnalysisError
	WorkerID int
}

func NewWorkerFaultError(workerID int, cause error) *WorkerFaultError {
	return &WorkerFaultError{
		AnalysisError: AnalysisError{
			Code:    ErrCodeWorkerFault,
			Message: "worker fault",
			Cause:   cause,
		},
		WorkerID: workerID,
	}
}

func (e *WorkerFaultError) Error() string {
	return fmt.Sprintf("%s (worker=%d)", e.AnalysisError.Error(), e.WorkerID)
}

// ValidationError represents input validation failure
type ValidationError struct {
	AnalysisError
	Field string
	Value interface{}
}

func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		AnalysisError: AnalysisError{
			Code:    ErrCodeValidation,
			Message: message,
		},
		Field: field,
		Value: value,
	}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] field=%s value=%v: %s", e.Code, e.Field, e.Value, e.Message)
}

// Is enables errors.Is checks
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As enables errors.As checks
func As[T error](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}

// CodeOf extracts the ErrorCode from the first structured error in the
// chain, or "" when the error carries no code.
func CodeOf(err error) ErrorCode {
	var pe *ProbeError
	if errors.As(err, &pe) {
		return pe.Code
	}
	var wf *WorkerFaultError
	if errors.As(err, &wf) {
		return wf.Code
	}
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
