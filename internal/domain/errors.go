package domain

import (
	"errors"
	"fmt"
	osexec "os/exec"
)

// Error kinds. Every failure of a run wraps exactly one or two of these.
var (
	// ErrConfig indicates malformed configuration or missing descriptor fields.
	ErrConfig = errors.New("config error")

	// ErrValidation indicates an unsafe slug or a path escaping the workspace.
	ErrValidation = errors.New("validation error")

	// ErrFetch indicates the clone subprocess failed.
	ErrFetch = errors.New("fetch error")

	// ErrBuild indicates the build subprocess failed or could not be started.
	ErrBuild = errors.New("build error")

	// ErrUnknownType indicates a tool type the builder does not handle.
	ErrUnknownType = errors.New("unknown tool type")

	// ErrCopy indicates a filesystem copy failure.
	ErrCopy = errors.New("copy error")
)

// ToolError carries the kind, the tool and the underlying cause of a failure.
type ToolError struct {
	Kinds    []error
	Slug     string
	Op       string
	ExitCode int
	Err      error
}

func (e *ToolError) Error() string {
	msg := e.Op
	if e.Slug != "" {
		msg = fmt.Sprintf("%s for slug %s", msg, e.Slug)
	}
	if e.ExitCode > 0 {
		msg = fmt.Sprintf("%s (exit code %d)", msg, e.ExitCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kinds[0], msg)
}

func (e *ToolError) Unwrap() []error {
	out := append([]error{}, e.Kinds...)
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewConfigError reports a configuration problem, optionally tied to a slug.
func NewConfigError(slug, msg string) error {
	return &ToolError{Kinds: []error{ErrConfig}, Slug: slug, Op: msg}
}

// WrapConfigError wraps a configuration cause such as a read or parse error.
func WrapConfigError(op string, err error) error {
	return &ToolError{Kinds: []error{ErrConfig}, Op: op, Err: err}
}

// NewBuildConfigError reports a node tool missing its build fields. It is
// both a config and a build error.
func NewBuildConfigError(slug, msg string) error {
	return &ToolError{Kinds: []error{ErrConfig, ErrBuild}, Slug: slug, Op: msg}
}

// NewValidationError reports an unsafe slug or path.
func NewValidationError(slug, msg string) error {
	return &ToolError{Kinds: []error{ErrValidation}, Slug: slug, Op: msg}
}

// NewFetchError wraps a failed clone.
func NewFetchError(slug, repo string, err error) error {
	return &ToolError{
		Kinds:    []error{ErrFetch},
		Slug:     slug,
		Op:       "clone " + repo,
		ExitCode: exitCodeOf(err),
		Err:      err,
	}
}

// NewBuildError wraps a failed build command.
func NewBuildError(slug string, err error) error {
	return &ToolError{
		Kinds:    []error{ErrBuild},
		Slug:     slug,
		Op:       "build command failed",
		ExitCode: exitCodeOf(err),
		Err:      err,
	}
}

// NewUnknownTypeError reports a tool type the builder cannot dispatch.
func NewUnknownTypeError(slug, kind string) error {
	return &ToolError{
		Kinds: []error{ErrUnknownType},
		Slug:  slug,
		Op:    kind,
	}
}

// NewCopyError wraps a filesystem copy failure.
func NewCopyError(slug, op string, err error) error {
	return &ToolError{Kinds: []error{ErrCopy}, Slug: slug, Op: op, Err: err}
}

// IsConfig checks if an error is a config error.
func IsConfig(err error) bool {
	return errors.Is(err, ErrConfig)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsFetch checks if an error is a fetch error.
func IsFetch(err error) bool {
	return errors.Is(err, ErrFetch)
}

// IsBuild checks if an error is a build error.
func IsBuild(err error) bool {
	return errors.Is(err, ErrBuild)
}

// IsUnknownType checks if an error is an unknown type error.
func IsUnknownType(err error) bool {
	return errors.Is(err, ErrUnknownType)
}

// IsCopy checks if an error is a copy error.
func IsCopy(err error) bool {
	return errors.Is(err, ErrCopy)
}

// ExitCode returns the subprocess exit code carried by err, or 0.
func ExitCode(err error) int {
	var te *ToolError
	if errors.As(err, &te) {
		return te.ExitCode
	}
	return exitCodeOf(err)
}

func exitCodeOf(err error) int {
	var ee *osexec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return 0
}
