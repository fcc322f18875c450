// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine resolves the external conversion engine binary and
// dispatches invocations against it.
package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const binPandoc = "pandoc"

// executor abstracts process execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunOutput(name string, args ...string) (string, error)
	Start(name string, args []string, stdout, stderr io.Writer) (process, error)
}

// process is one started child. Stdin must be closed by the caller once all
// input has been written; Wait returns the exit status.
type process interface {
	Stdin() io.WriteCloser
	Wait() (int, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunOutput(name string, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return out.String(), nil
}

func (o *osExecutor) Start(name string, args []string, stdout, stderr io.Writer) (process, error) {
	cmd := exec.Command(name, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, err
	}
	return &osProcess{cmd: cmd, stdin: stdin}, nil
}

// osProcess wraps a started exec.Cmd.
type osProcess struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

func (p *osProcess) Stdin() io.WriteCloser { return p.stdin }

func (p *osProcess) Wait() (int, error) {
	err := p.cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

var defaultExec executor = &osExecutor{}

// Engine is a resolved conversion engine binary.
type Engine struct {
	path string
	exec executor
}

// Detect resolves the engine binary on PATH and probes it with --version.
// An empty binary name selects the default engine (pandoc). A missing or
// unrunnable binary is a hard error; no conversion is attempted.
func Detect(binary string) (*Engine, error) {
	return detect(binary, defaultExec)
}

func detect(binary string, ex executor) (*Engine, error) {
	if binary == "" {
		binary = binPandoc
	}
	path, err := ex.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("engine %s not found on PATH: %w", binary, err)
	}
	if _, err := ex.RunOutput(path, "--version"); err != nil {
		return nil, fmt.Errorf("engine %s is not runnable: %w", path, err)
	}
	return &Engine{path: path, exec: ex}, nil
}

// Path returns the resolved engine binary path.
func (e *Engine) Path() string { return e.path }

// Version returns the first line of the engine's --version output.
func (e *Engine) Version() (string, error) {
	out, err := e.exec.RunOutput(e.path, "--version")
	if err != nil {
		return "", fmt.Errorf("querying engine version: %w", err)
	}
	line, _, _ := strings.Cut(out, "\n")
	return strings.TrimSpace(line), nil
}
