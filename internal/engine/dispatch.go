// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/panpipe/pkg/types"
)

// Handle identifies one in-flight invocation. It owns the output buffers
// until the engine exits, at which point the Result is delivered exactly
// once on the completion channel.
type Handle struct {
	// ID is the invocation ID this handle belongs to.
	ID string

	done chan types.Result
	once sync.Once
	res  types.Result
}

// Done exposes the completion channel for select-based callers. The Result
// is sent exactly once; use Wait when blocking is acceptable.
func (h *Handle) Done() <-chan types.Result { return h.done }

// Wait blocks until the engine exits and returns the Result. Safe to call
// more than once.
func (h *Handle) Wait() types.Result {
	h.once.Do(func() { h.res = <-h.done })
	return h.res
}

// Dispatch starts one engine invocation. The argument list is passed
// verbatim. Each input blob is written to the child's standard input in
// order, then the stream is closed, so a child reading stdin sees the
// concatenation of all blobs followed by EOF.
//
// Completion is event-driven: a goroutine waits for the child to exit and
// delivers the Result on the handle. Callers must not assume the result is
// available synchronously. A process that cannot be started at all is a
// hard error returned immediately; a non-zero exit is not an error here,
// it is reported through the Result for the router to surface.
func (e *Engine) Dispatch(inv types.Invocation) (*Handle, error) {
	var stdout, stderr bytes.Buffer
	proc, err := e.exec.Start(e.path, inv.Args, &stdout, &stderr)
	if err != nil {
		return nil, fmt.Errorf("starting engine %s: %w", e.path, err)
	}

	h := &Handle{ID: inv.ID, done: make(chan types.Result, 1)}

	go func() {
		stdin := proc.Stdin()
		var writeErr error
		for _, blob := range inv.Inputs {
			if _, err := io.WriteString(stdin, blob); err != nil {
				writeErr = err
				break
			}
		}
		stdin.Close()

		code, waitErr := proc.Wait()

		res := types.Result{
			Invocation: inv,
			ExitCode:   code,
			Stdout:     stdout.Bytes(),
			Stderr:     stderr.Bytes(),
		}
		if waitErr != nil {
			res.Err = waitErr
		} else if writeErr != nil && code == 0 {
			// The child exited cleanly without reading all its input.
			res.Err = fmt.Errorf("writing engine input: %w", writeErr)
		}
		h.done <- res
	}()

	return h, nil
}
