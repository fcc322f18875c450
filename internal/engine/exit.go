// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import "fmt"

// ExitError carries the engine's exit status so the host process can
// mirror it when invoked non-interactively.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("engine exited with status %d", e.Code)
}
