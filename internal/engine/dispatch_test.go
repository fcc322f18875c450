// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"errors"
	"os/exec"
	"reflect"
	"testing"
	"time"

	"github.com/pdiddy/panpipe/pkg/types"
)

func testEngine(t *testing.T, ex *fakeExecutor) *Engine {
	t.Helper()
	if ex.availableBins == nil {
		ex.availableBins = map[string]bool{"pandoc": true}
	}
	eng, err := detect("", ex)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	return eng
}

func TestDispatch_StdinConcatenation(t *testing.T) {
	proc := &fakeProcess{stdout: "<p>hello</p>\n"}
	ex := &fakeExecutor{proc: proc}
	eng := testEngine(t, ex)

	inv := types.Invocation{
		ID:     "inv-1",
		Args:   []string{"-f", "markdown", "-t", "html"},
		Inputs: []string{"alpha", "beta"},
	}
	h, err := eng.Dispatch(inv)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	res := h.Wait()

	if got := proc.input.String(); got != "alphabeta" {
		t.Errorf("engine received %q on stdin, want %q", got, "alphabeta")
	}
	if !proc.closed {
		t.Error("stdin was not closed after all blobs were written")
	}
	if res.Failed() {
		t.Errorf("result failed: exit=%d err=%v", res.ExitCode, res.Err)
	}
	if string(res.Stdout) != "<p>hello</p>\n" {
		t.Errorf("stdout = %q", res.Stdout)
	}
	if !reflect.DeepEqual(ex.startedArgs, inv.Args) {
		t.Errorf("engine args = %v, want %v (passed verbatim)", ex.startedArgs, inv.Args)
	}
}

func TestDispatch_NonZeroExit(t *testing.T) {
	proc := &fakeProcess{stderr: "Unknown writer: nope\n", exitCode: 21}
	eng := testEngine(t, &fakeExecutor{proc: proc})

	h, err := eng.Dispatch(types.Invocation{ID: "inv-2", Args: []string{"-t", "nope"}})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	res := h.Wait()

	if !res.Failed() {
		t.Fatal("expected failed result")
	}
	if res.ExitCode != 21 {
		t.Errorf("exit code = %d, want 21", res.ExitCode)
	}
	if string(res.Stderr) != "Unknown writer: nope\n" {
		t.Errorf("stderr = %q", res.Stderr)
	}
	if res.Err != nil {
		t.Errorf("non-zero exit must not set Err, got %v", res.Err)
	}
}

func TestDispatch_SpawnFailure(t *testing.T) {
	ex := &fakeExecutor{startErr: errors.New("permission denied")}
	eng := testEngine(t, ex)

	_, err := eng.Dispatch(types.Invocation{ID: "inv-3"})
	if err == nil {
		t.Fatal("expected hard error when the engine cannot be started")
	}
}

func TestDispatch_WaitIsRepeatable(t *testing.T) {
	proc := &fakeProcess{stdout: "ok"}
	eng := testEngine(t, &fakeExecutor{proc: proc})

	h, err := eng.Dispatch(types.Invocation{ID: "inv-4"})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	first := h.Wait()
	second := h.Wait()
	if string(first.Stdout) != "ok" || string(second.Stdout) != "ok" {
		t.Errorf("Wait results differ: %q vs %q", first.Stdout, second.Stdout)
	}
}

func TestDispatch_DoneChannel(t *testing.T) {
	proc := &fakeProcess{stdout: "async"}
	eng := testEngine(t, &fakeExecutor{proc: proc})

	h, err := eng.Dispatch(types.Invocation{ID: "inv-5"})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	select {
	case res := <-h.Done():
		if string(res.Stdout) != "async" {
			t.Errorf("stdout = %q", res.Stdout)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("completion never delivered")
	}
}

// TestDispatch_RealProcess pipes blobs through a real child process to
// verify end-to-end stdin handling. Skipped when cat is unavailable.
func TestDispatch_RealProcess(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	eng := &Engine{path: "cat", exec: defaultExec}

	h, err := eng.Dispatch(types.Invocation{
		ID:     "inv-real",
		Inputs: []string{"alpha", "beta"},
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	res := h.Wait()
	if res.Failed() {
		t.Fatalf("cat failed: exit=%d err=%v stderr=%s", res.ExitCode, res.Err, res.Stderr)
	}
	if string(res.Stdout) != "alphabeta" {
		t.Errorf("child echoed %q, want %q", res.Stdout, "alphabeta")
	}
}
