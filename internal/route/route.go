// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package route decides how a completed engine invocation is presented:
// opening a produced output file, rendering captured output into a fresh
// scratch view, or surfacing an error.
package route

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/panpipe/internal/fsutil"
	"github.com/pdiddy/panpipe/pkg/types"
)

// Presenter is the surface results are rendered onto. The CLI implements
// it over the terminal and scratch files; tests use a recording fake.
type Presenter interface {
	// OpenFile displays the produced output file, reusing an already-open
	// view of the same path when one exists.
	OpenFile(path string) error

	// ShowScratch displays content in a new scratch view with the given
	// name and highlight mode. An empty mode means plain text.
	ShowScratch(name, mode string, content []byte) error

	// ShowError surfaces raw engine output as an error, unhighlighted.
	ShowError(content []byte) error
}

// Deliver routes one completed Result onto the presenter and returns the
// outcome that was chosen.
//
// The rules, in order:
//  1. failure (non-zero exit or wait error): the raw captured output is
//     shown as an error, regardless of any recorded output-file hint;
//  2. an output file was expected and now exists: it is opened and the
//     buffered output is not shown;
//  3. otherwise the captured stdout goes into a scratch view named from
//     the source label and the target format's extension.
//
// An unknown format with no highlight mode is a notice, not an error: the
// text is still presented, just unhighlighted.
func Deliver(res types.Result, p Presenter, notices io.Writer) (types.OutcomeKind, error) {
	inv := res.Invocation

	if res.Failed() {
		return types.OutcomeError, p.ShowError(errorText(res))
	}

	if inv.OutputPath != "" {
		if _, err := os.Stat(inv.OutputPath); err == nil {
			return types.OutcomeFile, p.OpenFile(inv.OutputPath)
		}
		fmt.Fprintf(notices, "expected output %s was not produced, showing captured output\n", inv.OutputPath)
	}

	mode, known := HighlightMode(inv.ToFormat)
	if !known && inv.ToFormat != "" {
		fmt.Fprintf(notices, "no display mode for format %q, presenting plain text\n", inv.ToFormat)
	}
	name := ScratchName(inv.Source.Label(), inv.ToFormat)
	return types.OutcomeText, p.ShowScratch(name, mode, res.Stdout)
}

// errorText assembles the raw output surfaced on engine failure: stderr
// first, then stdout, exactly as captured.
func errorText(res types.Result) []byte {
	out := make([]byte, 0, len(res.Stderr)+len(res.Stdout))
	out = append(out, res.Stderr...)
	out = append(out, res.Stdout...)
	if len(out) == 0 && res.Err != nil {
		out = []byte(res.Err.Error() + "\n")
	}
	return out
}

// FilePresenter is the CLI presenter. Scratch views become files under
// Dir, collision-suffixed with Sep; opened files are either announced on
// Out or handed to Opener when one is configured.
type FilePresenter struct {
	Dir string
	Sep string
	Out io.Writer
	Err io.Writer

	// Opener, when set, is invoked with the path of a produced output
	// file (e.g. to hand it to $EDITOR).
	Opener func(path string) error

	// LastScratch records the path of the most recently written scratch
	// view, for callers that report it.
	LastScratch string
}

func (f *FilePresenter) OpenFile(path string) error {
	if f.Opener != nil {
		return f.Opener(path)
	}
	fmt.Fprintf(f.Out, "output written to %s\n", path)
	return nil
}

func (f *FilePresenter) ShowScratch(name, mode string, content []byte) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	path := fsutil.NextAvailableName(filepath.Join(f.Dir, name), f.Sep)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("writing scratch view: %w", err)
	}
	f.LastScratch = path
	if mode == "" {
		mode = "plain"
	}
	fmt.Fprintf(f.Out, "scratch view %s (%s)\n", path, mode)
	return nil
}

func (f *FilePresenter) ShowError(content []byte) error {
	_, err := f.Err.Write(content)
	return err
}
