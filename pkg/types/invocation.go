// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"strings"
	"time"
)

// SourceKind tags how conversion input is supplied.
type SourceKind string

const (
	// SourceFiles means the input is a list of file paths passed to the engine.
	SourceFiles SourceKind = "files"
	// SourceBuffer means the input is one in-memory text buffer piped to the
	// engine's standard input.
	SourceBuffer SourceKind = "buffer"
)

// Source is the input variant for one invocation, decided once at request
// construction time.
type Source struct {
	Kind SourceKind `json:"kind" yaml:"kind"`

	// Paths lists source files. Set when Kind is SourceFiles.
	Paths []string `json:"paths,omitempty" yaml:"paths,omitempty"`

	// Name identifies the buffer. Set when Kind is SourceBuffer.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Label returns a short identifier for the source, used when naming scratch
// output. For a file list it is the stem of the first path; for a buffer it
// is the buffer name, falling back to "untitled".
func (s Source) Label() string {
	switch s.Kind {
	case SourceFiles:
		if len(s.Paths) == 0 {
			return "untitled"
		}
		base := filepath.Base(s.Paths[0])
		return strings.TrimSuffix(base, filepath.Ext(base))
	case SourceBuffer:
		if s.Name == "" {
			return "untitled"
		}
		return s.Name
	}
	return "untitled"
}

// Describe returns a one-line description of the source for history records.
func (s Source) Describe() string {
	if s.Kind == SourceBuffer {
		return "buffer:" + s.Label()
	}
	return strings.Join(s.Paths, " ")
}

// Invocation is one request to run the engine. It carries everything the
// completion handler needs, so concurrent invocations never share state.
type Invocation struct {
	// ID uniquely identifies the invocation (UUID).
	ID string `json:"id" yaml:"id"`

	// Args is the engine argument list, passed verbatim.
	Args []string `json:"args" yaml:"args"`

	// Inputs are text blobs written to the engine's standard input in
	// order, after which the stream is closed. Empty when the engine reads
	// from file arguments instead.
	Inputs []string `json:"-" yaml:"-"`

	// Source describes where the input came from.
	Source Source `json:"source" yaml:"source"`

	// FromFormat and ToFormat are the engine input and output format names.
	FromFormat string `json:"from_format" yaml:"from_format"`
	ToFormat   string `json:"to_format" yaml:"to_format"`

	// OutputPath is the expected output file, or "" when the engine writes
	// to standard output. Used to route the completion.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// OutcomeKind tags how a completed invocation was routed.
type OutcomeKind string

const (
	// OutcomeFile means a produced output file was opened.
	OutcomeFile OutcomeKind = "file"
	// OutcomeText means captured output was shown in a scratch view.
	OutcomeText OutcomeKind = "text"
	// OutcomeError means the engine failed and its output was surfaced as
	// an error.
	OutcomeError OutcomeKind = "error"
)

// Result is the completion record for one invocation. It is delivered
// asynchronously when the engine process exits.
type Result struct {
	// Invocation is the request this result belongs to.
	Invocation Invocation

	// ExitCode is the engine's exit status. Zero means success.
	ExitCode int

	// Stdout and Stderr are the buffered engine streams.
	Stdout []byte
	Stderr []byte

	// Err is set when the process could not be waited on or its input
	// could not be written, independent of the exit status.
	Err error
}

// Failed reports whether the invocation should be routed to the error
// surface.
func (r Result) Failed() bool {
	return r.Err != nil || r.ExitCode != 0
}
