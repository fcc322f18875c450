package types

import "time"

// EngineConfig holds settings for locating and invoking the conversion engine.
type EngineConfig struct {
	// Binary is the engine executable name or path (default "pandoc").
	Binary string `json:"binary" yaml:"binary"`

	// DefaultFlags are engine flags prepended to every invocation
	// (e.g. "--standalone").
	DefaultFlags []string `json:"default_flags,omitempty" yaml:"default_flags,omitempty"`
}

// FetchConfig holds settings for downloading remote source documents.
type FetchConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "panpipe/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ConvertConfig holds defaults for the convert command.
type ConvertConfig struct {
	// ScratchDir is the directory where scratch output views are written
	// when the engine produces text rather than an output file.
	ScratchDir string `json:"scratch_dir" yaml:"scratch_dir"`

	// Separator joins the scratch base name and its collision counter
	// (default "-", producing e.g. "notes-1.md").
	Separator string `json:"separator" yaml:"separator"`
}

// HistoryConfig holds settings for the invocation history store.
type HistoryConfig struct {
	// HistoryDir is the directory containing the history database and exports.
	HistoryDir string `json:"history_dir" yaml:"history_dir"`

	// MaxResults is the default maximum number of listed records (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all panpipe configuration sections.
type Config struct {
	Engine  EngineConfig  `json:"engine" yaml:"engine"`
	Convert ConvertConfig `json:"convert" yaml:"convert"`
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	History HistoryConfig `json:"history" yaml:"history"`
}
