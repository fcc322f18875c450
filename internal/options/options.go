// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package options holds the static catalog of engine formats and
// pass-through flags, with choice-set and pattern validation. The catalog
// is advisory: flags it does not know are passed through to the engine
// verbatim, flagged with ErrUnknownFlag so the caller can print a notice.
package options

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// ErrUnknownFlag marks a pass-through flag absent from the catalog.
// Callers pass such flags to the engine unvalidated.
var ErrUnknownFlag = errors.New("flag not in catalog")

// Flag describes one known engine flag and its validation rule.
type Flag struct {
	Name string `yaml:"name"`

	// Arg is "none" for boolean flags or "value" for flags taking a value.
	Arg string `yaml:"arg"`

	// Choices, when set, enumerate the allowed values.
	Choices []string `yaml:"choices,omitempty"`

	// Pattern, when set, is a regular expression the value must match.
	Pattern string `yaml:"pattern,omitempty"`
}

// Catalog is the loaded option table.
type Catalog struct {
	InputFormats  []string `yaml:"input_formats"`
	OutputFormats []string `yaml:"output_formats"`
	Flags         []Flag   `yaml:"flags"`

	inputs  map[string]bool
	outputs map[string]bool
	flags   map[string]Flag
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return nil, fmt.Errorf("parsing option catalog: %w", err)
	}
	c.inputs = make(map[string]bool, len(c.InputFormats))
	for _, f := range c.InputFormats {
		c.inputs[f] = true
	}
	c.outputs = make(map[string]bool, len(c.OutputFormats))
	for _, f := range c.OutputFormats {
		c.outputs[f] = true
	}
	c.flags = make(map[string]Flag, len(c.Flags))
	for _, fl := range c.Flags {
		c.flags[fl.Name] = fl
	}
	return &c, nil
}

// baseFormat strips engine extension modifiers ("+smart", "-raw_html")
// from a format specifier, leaving the bare format name.
func baseFormat(format string) string {
	if i := strings.IndexAny(format, "+-"); i >= 0 {
		return format[:i]
	}
	return format
}

// KnownInput reports whether the input format (modifiers ignored) is in
// the catalog.
func (c *Catalog) KnownInput(format string) bool {
	return c.inputs[baseFormat(format)]
}

// KnownOutput reports whether the output format (modifiers ignored) is in
// the catalog.
func (c *Catalog) KnownOutput(format string) bool {
	return c.outputs[baseFormat(format)]
}

// ValidateFormats checks the from/to selection. Empty values are allowed;
// the engine infers formats from file extensions when they are omitted.
func (c *Catalog) ValidateFormats(from, to string) error {
	if from != "" && !c.KnownInput(from) {
		return fmt.Errorf("unknown input format %q", from)
	}
	if to != "" && !c.KnownOutput(to) {
		return fmt.Errorf("unknown output format %q", to)
	}
	return nil
}

// ValidateFlag checks one pass-through flag, given as "name", "--name",
// or "name=value". A flag not in the catalog returns ErrUnknownFlag
// (wrapped); a flag that is known but misused returns a hard error.
func (c *Catalog) ValidateFlag(spec string) error {
	name := strings.TrimLeft(spec, "-")
	value := ""
	hasValue := false
	if i := strings.IndexByte(name, '='); i >= 0 {
		name, value = name[:i], name[i+1:]
		hasValue = true
	}
	if name == "" {
		return fmt.Errorf("empty flag %q", spec)
	}

	fl, ok := c.flags[name]
	if !ok {
		return fmt.Errorf("%w: --%s", ErrUnknownFlag, name)
	}

	if fl.Arg == "none" {
		if hasValue {
			return fmt.Errorf("flag --%s takes no value", name)
		}
		return nil
	}
	if !hasValue {
		return fmt.Errorf("flag --%s requires a value", name)
	}

	if len(fl.Choices) > 0 {
		for _, choice := range fl.Choices {
			if value == choice {
				return nil
			}
		}
		return fmt.Errorf("flag --%s: value %q not one of %s",
			name, value, strings.Join(fl.Choices, ", "))
	}
	if fl.Pattern != "" {
		re, err := regexp.Compile(fl.Pattern)
		if err != nil {
			return fmt.Errorf("flag --%s has invalid pattern: %w", name, err)
		}
		if !re.MatchString(value) {
			return fmt.Errorf("flag --%s: value %q does not match %s", name, value, fl.Pattern)
		}
	}
	return nil
}

// EngineArg renders a validated flag spec as the engine argument string.
func EngineArg(spec string) string {
	if strings.HasPrefix(spec, "-") {
		return spec
	}
	return "--" + spec
}
