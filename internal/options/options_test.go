// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package options

import (
	"errors"
	"strings"
	"testing"
)

func loadCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load()
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	return c
}

func TestLoad(t *testing.T) {
	c := loadCatalog(t)
	if len(c.InputFormats) == 0 || len(c.OutputFormats) == 0 || len(c.Flags) == 0 {
		t.Fatal("catalog sections must not be empty")
	}
	if !c.KnownInput("markdown") {
		t.Error("markdown should be a known input format")
	}
	if !c.KnownOutput("html5") {
		t.Error("html5 should be a known output format")
	}
}

func TestKnownFormats_ModifiersIgnored(t *testing.T) {
	c := loadCatalog(t)
	for _, f := range []string{"markdown+smart", "markdown-raw_html+smart", "gfm+hard_line_breaks"} {
		if !c.KnownInput(f) {
			t.Errorf("KnownInput(%q) = false, modifiers should be ignored", f)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	c := loadCatalog(t)
	tests := []struct {
		from, to string
		wantErr  bool
	}{
		{"markdown", "html", false},
		{"", "", false}, // engine infers from extensions
		{"gfm+smart", "latex", false},
		{"clay-tablet", "html", true},
		{"markdown", "smoke-signals", true},
	}
	for _, tt := range tests {
		err := c.ValidateFormats(tt.from, tt.to)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormats(%q, %q) error = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
		}
	}
}

func TestValidateFlag(t *testing.T) {
	c := loadCatalog(t)
	tests := []struct {
		name    string
		spec    string
		wantErr string // "" = ok, "unknown" = ErrUnknownFlag, else substring
	}{
		{"boolean flag", "toc", ""},
		{"boolean flag with dashes", "--standalone", ""},
		{"boolean flag given a value", "toc=2", "takes no value"},
		{"value flag with valid choice", "highlight-style=kate", ""},
		{"value flag with bad choice", "highlight-style=rainbow", "not one of"},
		{"value flag missing value", "pdf-engine", "requires a value"},
		{"pattern match", "toc-depth=3", ""},
		{"pattern mismatch", "toc-depth=9", "does not match"},
		{"negative number pattern", "shift-heading-level-by=-1", ""},
		{"free-form value flag", "template=letter.tex", ""},
		{"unknown flag", "frobnicate", "unknown"},
		{"empty", "--", "empty flag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.ValidateFlag(tt.spec)
			switch tt.wantErr {
			case "":
				if err != nil {
					t.Errorf("ValidateFlag(%q) = %v, want nil", tt.spec, err)
				}
			case "unknown":
				if !errors.Is(err, ErrUnknownFlag) {
					t.Errorf("ValidateFlag(%q) = %v, want ErrUnknownFlag", tt.spec, err)
				}
			default:
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("ValidateFlag(%q) = %v, want substring %q", tt.spec, err, tt.wantErr)
				}
			}
		})
	}
}

func TestEngineArg(t *testing.T) {
	tests := []struct{ in, want string }{
		{"toc", "--toc"},
		{"--toc", "--toc"},
		{"highlight-style=kate", "--highlight-style=kate"},
		{"-V", "-V"},
	}
	for _, tt := range tests {
		if got := EngineArg(tt.in); got != tt.want {
			t.Errorf("EngineArg(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
