// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdiddy/panpipe/internal/engine"
	"github.com/pdiddy/panpipe/internal/fetch"
	"github.com/pdiddy/panpipe/internal/fsutil"
	"github.com/pdiddy/panpipe/internal/history"
	"github.com/pdiddy/panpipe/internal/options"
	"github.com/pdiddy/panpipe/internal/route"
	"github.com/pdiddy/panpipe/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [sources...]",
	Short: "Run the conversion engine over files, URLs, or standard input",
	Long: `Convert dispatches the engine over the given sources. Sources are
file paths, http(s) URLs (downloaded first), or "-" for standard input;
with no sources, standard input is read.

Formats and pass-through flags are validated against the option catalog
before anything is spawned. With --output the produced file is opened on
success; otherwise the captured output goes into a scratch view under
the scratch directory. The exit code mirrors the engine's exit code.`,
	RunE:         runConvert,
	SilenceUsage: true,
}

func runConvert(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	output, _ := cmd.Flags().GetString("output")
	engineFlags, _ := cmd.Flags().GetStringArray("engine-flag")
	bufferName, _ := cmd.Flags().GetString("buffer-name")
	useLast, _ := cmd.Flags().GetBool("use-last")
	noHistory, _ := cmd.Flags().GetBool("no-history")
	openOutput, _ := cmd.Flags().GetBool("open")

	cfg := loadConfig()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	catalog, err := options.Load()
	if err != nil {
		return err
	}

	// History is a convenience, not a dependency: convert keeps working
	// when the store cannot be opened.
	var store *history.Store
	if !noHistory {
		st, err := history.NewStore(cfg.History)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		} else {
			store = st
			defer store.Close()
		}
	}

	if useLast && store != nil {
		lastFrom, lastTo, _, ok, err := store.LastUsed(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		} else if ok {
			if from == "" {
				from = lastFrom
			}
			if to == "" {
				to = lastTo
			}
		}
	}

	if to == "" && output == "" {
		return fmt.Errorf("target format required: pass --to or --output")
	}
	if err := catalog.ValidateFormats(from, to); err != nil {
		return err
	}

	var passThrough []string
	for _, spec := range engineFlags {
		if err := catalog.ValidateFlag(spec); err != nil {
			if !errors.Is(err, options.ErrUnknownFlag) {
				return err
			}
			fmt.Fprintf(os.Stderr, "notice: %v, passing through unvalidated\n", err)
		}
		passThrough = append(passThrough, options.EngineArg(spec))
	}

	src, inputs, err := buildSource(ctx, cmd, args, cfg, bufferName)
	if err != nil {
		return err
	}

	// Never clobber an existing file; renaming is a notice, not an error.
	if output != "" {
		if next := fsutil.NextAvailableName(output, cfg.Convert.Separator); next != output {
			fmt.Fprintf(os.Stderr, "notice: %s exists, writing %s instead\n", output, next)
			output = next
		}
	}

	engineArgs := append([]string{}, cfg.Engine.DefaultFlags...)
	if from != "" {
		engineArgs = append(engineArgs, "-f", from)
	}
	if to != "" {
		engineArgs = append(engineArgs, "-t", to)
	}
	engineArgs = append(engineArgs, passThrough...)
	if output != "" {
		engineArgs = append(engineArgs, "-o", output)
	}
	if src.Kind == types.SourceFiles {
		engineArgs = append(engineArgs, src.Paths...)
	}

	inv := types.Invocation{
		ID:         uuid.NewString(),
		Args:       engineArgs,
		Inputs:     inputs,
		Source:     src,
		FromFormat: from,
		ToFormat:   to,
		OutputPath: output,
		CreatedAt:  time.Now().UTC(),
	}

	eng, err := engine.Detect(cfg.Engine.Binary)
	if err != nil {
		return err
	}
	handle, err := eng.Dispatch(inv)
	if err != nil {
		return err
	}
	res := handle.Wait()

	presenter := &route.FilePresenter{
		Dir: cfg.Convert.ScratchDir,
		Sep: cfg.Convert.Separator,
		Out: os.Stdout,
		Err: os.Stderr,
	}
	if openOutput {
		presenter.Opener = openInEditor
	}
	outcome, presentErr := route.Deliver(res, presenter, os.Stderr)

	if store != nil {
		if err := store.Record(ctx, history.FromResult(res, outcome)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: recording history: %v\n", err)
		}
	}
	if presentErr != nil {
		return presentErr
	}
	if res.ExitCode != 0 {
		return &engine.ExitError{Code: res.ExitCode}
	}
	return res.Err
}

// buildSource decides the input variant once: a buffer read from stdin,
// or a list of local paths with any remote sources fetched first.
func buildSource(ctx context.Context, cmd *cobra.Command, args []string, cfg types.Config, bufferName string) (types.Source, []string, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return types.Source{}, nil, fmt.Errorf("reading standard input: %w", err)
		}
		name := bufferName
		if name == "" {
			name = "stdin"
		}
		return types.Source{Kind: types.SourceBuffer, Name: name}, []string{string(data)}, nil
	}

	client := &http.Client{Timeout: cfg.Fetch.Timeout}
	fetchDir := filepath.Join(cfg.Convert.ScratchDir, "fetched")
	paths, err := fetch.FetchAll(ctx, client, args, fetchDir, cfg.Fetch, os.Stderr)
	if err != nil {
		return types.Source{}, nil, err
	}
	return types.Source{Kind: types.SourceFiles, Paths: paths}, nil, nil
}

// openInEditor hands a produced output file to $EDITOR, falling back to
// announcing the path when none is set.
func openInEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		fmt.Printf("output written to %s\n", path)
		return nil
	}
	c := exec.Command(editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

func init() {
	convertCmd.Flags().StringP("from", "f", "", "input format (default: engine infers from extension)")
	convertCmd.Flags().StringP("to", "t", "", "output format")
	convertCmd.Flags().StringP("output", "o", "", "output file path (collision-suffixed if taken)")
	convertCmd.Flags().StringArray("engine-flag", nil, "pass-through engine flag, e.g. --engine-flag toc --engine-flag highlight-style=kate (repeatable)")
	convertCmd.Flags().String("buffer-name", "", "name for the stdin buffer, used when naming scratch views")
	convertCmd.Flags().Bool("use-last", false, "default missing formats from the last successful invocation")
	convertCmd.Flags().Bool("no-history", false, "do not record this invocation in the history database")
	convertCmd.Flags().Bool("open", false, "open a produced output file in $EDITOR")

	rootCmd.AddCommand(convertCmd)
}
