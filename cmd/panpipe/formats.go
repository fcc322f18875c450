// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/panpipe/internal/options"
	"github.com/pdiddy/panpipe/internal/route"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List known input and output formats",
	Long: `Formats prints the catalog of known engine formats. Output formats
include the canonical file extension used when naming scratch views;
formats outside the catalog still work, they just bypass validation.`,
	RunE: runFormats,
}

func runFormats(cmd *cobra.Command, args []string) error {
	catalog, err := options.Load()
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		type outputFormat struct {
			Name      string `json:"name"`
			Extension string `json:"extension"`
		}
		doc := struct {
			Inputs  []string       `json:"input_formats"`
			Outputs []outputFormat `json:"output_formats"`
		}{Inputs: catalog.InputFormats}
		for _, f := range catalog.OutputFormats {
			doc.Outputs = append(doc.Outputs, outputFormat{Name: f, Extension: route.ExtensionFor(f)})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	fmt.Println("Input formats:")
	for _, f := range catalog.InputFormats {
		fmt.Printf("  %s\n", f)
	}
	fmt.Println("\nOutput formats:")
	for _, f := range catalog.OutputFormats {
		fmt.Printf("  %-18s .%s\n", f, route.ExtensionFor(f))
	}
	return nil
}

func init() {
	formatsCmd.Flags().Bool("json", false, "output the catalog as JSON")

	rootCmd.AddCommand(formatsCmd)
}
