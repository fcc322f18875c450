// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/panpipe/internal/engine"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the conversion engine is installed and runnable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		eng, err := engine.Detect(cfg.Engine.Binary)
		if err != nil {
			return err
		}
		version, err := eng.Version()
		if err != nil {
			return err
		}
		fmt.Printf("engine:  %s\n", eng.Path())
		fmt.Printf("version: %s\n", version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
