// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

// Package cmd provides the CLI commands for target-ldif.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "target-ldif",
	Short: "target-ldif - A Singer target that writes LDIF files",
	Long: `target-ldif is a Singer protocol target: it consumes SCHEMA, RECORD and
STATE messages on stdin and serializes records into RFC 2849 LDIF files,
one file per stream. Records are mapped to directory entries via a
configurable DN template and attribute mapping.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to JSON configuration file")
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
