// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

// This file contains reusable helpers for configuration loading with CLI
// flag precedence: a flag the user explicitly set overrides the value from
// the config file or environment.
package cmd

import "github.com/spf13/cobra"

// FlagLoader reads flag values only when they were explicitly set.
type FlagLoader struct {
	cmd *cobra.Command
}

// NewFlagLoader creates a FlagLoader for the given cobra command.
func NewFlagLoader(cmd *cobra.Command) *FlagLoader {
	return &FlagLoader{cmd: cmd}
}

// String returns the CLI flag value and true if explicitly set.
func (f *FlagLoader) String(flagName string) (string, bool) {
	if f.cmd.Flags().Changed(flagName) {
		val, _ := f.cmd.Flags().GetString(flagName)
		return val, true
	}
	return "", false
}

// Int returns the CLI flag value and true if explicitly set.
func (f *FlagLoader) Int(flagName string) (int, bool) {
	if f.cmd.Flags().Changed(flagName) {
		val, _ := f.cmd.Flags().GetInt(flagName)
		return val, true
	}
	return 0, false
}

// Bool returns the CLI flag value and true if explicitly set.
func (f *FlagLoader) Bool(flagName string) (bool, bool) {
	if f.cmd.Flags().Changed(flagName) {
		val, _ := f.cmd.Flags().GetBool(flagName)
		return val, true
	}
	return false, false
}
