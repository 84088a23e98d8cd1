// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the target configuration",
	Long: `Load the configuration and check the rules that would be fatal at
startup: output path, DN template placeholders and rendered DN syntax, and
LDIF format options.`,
	RunE:         runValidate,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().String("output_path", "", "Directory for LDIF output files")
	validateCmd.Flags().String("dn_template", "", "DN template to validate")
	validateCmd.Flags().Int("line_length", 0, "LDIF wrap width (>= 10)")
	validateCmd.Flags().Bool("base64_encode", false, "Force base64 encoding for all values")
	validateCmd.Flags().Bool("include_timestamps", true, "Write header/footer comments")
	validateCmd.Flags().Int("batch_size", 0, "Records buffered per stream before draining")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	fmt.Printf("configuration OK\n")
	fmt.Printf("  output_path:  %s\n", cfg.OutputPath)
	fmt.Printf("  dn_template:  %s\n", cfg.DNTemplate)
	fmt.Printf("  line_length:  %d\n", cfg.Ldif.LineLength)
	fmt.Printf("  batch_size:   %d\n", cfg.BatchSize)
	return nil
}
