// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flextlabs/target-ldif/pkg/config"
	"github.com/flextlabs/target-ldif/pkg/logger"
	"github.com/flextlabs/target-ldif/pkg/target"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Consume Singer messages on stdin and write LDIF files",
	Long: `Run the target: read SCHEMA, RECORD and STATE messages from stdin,
write one LDIF file per stream under the configured output path, and emit
processed STATE messages on stdout.`,
	RunE:         runTarget,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("output_path", "", "Directory for LDIF output files")
	runCmd.Flags().String("dn_template", "", "DN template, e.g. uid={uid},ou=users,dc=example,dc=com")
	runCmd.Flags().Int("line_length", 0, "LDIF wrap width (>= 10)")
	runCmd.Flags().Bool("base64_encode", false, "Force base64 encoding for all values")
	runCmd.Flags().Bool("include_timestamps", true, "Write header/footer comments")
	runCmd.Flags().Int("batch_size", 0, "Records buffered per stream before draining")
}

func runTarget(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("invalid configuration")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t, err := target.New(cfg)
	if err != nil {
		return err
	}

	logger.Info().
		Str("output_path", cfg.OutputPath).
		Str("dn_template", cfg.DNTemplate).
		Int("line_length", cfg.Ldif.LineLength).
		Bool("base64_encode", cfg.Ldif.Base64Encode).
		Msg("target started")

	if err := t.Process(ctx, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		logger.Error().Err(err).Msg("target failed")
		return err
	}

	logger.Info().Msg("target finished")
	return nil
}

// loadConfig builds the config from file, environment and explicit CLI
// flags, in increasing precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	fl := NewFlagLoader(cmd)
	if v, ok := fl.String("output_path"); ok {
		cfg.OutputPath = v
	}
	if v, ok := fl.String("dn_template"); ok {
		cfg.DNTemplate = v
	}
	if v, ok := fl.Int("line_length"); ok {
		cfg.Ldif.LineLength = v
	}
	if v, ok := fl.Bool("base64_encode"); ok {
		cfg.Ldif.Base64Encode = v
	}
	if v, ok := fl.Bool("include_timestamps"); ok {
		cfg.Ldif.IncludeTimestamps = v
	}
	if v, ok := fl.Int("batch_size"); ok {
		cfg.BatchSize = v
	}

	return cfg, nil
}
