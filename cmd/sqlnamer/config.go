package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sqlnamer/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check a config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init <file>",
		Short: "Write a config file with the default settings",
		Long: `Write the default settings to <file>. The format follows the
extension: .json, .yaml, .yml or .toml.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	validateCmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a config file and list any problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return &exitError{code: 1, err: err}
			}
			result := config.ValidateConfig(cfg)
			for _, w := range result.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s: %s\n", w.Field, w.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(initCmd, validateCmd)
	return cmd
}
