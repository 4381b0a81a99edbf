package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/itiky/notes-sync/config"
)

const FlagForce = "force"

// GetConfigCmd returns config management commands.
func GetConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	cmd.AddCommand(GetConfigInitCmd())

	return cmd
}

// GetConfigInitCmd returns the default config file write command.
func GetConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config to the --config path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Parse inputs
			cfgPath, err := cmd.Flags().GetString(FlagConfig)
			if err != nil {
				return fmt.Errorf("%s flag: %w", FlagConfig, err)
			}
			force, err := cmd.Flags().GetBool(FlagForce)
			if err != nil {
				return fmt.Errorf("%s flag: %w", FlagForce, err)
			}

			cfg, err := config.Default()
			if err != nil {
				return err
			}
			if cfg.File, err = filepath.Abs(cfgPath); err != nil {
				return fmt.Errorf("config path: %w", err)
			}

			if _, err := os.Stat(cfg.File); err == nil && !force {
				return fmt.Errorf("config file exists: %s (use --%s to overwrite)", cfg.File, FlagForce)
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			cmd.Println(cfg.File)

			return nil
		},
	}
	cmd.Flags().Bool(FlagForce, false, "(optional) overwrite an existing file")

	return cmd
}

func init() {
	rootCmd.AddCommand(GetConfigCmd())
}
