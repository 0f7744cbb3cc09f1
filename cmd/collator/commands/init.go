// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// DefaultConfigFile is the default file written by the init command.
const DefaultConfigFile = "collator.toml"

func newInitCommand(v *viper.Viper) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the configuration to a TOML file",
		Long: `The init command writes the configuration resulting from the defaults,
the loaded configuration file, the environment and the flags to a TOML file.
Usage:
	collator init --output collator.toml --genesis-hash 0x91b1...90c3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := v.SafeWriteConfigAs(output); err != nil {
				return fmt.Errorf("writing config file: %w", err)
			}
			logger.Infof("configuration written to %s", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", DefaultConfigFile, "File to write the configuration to")

	return cmd
}
