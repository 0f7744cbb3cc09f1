// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is the collator version, set at build time with
// -ldflags "-X github.com/ChainSafe/gossamer-collator/cmd/collator/commands.Version=v0.1.0"
var Version = "v0.1.0"

// FullVersion returns the version with the VCS revision when it is available.
func FullVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 8 {
			return Version + "-" + setting.Value[:8]
		}
	}
	return Version
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the collator version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "collator version", FullVersion())
			return err
		},
	}
}
