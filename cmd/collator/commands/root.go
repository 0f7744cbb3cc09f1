// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"context"
	"fmt"
	"strings"

	cfg "github.com/ChainSafe/gossamer-collator/config"
	"github.com/ChainSafe/gossamer-collator/dot"
	"github.com/ChainSafe/gossamer-collator/internal/log"
	"github.com/ChainSafe/gossamer-collator/lib/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables overriding the configuration,
// for example COLLATOR_NETWORK_GENESIS_HASH.
const EnvPrefix = "COLLATOR"

var logger = log.NewFromGlobal(log.AddContext("pkg", "cmd"))

// ParseConfig parses the config from the configuration file, the environment
// and the command line flags
func ParseConfig(v *viper.Viper) (*cfg.Config, error) {
	config := cfg.DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.BasePath = utils.ExpandDir(config.BasePath)

	if err := config.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("error in config: %w", err)
	}
	return config, nil
}

// readConfigFile reads the TOML configuration file into v, if one is given.
func readConfigFile(v *viper.Viper, path string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return nil
}

// NewRootCommand creates the root command
func NewRootCommand() (*cobra.Command, error) {
	return newRootCommand(viper.New())
}

func newRootCommand(v *viper.Viper) (*cobra.Command, error) {
	var configFile string

	cmd := &cobra.Command{
		Use:   "collator",
		Short: "Parachain collator block announcement node",
		Long: `The collator node exchanges parachain block announcements with its peers,
checks their collation attestations against the relay chain and tracks the
best head every peer announced.
Usage:
	collator --config collator.toml
	collator --genesis-hash 0x91b1...90c3 --relay-mode memory --bootnodes /ip4/10.0.0.2/tcp/30333/p2p/12D3KooW...
	collator init --output collator.toml`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return readConfigFile(v, configFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := ParseConfig(v)
			if err != nil {
				return err
			}
			return execRoot(cmd.Context(), config)
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "TOML configuration file to load")
	if err := addRootFlags(v, cmd, cfg.DefaultConfig()); err != nil {
		return nil, err
	}

	cmd.AddCommand(newInitCommand(v), newVersionCommand())
	return cmd, nil
}

// addRootFlags adds the root flags to the command
func addRootFlags(v *viper.Viper, cmd *cobra.Command, defaults *cfg.Config) error {
	// Base Config
	if err := addStringFlagBindViper(v, cmd,
		"name",
		defaults.Name,
		"Name of the node",
		"name"); err != nil {
		return fmt.Errorf("failed to add --name flag: %w", err)
	}
	if err := addStringFlagBindViper(v, cmd,
		"base-path",
		defaults.BasePath,
		"Directory holding the node key and the block database",
		"base-path"); err != nil {
		return fmt.Errorf("failed to add --base-path flag: %w", err)
	}
	if err := addStringFlagBindViper(v, cmd,
		"log",
		defaults.LogLevel,
		"Global log level. Supports levels critical (silent), error, warn, info, debug and trace",
		"log-level"); err != nil {
		return fmt.Errorf("failed to add --log flag: %w", err)
	}
	if err := addStringFlagBindViper(v, cmd,
		"log-format",
		defaults.LogFormat,
		"Log format, console or json",
		"log-format"); err != nil {
		return fmt.Errorf("failed to add --log-format flag: %w", err)
	}
	if err := addUint32FlagBindViper(v, cmd,
		"para-id",
		defaults.ParaID,
		"Parachain id announcements are checked against",
		"para-id"); err != nil {
		return fmt.Errorf("failed to add --para-id flag: %w", err)
	}
	if err := addStringFlagBindViper(v, cmd,
		"relay-mode",
		string(defaults.RelayMode),
		"Relay chain view to use, rpc or memory",
		"relay-mode"); err != nil {
		return fmt.Errorf("failed to add --relay-mode flag: %w", err)
	}
	if err := addBoolFlagBindViper(v, cmd,
		"publish-metrics",
		defaults.PublishMetrics,
		"Publish metrics to prometheus",
		"publish-metrics"); err != nil {
		return fmt.Errorf("failed to add --publish-metrics flag: %w", err)
	}
	if err := addStringFlagBindViper(v, cmd,
		"metrics-address",
		defaults.MetricsAddress,
		"Listen address of the metric server",
		"metrics-address"); err != nil {
		return fmt.Errorf("failed to add --metrics-address flag: %w", err)
	}

	if err := addNetworkFlags(v, cmd, defaults.Network); err != nil {
		return fmt.Errorf("failed to add network flags: %w", err)
	}
	if err := addRelayFlags(v, cmd, defaults.Relay); err != nil {
		return fmt.Errorf("failed to add relay flags: %w", err)
	}
	if err := addGuardFlags(v, cmd, defaults.Guard); err != nil {
		return fmt.Errorf("failed to add guard flags: %w", err)
	}
	if err := addSyncFlags(v, cmd, defaults.Sync); err != nil {
		return fmt.Errorf("failed to add sync flags: %w", err)
	}

	// pprof Config
	if err := addBoolFlagBindViper(v, cmd,
		"pprof.enabled",
		defaults.Pprof.Enabled,
		"Enable the pprof server",
		"pprof.enabled"); err != nil {
		return fmt.Errorf("failed to add --pprof.enabled flag: %w", err)
	}
	if err := addStringFlagBindViper(v, cmd,
		"pprof.listening-address",
		defaults.Pprof.ListeningAddress,
		"Address to listen on for pprof",
		"pprof.listening-address"); err != nil {
		return fmt.Errorf("failed to add --pprof.listening-address flag: %w", err)
	}
	if err := addIntFlagBindViper(v, cmd,
		"pprof.block-profile-rate",
		defaults.Pprof.BlockProfileRate,
		"The frequency at which the Go runtime samples the state of goroutines to generate block profile information.",
		"pprof.block-profile-rate"); err != nil {
		return fmt.Errorf("failed to add --pprof.block-profile-rate flag: %w", err)
	}
	if err := addIntFlagBindViper(v, cmd,
		"pprof.mutex-profile-rate",
		defaults.Pprof.MutexProfileRate,
		"The frequency at which the Go runtime samples the state of mutexes to generate mutex profile information.",
		"pprof.mutex-profile-rate"); err != nil {
		return fmt.Errorf("failed to add --pprof.mutex-profile-rate flag: %w", err)
	}

	return nil
}

// addNetworkFlags adds network flags and binds to viper
func addNetworkFlags(v *viper.Viper, cmd *cobra.Command, defaults *cfg.NetworkConfig) error {
	if err := addStringSliceFlagBindViper(v, cmd,
		"listen-addresses",
		defaults.ListenAddresses,
		"Comma separated multiaddresses to listen on",
		"network.listen-addresses"); err != nil {
		return fmt.Errorf("failed to add --listen-addresses flag: %w", err)
	}
	if err := addStringFlagBindViper(v, cmd,
		"genesis-hash",
		defaults.GenesisHash,
		"Hex encoded parachain genesis hash",
		"network.genesis-hash"); err != nil {
		return fmt.Errorf("failed to add --genesis-hash flag: %w", err)
	}
	if err := addStringSliceFlagBindViper(v, cmd,
		"bootnodes",
		defaults.Bootnodes,
		"Comma separated peer multiaddresses to dial on start",
		"network.bootnodes"); err != nil {
		return fmt.Errorf("failed to add --bootnodes flag: %w", err)
	}
	if err := addStringFlagBindViper(v, cmd,
		"roles",
		defaults.Roles,
		"Roles advertised in the handshake, full, light or authority",
		"network.roles"); err != nil {
		return fmt.Errorf("failed to add --roles flag: %w", err)
	}
	if err := addInt64FlagBindViper(v, cmd,
		"node-key-seed",
		defaults.NodeKeySeed,
		"Deterministic node key seed, 0 loads or generates the node key file",
		"network.node-key-seed"); err != nil {
		return fmt.Errorf("failed to add --node-key-seed flag: %w", err)
	}
	if err := addDurationFlagBindViper(v, cmd,
		"handshake-timeout",
		defaults.HandshakeTimeout,
		"Timeout of the announcement stream handshake",
		"network.handshake-timeout"); err != nil {
		return fmt.Errorf("failed to add --handshake-timeout flag: %w", err)
	}
	if err := addDurationFlagBindViper(v, cmd,
		"request-timeout",
		defaults.RequestTimeout,
		"Timeout of a served block fetch request",
		"network.request-timeout"); err != nil {
		return fmt.Errorf("failed to add --request-timeout flag: %w", err)
	}
	if err := addDurationFlagBindViper(v, cmd,
		"fetch-timeout",
		defaults.FetchTimeout,
		"Timeout of a block fetch made to a peer",
		"network.fetch-timeout"); err != nil {
		return fmt.Errorf("failed to add --fetch-timeout flag: %w", err)
	}
	if err := addUint32FlagBindViper(v, cmd,
		"max-block-fetch",
		defaults.MaxBlockFetch,
		"Maximum number of blocks served for a single fetch request",
		"network.max-block-fetch"); err != nil {
		return fmt.Errorf("failed to add --max-block-fetch flag: %w", err)
	}
	if err := addIntFlagBindViper(v, cmd,
		"max-response-size",
		defaults.MaxResponseSize,
		"Maximum size in bytes of a block fetch response",
		"network.max-response-size"); err != nil {
		return fmt.Errorf("failed to add --max-response-size flag: %w", err)
	}
	return nil
}

// addRelayFlags adds relay chain view flags and binds to viper
func addRelayFlags(v *viper.Viper, cmd *cobra.Command, defaults *cfg.RelayConfig) error {
	if err := addStringFlagBindViper(v, cmd,
		"relay-rpc-url",
		defaults.RPCURL,
		"Websocket RPC endpoint of a relay chain node",
		"relay.rpc-url"); err != nil {
		return fmt.Errorf("failed to add --relay-rpc-url flag: %w", err)
	}
	if err := addDurationFlagBindViper(v, cmd,
		"relay-timeout",
		defaults.Timeout,
		"Timeout of a relay chain view query",
		"relay.timeout"); err != nil {
		return fmt.Errorf("failed to add --relay-timeout flag: %w", err)
	}
	if err := addUint32FlagBindViper(v, cmd,
		"relay-prune-depth",
		defaults.PruneDepth,
		"Number of finalized relay blocks kept in view",
		"relay.prune-depth"); err != nil {
		return fmt.Errorf("failed to add --relay-prune-depth flag: %w", err)
	}
	if err := addUint32FlagBindViper(v, cmd,
		"max-relay-parent-age",
		defaults.MaxRelayParentAge,
		"Maximum relay parent age in blocks behind the finalized relay block, 0 disables the check",
		"relay.max-relay-parent-age"); err != nil {
		return fmt.Errorf("failed to add --max-relay-parent-age flag: %w", err)
	}
	if err := addIntFlagBindViper(v, cmd,
		"relay-cache-size",
		defaults.CacheSize,
		"Number of relay chain query results cached",
		"relay.cache-size"); err != nil {
		return fmt.Errorf("failed to add --relay-cache-size flag: %w", err)
	}
	return nil
}

// addGuardFlags adds peer guard flags and binds to viper
func addGuardFlags(v *viper.Viper, cmd *cobra.Command, defaults *cfg.GuardConfig) error {
	if err := addFloat64FlagBindViper(v, cmd,
		"announcements-per-second",
		defaults.AnnouncementsPerSecond,
		"Announcements accepted per second from a single peer",
		"guard.announcements-per-second"); err != nil {
		return fmt.Errorf("failed to add --announcements-per-second flag: %w", err)
	}
	if err := addIntFlagBindViper(v, cmd,
		"announcement-burst",
		defaults.AnnouncementBurst,
		"Announcement burst accepted from a single peer",
		"guard.announcement-burst"); err != nil {
		return fmt.Errorf("failed to add --announcement-burst flag: %w", err)
	}
	if err := addIntFlagBindViper(v, cmd,
		"max-unauthorized-candidates",
		defaults.MaxUnauthorizedCandidates,
		"Unattested candidates remembered per peer",
		"guard.max-unauthorized-candidates"); err != nil {
		return fmt.Errorf("failed to add --max-unauthorized-candidates flag: %w", err)
	}
	if err := addUint32FlagBindViper(v, cmd,
		"max-consecutive-rejections",
		defaults.MaxConsecutiveRejections,
		"Consecutive rejected announcements after which a peer is reported",
		"guard.max-consecutive-rejections"); err != nil {
		return fmt.Errorf("failed to add --max-consecutive-rejections flag: %w", err)
	}
	if err := addIntFlagBindViper(v, cmd,
		"equivocation-cache-size",
		defaults.EquivocationCacheSize,
		"Collator and relay parent pairs remembered to detect equivocations",
		"guard.equivocation-cache-size"); err != nil {
		return fmt.Errorf("failed to add --equivocation-cache-size flag: %w", err)
	}
	return nil
}

// addSyncFlags adds sync coordinator flags and binds to viper
func addSyncFlags(v *viper.Viper, cmd *cobra.Command, defaults *cfg.SyncConfig) error {
	if err := addIntFlagBindViper(v, cmd,
		"inbox-size",
		defaults.InboxSize,
		"Announcements queued per peer",
		"sync.inbox-size"); err != nil {
		return fmt.Errorf("failed to add --inbox-size flag: %w", err)
	}
	if err := addDurationFlagBindViper(v, cmd,
		"stall-timeout",
		defaults.StallTimeout,
		"Time after which a tracking peer without accepted announcement is stalled",
		"sync.stall-timeout"); err != nil {
		return fmt.Errorf("failed to add --stall-timeout flag: %w", err)
	}
	if err := addIntFlagBindViper(v, cmd,
		"auth-table-capacity",
		defaults.AuthTableCapacity,
		"Included candidates remembered for announcement upgrades",
		"sync.auth-table-capacity"); err != nil {
		return fmt.Errorf("failed to add --auth-table-capacity flag: %w", err)
	}
	if err := addUint32FlagBindViper(v, cmd,
		"max-ancestry",
		defaults.MaxAncestry,
		"Number of blocks requested when the parent of an authorized head is unknown",
		"sync.max-ancestry"); err != nil {
		return fmt.Errorf("failed to add --max-ancestry flag: %w", err)
	}
	return nil
}

func execRoot(ctx context.Context, config *cfg.Config) error {
	level, err := log.ParseLevel(config.LogLevel)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	format, err := log.ParseFormat(config.LogFormat)
	if err != nil {
		return fmt.Errorf("parsing log format: %w", err)
	}
	log.Patch(log.SetLevel(level), log.SetFormat(format))

	node, err := dot.NewNode(config)
	if err != nil {
		logger.Errorf("failed to create node services: %s", err)
		return err
	}

	logger.Info("starting node " + node.Name + "...")

	if err := node.Start(ctx); err != nil {
		return fmt.Errorf("failed to start node: %w", err)
	}

	return nil
}
