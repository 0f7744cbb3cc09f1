// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ChainSafe/gossamer-collator/internal/log"
	"github.com/ChainSafe/gossamer-collator/lib/common"
	"github.com/ChainSafe/gossamer-collator/lib/utils"
)

const (
	// DefaultName is the default node name.
	DefaultName = "collator"
	// DefaultLogLevel is the default global log level.
	DefaultLogLevel = "info"
	// DefaultLogFormat is the default log format.
	DefaultLogFormat = "console"
	// DefaultMetricsAddress is the default metrics server listening address.
	DefaultMetricsAddress = "localhost:9876"
	// DefaultParaID is the default parachain id.
	DefaultParaID uint32 = 1000
	// DefaultPprofAddress is the default pprof server listening address.
	DefaultPprofAddress = "localhost:6060"
)

// RelayMode selects the relay chain view implementation.
type RelayMode string

const (
	// RelayModeRPC reads the relay chain through a relay node RPC endpoint.
	RelayModeRPC RelayMode = "rpc"
	// RelayModeMemory keeps an in memory relay chain view, fed by the node itself.
	RelayModeMemory RelayMode = "memory"
)

// Network defaults
const (
	DefaultListenAddress           = "/ip4/0.0.0.0/tcp/30333"
	DefaultHandshakeTimeout        = 10 * time.Second
	DefaultRequestTimeout          = 20 * time.Second
	DefaultFetchTimeout            = 20 * time.Second
	DefaultMaxBlockFetch    uint32 = 64
	DefaultMaxResponseSize         = 1 << 26
	DefaultRoles                   = "full"
)

// Relay defaults
const (
	DefaultRelayRPCURL              = "ws://localhost:9944"
	DefaultRelayViewTimeout         = 2 * time.Second
	DefaultPruneDepth        uint32 = 256
	DefaultMaxRelayParentAge uint32 = 0
	DefaultRelayCacheSize           = 1024
)

// Guard defaults
const (
	DefaultAnnouncementsPerSecond           = 10
	DefaultAnnouncementBurst                = 20
	DefaultMaxUnauthorizedCandidates        = 16
	DefaultMaxConsecutiveRejections  uint32 = 8
	DefaultEquivocationCacheSize            = 4096
)

// Sync defaults
const (
	DefaultInboxSize                = 64
	DefaultStallTimeout             = 30 * time.Second
	DefaultAuthTableCapacity        = 4096
	DefaultMaxAncestry       uint32 = 64
)

// Config is the collator node configuration.
type Config struct {
	BaseConfig `mapstructure:",squash"`
	Network    *NetworkConfig `mapstructure:"network"`
	Relay      *RelayConfig   `mapstructure:"relay"`
	Guard      *GuardConfig   `mapstructure:"guard"`
	Sync       *SyncConfig    `mapstructure:"sync"`
	Pprof      *PprofConfig   `mapstructure:"pprof"`
}

// BaseConfig is the base node configuration.
type BaseConfig struct {
	Name           string    `mapstructure:"name,omitempty"`
	BasePath       string    `mapstructure:"base-path,omitempty"`
	LogLevel       string    `mapstructure:"log-level,omitempty"`
	LogFormat      string    `mapstructure:"log-format,omitempty"`
	ParaID         uint32    `mapstructure:"para-id"`
	RelayMode      RelayMode `mapstructure:"relay-mode,omitempty"`
	PublishMetrics bool      `mapstructure:"publish-metrics"`
	MetricsAddress string    `mapstructure:"metrics-address,omitempty"`
}

// NetworkConfig is the peer to peer network configuration.
type NetworkConfig struct {
	ListenAddresses []string `mapstructure:"listen-addresses,omitempty"`
	// GenesisHash is the hex encoded parachain genesis hash.
	GenesisHash      string        `mapstructure:"genesis-hash,omitempty"`
	Bootnodes        []string      `mapstructure:"bootnodes,omitempty"`
	Roles            string        `mapstructure:"roles,omitempty"`
	NodeKeySeed      int64         `mapstructure:"node-key-seed"`
	HandshakeTimeout time.Duration `mapstructure:"handshake-timeout,omitempty"`
	RequestTimeout   time.Duration `mapstructure:"request-timeout,omitempty"`
	FetchTimeout     time.Duration `mapstructure:"fetch-timeout,omitempty"`
	MaxBlockFetch    uint32        `mapstructure:"max-block-fetch,omitempty"`
	MaxResponseSize  int           `mapstructure:"max-response-size,omitempty"`
}

// RelayConfig is the relay chain view configuration.
type RelayConfig struct {
	RPCURL  string        `mapstructure:"rpc-url,omitempty"`
	Timeout time.Duration `mapstructure:"timeout,omitempty"`
	// PruneDepth is the number of finalized relay blocks kept in view.
	PruneDepth uint32 `mapstructure:"prune-depth,omitempty"`
	// MaxRelayParentAge rejects announcements whose relay parent is older than
	// this many blocks behind the best finalized relay block. Zero disables it.
	MaxRelayParentAge uint32 `mapstructure:"max-relay-parent-age"`
	CacheSize         int    `mapstructure:"cache-size,omitempty"`
}

// GuardConfig is the per peer spam guard configuration.
type GuardConfig struct {
	AnnouncementsPerSecond    float64 `mapstructure:"announcements-per-second,omitempty"`
	AnnouncementBurst         int     `mapstructure:"announcement-burst,omitempty"`
	MaxUnauthorizedCandidates int     `mapstructure:"max-unauthorized-candidates,omitempty"`
	MaxConsecutiveRejections  uint32  `mapstructure:"max-consecutive-rejections,omitempty"`
	EquivocationCacheSize     int     `mapstructure:"equivocation-cache-size,omitempty"`
}

// SyncConfig is the sync coordinator configuration.
type SyncConfig struct {
	InboxSize         int           `mapstructure:"inbox-size,omitempty"`
	StallTimeout      time.Duration `mapstructure:"stall-timeout,omitempty"`
	AuthTableCapacity int           `mapstructure:"auth-table-capacity,omitempty"`
	MaxAncestry       uint32        `mapstructure:"max-ancestry,omitempty"`
}

// PprofConfig is the pprof server configuration.
type PprofConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	ListeningAddress string `mapstructure:"listening-address,omitempty"`
	BlockProfileRate int    `mapstructure:"block-profile-rate"`
	MutexProfileRate int    `mapstructure:"mutex-profile-rate"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseConfig: BaseConfig{
			Name:           DefaultName,
			BasePath:       utils.BasePath(DefaultName),
			LogLevel:       DefaultLogLevel,
			LogFormat:      DefaultLogFormat,
			ParaID:         DefaultParaID,
			RelayMode:      RelayModeRPC,
			PublishMetrics: true,
			MetricsAddress: DefaultMetricsAddress,
		},
		Network: &NetworkConfig{
			ListenAddresses:  []string{DefaultListenAddress},
			Roles:            DefaultRoles,
			HandshakeTimeout: DefaultHandshakeTimeout,
			RequestTimeout:   DefaultRequestTimeout,
			FetchTimeout:     DefaultFetchTimeout,
			MaxBlockFetch:    DefaultMaxBlockFetch,
			MaxResponseSize:  DefaultMaxResponseSize,
		},
		Relay: &RelayConfig{
			RPCURL:            DefaultRelayRPCURL,
			Timeout:           DefaultRelayViewTimeout,
			PruneDepth:        DefaultPruneDepth,
			MaxRelayParentAge: DefaultMaxRelayParentAge,
			CacheSize:         DefaultRelayCacheSize,
		},
		Guard: &GuardConfig{
			AnnouncementsPerSecond:    DefaultAnnouncementsPerSecond,
			AnnouncementBurst:         DefaultAnnouncementBurst,
			MaxUnauthorizedCandidates: DefaultMaxUnauthorizedCandidates,
			MaxConsecutiveRejections:  DefaultMaxConsecutiveRejections,
			EquivocationCacheSize:     DefaultEquivocationCacheSize,
		},
		Sync: &SyncConfig{
			InboxSize:         DefaultInboxSize,
			StallTimeout:      DefaultStallTimeout,
			AuthTableCapacity: DefaultAuthTableCapacity,
			MaxAncestry:       DefaultMaxAncestry,
		},
		Pprof: &PprofConfig{
			ListeningAddress: DefaultPprofAddress,
			BlockProfileRate: 0,
			MutexProfileRate: 0,
		},
	}
}

// ValidateBasic performs basic validation on the configuration.
func (c *Config) ValidateBasic() error {
	if err := c.BaseConfig.ValidateBasic(); err != nil {
		return fmt.Errorf("base config: %w", err)
	}
	if c.Network == nil || c.Relay == nil || c.Guard == nil || c.Sync == nil || c.Pprof == nil {
		return errors.New("missing configuration section")
	}
	if err := c.Network.ValidateBasic(); err != nil {
		return fmt.Errorf("network config: %w", err)
	}
	if err := c.Relay.ValidateBasic(c.RelayMode); err != nil {
		return fmt.Errorf("relay config: %w", err)
	}
	if err := c.Guard.ValidateBasic(); err != nil {
		return fmt.Errorf("guard config: %w", err)
	}
	if err := c.Sync.ValidateBasic(); err != nil {
		return fmt.Errorf("sync config: %w", err)
	}
	if err := c.Pprof.ValidateBasic(); err != nil {
		return fmt.Errorf("pprof config: %w", err)
	}
	return nil
}

// ValidateBasic performs basic validation on the base configuration.
func (b *BaseConfig) ValidateBasic() error {
	if b.BasePath == "" {
		return errors.New("base-path must be set")
	}
	if _, err := log.ParseLevel(b.LogLevel); err != nil {
		return fmt.Errorf("log-level: %w", err)
	}
	if _, err := log.ParseFormat(b.LogFormat); err != nil {
		return fmt.Errorf("log-format: %w", err)
	}
	switch b.RelayMode {
	case RelayModeRPC, RelayModeMemory:
	default:
		return fmt.Errorf("relay-mode must be %q or %q, got %q", RelayModeRPC, RelayModeMemory, b.RelayMode)
	}
	if b.PublishMetrics && b.MetricsAddress == "" {
		return errors.New("metrics-address must be set when publishing metrics")
	}
	return nil
}

// ValidateBasic performs basic validation on the network configuration.
func (n *NetworkConfig) ValidateBasic() error {
	if len(n.ListenAddresses) == 0 {
		return errors.New("at least one listen address must be set")
	}
	if _, err := n.Genesis(); err != nil {
		return err
	}
	switch n.Roles {
	case "full", "light", "authority":
	default:
		return fmt.Errorf("roles must be one of full, light or authority, got %q", n.Roles)
	}
	if n.HandshakeTimeout <= 0 || n.RequestTimeout <= 0 || n.FetchTimeout <= 0 {
		return errors.New("network timeouts must be positive")
	}
	if n.MaxBlockFetch == 0 {
		return errors.New("max-block-fetch must be positive")
	}
	if n.MaxResponseSize <= 0 {
		return errors.New("max-response-size must be positive")
	}
	return nil
}

// Genesis returns the decoded genesis hash.
func (n *NetworkConfig) Genesis() (common.Hash, error) {
	if n.GenesisHash == "" {
		return common.Hash{}, errors.New("genesis-hash must be set")
	}
	hash, err := common.HexToHash(n.GenesisHash)
	if err != nil {
		return common.Hash{}, fmt.Errorf("genesis-hash: %w", err)
	}
	return hash, nil
}

// ValidateBasic performs basic validation on the relay configuration.
func (r *RelayConfig) ValidateBasic(mode RelayMode) error {
	if mode == RelayModeRPC && r.RPCURL == "" {
		return errors.New("rpc-url must be set in rpc relay mode")
	}
	if r.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if r.PruneDepth == 0 {
		return errors.New("prune-depth must be positive")
	}
	if r.CacheSize <= 0 {
		return errors.New("cache-size must be positive")
	}
	return nil
}

// ValidateBasic performs basic validation on the guard configuration.
func (g *GuardConfig) ValidateBasic() error {
	switch {
	case g.AnnouncementsPerSecond <= 0:
		return errors.New("announcements-per-second must be positive")
	case g.AnnouncementBurst <= 0:
		return errors.New("announcement-burst must be positive")
	case g.MaxUnauthorizedCandidates <= 0:
		return errors.New("max-unauthorized-candidates must be positive")
	case g.MaxConsecutiveRejections == 0:
		return errors.New("max-consecutive-rejections must be positive")
	case g.EquivocationCacheSize <= 0:
		return errors.New("equivocation-cache-size must be positive")
	}
	return nil
}

// ValidateBasic performs basic validation on the sync configuration.
func (s *SyncConfig) ValidateBasic() error {
	switch {
	case s.InboxSize <= 0:
		return errors.New("inbox-size must be positive")
	case s.StallTimeout <= 0:
		return errors.New("stall-timeout must be positive")
	case s.AuthTableCapacity <= 0:
		return errors.New("auth-table-capacity must be positive")
	case s.MaxAncestry == 0:
		return errors.New("max-ancestry must be positive")
	}
	return nil
}

// ValidateBasic performs basic validation on the pprof configuration.
func (p *PprofConfig) ValidateBasic() error {
	if p.Enabled && p.ListeningAddress == "" {
		return errors.New("listening-address must be set when pprof is enabled")
	}
	return nil
}
