// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package dot

import (
	"context"
	"fmt"

	"github.com/ChainSafe/gossamer-collator/config"
	"github.com/ChainSafe/gossamer-collator/dot/parachain/announcement"
	"github.com/ChainSafe/gossamer-collator/dot/parachain/blockstore"
	"github.com/ChainSafe/gossamer-collator/dot/parachain/blocksync"
	"github.com/ChainSafe/gossamer-collator/dot/parachain/guard"
	"github.com/ChainSafe/gossamer-collator/dot/parachain/network"
	"github.com/ChainSafe/gossamer-collator/dot/parachain/relayview"
	"github.com/ChainSafe/gossamer-collator/dot/parachain/relayview/rpcview"
	"github.com/ChainSafe/gossamer-collator/internal/metrics"
	"github.com/ChainSafe/gossamer-collator/internal/pprof"
	"github.com/ChainSafe/gossamer-collator/lib/utils"
	"github.com/libp2p/go-libp2p/core/host"
)

// relayChainView is the relay chain view used by the node.
type relayChainView interface {
	relayview.View
	relayview.InclusionFeed
}

func createBlockStore(cfg *config.Config) (*blockstore.BlockStore, error) {
	store, err := blockstore.Open(utils.ExpandDir(cfg.BasePath), false)
	if err != nil {
		return nil, fmt.Errorf("opening block store: %w", err)
	}
	return store, nil
}

func createRelayView(cfg *config.Config) (relayChainView, error) {
	switch cfg.RelayMode {
	case config.RelayModeMemory:
		logger.Warn("using an in memory relay chain view without relay chain client, " +
			"attested announcements are tracked provisionally")
		view := relayview.NewMemoryView(cfg.Relay.PruneDepth)
		view.SetUnavailable(errRelayViewNotFed)
		return view, nil
	case config.RelayModeRPC:
		client, err := rpcview.Dial(cfg.Relay.RPCURL)
		if err != nil {
			return nil, err
		}
		view, err := rpcview.New(client, cfg.ParaID, cfg.Relay.PruneDepth, cfg.Relay.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating relay chain view: %w", err)
		}
		return view, nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownRelayMode, cfg.RelayMode)
	}
}

func createHost(cfg *config.Config) (host.Host, error) {
	key, err := network.LoadOrGenerateKey(utils.ExpandDir(cfg.BasePath), cfg.Network.NodeKeySeed)
	if err != nil {
		return nil, err
	}
	return network.NewHost(network.HostConfig{
		PrivateKey:      key,
		ListenAddresses: cfg.Network.ListenAddresses,
	})
}

func parseRoles(roles string) (network.Roles, error) {
	switch roles {
	case "full":
		return network.RoleFull, nil
	case "light":
		return network.RoleLight, nil
	case "authority":
		return network.RoleAuthority, nil
	default:
		return 0, fmt.Errorf("%w: %s", errUnknownRoles, roles)
	}
}

func createNetworkService(cfg *config.Config, h host.Host, store *blockstore.BlockStore) (
	*network.Service, error) {
	genesis, err := cfg.Network.Genesis()
	if err != nil {
		return nil, err
	}
	roles, err := parseRoles(cfg.Network.Roles)
	if err != nil {
		return nil, err
	}

	return network.NewService(network.Config{
		Host:             h,
		GenesisHash:      genesis,
		Roles:            roles,
		Bootnodes:        cfg.Network.Bootnodes,
		Blocks:           store,
		HandshakeTimeout: cfg.Network.HandshakeTimeout,
		RequestTimeout:   cfg.Network.RequestTimeout,
		MaxBlockFetch:    cfg.Network.MaxBlockFetch,
		MaxResponseSize:  cfg.Network.MaxResponseSize,
	})
}

func createValidator(cfg *config.Config, view relayview.View, reporter guard.EquivocationReporter) (
	*announcement.Validator, error) {
	detector, err := guard.NewEquivocationDetector(cfg.Guard.EquivocationCacheSize, reporter)
	if err != nil {
		return nil, fmt.Errorf("creating equivocation detector: %w", err)
	}

	return announcement.NewValidator(
		relayview.NewTimeoutView(view, cfg.Relay.Timeout),
		announcement.WithObserver(detector),
		announcement.WithMaxRelayParentAge(cfg.Relay.MaxRelayParentAge),
	), nil
}

func createCoordinator(cfg *config.Config, validator blocksync.AnnouncementValidator,
	net *network.Service, store *blockstore.BlockStore, relayView relayChainView) (
	*blocksync.Coordinator, error) {
	return blocksync.NewCoordinator(blocksync.Config{
		Guard: guard.Config{
			AnnouncementsPerSecond:    cfg.Guard.AnnouncementsPerSecond,
			AnnouncementBurst:         cfg.Guard.AnnouncementBurst,
			MaxUnauthorizedCandidates: cfg.Guard.MaxUnauthorizedCandidates,
			MaxConsecutiveRejections:  cfg.Guard.MaxConsecutiveRejections,
			EquivocationCacheSize:     cfg.Guard.EquivocationCacheSize,
		},
		InboxSize:         cfg.Sync.InboxSize,
		StallTimeout:      cfg.Sync.StallTimeout,
		FetchTimeout:      cfg.Network.FetchTimeout,
		AuthTableCapacity: cfg.Sync.AuthTableCapacity,
		MaxAncestry:       cfg.Sync.MaxAncestry,
		Validator:         validator,
		Reporter:          net,
		Importer:          store,
		Fetcher:           net,
		BlockStore:        store,
		Announcer:         net,
		Inclusions:        relayView,
		RelayHealth:       relayView,
	})
}

// metricsService runs the prometheus metrics server as a node service.
type metricsService struct {
	server *metrics.Server
}

func (m metricsService) Start(context.Context) error { return m.server.Start() }
func (m metricsService) Stop() error                 { return m.server.Stop() }

// pprofService runs the pprof server as a node service.
type pprofService struct {
	service *pprof.Service
}

func (p pprofService) Start(context.Context) error { return p.service.Start() }
func (p pprofService) Stop() error                 { return p.service.Stop() }
