// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package dot

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ChainSafe/gossamer-collator/config"
	"github.com/ChainSafe/gossamer-collator/dot/parachain/blockstore"
	"github.com/ChainSafe/gossamer-collator/dot/parachain/blocksync"
	"github.com/ChainSafe/gossamer-collator/dot/parachain/network"
	"github.com/ChainSafe/gossamer-collator/internal/log"
	"github.com/ChainSafe/gossamer-collator/internal/metrics"
	"github.com/ChainSafe/gossamer-collator/internal/pprof"
	"github.com/ChainSafe/gossamer-collator/lib/services"
	"github.com/libp2p/go-libp2p/core/host"
	"golang.org/x/sync/errgroup"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "dot"))

var (
	errUnknownRelayMode = errors.New("unknown relay mode")
	errUnknownRoles     = errors.New("unknown roles")
	errRelayViewNotFed  = errors.New("in memory relay chain view is not fed by a relay chain client")
)

// Node is a parachain collator node tracking the heads announced by its peers.
type Node struct {
	Name     string
	Services *services.ServiceRegistry

	host        host.Host
	store       *blockstore.BlockStore
	relayView   relayChainView
	network     *network.Service
	coordinator *blocksync.Coordinator

	started  chan struct{}
	stopOnce sync.Once
	stopErr  error
}

// NewNode creates the node services from the configuration.
func NewNode(cfg *config.Config) (_ *Node, err error) {
	if err := cfg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	logger.Infof("🕸️ initialising node %s for parachain %d...", cfg.Name, cfg.ParaID)

	node := &Node{
		Name:     cfg.Name,
		Services: services.NewServiceRegistry(logger),
		started:  make(chan struct{}),
	}

	g := new(errgroup.Group)
	g.Go(func() (err error) {
		node.store, err = createBlockStore(cfg)
		return err
	})
	g.Go(func() (err error) {
		node.relayView, err = createRelayView(cfg)
		return err
	})
	g.Go(func() (err error) {
		node.host, err = createHost(cfg)
		return err
	})
	defer func() {
		if err != nil {
			node.close()
		}
	}()
	if err = g.Wait(); err != nil {
		return nil, err
	}

	node.network, err = createNetworkService(cfg, node.host, node.store)
	if err != nil {
		return nil, fmt.Errorf("creating network service: %w", err)
	}

	validator, err := createValidator(cfg, node.relayView, node.network)
	if err != nil {
		return nil, err
	}

	node.coordinator, err = createCoordinator(cfg, validator, node.network, node.store, node.relayView)
	if err != nil {
		return nil, fmt.Errorf("creating coordinator: %w", err)
	}
	node.network.SetAnnouncementHandler(node.coordinator)

	if cfg.PublishMetrics {
		node.Services.RegisterService("metrics", metricsService{server: metrics.NewServer(cfg.MetricsAddress)})
	}
	if cfg.Pprof.Enabled {
		node.Services.RegisterService("pprof", pprofService{service: pprof.NewService(pprof.Settings{
			ListeningAddress: cfg.Pprof.ListeningAddress,
			BlockProfileRate: cfg.Pprof.BlockProfileRate,
			MutexProfileRate: cfg.Pprof.MutexProfileRate,
		}, logger)})
	}
	node.Services.RegisterService("blocksync", node.coordinator)
	node.Services.RegisterService("network", node.network)

	return node, nil
}

// Start starts the node services and blocks until the context is cancelled
// or an interrupt signal is received, after which the node is stopped.
func (n *Node) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("🕸️ starting node services...")
	if err := n.Services.StartAll(ctx); err != nil {
		n.close()
		return fmt.Errorf("starting node: %w", err)
	}
	close(n.started)

	<-ctx.Done()
	logger.Info("shutting down...")
	return n.Stop()
}

// Started is closed once all the node services are started.
func (n *Node) Started() <-chan struct{} {
	return n.started
}

// Stop stops the node services and closes the host and the block store.
func (n *Node) Stop() error {
	n.stopOnce.Do(func() {
		n.stopErr = errors.Join(n.Services.StopAll(), n.closeResources())
	})
	return n.stopErr
}

func (n *Node) close() {
	if err := n.closeResources(); err != nil {
		logger.Errorf("closing node: %s", err)
	}
}

func (n *Node) closeResources() error {
	var errs []error
	if n.host != nil {
		if err := n.host.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing host: %w", err))
		}
		n.host = nil
	}
	if n.store != nil {
		if err := n.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing block store: %w", err))
		}
		n.store = nil
	}
	return errors.Join(errs...)
}

// Coordinator returns the announcement coordinator.
func (n *Node) Coordinator() *blocksync.Coordinator {
	return n.coordinator
}

// Network returns the network service.
func (n *Node) Network() *network.Service {
	return n.network
}
