// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package blocksync

import (
	"errors"
	"fmt"
	"time"

	"github.com/ChainSafe/gossamer-collator/dot/parachain/guard"
	"github.com/ChainSafe/gossamer-collator/dot/parachain/relayview"
	"github.com/jonboulle/clockwork"
)

// DefaultRecoveryInterval is the default interval between relay chain view
// checks while the coordinator is degraded.
const DefaultRecoveryInterval = 5 * time.Second

var (
	errNilValidator = errors.New("announcement validator is nil")
	errNilReporter  = errors.New("reporter is nil")
	errNilImporter  = errors.New("importer is nil")
	errNilFetcher   = errors.New("fetcher is nil")
	errNilStore     = errors.New("block store is nil")
)

// Config is the configuration of the Coordinator.
type Config struct {
	Guard guard.Config
	// InboxSize is the number of announcements queued per peer.
	InboxSize int
	// StallTimeout is the time after which a tracking peer without accepted
	// announcement becomes stalled.
	StallTimeout time.Duration
	// FetchTimeout bounds each block fetch.
	FetchTimeout time.Duration
	// AuthTableCapacity is the number of included candidates remembered.
	AuthTableCapacity int
	// MaxAncestry is the number of blocks requested when the parent of an
	// authorized head is not known.
	MaxAncestry uint32

	Validator  AnnouncementValidator
	Reporter   Reporter
	Importer   Importer
	Fetcher    Fetcher
	BlockStore BlockStore
	// Inclusions is optional. When set, inclusions are consumed from it
	// once the coordinator is started.
	Inclusions relayview.InclusionFeed
	// Announcer is optional. When set, attested announcements raising the
	// best authorized head are relayed to the peers once started.
	Announcer Announcer
	// RelayHealth is optional. When set, it is polled every RecoveryInterval
	// while the relay chain view is unavailable, so the degraded mode ends
	// even if peers only send unattested announcements.
	RelayHealth RelayHealth
	// RecoveryInterval defaults to DefaultRecoveryInterval.
	RecoveryInterval time.Duration
	// Clock defaults to the real clock.
	Clock clockwork.Clock
}

func (c *Config) validate() error {
	switch {
	case c.Validator == nil:
		return errNilValidator
	case c.Reporter == nil:
		return errNilReporter
	case c.Importer == nil:
		return errNilImporter
	case c.Fetcher == nil:
		return errNilFetcher
	case c.BlockStore == nil:
		return errNilStore
	case c.InboxSize <= 0:
		return fmt.Errorf("inbox size must be positive: %d", c.InboxSize)
	case c.StallTimeout <= 0:
		return fmt.Errorf("stall timeout must be positive: %s", c.StallTimeout)
	case c.FetchTimeout <= 0:
		return fmt.Errorf("fetch timeout must be positive: %s", c.FetchTimeout)
	case c.AuthTableCapacity <= 0:
		return fmt.Errorf("authorization table capacity must be positive: %d", c.AuthTableCapacity)
	case c.MaxAncestry == 0:
		return errors.New("max ancestry must be positive")
	case c.RecoveryInterval < 0:
		return fmt.Errorf("recovery interval cannot be negative: %s", c.RecoveryInterval)
	}

	if err := c.Guard.Validate(); err != nil {
		return fmt.Errorf("validating guard configuration: %w", err)
	}

	if c.RecoveryInterval == 0 {
		c.RecoveryInterval = DefaultRecoveryInterval
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return nil
}
