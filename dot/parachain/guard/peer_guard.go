// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package guard

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrInvalidRate  = errors.New("announcement rate must be positive")
	ErrInvalidBurst = errors.New("announcement burst must be positive")
)

// Config holds the per peer bounds enforced by the guard.
type Config struct {
	// AnnouncementsPerSecond is the sustained rate of announcements accepted per peer.
	AnnouncementsPerSecond float64
	// AnnouncementBurst is the number of announcements a peer may send at once.
	AnnouncementBurst int
	// MaxUnauthorizedCandidates is the number of distinct unauthorized
	// candidate hashes tracked per peer.
	MaxUnauthorizedCandidates int
	// MaxConsecutiveRejections is the number of consecutive rejected
	// announcements after which a peer is flagged.
	MaxConsecutiveRejections uint32
	// EquivocationCacheSize is the number of (validator, relay parent)
	// pairs remembered by the equivocation detector.
	EquivocationCacheSize int
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	switch {
	case c.AnnouncementsPerSecond <= 0:
		return fmt.Errorf("%w: %f", ErrInvalidRate, c.AnnouncementsPerSecond)
	case c.AnnouncementBurst <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidBurst, c.AnnouncementBurst)
	case c.MaxUnauthorizedCandidates <= 0:
		return fmt.Errorf("max unauthorized candidates must be positive: %d", c.MaxUnauthorizedCandidates)
	case c.MaxConsecutiveRejections == 0:
		return errors.New("max consecutive rejections must be positive")
	case c.EquivocationCacheSize <= 0:
		return fmt.Errorf("equivocation cache size must be positive: %d", c.EquivocationCacheSize)
	}
	return nil
}

// PeerGuard enforces the announcement rate and counts the consecutive
// rejections of a single peer. It is not safe for concurrent use and is
// owned by the goroutine processing the peer announcements.
type PeerGuard struct {
	limiter                  *rate.Limiter
	maxConsecutiveRejections uint32
	consecutiveRejections    uint32
	flagged                  bool
}

// NewPeerGuard creates a guard for a newly connected peer.
func NewPeerGuard(cfg Config) *PeerGuard {
	interval := time.Duration(float64(time.Second) / cfg.AnnouncementsPerSecond)
	return &PeerGuard{
		limiter:                  rate.NewLimiter(rate.Every(interval), cfg.AnnouncementBurst),
		maxConsecutiveRejections: cfg.MaxConsecutiveRejections,
	}
}

// Allow returns false if the peer exceeded its announcement rate at now.
func (g *PeerGuard) Allow(now time.Time) bool {
	return g.limiter.AllowN(now, 1)
}

// RecordRejection counts a rejected announcement. It returns the number of
// consecutive rejections and whether the peer crossed the rejection bound
// with this rejection. A peer is flagged once per crossing.
func (g *PeerGuard) RecordRejection() (violations uint32, flag bool) {
	g.consecutiveRejections++
	if g.consecutiveRejections >= g.maxConsecutiveRejections && !g.flagged {
		g.flagged = true
		return g.consecutiveRejections, true
	}
	return g.consecutiveRejections, false
}

// RecordAcceptance resets the consecutive rejections.
func (g *PeerGuard) RecordAcceptance() {
	g.consecutiveRejections = 0
	g.flagged = false
}

// Violations returns the current number of consecutive rejections.
func (g *PeerGuard) Violations() uint32 {
	return g.consecutiveRejections
}

// Flagged returns true if the peer crossed the rejection bound and did not
// send an acceptable announcement since.
func (g *PeerGuard) Flagged() bool {
	return g.flagged
}
