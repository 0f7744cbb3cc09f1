// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package blocksync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	announcementsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "collator_blocksync",
		Name:      "announcements_total",
		Help:      "number of processed announcements by outcome",
	}, []string{"outcome"})
	rejectionsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "collator_blocksync",
		Name:      "rejections_total",
		Help:      "number of rejected announcements by reason",
	}, []string{"reason"})
	droppedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "collator_blocksync",
		Name:      "dropped_announcements_total",
		Help:      "number of announcements dropped because of a full peer inbox",
	})
	malformedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "collator_blocksync",
		Name:      "malformed_announcements_total",
		Help:      "number of announcements that could not be decoded",
	})
	relayedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "collator_blocksync",
		Name:      "relayed_announcements_total",
		Help:      "number of authorized heads relayed to the peers by result",
	}, []string{"result"})
	promotionsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "collator_blocksync",
		Name:      "promotions_total",
		Help:      "number of provisional heads promoted by relay chain inclusion",
	})
	fetchesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "collator_blocksync",
		Name:      "fetches_total",
		Help:      "number of block fetches by result",
	}, []string{"result"})
	peersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "collator_blocksync",
		Name:      "peers",
		Help:      "number of tracked peers",
	})
	relayViewUnavailableGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "collator_blocksync",
		Name:      "relay_view_unavailable",
		Help:      "1 while the relay chain view is unavailable",
	})
)
