// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package network

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	announcementsSentCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "collator_network",
		Name:      "announcements_sent_total",
		Help:      "number of announcements written to peers",
	})
	announcementsReceivedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "collator_network",
		Name:      "announcements_received_total",
		Help:      "number of announcements read from peers",
	})
	handshakeFailuresCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "collator_network",
		Name:      "handshake_failures_total",
		Help:      "number of announcement streams closed because of an invalid handshake",
	})
	fetchRequestsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "collator_network",
		Name:      "block_requests_served_total",
		Help:      "number of block requests served by response status",
	}, []string{"status"})
	reportedPeersCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "collator_network",
		Name:      "reported_peers_total",
		Help:      "number of peers disconnected for misbehaviour",
	})
	equivocationsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "collator_network",
		Name:      "equivocations_total",
		Help:      "number of validator equivocations reported",
	})
)
