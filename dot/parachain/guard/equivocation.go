// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package guard

import (
	"fmt"
	"sync"

	parachaintypes "github.com/ChainSafe/gossamer-collator/dot/parachain/types"
	"github.com/ChainSafe/gossamer-collator/internal/log"
	"github.com/ChainSafe/gossamer-collator/lib/common"
	"github.com/hashicorp/golang-lru/v2/simplelru"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "guard"))

// EquivocationReporter receives equivocation evidence.
type EquivocationReporter interface {
	ReportEquivocation(report parachaintypes.EquivocationReport)
}

type statementKey struct {
	validator   parachaintypes.ValidatorID
	relayParent common.Hash
}

type firstStatement struct {
	candidate common.Hash
	signature parachaintypes.ValidatorSignature
	reported  map[common.Hash]struct{}
}

// EquivocationDetector remembers the first candidate each validator seconded
// at each relay parent, and reports any different candidate seconded by the
// same validator at the same relay parent. It never rejects anything.
type EquivocationDetector struct {
	mutex      sync.Mutex
	statements *simplelru.LRU[statementKey, *firstStatement]
	reporter   EquivocationReporter
}

// NewEquivocationDetector creates a detector remembering up to size
// (validator, relay parent) pairs.
func NewEquivocationDetector(size int, reporter EquivocationReporter) (*EquivocationDetector, error) {
	statements, err := simplelru.NewLRU[statementKey, *firstStatement](size, nil)
	if err != nil {
		return nil, fmt.Errorf("creating statements cache: %w", err)
	}
	return &EquivocationDetector{
		statements: statements,
		reporter:   reporter,
	}, nil
}

// ObserveAttestation records the attestation, which must carry a verified
// signature, and reports an equivocation if the validator already seconded
// another candidate at the same relay parent.
func (d *EquivocationDetector) ObserveAttestation(att parachaintypes.SecondedAttestation) {
	report, equivocated := d.observe(att)
	if !equivocated {
		return
	}

	logger.Warnf("validator %s equivocated at relay parent %s: seconded %s and %s",
		report.Validator.Short(), report.RelayParent.Short(),
		report.FirstCandidate.Short(), report.SecondCandidate.Short())
	d.reporter.ReportEquivocation(report)
}

func (d *EquivocationDetector) observe(att parachaintypes.SecondedAttestation) (
	report parachaintypes.EquivocationReport, equivocated bool) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	key := statementKey{validator: att.ValidatorID, relayParent: att.RelayParent}
	first, ok := d.statements.Get(key)
	if !ok {
		d.statements.Add(key, &firstStatement{
			candidate: att.CandidateHash,
			signature: att.Signature,
			reported:  make(map[common.Hash]struct{}),
		})
		return report, false
	}

	if first.candidate == att.CandidateHash {
		return report, false
	}

	if _, ok := first.reported[att.CandidateHash]; ok {
		return report, false
	}
	first.reported[att.CandidateHash] = struct{}{}

	return parachaintypes.EquivocationReport{
		Validator:       att.ValidatorID,
		RelayParent:     att.RelayParent,
		FirstCandidate:  first.candidate,
		FirstSignature:  first.signature,
		SecondCandidate: att.CandidateHash,
		SecondSignature: att.Signature,
	}, true
}
