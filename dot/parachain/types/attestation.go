// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package parachaintypes

import (
	"fmt"

	"github.com/ChainSafe/gossamer-collator/lib/common"
	"github.com/ChainSafe/gossamer-collator/lib/crypto/sr25519"
)

var secondedStatementMagic = [4]byte{'B', 'K', 'N', 'G'}

const secondedStatementKind byte = 1

// SecondedAttestation proves that a relay chain validator seconded a
// candidate while building on top of the given relay parent.
type SecondedAttestation struct {
	ValidatorID   ValidatorID
	RelayParent   common.Hash
	CandidateHash common.Hash
	Signature     ValidatorSignature
}

// SigningPayload returns the payload a validator signs when seconding
// candidateHash at relayParent.
func SigningPayload(relayParent, candidateHash common.Hash) []byte {
	payload := make([]byte, 0, len(secondedStatementMagic)+1+2*common.HashLength)
	payload = append(payload, secondedStatementMagic[:]...)
	payload = append(payload, secondedStatementKind)
	payload = append(payload, candidateHash[:]...)
	return append(payload, relayParent[:]...)
}

// Payload returns the signing payload of the attestation.
func (a SecondedAttestation) Payload() []byte {
	return SigningPayload(a.RelayParent, a.CandidateHash)
}

// SignAttestation seconds the candidate at the relay parent with the given keypair.
func SignAttestation(kp *sr25519.Keypair, relayParent, candidateHash common.Hash) (
	att SecondedAttestation, err error) {
	sig, err := kp.Sign(SigningPayload(relayParent, candidateHash))
	if err != nil {
		return att, fmt.Errorf("signing seconded statement: %w", err)
	}

	att = SecondedAttestation{
		ValidatorID:   kp.Public().AsBytes(),
		RelayParent:   relayParent,
		CandidateHash: candidateHash,
	}
	copy(att.Signature[:], sig)
	return att, nil
}

func (a SecondedAttestation) String() string {
	return fmt.Sprintf("seconded(validator=%s, relay_parent=%s, candidate=%s)",
		a.ValidatorID.Short(), a.RelayParent.Short(), a.CandidateHash.Short())
}

// AnnouncementMessage is the wire unit a peer sends to announce a new head.
// Announcements without an attestation are only provisionally trusted.
type AnnouncementMessage struct {
	Header      Header
	Attestation *SecondedAttestation
}

// EquivocationReport is evidence that a validator seconded two different
// candidates at the same relay parent.
type EquivocationReport struct {
	Validator       ValidatorID
	RelayParent     common.Hash
	FirstCandidate  common.Hash
	FirstSignature  ValidatorSignature
	SecondCandidate common.Hash
	SecondSignature ValidatorSignature
}

func (r EquivocationReport) String() string {
	return fmt.Sprintf("equivocation(validator=%s, relay_parent=%s, candidates=%s,%s)",
		r.Validator.Short(), r.RelayParent.Short(), r.FirstCandidate.Short(), r.SecondCandidate.Short())
}
