// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package announcement

import "fmt"

// Kind is the kind of outcome of an announcement validation.
type Kind uint8

const (
	// Accepted means the announcement carries a valid attestation and its
	// head may be treated as authorized by the relay chain.
	Accepted Kind = iota
	// AcceptedProvisional means the head may only be recorded as an
	// unauthorized candidate.
	AcceptedProvisional
	// Rejected means the announcement must be dropped.
	Rejected
)

func (k Kind) String() string {
	switch k {
	case Accepted:
		return "accepted"
	case AcceptedProvisional:
		return "accepted-provisional"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// RejectReason is the reason an announcement was rejected.
type RejectReason uint8

const (
	// UnknownRelayParent is returned when the relay parent cannot be resolved,
	// is pruned, or the lookup timed out.
	UnknownRelayParent RejectReason = iota + 1
	// UnauthorizedValidator is returned when the attesting validator is not
	// an active parachain validator at the relay parent.
	UnauthorizedValidator
	// BadSignature is returned when the attestation signature does not verify.
	BadSignature
	// CandidateMismatch is returned when the attested candidate is not the
	// announced header.
	CandidateMismatch
)

func (r RejectReason) String() string {
	switch r {
	case UnknownRelayParent:
		return "unknown-relay-parent"
	case UnauthorizedValidator:
		return "unauthorized-validator"
	case BadSignature:
		return "bad-signature"
	case CandidateMismatch:
		return "candidate-mismatch"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(r))
	}
}

// Outcome is the result of validating an announcement.
type Outcome struct {
	Kind Kind
	// Reason is set for Rejected outcomes only.
	Reason RejectReason
	// Degraded is set when the relay chain view was unavailable and the
	// announcement fell back to provisional tracking.
	Degraded bool
	// Err is the underlying error of a rejection or of a degraded outcome.
	Err error
}

func (o Outcome) String() string {
	switch {
	case o.Kind == Rejected:
		return fmt.Sprintf("%s(%s)", o.Kind, o.Reason)
	case o.Degraded:
		return o.Kind.String() + "(degraded)"
	default:
		return o.Kind.String()
	}
}

func accepted() Outcome {
	return Outcome{Kind: Accepted}
}

func provisional() Outcome {
	return Outcome{Kind: AcceptedProvisional}
}

func degraded(err error) Outcome {
	return Outcome{Kind: AcceptedProvisional, Degraded: true, Err: err}
}

func rejected(reason RejectReason, err error) Outcome {
	return Outcome{Kind: Rejected, Reason: reason, Err: err}
}
