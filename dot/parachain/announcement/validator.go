// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package announcement

import (
	"context"
	"errors"
	"fmt"

	"github.com/ChainSafe/gossamer-collator/dot/parachain/relayview"
	parachaintypes "github.com/ChainSafe/gossamer-collator/dot/parachain/types"
	"github.com/ChainSafe/gossamer-collator/lib/crypto/sr25519"
)

var (
	ErrRelayParentTooOld   = errors.New("relay parent is too old")
	ErrRelayParentMismatch = errors.New("relay parent context does not match attestation")
	ErrValidatorNotActive  = errors.New("validator is not active at relay parent")
	ErrInvalidSignature    = errors.New("invalid attestation signature")
	ErrCandidateMismatch   = errors.New("attested candidate does not match announced header")
)

// AttestationObserver is notified of every attestation whose signature verified.
type AttestationObserver interface {
	ObserveAttestation(att parachaintypes.SecondedAttestation)
}

// Validator decides whether an announced head may be trusted ahead of
// relay chain finality.
type Validator struct {
	view              relayview.View
	observer          AttestationObserver
	maxRelayParentAge uint32
}

// Option configures a Validator.
type Option func(v *Validator)

// WithObserver sets the observer receiving validly signed attestations.
func WithObserver(observer AttestationObserver) Option {
	return func(v *Validator) {
		v.observer = observer
	}
}

// WithMaxRelayParentAge rejects attestations anchored more than age relay
// blocks behind the best finalized relay block. Zero disables the check.
func WithMaxRelayParentAge(age uint32) Option {
	return func(v *Validator) {
		v.maxRelayParentAge = age
	}
}

// NewValidator creates a validator reading the relay chain through view.
func NewValidator(view relayview.View, options ...Option) *Validator {
	v := &Validator{view: view}
	for _, option := range options {
		option(v)
	}
	return v
}

// Validate resolves the relay parent of the attestation, if any, and
// validates the announcement against it. A relay chain view which is
// unavailable yields a degraded provisional outcome rather than a rejection.
func (v *Validator) Validate(ctx context.Context, msg parachaintypes.AnnouncementMessage) Outcome {
	att := msg.Attestation
	if att == nil {
		return provisional()
	}

	relayParentContext, err := v.view.ValidatorsAt(ctx, att.RelayParent)
	if err != nil {
		return lookupFailure(err)
	}

	if v.maxRelayParentAge > 0 {
		finalized, err := v.view.BestFinalized(ctx)
		if err != nil {
			return lookupFailure(err)
		}

		number := relayParentContext.RelayParent.Number
		if number+v.maxRelayParentAge < finalized.Number {
			return rejected(UnknownRelayParent, fmt.Errorf("%w: %s is behind finalized %s by more than %d blocks",
				ErrRelayParentTooOld, relayParentContext.RelayParent, finalized, v.maxRelayParentAge))
		}
	}

	return v.ValidateWithContext(msg, &relayParentContext)
}

// ValidateWithContext validates the announcement against an already resolved
// relay parent context. A nil context means the relay parent could not be
// resolved. The result only depends on its arguments.
func (v *Validator) ValidateWithContext(msg parachaintypes.AnnouncementMessage,
	relayParentContext *relayview.RelayParentContext) Outcome {
	att := msg.Attestation
	if att == nil {
		return provisional()
	}

	switch {
	case relayParentContext == nil:
		return rejected(UnknownRelayParent, relayview.ErrNotFound)
	case relayParentContext.RelayParent.Hash != att.RelayParent:
		return rejected(UnknownRelayParent, fmt.Errorf("%w: context %s, attestation %s",
			ErrRelayParentMismatch, relayParentContext.RelayParent.Hash.Short(), att.RelayParent.Short()))
	}

	if !relayParentContext.Validators.Contains(att.ValidatorID) {
		return rejected(UnauthorizedValidator, fmt.Errorf("%w: %s at %s",
			ErrValidatorNotActive, att.ValidatorID.Short(), relayParentContext.RelayParent))
	}

	if err := verifySignature(*att); err != nil {
		return rejected(BadSignature, err)
	}

	if v.observer != nil {
		v.observer.ObserveAttestation(*att)
	}

	headerHash := msg.Header.Hash()
	if att.CandidateHash != headerHash {
		return rejected(CandidateMismatch, fmt.Errorf("%w: attested %s, announced %s",
			ErrCandidateMismatch, att.CandidateHash.Short(), headerHash.Short()))
	}

	return accepted()
}

func lookupFailure(err error) Outcome {
	if errors.Is(err, relayview.ErrUnavailable) {
		return degraded(err)
	}
	return rejected(UnknownRelayParent, err)
}

func verifySignature(att parachaintypes.SecondedAttestation) error {
	pub, err := sr25519.NewPublicKey(att.ValidatorID[:])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	ok, err := pub.Verify(att.Payload(), att.Signature[:])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	} else if !ok {
		return ErrInvalidSignature
	}
	return nil
}
