// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package relayview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ChainSafe/gossamer-collator/lib/common"
)

// TimeoutView bounds every lookup of the wrapped view. Lookups that do not
// resolve within the timeout fail with an error wrapping both ErrNotFound
// and ErrTimeout.
type TimeoutView struct {
	view    View
	timeout time.Duration
}

var _ View = (*TimeoutView)(nil)

// NewTimeoutView wraps the view with the given lookup timeout.
func NewTimeoutView(view View, timeout time.Duration) *TimeoutView {
	return &TimeoutView{
		view:    view,
		timeout: timeout,
	}
}

// ValidatorsAt implements View.
func (t *TimeoutView) ValidatorsAt(ctx context.Context, relayParent common.Hash) (RelayParentContext, error) {
	return withTimeout(ctx, t.timeout, func(ctx context.Context) (RelayParentContext, error) {
		return t.view.ValidatorsAt(ctx, relayParent)
	})
}

// IsFinalized implements View.
func (t *TimeoutView) IsFinalized(ctx context.Context, relayParent common.Hash) (bool, error) {
	return withTimeout(ctx, t.timeout, func(ctx context.Context) (bool, error) {
		return t.view.IsFinalized(ctx, relayParent)
	})
}

// BestFinalized implements View.
func (t *TimeoutView) BestFinalized(ctx context.Context) (BlockRef, error) {
	return withTimeout(ctx, t.timeout, t.view.BestFinalized)
}

// withTimeout runs the lookup and gives up once the timeout expires,
// even if the lookup ignores its context.
func withTimeout[T any](ctx context.Context, timeout time.Duration,
	lookup func(ctx context.Context) (T, error)) (value T, err error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		value, err := lookup(ctx)
		done <- result{value: value, err: err}
	}()

	select {
	case r := <-done:
		if errors.Is(r.err, context.DeadlineExceeded) {
			return value, fmt.Errorf("%w: %w after %s", ErrNotFound, ErrTimeout, timeout)
		}
		return r.value, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return value, fmt.Errorf("%w: %w after %s", ErrNotFound, ErrTimeout, timeout)
		}
		return value, ctx.Err()
	}
}
