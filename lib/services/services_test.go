// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/ChainSafe/gossamer-collator/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestRegistry() *ServiceRegistry {
	return NewServiceRegistry(log.New(log.SetWriter(io.Discard)))
}

func TestServiceRegistry_RegisterService(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	r := newTestRegistry()
	r.RegisterService("a", NewMockService(ctrl))
	r.RegisterService("a", NewMockService(ctrl))
	r.RegisterService("b", NewMockService(ctrl))

	assert.Equal(t, []string{"a", "b"}, r.Names())
}

func TestServiceRegistry_StartStopAll(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	ctx := context.Background()
	a := NewMockService(ctrl)
	b := NewMockService(ctrl)
	gomock.InOrder(
		a.EXPECT().Start(ctx).Return(nil),
		b.EXPECT().Start(ctx).Return(nil),
		b.EXPECT().Stop().Return(nil),
		a.EXPECT().Stop().Return(nil),
	)

	r := newTestRegistry()
	r.RegisterService("a", a)
	r.RegisterService("b", b)

	require.NoError(t, r.StartAll(ctx))
	require.NoError(t, r.StopAll())
	// nothing left to stop
	require.NoError(t, r.StopAll())
}

func TestServiceRegistry_StartAll_failure(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	ctx := context.Background()
	errDummy := errors.New("dummy")
	a := NewMockService(ctrl)
	b := NewMockService(ctrl)
	c := NewMockService(ctrl)
	gomock.InOrder(
		a.EXPECT().Start(ctx).Return(nil),
		b.EXPECT().Start(ctx).Return(errDummy),
		a.EXPECT().Stop().Return(nil),
	)

	r := newTestRegistry()
	r.RegisterService("a", a)
	r.RegisterService("b", b)
	r.RegisterService("c", c)

	err := r.StartAll(ctx)
	assert.ErrorIs(t, err, errDummy)
	assert.EqualError(t, err, "starting service b: dummy")
}

func TestServiceRegistry_StopAll_errors(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	ctx := context.Background()
	errDummy := errors.New("dummy")
	a := NewMockService(ctrl)
	b := NewMockService(ctrl)
	a.EXPECT().Start(ctx).Return(nil)
	b.EXPECT().Start(ctx).Return(nil)
	b.EXPECT().Stop().Return(errDummy)
	a.EXPECT().Stop().Return(nil)

	r := newTestRegistry()
	r.RegisterService("a", a)
	r.RegisterService("b", b)

	require.NoError(t, r.StartAll(ctx))
	err := r.StopAll()
	assert.ErrorIs(t, err, errDummy)
}

func TestServiceRegistry_Get(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	a := NewMockService(ctrl)
	r := newTestRegistry()
	r.RegisterService("a", a)

	assert.Equal(t, Service(a), r.Get("a"))
	assert.Nil(t, r.Get("b"))
}
