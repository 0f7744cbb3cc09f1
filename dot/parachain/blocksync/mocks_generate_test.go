// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package blocksync

//go:generate mockgen -destination=mocks_test.go -package=$GOPACKAGE . Reporter,Importer,Fetcher,BlockStore,Announcer
