// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package announcement

//go:generate mockgen -destination=mocks_test.go -package=$GOPACKAGE . AttestationObserver
//go:generate mockgen -destination=mock_view_test.go -package=$GOPACKAGE github.com/ChainSafe/gossamer-collator/dot/parachain/relayview View
