// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

// Package network describes the target-network configuration consumed by
// constructor validation and consensus-version-gated codegen decisions
// (spec.md §6.4).
package network

import "fmt"

// Network names the target chain the emitted bytecode is validated against.
type Network int

// Supported networks.
const (
	MainnetV0 Network = iota
	TestnetV0
	CanaryV0
)

func (n Network) String() string {
	switch n {
	case MainnetV0:
		return "mainnet"
	case TestnetV0:
		return "testnet"
	case CanaryV0:
		return "canary"
	default:
		return fmt.Sprintf("Network(%d)", int(n))
	}
}

// Parse turns a network suffix (as used on locators, e.g. `foo.aleo/bar`
// has no suffix, but CLI flags and manifests name the network explicitly)
// into a Network, or reports an illegal-network-suffix error.
func Parse(s string) (Network, error) {
	switch s {
	case "mainnet", "mainnet-v0":
		return MainnetV0, nil
	case "testnet", "testnet-v0":
		return TestnetV0, nil
	case "canary", "canary-v0":
		return CanaryV0, nil
	default:
		return 0, fmt.Errorf("illegal network suffix %q", s)
	}
}

// ConsensusVersion names a gated feature generation within a network's
// history.
type ConsensusVersion int

// Known consensus versions, in chronological order.
const (
	ConsensusV1 ConsensusVersion = iota
	ConsensusV2
	ConsensusV3
	ConsensusV4
	numConsensusVersions
)

// Config bundles the network parameters a compilation run is pinned to:
// the target network, any manual override of the height at which each
// consensus version activates, and the well-known private key used to sign
// test transactions (spec.md §6.4).
type Config struct {
	Network Network

	// ConsensusHeights overrides the default activation height for each
	// ConsensusVersion. A zero-length slice means "use network defaults".
	ConsensusHeights []uint32

	// TestPrivateKey is a well-known address used to sign test
	// transactions; it never participates in bytecode emission, only in
	// the surrounding test harness (out of the compiler core's scope
	// but threaded through CompilerState per spec.md §6.4).
	TestPrivateKey string
}

// DefaultConsensusHeight returns the activation height for v, honoring any
// override in Config.ConsensusHeights and otherwise falling back to a
// network-specific built-in default.
func (c Config) DefaultConsensusHeight(v ConsensusVersion) uint32 {
	if int(v) < len(c.ConsensusHeights) {
		return c.ConsensusHeights[v]
	}
	// Built-in per-network genesis-relative defaults; test/canary networks
	// activate every version from height 0.
	if c.Network == MainnetV0 {
		return defaultMainnetHeights[v]
	}
	return 0
}

var defaultMainnetHeights = [numConsensusVersions]uint32{
	ConsensusV1: 0,
	ConsensusV2: 1_700_000,
	ConsensusV3: 3_400_000,
	ConsensusV4: 5_100_000,
}
