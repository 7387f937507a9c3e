package domain

import (
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Supported screener chain identifiers. The screener serves many more; these
// are the ones with chain-specific address validation.
const (
	ChainEthereum = "ethereum"
	ChainBSC      = "bsc"
	ChainPolygon  = "polygon"
	ChainSolana   = "solana"
)

// DefaultChains is the watch list used when configuration names none.
func DefaultChains() []string {
	return []string{ChainEthereum, ChainBSC, ChainPolygon}
}

// evmChains are chains whose addresses follow the 0x hex format.
var evmChains = map[string]struct{}{
	ChainEthereum: {},
	ChainBSC:      {},
	ChainPolygon:  {},
	"arbitrum":    {},
	"base":        {},
	"optimism":    {},
	"avalanche":   {},
}

// ValidPairAddress reports whether addr is plausible for the given chain.
// Chains without a known address format only require a non-empty value.
func ValidPairAddress(chainID, addr string) bool {
	if addr == "" {
		return false
	}
	if _, ok := evmChains[chainID]; ok {
		return IsEVMAddress(addr)
	}
	if chainID == ChainSolana {
		return IsSolanaAddress(addr)
	}
	return true
}

// IsEVMAddress reports whether addr is a 20-byte hex address with the 0x
// prefix.
func IsEVMAddress(addr string) bool {
	if len(addr) != 42 || !strings.HasPrefix(addr, "0x") {
		return false
	}
	for _, c := range addr[2:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// IsSolanaAddress reports whether addr base58-decodes to a 32-byte key.
func IsSolanaAddress(addr string) bool {
	raw, err := base58.Decode(addr)
	return err == nil && len(raw) == 32
}

// IsOnCurve reports whether addr decodes to a point on the ed25519 curve.
// Wallets controlled by a private key are on-curve; program-derived
// addresses are deliberately off-curve, so this distinguishes a human
// creator wallet from a program account.
func IsOnCurve(addr string) bool {
	raw, err := base58.Decode(addr)
	if err != nil || len(raw) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(raw)
	return err == nil
}

// NormalizeDevWallet maps a reported creator wallet onto a validated value,
// returning DevWalletUnknown when the wallet is missing or implausible for
// the chain. Blacklist checks depend on this so a garbage wallet can never
// alias a listed developer.
func NormalizeDevWallet(chainID, wallet string) string {
	if wallet == "" || wallet == DevWalletUnknown {
		return DevWalletUnknown
	}
	if _, ok := evmChains[chainID]; ok {
		if IsEVMAddress(wallet) {
			return wallet
		}
		return DevWalletUnknown
	}
	if chainID == ChainSolana {
		if IsOnCurve(wallet) {
			return wallet
		}
		return DevWalletUnknown
	}
	return wallet
}
