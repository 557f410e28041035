// Package wallet provides the signing capability the staking client consumes.
//
// A Wallet exposes an account address and signs raw transactions one at a time
// or as a batch. KeyWallet holds an in-process Ed25519 or secp256k1 key.
// Unconnected is the placeholder bound before any real wallet is supplied; it
// fails every call with a ConfigurationError wrapping shared.ErrNoWallet.
package wallet
