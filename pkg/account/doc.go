// Package account defines the 32-byte ledger address and the deterministic
// derivations built on it: resource (protocol-owned) addresses and
// authentication keys computed from public keys.
//
// A resource address is SHA3-256(owner || seed || scheme). It is a pure
// function of its inputs and never has a private key. The protocol's own
// state resource remains the authority on which resource address is in use;
// a locally derived value is provisional until it has been confirmed there.
package account
