// The staking SDK for Go is a client library for a liquid-staking protocol
// deployed on an Aptos-family Move ledger. It derives the protocol's resource
// account address, builds and signs transactions for the protocol's entry
// functions, submits them to a fullnode and decodes on-chain state into typed
// snapshots.
//
// # Packages
//
//   - staker: the protocol client (Init, Stake, Unstake, Claim, Join,
//     AddValidator, batched submission, wallet rebinding, state queries)
//   - account: addresses, resource-address derivation, authentication keys
//   - txn: call descriptors, raw and signed transactions, signing messages
//   - bcs: Binary Canonical Serialization
//   - wallet: key-holding and unconnected wallets
//   - node: fullnode REST client
//   - submit: transaction assembly, signing and submission
//   - state: resource decoding for balances, protocol and staking state
//   - deploy: Move toolchain invocation for compiling and publishing the
//     protocol package
//   - shared: networks, operator configuration, logging and error types
//
// # Installation
//
//	go get github.com/bsaptos/staking-sdk-go@latest
package staking_sdk_go
