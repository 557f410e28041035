// Package staker is the entry point for the liquid-staking protocol. It builds
// call descriptors for the protocol's entry functions and composes the node,
// wallet, submitter and state clients behind the protocol operations: Init,
// Stake, Unstake, Claim, Join and AddValidator.
//
// The resource address that holds protocol assets is derived locally when
// the client is built. That value is provisional: call RefreshResourceAddress
// after the protocol is initialized to adopt the address recorded on chain.
//
// A Client starts with the wallet given in its config, or an unconnected
// placeholder when none is given. RebindWallet swaps it, but only while no
// operation is running.
package staker
