// Package state reads on-chain resources and decodes them into typed
// snapshots: coin balances, the protocol state and staker resources, the
// global validator set and staking config, and per-owner stake pools and
// validator configs.
//
// Each resource type has an explicit field schema. A missing field or a field
// of the wrong JSON kind fails the whole decode with a StateDecodingError; no
// zero-valued defaults are returned. A resource that does not exist at all,
// which is what an uninitialized protocol looks like, is reported the same
// way and wraps shared.ErrUninitialized.
package state
