// Package shared provides common utilities used across the staking SDK.
// It includes network normalization, operator environment variable loading,
// key material parsing, logger construction, and the error taxonomy every
// other package reports through.
//
// This package is typically used internally by other SDK packages but is
// also available for direct use when building custom integrations with the
// ledger.
//
// # Environment Variables
//
// OperatorConfigFromEnv reads APTOS_NETWORK, APTOS_PRIVATE_KEY,
// APTOS_CONTRACT_ADDRESS and APTOS_NODE_URL, with MAINNET_/TESTNET_/DEVNET_
// scoped overrides. A .env file in the working directory or any parent is
// loaded first; variables already present in the process environment win.
// ReadOperatorEnv reads the same variables but leaves the key optional.
//
// # Errors
//
// Every failure surfaced by the SDK is one of ConfigurationError,
// EncodingError, NetworkError, RejectionError or StateDecodingError. Each
// carries the operation name, the address involved and the raw cause, so
// callers can branch with errors.As and still reach the underlying error
// with errors.Is.
package shared
