// Package node is the ledger RPC boundary: a client for the fullnode REST API
// used by the submitter and state packages. It handles account lookups
// (sequence number and authentication key), ledger info (chain id), BCS
// transaction submission, resource reads by address and type tag, and
// transaction status polling.
//
// Transport failures are returned as shared.NetworkError with the HTTP status
// and the node's message passed through unmodified. Transactions the ledger
// declines on submission or aborts during execution are returned as
// shared.RejectionError. Missing resources wrap shared.ErrResourceNotFound.
//
// Responses compressed with brotli or gzip are decoded transparently.
package node
