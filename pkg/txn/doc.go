// Package txn defines the transaction shapes submitted to the ledger: the
// entry-function call descriptor, the raw transaction, authenticators and
// the signed transaction, together with their BCS encodings.
//
// Raw transactions are assembled fresh for every submission. Assemble stamps
// one transaction with the sender's current sequence number; AssembleBatch
// takes a single sequence-number snapshot n and assigns n, n+1, ... to the
// payloads in order.
package txn
