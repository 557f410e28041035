// Package submit assembles, signs and submits staking transactions.
//
// Submit fetches the sender's sequence number and the chain id concurrently,
// builds a raw transaction with the configured gas ceiling and expiration
// window, asks the bound wallet for a signature and posts the signed bytes.
// It then either waits for the ledger to confirm the transaction or returns
// after a fixed settle delay, depending on the WaitMode.
//
// MultiSubmit reads the sequence number once, numbers the batch n, n+1, ...
// in order, signs everything through Wallet.SignAllTransactions and submits
// every item before waiting a single settle delay. Each item reports its own
// outcome.
//
// Nothing here retries. Node and ledger failures are returned as they arrive.
package submit
