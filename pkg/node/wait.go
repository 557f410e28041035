package node

import (
	"context"
	"fmt"
	"time"

	"github.com/bsaptos/staking-sdk-go/pkg/shared"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

const (
	defaultPollInitialInterval = 200 * time.Millisecond
	defaultPollMaxInterval     = 2 * time.Second
	defaultPollTimeout         = 30 * time.Second
)

type WaitOptions struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Timeout         time.Duration
}

func (o WaitOptions) withDefaults() WaitOptions {
	if o.InitialInterval <= 0 {
		o.InitialInterval = defaultPollInitialInterval
	}
	if o.MaxInterval <= 0 {
		o.MaxInterval = defaultPollMaxInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultPollTimeout
	}
	return o
}

var errStillPending = errors.New("transaction still pending")

// WaitForTransaction polls the node until the transaction leaves the pending
// state. A transaction that executes with a failing VM status is returned as a
// RejectionError carrying the ledger's status message. Not-found responses are
// treated as pending since the node may not have indexed the hash yet.
func (c *Client) WaitForTransaction(ctx context.Context, hash string, options WaitOptions) (Transaction, error) {
	options = options.withDefaults()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = options.InitialInterval
	policy.MaxInterval = options.MaxInterval
	policy.MaxElapsedTime = options.Timeout

	var committed Transaction
	operation := func() error {
		transaction, err := c.GetTransactionByHash(ctx, hash)
		if err != nil {
			if errors.Is(err, shared.ErrResourceNotFound) {
				return errStillPending
			}
			return backoff.Permanent(err)
		}
		if transaction.Pending() {
			return errStillPending
		}
		committed = transaction
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		if errors.Is(err, errStillPending) {
			return Transaction{}, shared.NewNetworkError("wait for transaction", "", 0, fmt.Errorf("transaction %s not committed within %s", hash, options.Timeout))
		}
		return Transaction{}, err
	}

	if !committed.Committed() {
		return committed, shared.NewRejectionError("wait for transaction", committed.Sender, committed.Hash, committed.VMStatus)
	}
	return committed, nil
}
