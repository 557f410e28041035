package submit

import (
	"time"
)

type WaitMode int

const (
	// WaitModeSettle returns after the settle delay without polling.
	WaitModeSettle WaitMode = iota
	// WaitModeConfirm polls the node until the transaction is committed.
	WaitModeConfirm
)

func (m WaitMode) String() string {
	switch m {
	case WaitModeConfirm:
		return "confirm"
	default:
		return "settle"
	}
}

const DefaultSettleDelay = 2 * time.Second

// Result is the outcome of one submitted transaction. Hash is computed
// locally, so it is set even when the node refused the submission.
type Result struct {
	Index          int
	Function       string
	SequenceNumber uint64
	Hash           string
	Version        uint64
	GasUsed        uint64
	Err            error
}

// Succeeded reports whether the item was accepted by the node and, in
// confirm mode, committed.
func (r Result) Succeeded() bool {
	return r.Err == nil
}

// BatchResult holds per-item outcomes in payload order.
type BatchResult struct {
	Items []Result
}

// Hashes returns the local hash of every item in order.
func (b BatchResult) Hashes() []string {
	hashes := make([]string, 0, len(b.Items))
	for _, item := range b.Items {
		hashes = append(hashes, item.Hash)
	}
	return hashes
}

// Failed returns the items that did not succeed.
func (b BatchResult) Failed() []Result {
	var failed []Result
	for _, item := range b.Items {
		if item.Err != nil {
			failed = append(failed, item)
		}
	}
	return failed
}
