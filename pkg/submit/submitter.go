package submit

import (
	"context"
	"fmt"
	"time"

	"github.com/bsaptos/staking-sdk-go/pkg/account"
	"github.com/bsaptos/staking-sdk-go/pkg/node"
	"github.com/bsaptos/staking-sdk-go/pkg/shared"
	"github.com/bsaptos/staking-sdk-go/pkg/txn"
	"github.com/bsaptos/staking-sdk-go/pkg/wallet"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Node is the part of the ledger RPC boundary the submitter needs.
type Node interface {
	GetSequenceNumber(ctx context.Context, address account.Address) (uint64, error)
	ChainID(ctx context.Context) (uint8, error)
	SubmitTransaction(ctx context.Context, sender account.Address, signed []byte) (node.PendingTransaction, error)
	WaitForTransaction(ctx context.Context, hash string, options node.WaitOptions) (node.Transaction, error)
}

type Config struct {
	Node        Node
	Transaction txn.Options
	SettleDelay time.Duration
	Wait        node.WaitOptions
	Metrics     *Metrics
	Logger      *zerolog.Logger
}

type Submitter struct {
	node        Node
	options     txn.Options
	settleDelay time.Duration
	wait        node.WaitOptions
	metrics     *Metrics
	log         zerolog.Logger
}

// NewSubmitter creates a new Submitter.
func NewSubmitter(config Config) (*Submitter, error) {
	if config.Node == nil {
		return nil, shared.NewConfigurationError("new submitter", "", fmt.Errorf("node is required"))
	}
	settleDelay := config.SettleDelay
	if settleDelay <= 0 {
		settleDelay = DefaultSettleDelay
	}
	return &Submitter{
		node:        config.Node,
		options:     config.Transaction,
		settleDelay: settleDelay,
		wait:        config.Wait,
		metrics:     config.Metrics,
		log:         shared.LoggerOrNop(config.Logger).With().Str("component", "submitter").Logger(),
	}, nil
}

// Submit signs payload with w and submits it. The returned Result carries the
// transaction hash; in WaitModeConfirm it also carries the committed version
// and gas used.
func (s *Submitter) Submit(ctx context.Context, w wallet.Wallet, payload txn.EntryFunction, mode WaitMode) (Result, error) {
	started := time.Now()
	defer func() { s.metrics.observeLatency(mode, time.Since(started).Seconds()) }()

	result := Result{Function: payload.ID()}

	sender, err := walletAddress(w)
	if err != nil {
		s.metrics.observeFailed("wallet")
		return result, err
	}

	sequence, chainID, err := s.snapshot(ctx, sender)
	if err != nil {
		s.metrics.observeFailed("snapshot")
		return result, err
	}
	result.SequenceNumber = sequence

	raw, err := txn.Assemble(sender, sequence, chainID, payload, s.options)
	if err != nil {
		s.metrics.observeFailed("assemble")
		return result, shared.NewEncodingError("submit "+payload.Function, sender.String(), err)
	}

	signed, err := w.SignTransaction(ctx, raw)
	if err != nil {
		s.metrics.observeFailed("sign")
		return result, err
	}

	hash, err := s.post(ctx, sender, signed)
	result.Hash = hash
	if err != nil {
		return result, err
	}

	switch mode {
	case WaitModeConfirm:
		committed, err := s.node.WaitForTransaction(ctx, hash, s.wait)
		if err != nil {
			s.observeError(payload.Function, err)
			s.log.Error().Err(err).Str("hash", hash).Str("function", payload.Function).Msg("transaction not committed")
			return result, err
		}
		result.Version = uint64(committed.Version)
		result.GasUsed = uint64(committed.GasUsed)
		s.log.Info().Str("hash", hash).Uint64("version", result.Version).Str("function", payload.Function).Msg("transaction committed")
	default:
		if err := sleep(ctx, s.settleDelay); err != nil {
			return result, err
		}
	}
	return result, nil
}

// MultiSubmit numbers payloads from one sequence-number snapshot, signs them
// in a single wallet call and submits each in order. It waits one settle delay
// after the last submission. Batch-level failures (no wallet, snapshot,
// assembly, signing) return an error and submit nothing; per-item failures are
// reported in the returned items.
func (s *Submitter) MultiSubmit(ctx context.Context, w wallet.Wallet, payloads []txn.EntryFunction) (BatchResult, error) {
	started := time.Now()
	defer func() { s.metrics.observeLatency(WaitModeSettle, time.Since(started).Seconds()) }()

	if len(payloads) == 0 {
		return BatchResult{}, nil
	}
	s.metrics.observeBatch(len(payloads))

	sender, err := walletAddress(w)
	if err != nil {
		s.metrics.observeFailed("wallet")
		return BatchResult{}, err
	}

	first, chainID, err := s.snapshot(ctx, sender)
	if err != nil {
		s.metrics.observeFailed("snapshot")
		return BatchResult{}, err
	}

	raws, err := txn.AssembleBatch(sender, first, chainID, payloads, s.options)
	if err != nil {
		s.metrics.observeFailed("assemble")
		return BatchResult{}, shared.NewEncodingError("multi submit", sender.String(), err)
	}

	signed, err := w.SignAllTransactions(ctx, raws)
	if err != nil {
		s.metrics.observeFailed("sign")
		return BatchResult{}, err
	}
	if len(signed) != len(raws) {
		s.metrics.observeFailed("sign")
		return BatchResult{}, shared.NewConfigurationError(
			"multi submit", sender.String(),
			fmt.Errorf("wallet returned %d signatures for %d transactions", len(signed), len(raws)),
		)
	}

	batch := BatchResult{Items: make([]Result, len(signed))}
	accepted := 0
	for index, transaction := range signed {
		item := Result{
			Index:          index,
			Function:       payloads[index].ID(),
			SequenceNumber: transaction.Raw.SequenceNumber,
		}
		item.Hash, item.Err = s.post(ctx, sender, transaction)
		if item.Err == nil {
			accepted++
		}
		batch.Items[index] = item
	}

	s.log.Info().
		Str("sender", sender.String()).
		Uint64("first_sequence_number", first).
		Int("submitted", len(signed)).
		Int("accepted", accepted).
		Msg("batch submitted")

	if accepted > 0 {
		if err := sleep(ctx, s.settleDelay); err != nil {
			return batch, err
		}
	}
	return batch, nil
}

func (s *Submitter) snapshot(ctx context.Context, sender account.Address) (uint64, uint8, error) {
	var (
		sequence uint64
		chainID  uint8
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		value, err := s.node.GetSequenceNumber(groupCtx, sender)
		if err != nil {
			return err
		}
		sequence = value
		return nil
	})
	group.Go(func() error {
		value, err := s.node.ChainID(groupCtx)
		if err != nil {
			return err
		}
		chainID = value
		return nil
	})
	if err := group.Wait(); err != nil {
		return 0, 0, err
	}
	return sequence, chainID, nil
}

func (s *Submitter) post(ctx context.Context, sender account.Address, signed txn.SignedTransaction) (string, error) {
	function := signed.Raw.Payload.Function

	hash, err := signed.Hash()
	if err != nil {
		s.metrics.observeFailed("encode")
		return "", shared.NewEncodingError("submit "+function, sender.String(), err)
	}
	encoded, err := signed.Bytes()
	if err != nil {
		s.metrics.observeFailed("encode")
		return hash, shared.NewEncodingError("submit "+function, sender.String(), err)
	}

	pending, err := s.node.SubmitTransaction(ctx, sender, encoded)
	if err != nil {
		var rejection *shared.RejectionError
		if errors.As(err, &rejection) && rejection.Hash == "" {
			rejection.Hash = hash
		}
		s.observeError(function, err)
		s.log.Error().
			Err(err).
			Str("sender", sender.String()).
			Uint64("sequence_number", signed.Raw.SequenceNumber).
			Str("function", function).
			Msg("submission failed")
		return hash, err
	}
	if pending.Hash != "" && pending.Hash != hash {
		s.log.Warn().Str("local_hash", hash).Str("node_hash", pending.Hash).Msg("node reported a different transaction hash")
		hash = pending.Hash
	}

	s.metrics.observeSubmitted(function)
	s.log.Debug().
		Str("sender", sender.String()).
		Uint64("sequence_number", signed.Raw.SequenceNumber).
		Str("hash", hash).
		Str("function", function).
		Msg("transaction submitted")
	return hash, nil
}

func (s *Submitter) observeError(function string, err error) {
	var rejection *shared.RejectionError
	if errors.As(err, &rejection) {
		s.metrics.observeRejected(function)
		return
	}
	s.metrics.observeFailed("node")
}

func walletAddress(w wallet.Wallet) (account.Address, error) {
	if w == nil {
		return account.AddressZero, shared.NewConfigurationError("wallet address", "", shared.ErrNoWallet)
	}
	return w.Address()
}

func sleep(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
