package wallet

import (
	"context"
	"fmt"

	"github.com/bsaptos/staking-sdk-go/pkg/account"
	"github.com/bsaptos/staking-sdk-go/pkg/shared"
	"github.com/bsaptos/staking-sdk-go/pkg/txn"
)

// Wallet signs raw transactions for a single account. Sequence numbers are
// already fixed on the raw transactions it receives.
type Wallet interface {
	Address() (account.Address, error)
	SignTransaction(ctx context.Context, raw txn.RawTransaction) (txn.SignedTransaction, error)
	SignAllTransactions(ctx context.Context, raws []txn.RawTransaction) ([]txn.SignedTransaction, error)
}

// KeyWallet is a Wallet backed by an in-process key.
type KeyWallet struct {
	signer Signer
}

func NewKeyWallet(signer Signer) (*KeyWallet, error) {
	if signer == nil {
		return nil, shared.NewConfigurationError("new key wallet", "", fmt.Errorf("signer is required"))
	}
	return &KeyWallet{signer: signer}, nil
}

// NewKeyWalletFromString parses privateKey and wraps it in a KeyWallet.
func NewKeyWalletFromString(privateKey string) (*KeyWallet, error) {
	signer, err := NewSignerFromString(privateKey)
	if err != nil {
		return nil, err
	}
	return NewKeyWallet(signer)
}

func (w *KeyWallet) Signer() Signer { return w.signer }

func (w *KeyWallet) Address() (account.Address, error) {
	return w.signer.Address(), nil
}

func (w *KeyWallet) SignTransaction(ctx context.Context, raw txn.RawTransaction) (txn.SignedTransaction, error) {
	if err := ctx.Err(); err != nil {
		return txn.SignedTransaction{}, err
	}
	address := w.signer.Address()
	if raw.Sender != address {
		return txn.SignedTransaction{}, shared.NewConfigurationError(
			"sign transaction", address.String(),
			fmt.Errorf("transaction sender %s does not match wallet", raw.Sender.String()),
		)
	}

	message, err := raw.SigningMessage()
	if err != nil {
		return txn.SignedTransaction{}, shared.NewEncodingError("sign transaction", address.String(), err)
	}
	authenticator, err := w.signer.Sign(message)
	if err != nil {
		return txn.SignedTransaction{}, shared.NewConfigurationError("sign transaction", address.String(), err)
	}
	return txn.SignedTransaction{Raw: raw, Authenticator: authenticator}, nil
}

// SignAllTransactions signs each raw transaction independently, preserving
// order. It fails on the first transaction that cannot be signed.
func (w *KeyWallet) SignAllTransactions(ctx context.Context, raws []txn.RawTransaction) ([]txn.SignedTransaction, error) {
	signed := make([]txn.SignedTransaction, 0, len(raws))
	for index, raw := range raws {
		transaction, err := w.SignTransaction(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", index, err)
		}
		signed = append(signed, transaction)
	}
	return signed, nil
}

// Unconnected is bound when no wallet has been supplied. Every method fails
// immediately.
type Unconnected struct{}

func (Unconnected) Address() (account.Address, error) {
	return account.AddressZero, shared.NewConfigurationError("wallet address", "", shared.ErrNoWallet)
}

func (Unconnected) SignTransaction(context.Context, txn.RawTransaction) (txn.SignedTransaction, error) {
	return txn.SignedTransaction{}, shared.NewConfigurationError("sign transaction", "", shared.ErrNoWallet)
}

func (Unconnected) SignAllTransactions(context.Context, []txn.RawTransaction) ([]txn.SignedTransaction, error) {
	return nil, shared.NewConfigurationError("sign transactions", "", shared.ErrNoWallet)
}

// IsUnconnected reports whether w is the placeholder wallet.
func IsUnconnected(w Wallet) bool {
	switch w.(type) {
	case nil, Unconnected, *Unconnected:
		return true
	default:
		return false
	}
}
