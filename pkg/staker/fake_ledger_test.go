package staker

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/bsaptos/staking-sdk-go/pkg/account"
	"github.com/bsaptos/staking-sdk-go/pkg/bcs"
	"github.com/bsaptos/staking-sdk-go/pkg/node"
	"github.com/bsaptos/staking-sdk-go/pkg/shared"
	"github.com/bsaptos/staking-sdk-go/pkg/state"
	"github.com/bsaptos/staking-sdk-go/pkg/txn"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

const fakeGasUsed = 7

type fakeAccount struct {
	sequence uint64
	base     uint64
	receipt  uint64
}

// fakeLedger executes the staking entry functions in memory.
type fakeLedger struct {
	mu           sync.Mutex
	contract     account.Address
	receiptType  string
	accounts     map[account.Address]*fakeAccount
	fee          *uint64
	resourceAddr account.Address
	transactions map[string]node.Transaction
	networkCalls int
}

func newFakeLedger(contract account.Address) *fakeLedger {
	return &fakeLedger{
		contract:     contract,
		receiptType:  fmt.Sprintf("%s::%s", contract.String(), DefaultReceiptCoinPath),
		accounts:     map[account.Address]*fakeAccount{},
		transactions: map[string]node.Transaction{},
		resourceAddr: DeriveStakerAddress(contract, StakerSeed, DerivationScheme),
	}
}

func (l *fakeLedger) fund(address account.Address, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.account(address).base += amount
}

func (l *fakeLedger) account(address account.Address) *fakeAccount {
	existing, ok := l.accounts[address]
	if !ok {
		existing = &fakeAccount{}
		l.accounts[address] = existing
	}
	return existing
}

func (l *fakeLedger) GetSequenceNumber(_ context.Context, address account.Address) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.networkCalls++
	return l.account(address).sequence, nil
}

func (l *fakeLedger) ChainID(context.Context) (uint8, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.networkCalls++
	return 4, nil
}

func (l *fakeLedger) SubmitTransaction(_ context.Context, sender account.Address, signed []byte) (node.PendingTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.networkCalls++

	var raw txn.RawTransaction
	deserializer := bcs.NewDeserializer(signed)
	deserializer.Struct(&raw)
	if err := deserializer.Error(); err != nil {
		return node.PendingTransaction{}, shared.NewNetworkError("submit transaction", sender.String(), 400, err)
	}

	holder := l.account(raw.Sender)
	if raw.SequenceNumber != holder.sequence {
		return node.PendingTransaction{}, shared.NewRejectionError("submit transaction", sender.String(), "", "SEQUENCE_NUMBER_TOO_OLD")
	}
	holder.sequence++

	hash := fakeHash(signed)
	transaction := node.Transaction{
		Type:           node.TransactionTypeUser,
		Hash:           hash,
		Sender:         raw.Sender.String(),
		SequenceNumber: node.U64(raw.SequenceNumber),
		GasUsed:        fakeGasUsed,
		GasUnitPrice:   node.U64(raw.GasUnitPrice),
	}
	success := true
	if status := l.execute(raw, holder); status != "" {
		success = false
		transaction.VMStatus = status
	} else {
		transaction.VMStatus = "Executed successfully"
	}
	transaction.Success = &success
	holder.base -= fakeGasUsed * raw.GasUnitPrice
	l.transactions[hash] = transaction

	return node.PendingTransaction{Hash: hash, SequenceNumber: node.U64(raw.SequenceNumber)}, nil
}

func (l *fakeLedger) execute(raw txn.RawTransaction, sender *fakeAccount) string {
	args := raw.Payload.Args
	switch raw.Payload.Function {
	case functionInit:
		if raw.Sender != l.contract {
			return "Move abort: ENOT_ADMIN"
		}
		if l.fee != nil {
			return "Move abort: EALREADY_INITIALIZED"
		}
		fee, err := bcs.DeserializeU64(args[len(args)-1])
		if err != nil {
			return err.Error()
		}
		l.fee = &fee
	case functionStake:
		amount, err := bcs.DeserializeU64(args[0])
		if err != nil {
			return err.Error()
		}
		if sender.base < amount {
			return "Move abort in 0x1::coin: EINSUFFICIENT_BALANCE(0x10006)"
		}
		sender.base -= amount
		sender.receipt += amount
	case functionUnstake:
		amount, err := bcs.DeserializeU64(args[0])
		if err != nil {
			return err.Error()
		}
		if sender.receipt < amount {
			return "Move abort: EINSUFFICIENT_RECEIPT"
		}
		sender.receipt -= amount
	}
	return ""
}

func (l *fakeLedger) WaitForTransaction(_ context.Context, hash string, _ node.WaitOptions) (node.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.networkCalls++
	transaction, ok := l.transactions[hash]
	if !ok {
		return node.Transaction{}, shared.NewNetworkError("wait for transaction", "", 404, shared.ErrResourceNotFound)
	}
	if !transaction.Committed() {
		return transaction, shared.NewRejectionError("wait for transaction", transaction.Sender, hash, transaction.VMStatus)
	}
	return transaction, nil
}

func (l *fakeLedger) GetAccountResource(_ context.Context, address account.Address, resourceType string) (node.Resource, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.networkCalls++

	notFound := shared.NewNetworkError("get account resource", address.String(), 404, errors.Wrap(shared.ErrResourceNotFound, "resource_not_found"))
	switch resourceType {
	case state.CoinStoreType(state.AptosCoinType):
		holder, ok := l.accounts[address]
		if !ok {
			return node.Resource{}, notFound
		}
		return resource(resourceType, `{"coin":{"value":"%d"},"frozen":false}`, holder.base), nil
	case state.CoinStoreType(l.receiptType):
		holder, ok := l.accounts[address]
		if !ok {
			return node.Resource{}, notFound
		}
		return resource(resourceType, `{"coin":{"value":"%d"},"frozen":false}`, holder.receipt), nil
	case l.contract.String() + "::core::State":
		if l.fee == nil || address != l.contract {
			return node.Resource{}, notFound
		}
		return resource(resourceType, `{"resource_address":%q}`, l.resourceAddr.String()), nil
	case l.contract.String() + "::core::Staker":
		if l.fee == nil || address != l.resourceAddr {
			return node.Resource{}, notFound
		}
		return resource(resourceType, `{"fee":"%d","staker_signer_cap":{"account":%q},"pending_claims":{"data":[]}}`, *l.fee, l.resourceAddr.String()), nil
	}
	return node.Resource{}, notFound
}

func (l *fakeLedger) calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.networkCalls
}

func resource(resourceType string, format string, args ...any) node.Resource {
	return node.Resource{Type: resourceType, Data: []byte(fmt.Sprintf(format, args...))}
}

func fakeHash(signed []byte) string {
	prefix := sha3.Sum256([]byte("APTOS::Transaction"))
	hasher := sha3.New256()
	hasher.Write(prefix[:])
	hasher.Write([]byte{0})
	hasher.Write(signed)
	return "0x" + hex.EncodeToString(hasher.Sum(nil))
}
