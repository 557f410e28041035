package staker

import (
	"github.com/bsaptos/staking-sdk-go/pkg/account"
	"github.com/bsaptos/staking-sdk-go/pkg/bcs"
	"github.com/bsaptos/staking-sdk-go/pkg/txn"
)

const (
	DefaultModule = "core"

	functionInit         = "init"
	functionStake        = "stake"
	functionUnstake      = "unstake"
	functionClaim        = "claim"
	functionJoin         = "join"
	functionAddValidator = "add_validator"
)

// PayloadBuilder builds call descriptors for the protocol module. It does not
// check amounts or fees; the on-chain program enforces those.
type PayloadBuilder struct {
	module txn.ModuleID
}

func NewPayloadBuilder(contract account.Address, module string) PayloadBuilder {
	if module == "" {
		module = DefaultModule
	}
	return PayloadBuilder{module: txn.ModuleID{Address: contract, Name: module}}
}

func (b PayloadBuilder) Module() txn.ModuleID {
	return b.module
}

func (b PayloadBuilder) entry(function string, args ...[]byte) txn.EntryFunction {
	return txn.NewEntryFunction(b.module, function, nil, args)
}

// Init sets the protocol fee and creates the resource account.
func (b PayloadBuilder) Init(protocolFee uint64) txn.EntryFunction {
	return b.entry(functionInit, bcs.SerializeU64(protocolFee))
}

// InitWithSupplyMonitor targets program revisions whose init takes a leading
// supply-monitor flag.
func (b PayloadBuilder) InitWithSupplyMonitor(monitorSupply bool, protocolFee uint64) txn.EntryFunction {
	return b.entry(functionInit, bcs.SerializeBool(monitorSupply), bcs.SerializeU64(protocolFee))
}

func (b PayloadBuilder) Stake(amount uint64) txn.EntryFunction {
	return b.entry(functionStake, bcs.SerializeU64(amount))
}

func (b PayloadBuilder) Unstake(amount uint64) txn.EntryFunction {
	return b.entry(functionUnstake, bcs.SerializeU64(amount))
}

func (b PayloadBuilder) Claim() txn.EntryFunction {
	return b.entry(functionClaim)
}

func (b PayloadBuilder) Join() txn.EntryFunction {
	return b.entry(functionJoin)
}

// ValidatorRegistration carries the add_validator arguments, each a Move
// vector<u8>.
type ValidatorRegistration struct {
	ConsensusPubkey   []byte
	ProofOfPossession []byte
	NetworkAddresses  []byte
	FullnodeAddresses []byte
}

func (b PayloadBuilder) AddValidator(registration ValidatorRegistration) txn.EntryFunction {
	return b.entry(
		functionAddValidator,
		bcs.SerializeBytes(registration.ConsensusPubkey),
		bcs.SerializeBytes(registration.ProofOfPossession),
		bcs.SerializeBytes(registration.NetworkAddresses),
		bcs.SerializeBytes(registration.FullnodeAddresses),
	)
}
