package state

import (
	"math/big"

	"github.com/bsaptos/staking-sdk-go/pkg/account"
)

const (
	AptosCoinType        = "0x1::aptos_coin::AptosCoin"
	ValidatorSetType     = "0x1::stake::ValidatorSet"
	StakePoolType        = "0x1::stake::StakePool"
	ValidatorConfigType  = "0x1::stake::ValidatorConfig"
	StakingConfigType    = "0x1::staking_config::StakingConfig"
	coinStoreTypePattern = "0x1::coin::CoinStore<%s>"
)

type CoinBalance struct {
	Owner    account.Address
	CoinType string
	Value    uint64
	Frozen   bool
}

// ProtocolState is the contract-level resource that records the authoritative
// resource address.
type ProtocolState struct {
	ResourceAddress account.Address
}

type PendingClaim struct {
	Address account.Address
	Amount  uint64
	Epoch   uint64
}

type StakerResource struct {
	ProtocolFee             uint64
	SignerCapabilityAddress account.Address
	PendingClaims           []PendingClaim
}

type ValidatorConfig struct {
	ConsensusPubkey   []byte
	NetworkAddresses  []byte
	FullnodeAddresses []byte
	ValidatorIndex    uint64
}

type ValidatorInfo struct {
	Address     account.Address
	VotingPower uint64
	Config      ValidatorConfig
}

type ValidatorSet struct {
	ConsensusScheme   uint8
	ActiveValidators  []ValidatorInfo
	PendingActive     []ValidatorInfo
	PendingInactive   []ValidatorInfo
	TotalVotingPower  *big.Int
	TotalJoiningPower *big.Int
}

type StakingConfig struct {
	MinimumStake                uint64
	MaximumStake                uint64
	RecurringLockupDurationSecs uint64
	AllowValidatorSetChange     bool
	RewardsRate                 uint64
	RewardsRateDenominator      uint64
	VotingPowerIncreaseLimit    uint64
}

type StakePool struct {
	Active          uint64
	Inactive        uint64
	PendingActive   uint64
	PendingInactive uint64
	LockedUntilSecs uint64
	OperatorAddress account.Address
	DelegatedVoter  account.Address
}
