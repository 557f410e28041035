package state

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/bsaptos/staking-sdk-go/pkg/account"
	"github.com/tidwall/gjson"
)

// fields reads typed values out of a resource's data object. The first
// failure sticks; later reads return zero values.
type fields struct {
	root gjson.Result
	err  error
}

func newFields(data []byte) *fields {
	f := &fields{}
	if !gjson.ValidBytes(data) {
		f.err = fmt.Errorf("resource data is not valid JSON")
		return f
	}
	f.root = gjson.ParseBytes(data)
	if !f.root.IsObject() {
		f.err = fmt.Errorf("resource data is not an object")
	}
	return f
}

func fieldsOf(value gjson.Result) *fields {
	f := &fields{root: value}
	if !value.IsObject() {
		f.err = fmt.Errorf("expected object, got %s", value.Type)
	}
	return f
}

func (f *fields) fail(path string, format string, args ...any) {
	if f.err == nil {
		f.err = fmt.Errorf("field %q: %s", path, fmt.Sprintf(format, args...))
	}
}

func (f *fields) get(path string, kinds ...gjson.Type) (gjson.Result, bool) {
	if f.err != nil {
		return gjson.Result{}, false
	}
	value := f.root.Get(path)
	if !value.Exists() {
		f.fail(path, "missing")
		return gjson.Result{}, false
	}
	for _, kind := range kinds {
		if value.Type == kind {
			return value, true
		}
	}
	f.fail(path, "unexpected %s value", value.Type)
	return gjson.Result{}, false
}

// u64 accepts the node's decimal string encoding and plain JSON numbers.
func (f *fields) u64(path string) uint64 {
	value, ok := f.get(path, gjson.String, gjson.Number)
	if !ok {
		return 0
	}
	parsed, err := strconv.ParseUint(value.String(), 10, 64)
	if err != nil {
		f.fail(path, "not a u64: %v", err)
		return 0
	}
	return parsed
}

func (f *fields) u8(path string) uint8 {
	value := f.u64(path)
	if value > 0xff {
		f.fail(path, "%d overflows u8", value)
		return 0
	}
	return uint8(value)
}

func (f *fields) u128(path string) *big.Int {
	value, ok := f.get(path, gjson.String, gjson.Number)
	if !ok {
		return nil
	}
	parsed, ok := new(big.Int).SetString(value.String(), 10)
	if !ok || parsed.Sign() < 0 || parsed.BitLen() > 128 {
		f.fail(path, "not a u128")
		return nil
	}
	return parsed
}

func (f *fields) boolean(path string) bool {
	value, ok := f.get(path, gjson.True, gjson.False)
	if !ok {
		return false
	}
	return value.Bool()
}

func (f *fields) address(path string) account.Address {
	value, ok := f.get(path, gjson.String)
	if !ok {
		return account.AddressZero
	}
	parsed, err := account.ParseAddress(value.String())
	if err != nil {
		f.fail(path, "not an address: %v", err)
		return account.AddressZero
	}
	return parsed
}

// hexBytes decodes a Move vector<u8>, which the node renders as 0x-hex.
func (f *fields) hexBytes(path string) []byte {
	value, ok := f.get(path, gjson.String)
	if !ok {
		return nil
	}
	text := strings.TrimPrefix(value.String(), "0x")
	decoded, err := hex.DecodeString(text)
	if err != nil {
		f.fail(path, "not hex bytes: %v", err)
		return nil
	}
	return decoded
}

func (f *fields) array(path string) []gjson.Result {
	value, ok := f.get(path, gjson.JSON)
	if !ok {
		return nil
	}
	if !value.IsArray() {
		f.fail(path, "expected array")
		return nil
	}
	return value.Array()
}

// optionalArray returns nil without failing when the object at parent is
// absent. Once parent is present it must be an object holding an array at
// child.
func (f *fields) optionalArray(parent, child string) []gjson.Result {
	if f.err != nil || !f.root.Get(parent).Exists() {
		return nil
	}
	value, ok := f.get(parent, gjson.JSON)
	if !ok {
		return nil
	}
	if !value.IsObject() {
		f.fail(parent, "expected object")
		return nil
	}
	return f.array(parent + "." + child)
}

func (f *fields) each(path string, items []gjson.Result, decode func(*fields)) {
	for index, item := range items {
		if f.err != nil {
			return
		}
		element := fieldsOf(item)
		decode(element)
		if element.err != nil {
			f.err = fmt.Errorf("%s[%d]: %w", path, index, element.err)
		}
	}
}

func decodeCoinStore(f *fields) (value uint64, frozen bool) {
	value = f.u64("coin.value")
	if f.root.Get("frozen").Exists() {
		frozen = f.boolean("frozen")
	}
	return value, frozen
}

func decodeProtocolState(f *fields) ProtocolState {
	return ProtocolState{ResourceAddress: f.address("resource_address")}
}

// decodeStaker reads the Staker resource. pending_claims is a SimpleMap
// rendered as {"data":[{"key":...,"value":{...}}]}; entries keep their
// on-chain order. Deployments without the field decode to an empty list.
func decodeStaker(f *fields) StakerResource {
	resource := StakerResource{
		ProtocolFee:             f.u64("fee"),
		SignerCapabilityAddress: f.address("staker_signer_cap.account"),
	}
	entries := f.optionalArray("pending_claims", "data")
	claims := make([]PendingClaim, 0, len(entries))
	f.each("pending_claims.data", entries, func(entry *fields) {
		claims = append(claims, PendingClaim{
			Address: entry.address("key"),
			Amount:  entry.u64("value.amount"),
			Epoch:   entry.u64("value.epoch"),
		})
	})
	resource.PendingClaims = claims
	return resource
}

func decodeValidatorConfig(f *fields) ValidatorConfig {
	return ValidatorConfig{
		ConsensusPubkey:   f.hexBytes("consensus_pubkey"),
		NetworkAddresses:  f.hexBytes("network_addresses"),
		FullnodeAddresses: f.hexBytes("fullnode_addresses"),
		ValidatorIndex:    f.u64("validator_index"),
	}
}

func decodeValidators(f *fields, path string) []ValidatorInfo {
	entries := f.array(path)
	validators := make([]ValidatorInfo, 0, len(entries))
	f.each(path, entries, func(entry *fields) {
		info := ValidatorInfo{
			Address:     entry.address("addr"),
			VotingPower: entry.u64("voting_power"),
		}
		config, ok := entry.get("config", gjson.JSON)
		if ok {
			configFields := fieldsOf(config)
			info.Config = decodeValidatorConfig(configFields)
			if configFields.err != nil && entry.err == nil {
				entry.err = fmt.Errorf("config: %w", configFields.err)
			}
		}
		validators = append(validators, info)
	})
	return validators
}

func decodeValidatorSet(f *fields) ValidatorSet {
	return ValidatorSet{
		ConsensusScheme:   f.u8("consensus_scheme"),
		ActiveValidators:  decodeValidators(f, "active_validators"),
		PendingActive:     decodeValidators(f, "pending_active"),
		PendingInactive:   decodeValidators(f, "pending_inactive"),
		TotalVotingPower:  f.u128("total_voting_power"),
		TotalJoiningPower: f.u128("total_joining_power"),
	}
}

func decodeStakingConfig(f *fields) StakingConfig {
	return StakingConfig{
		MinimumStake:                f.u64("minimum_stake"),
		MaximumStake:                f.u64("maximum_stake"),
		RecurringLockupDurationSecs: f.u64("recurring_lockup_duration_secs"),
		AllowValidatorSetChange:     f.boolean("allow_validator_set_change"),
		RewardsRate:                 f.u64("rewards_rate"),
		RewardsRateDenominator:      f.u64("rewards_rate_denominator"),
		VotingPowerIncreaseLimit:    f.u64("voting_power_increase_limit"),
	}
}

func decodeStakePool(f *fields) StakePool {
	return StakePool{
		Active:          f.u64("active.value"),
		Inactive:        f.u64("inactive.value"),
		PendingActive:   f.u64("pending_active.value"),
		PendingInactive: f.u64("pending_inactive.value"),
		LockedUntilSecs: f.u64("locked_until_secs"),
		OperatorAddress: f.address("operator_address"),
		DelegatedVoter:  f.address("delegated_voter"),
	}
}
