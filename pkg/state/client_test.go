package state

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/bsaptos/staking-sdk-go/pkg/account"
	"github.com/bsaptos/staking-sdk-go/pkg/node"
	"github.com/bsaptos/staking-sdk-go/pkg/shared"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resourceKey struct {
	address      account.Address
	resourceType string
}

type fakeReader struct {
	resources map[resourceKey]string
	err       error
}

func (f *fakeReader) put(address account.Address, resourceType string, data string) {
	if f.resources == nil {
		f.resources = map[resourceKey]string{}
	}
	f.resources[resourceKey{address, resourceType}] = data
}

func (f *fakeReader) GetAccountResource(_ context.Context, address account.Address, resourceType string) (node.Resource, error) {
	if f.err != nil {
		return node.Resource{}, f.err
	}
	data, ok := f.resources[resourceKey{address, resourceType}]
	if !ok {
		return node.Resource{}, shared.NewNetworkError(
			"get account resource", address.String(), 404,
			errors.Wrap(shared.ErrResourceNotFound, "resource_not_found: Resource not found"),
		)
	}
	return node.Resource{Type: resourceType, Data: json.RawMessage(data)}, nil
}

func contract(t *testing.T) account.Address {
	t.Helper()
	address, err := account.ParseAddress("0xa312f04ea0a5f73f9468ae22bf7a61477928b0cfcd2988c7d20f0c1ae22b1534")
	require.NoError(t, err)
	return address
}

func mustAddress(t *testing.T, text string) account.Address {
	t.Helper()
	address, err := account.ParseAddress(text)
	require.NoError(t, err)
	return address
}

func newTestClient(t *testing.T, reader *fakeReader) *Client {
	t.Helper()
	client, err := NewClient(Config{Reader: reader, ContractAddress: contract(t)})
	require.NoError(t, err)
	return client
}

func TestGetStakerResourceUninitialized(t *testing.T) {
	client := newTestClient(t, &fakeReader{})
	resourceAddress := account.DeriveResourceAddress(contract(t), "Staker", account.SchemeDeriveResourceAccount)

	resource, err := client.GetStakerResource(context.Background(), resourceAddress)
	var decodingErr *shared.StateDecodingError
	require.ErrorAs(t, err, &decodingErr)
	assert.ErrorIs(t, err, shared.ErrUninitialized)
	assert.Equal(t, client.stakerType, decodingErr.ResourceType)
	assert.Equal(t, StakerResource{}, resource)
}

func TestGetStakerResourceDecodesClaims(t *testing.T) {
	reader := &fakeReader{}
	client := newTestClient(t, reader)
	resourceAddress := account.DeriveResourceAddress(contract(t), "Staker", account.SchemeDeriveResourceAccount)

	reader.put(resourceAddress, client.stakerType, fmt.Sprintf(`{
		"fee": "100",
		"staker_signer_cap": {"account": %q},
		"pending_claims": {"data": [
			{"key": "0xb0b", "value": {"amount": "500", "epoch": "12"}},
			{"key": "0xa11ce", "value": {"amount": "7", "epoch": "13"}}
		]}
	}`, resourceAddress.String()))

	resource, err := client.GetStakerResource(context.Background(), resourceAddress)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), resource.ProtocolFee)
	assert.Equal(t, resourceAddress, resource.SignerCapabilityAddress)
	require.Len(t, resource.PendingClaims, 2)
	assert.Equal(t, mustAddress(t, "0xb0b"), resource.PendingClaims[0].Address)
	assert.Equal(t, uint64(500), resource.PendingClaims[0].Amount)
	assert.Equal(t, uint64(13), resource.PendingClaims[1].Epoch)
}

func TestGetStakerResourceWithoutClaimsField(t *testing.T) {
	reader := &fakeReader{}
	client := newTestClient(t, reader)
	reader.put(account.AddressOne, client.stakerType, `{"fee":"5","staker_signer_cap":{"account":"0x1"}}`)

	resource, err := client.GetStakerResource(context.Background(), account.AddressOne)
	require.NoError(t, err)
	assert.Empty(t, resource.PendingClaims)
}

func TestDecodingFailsClosed(t *testing.T) {
	cases := map[string]string{
		"missing fee":       `{"staker_signer_cap":{"account":"0x1"}}`,
		"fee not numeric":   `{"fee":"lots","staker_signer_cap":{"account":"0x1"}}`,
		"fee is object":     `{"fee":{},"staker_signer_cap":{"account":"0x1"}}`,
		"bad signer cap":    `{"fee":"1","staker_signer_cap":{"account":"nope"}}`,
		"claims not a list": `{"fee":"1","staker_signer_cap":{"account":"0x1"},"pending_claims":{"data":{}}}`,
		"claim missing":     `{"fee":"1","staker_signer_cap":{"account":"0x1"},"pending_claims":{"data":[{"key":"0x2","value":{"amount":"1"}}]}}`,
		"not an object":     `[1,2,3]`,
		"claims empty list": `{"fee":"1","staker_signer_cap":{"account":"0x1"},"pending_claims":[]}`,
		"claims null":       `{"fee":"1","staker_signer_cap":{"account":"0x1"},"pending_claims":null}`,
		"claims string":     `{"fee":"1","staker_signer_cap":{"account":"0x1"},"pending_claims":"oops"}`,
		"claims other key":  `{"fee":"1","staker_signer_cap":{"account":"0x1"},"pending_claims":{"entries":[{"key":"0x1","value":{"amount":"5","epoch":"1"}}]}}`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			reader := &fakeReader{}
			client := newTestClient(t, reader)
			reader.put(account.AddressOne, client.stakerType, data)

			_, err := client.GetStakerResource(context.Background(), account.AddressOne)
			var decodingErr *shared.StateDecodingError
			assert.ErrorAs(t, err, &decodingErr)
			assert.NotErrorIs(t, err, shared.ErrUninitialized)
		})
	}
}

func TestGetProtocolState(t *testing.T) {
	reader := &fakeReader{}
	client := newTestClient(t, reader)
	reader.put(contract(t), client.stateType, `{"resource_address":"0xfeed"}`)

	protocolState, err := client.GetProtocolState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mustAddress(t, "0xfeed"), protocolState.ResourceAddress)
}

func TestGetCoinBalance(t *testing.T) {
	reader := &fakeReader{}
	client := newTestClient(t, reader)
	owner := account.AddressOne
	reader.put(owner, CoinStoreType(AptosCoinType), `{"coin":{"value":"1000000"},"frozen":false,"deposit_events":{}}`)

	balance, err := client.GetCoinBalance(context.Background(), owner, AptosCoinType)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), balance.Value)
	assert.False(t, balance.Frozen)

	_, err = client.GetCoinBalance(context.Background(), owner, "")
	var configErr *shared.ConfigurationError
	assert.ErrorAs(t, err, &configErr)
}

func TestGetValidatorSet(t *testing.T) {
	reader := &fakeReader{}
	client := newTestClient(t, reader)
	reader.put(account.AddressOne, ValidatorSetType, `{
		"active_validators": [{
			"addr": "0x7a4b",
			"config": {
				"consensus_pubkey": "0xab",
				"fullnode_addresses": "0x",
				"network_addresses": "0x0102",
				"validator_index": "0"
			},
			"voting_power": "100000000"
		}],
		"consensus_scheme": 0,
		"pending_active": [],
		"pending_inactive": [],
		"total_joining_power": "0",
		"total_voting_power": "340282366920938463463374607431768211455"
	}`)

	set, err := client.GetValidatorSet(context.Background())
	require.NoError(t, err)
	require.Len(t, set.ActiveValidators, 1)
	assert.Equal(t, uint64(100_000_000), set.ActiveValidators[0].VotingPower)
	assert.Equal(t, []byte{0xab}, set.ActiveValidators[0].Config.ConsensusPubkey)
	assert.Equal(t, []byte{1, 2}, set.ActiveValidators[0].Config.NetworkAddresses)
	assert.Empty(t, set.ActiveValidators[0].Config.FullnodeAddresses)
	assert.Empty(t, set.PendingActive)
	assert.Equal(t, "340282366920938463463374607431768211455", set.TotalVotingPower.String())
	assert.Equal(t, int64(0), set.TotalJoiningPower.Int64())
}

func TestGetValidatorSetBadConfig(t *testing.T) {
	reader := &fakeReader{}
	client := newTestClient(t, reader)
	reader.put(account.AddressOne, ValidatorSetType, `{
		"active_validators": [{"addr": "0x1", "config": {"consensus_pubkey": "zz"}, "voting_power": "1"}],
		"consensus_scheme": 0, "pending_active": [], "pending_inactive": [],
		"total_joining_power": "0", "total_voting_power": "1"
	}`)

	_, err := client.GetValidatorSet(context.Background())
	var decodingErr *shared.StateDecodingError
	require.ErrorAs(t, err, &decodingErr)
	assert.Contains(t, err.Error(), "active_validators[0]")
}

func TestGetStakingConfig(t *testing.T) {
	reader := &fakeReader{}
	client := newTestClient(t, reader)
	reader.put(account.AddressOne, StakingConfigType, `{
		"allow_validator_set_change": true,
		"maximum_stake": "50000000000000000",
		"minimum_stake": "100000000000000",
		"recurring_lockup_duration_secs": "7200",
		"rewards_rate": "10",
		"rewards_rate_denominator": "1000000000",
		"voting_power_increase_limit": "20"
	}`)

	config, err := client.GetStakingConfig(context.Background())
	require.NoError(t, err)
	assert.True(t, config.AllowValidatorSetChange)
	assert.Equal(t, uint64(100_000_000_000_000), config.MinimumStake)
	assert.Equal(t, uint64(7200), config.RecurringLockupDurationSecs)
	assert.Equal(t, uint64(20), config.VotingPowerIncreaseLimit)
}

func TestGetStakePoolAndValidatorConfig(t *testing.T) {
	reader := &fakeReader{}
	client := newTestClient(t, reader)
	owner := contract(t)
	reader.put(owner, StakePoolType, `{
		"active": {"value": "900"},
		"inactive": {"value": "0"},
		"pending_active": {"value": "100"},
		"pending_inactive": {"value": "5"},
		"locked_until_secs": "1700000000",
		"operator_address": "0x2",
		"delegated_voter": "0x3"
	}`)
	reader.put(owner, ValidatorConfigType, `{
		"consensus_pubkey": "0x01",
		"network_addresses": "0x02",
		"fullnode_addresses": "0x03",
		"validator_index": "4"
	}`)

	pool, err := client.GetStakePool(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(900), pool.Active)
	assert.Equal(t, uint64(100), pool.PendingActive)
	assert.Equal(t, "0x2", pool.OperatorAddress.ShortString())

	config, err := client.GetValidatorConfig(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), config.ValidatorIndex)
	assert.Equal(t, []byte{3}, config.FullnodeAddresses)
}

func TestNetworkErrorsPassThrough(t *testing.T) {
	transport := shared.NewNetworkError("get account resource", "", 502, fmt.Errorf("bad gateway"))
	client := newTestClient(t, &fakeReader{err: transport})

	_, err := client.GetStakingConfig(context.Background())
	assert.Same(t, transport, err)
}

func TestTypeTagComparisonIgnoresPadding(t *testing.T) {
	assert.True(t, sameTypeTag(
		"0x1::coin::CoinStore<0x1::aptos_coin::AptosCoin>",
		"0x0000000000000000000000000000000000000000000000000000000000000001::coin::CoinStore<0x1::aptos_coin::AptosCoin>",
	))
	assert.False(t, sameTypeTag("0x1::stake::StakePool", "0x2::stake::StakePool"))
}
