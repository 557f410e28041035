package staker

import (
	"context"
	"sync"

	"github.com/bsaptos/staking-sdk-go/pkg/account"
	"github.com/bsaptos/staking-sdk-go/pkg/node"
	"github.com/bsaptos/staking-sdk-go/pkg/shared"
	"github.com/bsaptos/staking-sdk-go/pkg/state"
	"github.com/bsaptos/staking-sdk-go/pkg/submit"
	"github.com/bsaptos/staking-sdk-go/pkg/txn"
	"github.com/bsaptos/staking-sdk-go/pkg/wallet"
	"github.com/rs/zerolog"
)

type Client struct {
	// walletMu is read-held by every submission and write-held by
	// RebindWallet.
	walletMu sync.RWMutex
	wallet   wallet.Wallet

	addressMu        sync.RWMutex
	resourceAddress  account.Address
	addressConfirmed bool
	contract         account.Address
	receiptCoinType  string
	waitMode         submit.WaitMode
	payloads         PayloadBuilder
	submitter        *submit.Submitter
	state            *state.Client
	log              zerolog.Logger
}

// NewClient creates a new Client.
func NewClient(config ClientConfig) (*Client, error) {
	contract, err := config.contract()
	if err != nil {
		return nil, err
	}
	logger := shared.LoggerOrNop(config.Logger)

	nodeAPI := config.Node
	if nodeAPI == nil {
		restClient, err := node.NewClient(node.Config{
			Network:    config.Network,
			BaseURL:    config.NodeURL,
			HTTPClient: config.HTTPClient,
			APIKey:     config.APIKey,
			Logger:     &logger,
		})
		if err != nil {
			return nil, err
		}
		nodeAPI = restClient
	}

	var metrics *submit.Metrics
	if config.MetricsRegisterer != nil {
		metrics, err = submit.NewMetrics(config.MetricsRegisterer)
		if err != nil {
			return nil, shared.NewConfigurationError("new staker client", contract.String(), err)
		}
	}

	submitter, err := submit.NewSubmitter(submit.Config{
		Node:        nodeAPI,
		Transaction: config.Transaction,
		SettleDelay: config.SettleDelay,
		Wait:        config.Wait,
		Metrics:     metrics,
		Logger:      &logger,
	})
	if err != nil {
		return nil, err
	}

	stateClient, err := state.NewClient(state.Config{
		Reader:          nodeAPI,
		ContractAddress: contract,
		Module:          config.Module,
		Logger:          &logger,
	})
	if err != nil {
		return nil, err
	}

	bound := config.Wallet
	if bound == nil {
		bound = wallet.Unconnected{}
	}

	return &Client{
		wallet:          bound,
		resourceAddress: DeriveStakerAddress(contract, config.seed(), config.Derivation),
		contract:        contract,
		receiptCoinType: config.receiptCoinType(contract),
		waitMode:        config.WaitMode,
		payloads:        NewPayloadBuilder(contract, config.Module),
		submitter:       submitter,
		state:           stateClient,
		log:             logger.With().Str("component", "staker").Str("contract", contract.String()).Logger(),
	}, nil
}

func (c *Client) ContractAddress() account.Address { return c.contract }
func (c *Client) Payloads() PayloadBuilder         { return c.payloads }
func (c *Client) State() *state.Client             { return c.state }
func (c *Client) ReceiptCoinType() string          { return c.receiptCoinType }

// RebindWallet replaces the bound wallet. It fails with
// ErrSubmissionsInFlight instead of waiting when an operation holds the
// current wallet. A nil wallet binds the unconnected placeholder.
func (c *Client) RebindWallet(next wallet.Wallet) error {
	if !c.walletMu.TryLock() {
		return shared.NewConfigurationError("rebind wallet", "", shared.ErrSubmissionsInFlight)
	}
	defer c.walletMu.Unlock()

	if next == nil {
		next = wallet.Unconnected{}
	}
	c.wallet = next
	if address, err := next.Address(); err == nil {
		c.log.Info().Str("wallet", address.String()).Msg("wallet rebound")
	} else {
		c.log.Info().Msg("wallet unbound")
	}
	return nil
}

// WalletAddress returns the bound wallet's account address.
func (c *Client) WalletAddress() (account.Address, error) {
	c.walletMu.RLock()
	defer c.walletMu.RUnlock()
	return c.wallet.Address()
}

// ResourceAddress returns the cached resource address and whether it has been
// confirmed against the on-chain protocol state.
func (c *Client) ResourceAddress() (account.Address, bool) {
	c.addressMu.RLock()
	defer c.addressMu.RUnlock()
	return c.resourceAddress, c.addressConfirmed
}

// RefreshResourceAddress reads the protocol state and caches the resource
// address it records.
func (c *Client) RefreshResourceAddress(ctx context.Context) (account.Address, error) {
	protocolState, err := c.state.GetProtocolState(ctx)
	if err != nil {
		return account.AddressZero, err
	}

	c.addressMu.Lock()
	defer c.addressMu.Unlock()
	if protocolState.ResourceAddress != c.resourceAddress {
		c.log.Warn().
			Str("derived", c.resourceAddress.String()).
			Str("on_chain", protocolState.ResourceAddress.String()).
			Msg("derived resource address differs from protocol state")
	}
	c.resourceAddress = protocolState.ResourceAddress
	c.addressConfirmed = true
	return c.resourceAddress, nil
}

func (c *Client) Init(ctx context.Context, protocolFee uint64) (submit.Result, error) {
	return c.submit(ctx, c.payloads.Init(protocolFee))
}

func (c *Client) InitWithSupplyMonitor(ctx context.Context, monitorSupply bool, protocolFee uint64) (submit.Result, error) {
	return c.submit(ctx, c.payloads.InitWithSupplyMonitor(monitorSupply, protocolFee))
}

func (c *Client) Stake(ctx context.Context, amount uint64) (submit.Result, error) {
	return c.submit(ctx, c.payloads.Stake(amount))
}

func (c *Client) Unstake(ctx context.Context, amount uint64) (submit.Result, error) {
	return c.submit(ctx, c.payloads.Unstake(amount))
}

func (c *Client) Claim(ctx context.Context) (submit.Result, error) {
	return c.submit(ctx, c.payloads.Claim())
}

func (c *Client) Join(ctx context.Context) (submit.Result, error) {
	return c.submit(ctx, c.payloads.Join())
}

func (c *Client) AddValidator(ctx context.Context, registration ValidatorRegistration) (submit.Result, error) {
	return c.submit(ctx, c.payloads.AddValidator(registration))
}

// MultiSubmit submits payloads as one sequenced batch from the bound wallet.
func (c *Client) MultiSubmit(ctx context.Context, payloads []txn.EntryFunction) (submit.BatchResult, error) {
	c.walletMu.RLock()
	defer c.walletMu.RUnlock()
	return c.submitter.MultiSubmit(ctx, c.wallet, payloads)
}

func (c *Client) submit(ctx context.Context, payload txn.EntryFunction) (submit.Result, error) {
	c.walletMu.RLock()
	defer c.walletMu.RUnlock()
	return c.submitter.Submit(ctx, c.wallet, payload, c.waitMode)
}

// GetStakerResource reads the Staker resource at the cached resource address.
func (c *Client) GetStakerResource(ctx context.Context) (state.StakerResource, error) {
	address, _ := c.ResourceAddress()
	return c.state.GetStakerResource(ctx, address)
}

func (c *Client) GetProtocolState(ctx context.Context) (state.ProtocolState, error) {
	return c.state.GetProtocolState(ctx)
}

func (c *Client) GetValidatorSet(ctx context.Context) (state.ValidatorSet, error) {
	return c.state.GetValidatorSet(ctx)
}

func (c *Client) GetStakingConfig(ctx context.Context) (state.StakingConfig, error) {
	return c.state.GetStakingConfig(ctx)
}

func (c *Client) GetStakePool(ctx context.Context, owner account.Address) (state.StakePool, error) {
	return c.state.GetStakePool(ctx, owner)
}

func (c *Client) GetValidatorConfig(ctx context.Context, owner account.Address) (state.ValidatorConfig, error) {
	return c.state.GetValidatorConfig(ctx, owner)
}

// GetBaseBalance returns owner's balance of the native coin.
func (c *Client) GetBaseBalance(ctx context.Context, owner account.Address) (uint64, error) {
	balance, err := c.state.GetCoinBalance(ctx, owner, state.AptosCoinType)
	if err != nil {
		return 0, err
	}
	return balance.Value, nil
}

// GetReceiptBalance returns owner's balance of the protocol's receipt token.
func (c *Client) GetReceiptBalance(ctx context.Context, owner account.Address) (uint64, error) {
	balance, err := c.state.GetCoinBalance(ctx, owner, c.receiptCoinType)
	if err != nil {
		return 0, err
	}
	return balance.Value, nil
}
