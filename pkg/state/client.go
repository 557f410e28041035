package state

import (
	"context"
	"fmt"
	"strings"

	"github.com/bsaptos/staking-sdk-go/pkg/account"
	"github.com/bsaptos/staking-sdk-go/pkg/node"
	"github.com/bsaptos/staking-sdk-go/pkg/shared"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	defaultProtocolModule = "core"
	defaultStateStruct    = "State"
	defaultStakerStruct   = "Staker"
)

// ResourceReader fetches one resource by owner and type tag.
type ResourceReader interface {
	GetAccountResource(ctx context.Context, address account.Address, resourceType string) (node.Resource, error)
}

type Config struct {
	Reader          ResourceReader
	ContractAddress account.Address
	// Module holding the protocol's State and Staker structs. Defaults to "core".
	Module       string
	StateStruct  string
	StakerStruct string
	Logger       *zerolog.Logger
}

type Client struct {
	reader       ResourceReader
	contract     account.Address
	stateType    string
	stakerType   string
	frameworkOne account.Address
	log          zerolog.Logger
}

// NewClient creates a new Client.
func NewClient(config Config) (*Client, error) {
	if config.Reader == nil {
		return nil, shared.NewConfigurationError("new state client", "", fmt.Errorf("resource reader is required"))
	}
	module := strings.TrimSpace(config.Module)
	if module == "" {
		module = defaultProtocolModule
	}
	stateStruct := strings.TrimSpace(config.StateStruct)
	if stateStruct == "" {
		stateStruct = defaultStateStruct
	}
	stakerStruct := strings.TrimSpace(config.StakerStruct)
	if stakerStruct == "" {
		stakerStruct = defaultStakerStruct
	}

	return &Client{
		reader:       config.Reader,
		contract:     config.ContractAddress,
		stateType:    fmt.Sprintf("%s::%s::%s", config.ContractAddress.String(), module, stateStruct),
		stakerType:   fmt.Sprintf("%s::%s::%s", config.ContractAddress.String(), module, stakerStruct),
		frameworkOne: account.AddressOne,
		log:          shared.LoggerOrNop(config.Logger).With().Str("component", "state").Logger(),
	}, nil
}

// CoinStoreType returns the CoinStore type tag for coinType.
func CoinStoreType(coinType string) string {
	return fmt.Sprintf(coinStoreTypePattern, coinType)
}

// GetCoinBalance returns owner's balance of coinType.
func (c *Client) GetCoinBalance(ctx context.Context, owner account.Address, coinType string) (CoinBalance, error) {
	if strings.TrimSpace(coinType) == "" {
		return CoinBalance{}, shared.NewConfigurationError("get coin balance", owner.String(), fmt.Errorf("coin type is required"))
	}
	balance := CoinBalance{Owner: owner, CoinType: coinType}
	err := c.read(ctx, "get coin balance", owner, CoinStoreType(coinType), func(f *fields) {
		balance.Value, balance.Frozen = decodeCoinStore(f)
	})
	if err != nil {
		return CoinBalance{}, err
	}
	return balance, nil
}

// GetProtocolState reads the State resource at the contract address.
func (c *Client) GetProtocolState(ctx context.Context) (ProtocolState, error) {
	var protocolState ProtocolState
	err := c.read(ctx, "get protocol state", c.contract, c.stateType, func(f *fields) {
		protocolState = decodeProtocolState(f)
	})
	return protocolState, err
}

// GetStakerResource reads the Staker resource stored at resourceAddress.
func (c *Client) GetStakerResource(ctx context.Context, resourceAddress account.Address) (StakerResource, error) {
	var resource StakerResource
	err := c.read(ctx, "get staker resource", resourceAddress, c.stakerType, func(f *fields) {
		resource = decodeStaker(f)
	})
	return resource, err
}

func (c *Client) GetValidatorSet(ctx context.Context) (ValidatorSet, error) {
	var set ValidatorSet
	err := c.read(ctx, "get validator set", c.frameworkOne, ValidatorSetType, func(f *fields) {
		set = decodeValidatorSet(f)
	})
	return set, err
}

func (c *Client) GetStakingConfig(ctx context.Context) (StakingConfig, error) {
	var config StakingConfig
	err := c.read(ctx, "get staking config", c.frameworkOne, StakingConfigType, func(f *fields) {
		config = decodeStakingConfig(f)
	})
	return config, err
}

func (c *Client) GetStakePool(ctx context.Context, owner account.Address) (StakePool, error) {
	var pool StakePool
	err := c.read(ctx, "get stake pool", owner, StakePoolType, func(f *fields) {
		pool = decodeStakePool(f)
	})
	return pool, err
}

func (c *Client) GetValidatorConfig(ctx context.Context, owner account.Address) (ValidatorConfig, error) {
	var config ValidatorConfig
	err := c.read(ctx, "get validator config", owner, ValidatorConfigType, func(f *fields) {
		config = decodeValidatorConfig(f)
	})
	return config, err
}

func (c *Client) read(ctx context.Context, op string, address account.Address, resourceType string, decode func(*fields)) error {
	resource, err := c.reader.GetAccountResource(ctx, address, resourceType)
	if err != nil {
		if errors.Is(err, shared.ErrResourceNotFound) {
			c.log.Debug().Str("address", address.String()).Str("type", resourceType).Msg("resource not found")
			return shared.NewStateDecodingError(op, address.String(), resourceType, errors.Wrap(shared.ErrUninitialized, err.Error()))
		}
		return err
	}
	if resource.Type != "" && !sameTypeTag(resource.Type, resourceType) {
		return shared.NewStateDecodingError(op, address.String(), resourceType, fmt.Errorf("node returned resource of type %s", resource.Type))
	}

	f := newFields(resource.Data)
	decode(f)
	if f.err != nil {
		c.log.Warn().Err(f.err).Str("address", address.String()).Str("type", resourceType).Msg("resource shape mismatch")
		return shared.NewStateDecodingError(op, address.String(), resourceType, f.err)
	}
	return nil
}

// sameTypeTag compares type tags ignoring address padding, since the node
// prints addresses in short form.
func sameTypeTag(left, right string) bool {
	return normalizeTypeTag(left) == normalizeTypeTag(right)
}

func normalizeTypeTag(tag string) string {
	var builder strings.Builder
	for index := 0; index < len(tag); {
		if strings.HasPrefix(tag[index:], "0x") {
			end := index + 2
			for end < len(tag) && isHexDigit(tag[end]) {
				end++
			}
			if parsed, err := account.ParseAddress(tag[index:end]); err == nil {
				builder.WriteString(parsed.String())
				index = end
				continue
			}
		}
		if tag[index] != ' ' {
			builder.WriteByte(tag[index])
		}
		index++
	}
	return builder.String()
}

func isHexDigit(char byte) bool {
	return (char >= '0' && char <= '9') || (char >= 'a' && char <= 'f') || (char >= 'A' && char <= 'F')
}
