package staker

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bsaptos/staking-sdk-go/pkg/account"
	"github.com/bsaptos/staking-sdk-go/pkg/node"
	"github.com/bsaptos/staking-sdk-go/pkg/shared"
	"github.com/bsaptos/staking-sdk-go/pkg/state"
	"github.com/bsaptos/staking-sdk-go/pkg/submit"
	"github.com/bsaptos/staking-sdk-go/pkg/txn"
	"github.com/bsaptos/staking-sdk-go/pkg/wallet"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const (
	StakerSeed             = "Staker"
	DefaultReceiptCoinPath = "coin::BsAptos"
)

// Derivation selects how the resource address is derived locally.
type Derivation int

const (
	// DerivationScheme appends the resource-account scheme byte (0xFF).
	DerivationScheme Derivation = iota
	// DerivationLegacy hashes owner || seed only.
	DerivationLegacy
)

// NodeAPI is the RPC surface the client needs from a node.
type NodeAPI interface {
	submit.Node
	state.ResourceReader
}

type ClientConfig struct {
	Network    string
	NodeURL    string
	APIKey     string
	HTTPClient *http.Client
	// Node replaces the REST client built from Network and NodeURL.
	Node NodeAPI

	ContractAddress string
	Module          string
	// ReceiptCoinType defaults to <contract>::coin::BsAptos.
	ReceiptCoinType string
	Seed            string
	Derivation      Derivation

	Wallet      wallet.Wallet
	Transaction txn.Options
	WaitMode    submit.WaitMode
	SettleDelay time.Duration
	Wait        node.WaitOptions

	MetricsRegisterer prometheus.Registerer
	Logger            *zerolog.Logger
}

// ClientConfigFromEnv fills network, node URL, contract address and a key
// wallet from the operator environment. A missing private key leaves the
// wallet unconnected.
func ClientConfigFromEnv() (ClientConfig, error) {
	operator, err := shared.ReadOperatorEnv()
	if err != nil {
		return ClientConfig{}, err
	}
	config := ClientConfig{
		Network:         operator.Network,
		NodeURL:         operator.NodeURL,
		ContractAddress: operator.ContractAddress,
	}
	if strings.TrimSpace(operator.PrivateKey) != "" {
		keyWallet, err := wallet.NewKeyWalletFromString(operator.PrivateKey)
		if err != nil {
			return ClientConfig{}, err
		}
		config.Wallet = keyWallet
	}
	return config, nil
}

func (c ClientConfig) contract() (account.Address, error) {
	if strings.TrimSpace(c.ContractAddress) == "" {
		return account.AddressZero, shared.NewConfigurationError("new staker client", "", fmt.Errorf("contract address is required"))
	}
	return account.ParseAddress(c.ContractAddress)
}

func (c ClientConfig) seed() string {
	if c.Seed == "" {
		return StakerSeed
	}
	return c.Seed
}

func (c ClientConfig) receiptCoinType(contract account.Address) string {
	if strings.TrimSpace(c.ReceiptCoinType) != "" {
		return strings.TrimSpace(c.ReceiptCoinType)
	}
	return fmt.Sprintf("%s::%s", contract.String(), DefaultReceiptCoinPath)
}

// DeriveStakerAddress computes the resource address for contract under the
// chosen convention.
func DeriveStakerAddress(contract account.Address, seed string, derivation Derivation) account.Address {
	if derivation == DerivationLegacy {
		return account.DeriveResourceAddressLegacy(contract, seed)
	}
	return account.DeriveResourceAddress(contract, seed, account.SchemeDeriveResourceAccount)
}
