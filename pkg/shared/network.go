package shared

import (
	"fmt"
	"strings"
)

const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
	NetworkDevnet  = "devnet"
	NetworkLocal   = "local"
)

var nodeURLs = map[string]string{
	NetworkMainnet: "https://fullnode.mainnet.aptoslabs.com/v1",
	NetworkTestnet: "https://fullnode.testnet.aptoslabs.com/v1",
	NetworkDevnet:  "https://fullnode.devnet.aptoslabs.com/v1",
	NetworkLocal:   "http://127.0.0.1:8080/v1",
}

// NormalizeNetwork lower-cases and validates a network name. Empty input
// selects testnet.
func NormalizeNetwork(network string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(network))
	if normalized == "" {
		return NetworkTestnet, nil
	}

	switch normalized {
	case NetworkMainnet, NetworkTestnet, NetworkDevnet, NetworkLocal:
		return normalized, nil
	case "localnet", "localhost":
		return NetworkLocal, nil
	default:
		return "", NewConfigurationError("normalize network", "", fmt.Errorf("unsupported network %q", network))
	}
}

// NodeURL returns the default fullnode REST endpoint for a network.
func NodeURL(network string) (string, error) {
	normalized, err := NormalizeNetwork(network)
	if err != nil {
		return "", err
	}
	return nodeURLs[normalized], nil
}
