package shared

import (
	"errors"
	"testing"
)

func TestNormalizeNetworkMainnet(t *testing.T) {
	result, err := NormalizeNetwork("mainnet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != NetworkMainnet {
		t.Fatalf("expected %q, got %q", NetworkMainnet, result)
	}
}

func TestNormalizeNetworkCaseInsensitive(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"MAINNET", NetworkMainnet},
		{"Testnet", NetworkTestnet},
		{"  devnet  ", NetworkDevnet},
		{"LOCAL", NetworkLocal},
		{"localnet", NetworkLocal},
		{"localhost", NetworkLocal},
	}

	for _, tc := range cases {
		result, err := NormalizeNetwork(tc.input)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.input, err)
		}
		if result != tc.expected {
			t.Fatalf("expected %q for input %q, got %q", tc.expected, tc.input, result)
		}
	}
}

func TestNormalizeNetworkEmpty(t *testing.T) {
	result, err := NormalizeNetwork("   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != NetworkTestnet {
		t.Fatalf("expected %q for empty input, got %q", NetworkTestnet, result)
	}
}

func TestNormalizeNetworkUnsupported(t *testing.T) {
	_, err := NormalizeNetwork("previewnet")
	if err == nil {
		t.Fatal("expected error for unsupported network")
	}
	var configErr *ConfigurationError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigurationError, got %T", err)
	}
}

func TestNodeURL(t *testing.T) {
	url, err := NodeURL("testnet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://fullnode.testnet.aptoslabs.com/v1" {
		t.Fatalf("unexpected node URL: %s", url)
	}

	if _, err := NodeURL("badnet"); err == nil {
		t.Fatal("expected error for unsupported network")
	}
}
