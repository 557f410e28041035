package shared

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"filippo.io/edwards25519"
	"github.com/joho/godotenv"
	"github.com/mr-tron/base58"
)

type KeyScheme string

const (
	KeySchemeEd25519   KeyScheme = "ed25519"
	KeySchemeSecp256k1 KeyScheme = "secp256k1"
)

type OperatorConfig struct {
	PrivateKey      string
	Network         string
	ContractAddress string
	NodeURL         string
}

// PrivateKeyMaterial is decoded key bytes tagged with their signature scheme.
type PrivateKeyMaterial struct {
	Scheme KeyScheme
	Bytes  []byte
}

var dotenvLoadOnce sync.Once

// OperatorConfigFromEnv reads operator credentials from the environment,
// loading the nearest .env file first. A private key is required.
func OperatorConfigFromEnv() (OperatorConfig, error) {
	config, err := ReadOperatorEnv()
	if err != nil {
		return OperatorConfig{}, err
	}
	if config.PrivateKey == "" {
		return OperatorConfig{}, NewConfigurationError("load operator config", "", fmt.Errorf("APTOS_PRIVATE_KEY is required"))
	}
	return config, nil
}

// ReadOperatorEnv is OperatorConfigFromEnv without the private key check.
// PrivateKey is empty when no key variable is set.
func ReadOperatorEnv() (OperatorConfig, error) {
	loadDotEnvIfPresent()

	network := firstNonEmptyEnv("APTOS_NETWORK", "NETWORK")
	if network == "" {
		network = NetworkTestnet
	}

	privateKey := firstNonEmptyEnv("APTOS_PRIVATE_KEY", "PRIVATE_KEY")
	contractAddress := firstNonEmptyEnv("APTOS_CONTRACT_ADDRESS", "CONTRACT_ADDRESS")
	nodeURL := firstNonEmptyEnv("APTOS_NODE_URL", "NODE_URL")

	if scope := strings.ToUpper(strings.TrimSpace(network)); scope != "" {
		if scopedKey := firstNonEmptyEnv(scope+"_APTOS_PRIVATE_KEY", scope+"_PRIVATE_KEY"); scopedKey != "" {
			privateKey = scopedKey
		}
		if scopedContract := firstNonEmptyEnv(scope+"_APTOS_CONTRACT_ADDRESS", scope+"_CONTRACT_ADDRESS"); scopedContract != "" {
			contractAddress = scopedContract
		}
		if scopedURL := firstNonEmptyEnv(scope + "_APTOS_NODE_URL"); scopedURL != "" {
			nodeURL = scopedURL
		}
	}

	normalized, err := NormalizeNetwork(network)
	if err != nil {
		return OperatorConfig{}, err
	}

	return OperatorConfig{
		PrivateKey:      privateKey,
		Network:         normalized,
		ContractAddress: contractAddress,
		NodeURL:         nodeURL,
	}, nil
}

func loadDotEnvIfPresent() {
	dotenvLoadOnce.Do(func() {
		startPaths := make([]string, 0, 2)

		if cwd, err := os.Getwd(); err == nil {
			startPaths = append(startPaths, cwd)
		}
		if _, currentFile, _, ok := runtime.Caller(0); ok {
			startPaths = append(startPaths, filepath.Dir(currentFile))
		}

		seenCandidates := make(map[string]struct{})
		for _, start := range startPaths {
			current := start
			for {
				candidate := filepath.Join(current, ".env")
				if _, exists := seenCandidates[candidate]; !exists {
					seenCandidates[candidate] = struct{}{}
					if _, statErr := os.Stat(candidate); statErr == nil {
						loadDotEnvFile(candidate)
						return
					}
				}

				parent := filepath.Dir(current)
				if parent == current {
					break
				}
				current = parent
			}
		}
	})
}

// loadDotEnvFile applies a .env file without overriding variables that are
// already set.
func loadDotEnvFile(path string) bool {
	values, err := godotenv.Read(path)
	if err != nil {
		return false
	}

	loadedAny := false
	for key, value := range values {
		if _, alreadySet := os.LookupEnv(key); alreadySet {
			continue
		}
		if setErr := os.Setenv(key, value); setErr == nil {
			loadedAny = true
		}
	}
	return loadedAny
}

func firstNonEmptyEnv(keys ...string) string {
	for _, key := range keys {
		value := strings.TrimSpace(os.Getenv(key))
		if value != "" {
			return value
		}
	}
	return ""
}

// ParsePrivateKey decodes a private key given as 0x-hex, bare hex or base58.
// An "ed25519-priv-" or "secp256k1-priv-" prefix selects the scheme;
// unprefixed keys are Ed25519. Ed25519 keys may be the 32-byte seed or the
// 64-byte seed||public form.
func ParsePrivateKey(raw string) (PrivateKeyMaterial, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return PrivateKeyMaterial{}, NewConfigurationError("parse private key", "", fmt.Errorf("private key cannot be empty"))
	}

	scheme := KeySchemeEd25519
	switch {
	case strings.HasPrefix(candidate, "ed25519-priv-"):
		candidate = strings.TrimPrefix(candidate, "ed25519-priv-")
	case strings.HasPrefix(candidate, "secp256k1-priv-"):
		scheme = KeySchemeSecp256k1
		candidate = strings.TrimPrefix(candidate, "secp256k1-priv-")
	}

	keyBytes, err := DecodeKeyBytes(candidate)
	if err != nil {
		return PrivateKeyMaterial{}, NewConfigurationError("parse private key", "", err)
	}

	switch scheme {
	case KeySchemeEd25519:
		if len(keyBytes) != ed25519.SeedSize && len(keyBytes) != ed25519.PrivateKeySize {
			return PrivateKeyMaterial{}, NewConfigurationError(
				"parse private key", "",
				fmt.Errorf("ed25519 private key must be %d or %d bytes, got %d", ed25519.SeedSize, ed25519.PrivateKeySize, len(keyBytes)),
			)
		}
		keyBytes = keyBytes[:ed25519.SeedSize]
	case KeySchemeSecp256k1:
		if len(keyBytes) != 32 {
			return PrivateKeyMaterial{}, NewConfigurationError(
				"parse private key", "",
				fmt.Errorf("secp256k1 private key must be 32 bytes, got %d", len(keyBytes)),
			)
		}
	}

	return PrivateKeyMaterial{Scheme: scheme, Bytes: keyBytes}, nil
}

// ParseEd25519PublicKey decodes a public key given as hex or base58 and checks
// that it is a valid curve point.
func ParseEd25519PublicKey(raw string) (ed25519.PublicKey, error) {
	keyBytes, err := DecodeKeyBytes(strings.TrimSpace(raw))
	if err != nil {
		return nil, NewConfigurationError("parse public key", "", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return nil, NewConfigurationError(
			"parse public key", "",
			fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(keyBytes)),
		)
	}
	if _, err := new(edwards25519.Point).SetBytes(keyBytes); err != nil {
		return nil, NewConfigurationError("parse public key", "", fmt.Errorf("invalid ed25519 point: %w", err))
	}
	return ed25519.PublicKey(keyBytes), nil
}

// DecodeKeyBytes decodes 0x-prefixed hex, bare hex, or base58 text.
func DecodeKeyBytes(text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		decoded, err := hex.DecodeString(text[2:])
		if err != nil {
			return nil, fmt.Errorf("invalid hex key: %w", err)
		}
		return decoded, nil
	}
	if decoded, err := hex.DecodeString(text); err == nil {
		return decoded, nil
	}
	decoded, err := base58.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("key is neither hex nor base58: %w", err)
	}
	return decoded, nil
}

// EncodeBase58 renders key bytes in base58.
func EncodeBase58(keyBytes []byte) string {
	return base58.Encode(keyBytes)
}
