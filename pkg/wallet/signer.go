package wallet

import (
	"crypto/ed25519"
	"fmt"

	"github.com/bsaptos/staking-sdk-go/pkg/account"
	"github.com/bsaptos/staking-sdk-go/pkg/shared"
	"github.com/bsaptos/staking-sdk-go/pkg/txn"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"golang.org/x/crypto/sha3"
)

// Signer produces transaction authenticators for one key.
type Signer interface {
	Scheme() shared.KeyScheme
	Address() account.Address
	PublicKey() []byte
	Sign(message []byte) (txn.Authenticator, error)
}

type Ed25519Signer struct {
	key     ed25519.PrivateKey
	address account.Address
}

func NewEd25519Signer(seed []byte) (*Ed25519Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, shared.NewConfigurationError("new ed25519 signer", "", fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed)))
	}
	key := ed25519.NewKeyFromSeed(seed)
	address, err := account.AddressFromEd25519PublicKey(key.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	return &Ed25519Signer{key: key, address: address}, nil
}

func (s *Ed25519Signer) Scheme() shared.KeyScheme { return shared.KeySchemeEd25519 }
func (s *Ed25519Signer) Address() account.Address { return s.address }

func (s *Ed25519Signer) PublicKey() []byte {
	return append([]byte(nil), s.key.Public().(ed25519.PublicKey)...)
}

func (s *Ed25519Signer) Sign(message []byte) (txn.Authenticator, error) {
	return txn.Ed25519Authenticator{
		Key: s.key.Public().(ed25519.PublicKey),
		Sig: ed25519.Sign(s.key, message),
	}, nil
}

// Secp256k1Signer signs the SHA3-256 digest of the message with a low-S
// ECDSA signature.
type Secp256k1Signer struct {
	key     *btcec.PrivateKey
	public  []byte
	address account.Address
}

func NewSecp256k1Signer(keyBytes []byte) (*Secp256k1Signer, error) {
	if len(keyBytes) != btcec.PrivKeyBytesLen {
		return nil, shared.NewConfigurationError("new secp256k1 signer", "", fmt.Errorf("private key must be %d bytes, got %d", btcec.PrivKeyBytesLen, len(keyBytes)))
	}
	privateKey, publicKey := btcec.PrivKeyFromBytes(keyBytes)
	uncompressed := publicKey.SerializeUncompressed()
	address, err := account.AddressFromSecp256k1PublicKey(uncompressed)
	if err != nil {
		return nil, err
	}
	return &Secp256k1Signer{key: privateKey, public: uncompressed, address: address}, nil
}

func (s *Secp256k1Signer) Scheme() shared.KeyScheme { return shared.KeySchemeSecp256k1 }
func (s *Secp256k1Signer) Address() account.Address { return s.address }
func (s *Secp256k1Signer) PublicKey() []byte        { return append([]byte(nil), s.public...) }

func (s *Secp256k1Signer) Sign(message []byte) (txn.Authenticator, error) {
	digest := sha3.Sum256(message)
	compact := ecdsa.SignCompact(s.key, digest[:], false)
	// drop the recovery byte
	return txn.Secp256k1Authenticator{Key: s.PublicKey(), Sig: compact[1:]}, nil
}

// NewSignerFromMaterial builds the signer matching the key's scheme.
func NewSignerFromMaterial(material shared.PrivateKeyMaterial) (Signer, error) {
	switch material.Scheme {
	case shared.KeySchemeEd25519, "":
		return NewEd25519Signer(material.Bytes)
	case shared.KeySchemeSecp256k1:
		return NewSecp256k1Signer(material.Bytes)
	default:
		return nil, shared.NewConfigurationError("new signer", "", fmt.Errorf("unsupported key scheme %q", material.Scheme))
	}
}

// NewSignerFromString parses a private key string and builds its signer.
func NewSignerFromString(privateKey string) (Signer, error) {
	material, err := shared.ParsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	return NewSignerFromMaterial(material)
}
