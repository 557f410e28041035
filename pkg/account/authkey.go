package account

import (
	"crypto/ed25519"
	"fmt"

	"github.com/bsaptos/staking-sdk-go/pkg/bcs"
	"github.com/bsaptos/staking-sdk-go/pkg/shared"
)

const (
	anyPublicKeySecp256k1    = 1
	secp256k1UncompressedLen = 65
)

// AddressFromEd25519PublicKey returns the authentication key (and initial
// address) of a single Ed25519 key account.
func AddressFromEd25519PublicKey(publicKey ed25519.PublicKey) (Address, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return AddressZero, shared.NewConfigurationError(
			"derive address", "",
			fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(publicKey)),
		)
	}
	return hashAddress(publicKey, []byte{byte(SchemeEd25519)}), nil
}

// AddressFromSecp256k1PublicKey returns the authentication key of a
// single-key account holding an uncompressed secp256k1 public key.
func AddressFromSecp256k1PublicKey(uncompressed []byte) (Address, error) {
	if len(uncompressed) != secp256k1UncompressedLen {
		return AddressZero, shared.NewConfigurationError(
			"derive address", "",
			fmt.Errorf("secp256k1 public key must be %d bytes uncompressed, got %d", secp256k1UncompressedLen, len(uncompressed)),
		)
	}
	serializer := &bcs.Serializer{}
	serializer.Uleb128(anyPublicKeySecp256k1)
	serializer.WriteBytes(uncompressed)
	return hashAddress(serializer.ToBytes(), []byte{byte(SchemeSingleKey)}), nil
}
