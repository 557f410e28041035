package txn

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	"github.com/bsaptos/staking-sdk-go/pkg/bcs"
	"golang.org/x/crypto/sha3"
)

const (
	authenticatorEd25519      = 0
	authenticatorSingleSender = 4

	accountAuthenticatorSingleKey = 2

	anyKeySecp256k1 = 1
)

// Authenticator proves the sender authorized a raw transaction.
type Authenticator interface {
	bcs.Marshaler
	PublicKey() []byte
	Signature() []byte
}

// Ed25519Authenticator is the legacy single Ed25519 key authenticator.
type Ed25519Authenticator struct {
	Key ed25519.PublicKey
	Sig []byte
}

func (a Ed25519Authenticator) PublicKey() []byte { return a.Key }
func (a Ed25519Authenticator) Signature() []byte { return a.Sig }

func (a Ed25519Authenticator) MarshalBCS(serializer *bcs.Serializer) {
	if len(a.Key) != ed25519.PublicKeySize || len(a.Sig) != ed25519.SignatureSize {
		serializer.SetError(fmt.Errorf("ed25519 authenticator needs %d-byte key and %d-byte signature", ed25519.PublicKeySize, ed25519.SignatureSize))
		return
	}
	serializer.Uleb128(authenticatorEd25519)
	serializer.WriteBytes(a.Key)
	serializer.WriteBytes(a.Sig)
}

// Secp256k1Authenticator wraps a single-key secp256k1 account signature.
// Key is the 65-byte uncompressed public key; Sig is the 64-byte r||s form.
type Secp256k1Authenticator struct {
	Key []byte
	Sig []byte
}

func (a Secp256k1Authenticator) PublicKey() []byte { return a.Key }
func (a Secp256k1Authenticator) Signature() []byte { return a.Sig }

func (a Secp256k1Authenticator) MarshalBCS(serializer *bcs.Serializer) {
	if len(a.Key) != 65 || len(a.Sig) != 64 {
		serializer.SetError(fmt.Errorf("secp256k1 authenticator needs 65-byte key and 64-byte signature"))
		return
	}
	serializer.Uleb128(authenticatorSingleSender)
	serializer.Uleb128(accountAuthenticatorSingleKey)
	serializer.Uleb128(anyKeySecp256k1)
	serializer.WriteBytes(a.Key)
	serializer.Uleb128(anyKeySecp256k1)
	serializer.WriteBytes(a.Sig)
}

// SignedTransaction is a raw transaction plus its authenticator. It is
// submitted exactly once.
type SignedTransaction struct {
	Raw           RawTransaction
	Authenticator Authenticator
}

func (s SignedTransaction) MarshalBCS(serializer *bcs.Serializer) {
	serializer.Struct(s.Raw)
	if s.Authenticator == nil {
		serializer.SetError(fmt.Errorf("signed transaction has no authenticator"))
		return
	}
	serializer.Struct(s.Authenticator)
}

// Bytes returns the BCS encoding submitted to the node.
func (s SignedTransaction) Bytes() ([]byte, error) {
	return bcs.Serialize(s)
}

// Hash computes the ledger transaction hash locally:
// SHA3-256(SHA3-256("APTOS::Transaction") || 0x00 || bcs(signed)).
func (s SignedTransaction) Hash() (string, error) {
	encoded, err := s.Bytes()
	if err != nil {
		return "", err
	}
	prefix := sha3.Sum256([]byte(transactionSalt))
	hasher := sha3.New256()
	hasher.Write(prefix[:])
	hasher.Write([]byte{transactionVariantUser})
	hasher.Write(encoded)
	return "0x" + hex.EncodeToString(hasher.Sum(nil)), nil
}
