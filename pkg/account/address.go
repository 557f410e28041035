package account

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bsaptos/staking-sdk-go/pkg/bcs"
	"github.com/bsaptos/staking-sdk-go/pkg/shared"
	"golang.org/x/crypto/sha3"
)

const AddressLength = 32

// Scheme is the single discriminator byte appended before hashing.
type Scheme uint8

const (
	SchemeEd25519               Scheme = 0x00
	SchemeMultiEd25519          Scheme = 0x01
	SchemeSingleKey             Scheme = 0x02
	SchemeDeriveResourceAccount Scheme = 0xFF
)

// Address is a ledger account address.
type Address [AddressLength]byte

var (
	AddressZero = Address{}
	AddressOne  = mustParse("0x1")
)

// ParseAddress parses 0x-prefixed hex. Short forms such as 0x1 are
// left-padded with zeros.
func ParseAddress(text string) (Address, error) {
	var address Address
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "0x") && !strings.HasPrefix(trimmed, "0X") {
		return address, shared.NewConfigurationError("parse address", text, fmt.Errorf("address must start with 0x"))
	}
	digits := trimmed[2:]
	if digits == "" || len(digits) > AddressLength*2 {
		return address, shared.NewConfigurationError("parse address", text, fmt.Errorf("address must have 1 to %d hex digits", AddressLength*2))
	}
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	decoded, err := hex.DecodeString(digits)
	if err != nil {
		return address, shared.NewConfigurationError("parse address", text, err)
	}
	copy(address[AddressLength-len(decoded):], decoded)
	return address, nil
}

func mustParse(text string) Address {
	address, err := ParseAddress(text)
	if err != nil {
		panic(err)
	}
	return address
}

// String renders the full 64-digit hex form with a 0x prefix.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// ShortString renders special addresses (0x0 through 0xf) in short form.
func (a Address) ShortString() string {
	if a.isSpecial() {
		return fmt.Sprintf("0x%x", a[AddressLength-1])
	}
	return a.String()
}

func (a Address) isSpecial() bool {
	for _, b := range a[:AddressLength-1] {
		if b != 0 {
			return false
		}
	}
	return a[AddressLength-1] < 0x10
}

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, a[:])
	return out
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a == AddressZero
}

func (a Address) MarshalBCS(serializer *bcs.Serializer) {
	serializer.FixedBytes(a[:])
}

func (a *Address) UnmarshalBCS(deserializer *bcs.Deserializer) {
	copy(a[:], deserializer.FixedBytes(AddressLength))
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	parsed, err := ParseAddress(text)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// DeriveResourceAddress computes SHA3-256(owner || seed || scheme), the
// ledger's native resource-account derivation when scheme is
// SchemeDeriveResourceAccount.
func DeriveResourceAddress(owner Address, seed string, scheme Scheme) Address {
	return hashAddress(owner[:], []byte(seed), []byte{byte(scheme)})
}

// DeriveResourceAddressLegacy computes SHA3-256(owner || seed) with no
// trailing scheme byte. Some deployed program revisions used this form.
func DeriveResourceAddressLegacy(owner Address, seed string) Address {
	return hashAddress(owner[:], []byte(seed))
}

// DeriveResourceAddressFromText parses owner and derives the resource address.
func DeriveResourceAddressFromText(owner string, seed string, scheme Scheme) (Address, error) {
	ownerAddress, err := ParseAddress(owner)
	if err != nil {
		return AddressZero, err
	}
	if seed == "" {
		return AddressZero, shared.NewConfigurationError("derive resource address", owner, fmt.Errorf("seed is required"))
	}
	if !utf8.ValidString(seed) {
		return AddressZero, shared.NewConfigurationError("derive resource address", owner, fmt.Errorf("seed is not valid UTF-8"))
	}
	return DeriveResourceAddress(ownerAddress, seed, scheme), nil
}

func hashAddress(parts ...[]byte) Address {
	hasher := sha3.New256()
	for _, part := range parts {
		hasher.Write(part)
	}
	var address Address
	copy(address[:], hasher.Sum(nil))
	return address
}
