package account

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"

	"github.com/bsaptos/staking-sdk-go/pkg/bcs"
	"github.com/bsaptos/staking-sdk-go/pkg/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

const contractAddress = "0xa312f04ea0a5f73f9468ae22bf7a61477928b0cfcd2988c7d20f0c1ae22b1534"

func TestParseAddressShortForm(t *testing.T) {
	address, err := ParseAddress("0x1")
	require.NoError(t, err)
	assert.Equal(t, AddressOne, address)
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000001", address.String())
	assert.Equal(t, "0x1", address.ShortString())
}

func TestParseAddressFullForm(t *testing.T) {
	address, err := ParseAddress(contractAddress)
	require.NoError(t, err)
	assert.Equal(t, contractAddress, address.String())
	assert.Equal(t, contractAddress, address.ShortString())
}

func TestParseAddressRejectsMalformedInput(t *testing.T) {
	for _, input := range []string{"", "a312", "0x", "0xzz", "0x" + contractAddress[2:] + "00"} {
		_, err := ParseAddress(input)
		require.Error(t, err, input)

		var configErr *shared.ConfigurationError
		assert.True(t, errors.As(err, &configErr), input)
	}
}

func TestDeriveResourceAddressIsDeterministic(t *testing.T) {
	owner, err := ParseAddress(contractAddress)
	require.NoError(t, err)

	first := DeriveResourceAddress(owner, "Staker", SchemeDeriveResourceAccount)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, DeriveResourceAddress(owner, "Staker", SchemeDeriveResourceAccount))
	}

	hasher := sha3.New256()
	hasher.Write(owner[:])
	hasher.Write([]byte("Staker"))
	hasher.Write([]byte{0xff})
	assert.Equal(t, hex.EncodeToString(hasher.Sum(nil)), first.String()[2:])
}

func TestDeriveResourceAddressConventionsDiffer(t *testing.T) {
	owner, err := ParseAddress(contractAddress)
	require.NoError(t, err)

	withScheme := DeriveResourceAddress(owner, "Staker", SchemeDeriveResourceAccount)
	legacy := DeriveResourceAddressLegacy(owner, "Staker")
	otherSeed := DeriveResourceAddress(owner, "staker", SchemeDeriveResourceAccount)

	assert.NotEqual(t, withScheme, legacy)
	assert.NotEqual(t, withScheme, otherSeed)

	hasher := sha3.New256()
	hasher.Write(owner[:])
	hasher.Write([]byte("Staker"))
	assert.Equal(t, hex.EncodeToString(hasher.Sum(nil)), legacy.String()[2:])
}

func TestDeriveResourceAddressFromText(t *testing.T) {
	derived, err := DeriveResourceAddressFromText(contractAddress, "Staker", SchemeDeriveResourceAccount)
	require.NoError(t, err)

	owner, _ := ParseAddress(contractAddress)
	assert.Equal(t, DeriveResourceAddress(owner, "Staker", SchemeDeriveResourceAccount), derived)

	_, err = DeriveResourceAddressFromText("not-an-address", "Staker", SchemeDeriveResourceAccount)
	assert.Error(t, err)

	_, err = DeriveResourceAddressFromText(contractAddress, "", SchemeDeriveResourceAccount)
	assert.Error(t, err)

	_, err = DeriveResourceAddressFromText(contractAddress, "Stak\xffer", SchemeDeriveResourceAccount)
	var configErr *shared.ConfigurationError
	assert.ErrorAs(t, err, &configErr)
}

func TestAddressJSONAndBCS(t *testing.T) {
	address, err := ParseAddress("0xcafe")
	require.NoError(t, err)

	encoded, err := json.Marshal(address)
	require.NoError(t, err)
	assert.JSONEq(t, `"0x000000000000000000000000000000000000000000000000000000000000cafe"`, string(encoded))

	var decoded Address
	require.NoError(t, json.Unmarshal([]byte(`"0xcafe"`), &decoded))
	assert.Equal(t, address, decoded)

	serialized, err := bcs.Serialize(address)
	require.NoError(t, err)
	require.Len(t, serialized, AddressLength)

	var fromBCS Address
	require.NoError(t, bcs.Deserialize(&fromBCS, serialized))
	assert.Equal(t, address, fromBCS)
}

func TestAddressFromEd25519PublicKey(t *testing.T) {
	publicKey, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	address, err := AddressFromEd25519PublicKey(publicKey)
	require.NoError(t, err)

	hasher := sha3.New256()
	hasher.Write(publicKey)
	hasher.Write([]byte{0x00})
	assert.Equal(t, hex.EncodeToString(hasher.Sum(nil)), address.String()[2:])

	_, err = AddressFromEd25519PublicKey(publicKey[:10])
	assert.Error(t, err)
}

func TestAddressFromSecp256k1PublicKey(t *testing.T) {
	uncompressed := make([]byte, 65)
	uncompressed[0] = 0x04

	address, err := AddressFromSecp256k1PublicKey(uncompressed)
	require.NoError(t, err)

	hasher := sha3.New256()
	hasher.Write([]byte{0x01, 65})
	hasher.Write(uncompressed)
	hasher.Write([]byte{0x02})
	assert.Equal(t, hex.EncodeToString(hasher.Sum(nil)), address.String()[2:])

	_, err = AddressFromSecp256k1PublicKey(uncompressed[:33])
	assert.Error(t, err)
}
