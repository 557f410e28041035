package txn

import (
	"github.com/bsaptos/staking-sdk-go/pkg/account"
	"github.com/bsaptos/staking-sdk-go/pkg/bcs"
	"golang.org/x/crypto/sha3"
)

const (
	rawTransactionSalt = "APTOS::RawTransaction"
	transactionSalt    = "APTOS::Transaction"

	transactionVariantUser = 0
)

// RawTransaction is an unsigned transaction.
type RawTransaction struct {
	Sender                  account.Address
	SequenceNumber          uint64
	Payload                 EntryFunction
	MaxGasAmount            uint64
	GasUnitPrice            uint64
	ExpirationTimestampSecs uint64
	ChainID                 uint8
}

func (r RawTransaction) MarshalBCS(serializer *bcs.Serializer) {
	serializer.Struct(r.Sender)
	serializer.U64(r.SequenceNumber)
	serializer.Struct(r.Payload)
	serializer.U64(r.MaxGasAmount)
	serializer.U64(r.GasUnitPrice)
	serializer.U64(r.ExpirationTimestampSecs)
	serializer.U8(r.ChainID)
}

func (r *RawTransaction) UnmarshalBCS(deserializer *bcs.Deserializer) {
	deserializer.Struct(&r.Sender)
	r.SequenceNumber = deserializer.U64()
	deserializer.Struct(&r.Payload)
	r.MaxGasAmount = deserializer.U64()
	r.GasUnitPrice = deserializer.U64()
	r.ExpirationTimestampSecs = deserializer.U64()
	r.ChainID = deserializer.U8()
}

// SigningMessage returns the bytes a signer must sign:
// SHA3-256("APTOS::RawTransaction") || bcs(raw).
func (r RawTransaction) SigningMessage() ([]byte, error) {
	encoded, err := bcs.Serialize(r)
	if err != nil {
		return nil, err
	}
	prefix := sha3.Sum256([]byte(rawTransactionSalt))
	return append(prefix[:], encoded...), nil
}
