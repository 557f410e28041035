package txn

import (
	"fmt"
	"time"

	"github.com/bsaptos/staking-sdk-go/pkg/account"
)

const (
	DefaultMaxGasAmount     uint64 = 1000
	DefaultGasUnitPrice     uint64 = 1
	DefaultExpirationWindow        = 10 * time.Second
)

// Options controls gas and expiration for assembled transactions.
type Options struct {
	MaxGasAmount     uint64
	GasUnitPrice     uint64
	ExpirationWindow time.Duration
	Now              func() time.Time
}

// WithDefaults fills zero fields with the package defaults.
func (o Options) WithDefaults() Options {
	if o.MaxGasAmount == 0 {
		o.MaxGasAmount = DefaultMaxGasAmount
	}
	if o.GasUnitPrice == 0 {
		o.GasUnitPrice = DefaultGasUnitPrice
	}
	if o.ExpirationWindow <= 0 {
		o.ExpirationWindow = DefaultExpirationWindow
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Assemble builds one raw transaction for sender at the given sequence number.
func Assemble(
	sender account.Address,
	sequenceNumber uint64,
	chainID uint8,
	payload EntryFunction,
	options Options,
) (RawTransaction, error) {
	if err := payload.Validate(); err != nil {
		return RawTransaction{}, err
	}
	options = options.WithDefaults()

	expiration := options.Now().Add(options.ExpirationWindow).Unix()
	if expiration < 0 {
		return RawTransaction{}, fmt.Errorf("expiration timestamp is negative")
	}

	return RawTransaction{
		Sender:                  sender,
		SequenceNumber:          sequenceNumber,
		Payload:                 payload,
		MaxGasAmount:            options.MaxGasAmount,
		GasUnitPrice:            options.GasUnitPrice,
		ExpirationTimestampSecs: uint64(expiration),
		ChainID:                 chainID,
	}, nil
}

// AssembleBatch builds raw transactions for payloads in order, assigning
// sequence numbers firstSequence, firstSequence+1, ... All share one
// expiration timestamp.
func AssembleBatch(
	sender account.Address,
	firstSequence uint64,
	chainID uint8,
	payloads []EntryFunction,
	options Options,
) ([]RawTransaction, error) {
	options = options.WithDefaults()
	now := options.Now()
	options.Now = func() time.Time { return now }

	raws := make([]RawTransaction, 0, len(payloads))
	for index, payload := range payloads {
		raw, err := Assemble(sender, firstSequence+uint64(index), chainID, payload, options)
		if err != nil {
			return nil, fmt.Errorf("payload %d: %w", index, err)
		}
		raws = append(raws, raw)
	}
	return raws, nil
}
