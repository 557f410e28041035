package node

import (
	"encoding/json"
	"strconv"
)

// U64 is a uint64 the node encodes as a decimal JSON string.
type U64 uint64

func (u *U64) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		var number uint64
		if numberErr := json.Unmarshal(data, &number); numberErr != nil {
			return err
		}
		*u = U64(number)
		return nil
	}
	parsed, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return err
	}
	*u = U64(parsed)
	return nil
}

func (u U64) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(u), 10))
}

type AccountInfo struct {
	SequenceNumber    U64    `json:"sequence_number"`
	AuthenticationKey string `json:"authentication_key"`
}

type LedgerInfo struct {
	ChainID             uint8  `json:"chain_id"`
	Epoch               U64    `json:"epoch"`
	LedgerVersion       U64    `json:"ledger_version"`
	LedgerTimestamp     U64    `json:"ledger_timestamp"`
	BlockHeight         U64    `json:"block_height"`
	NodeRole            string `json:"node_role"`
	OldestLedgerVersion U64    `json:"oldest_ledger_version"`
}

// Resource is a Move resource as returned by the node: its type tag and the
// undecoded data object.
type Resource struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type PendingTransaction struct {
	Hash                    string `json:"hash"`
	Sender                  string `json:"sender"`
	SequenceNumber          U64    `json:"sequence_number"`
	ExpirationTimestampSecs U64    `json:"expiration_timestamp_secs"`
}

const (
	TransactionTypePending = "pending_transaction"
	TransactionTypeUser    = "user_transaction"
)

type Transaction struct {
	Type           string `json:"type"`
	Hash           string `json:"hash"`
	Sender         string `json:"sender,omitempty"`
	SequenceNumber U64    `json:"sequence_number,omitempty"`
	Version        U64    `json:"version,omitempty"`
	Success        *bool  `json:"success,omitempty"`
	VMStatus       string `json:"vm_status,omitempty"`
	GasUsed        U64    `json:"gas_used,omitempty"`
	GasUnitPrice   U64    `json:"gas_unit_price,omitempty"`
}

// Pending reports whether the transaction has not yet been committed.
func (t Transaction) Pending() bool {
	return t.Type == TransactionTypePending
}

// Committed reports whether the transaction executed successfully.
func (t Transaction) Committed() bool {
	return !t.Pending() && t.Success != nil && *t.Success
}

// APIError is the node's error body.
type APIError struct {
	Message     string  `json:"message"`
	ErrorCode   string  `json:"error_code"`
	VMErrorCode *uint64 `json:"vm_error_code"`
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return e.ErrorCode + ": " + e.Message
	}
	return e.Message
}
